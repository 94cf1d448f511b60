package config

const (
	defaultConfigPath       = "~/.config/harextract/config.toml"
	projectConfigName       = "harextract.toml"
	defaultOutputPath       = "output.mp4"
	defaultFFmpegBinary     = "ffmpeg"
	defaultMissingThreshold = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"

	// StagingSuffix is appended to the output file name to form the default
	// staging directory.
	StagingSuffix = "-tmp"
)

var (
	defaultManifestSuffixes = []string{".m3u8"}
	defaultSegmentSuffixes  = []string{".ts"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputPath: defaultOutputPath,
		},
		Extract: Extract{
			ManifestSuffixes: append([]string(nil), defaultManifestSuffixes...),
			SegmentSuffixes:  append([]string(nil), defaultSegmentSuffixes...),
		},
		Remux: Remux{
			MissingThreshold: defaultMissingThreshold,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
