package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains output and staging locations.
type Paths struct {
	// OutputPath is the remuxed container written by ffmpeg.
	OutputPath string `toml:"output_path"`
	// StagingDir overrides the staging directory. Empty means "<output>-tmp"
	// next to the output file.
	StagingDir string `toml:"staging_dir"`
	// LogDir, when set, receives a harextract.log copy of all log output.
	LogDir string `toml:"log_dir"`
}

// Extract controls which archive entries are recovered.
type Extract struct {
	ManifestSuffixes []string `toml:"manifest_suffixes"`
	SegmentSuffixes  []string `toml:"segment_suffixes"`
}

// Remux contains the ffmpeg hand-off settings.
type Remux struct {
	FFmpegBinary string `toml:"ffmpeg_binary"`
	// MissingThreshold is the largest number of missing segments that still
	// proceeds to the remux step.
	MissingThreshold int `toml:"missing_threshold"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for harextract.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Extract Extract `toml:"extract"`
	Remux   Remux   `toml:"remux"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file is not an error; defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// StagingDirFor returns the staging directory used for the given output file.
// An explicit paths.staging_dir wins; otherwise the directory sits next to
// the output and is named after it with a "-tmp" suffix.
func (c *Config) StagingDirFor(output string) string {
	if dir := strings.TrimSpace(c.Paths.StagingDir); dir != "" {
		return dir
	}
	output = filepath.Clean(output)
	return filepath.Join(filepath.Dir(output), filepath.Base(output)+StagingSuffix)
}

// FFmpegBinary returns the ffmpeg executable used for the remux step.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Remux.FFmpegBinary); bin != "" {
		return bin
	}
	return defaultFFmpegBinary
}

// Suffixes returns manifest and segment suffixes combined, manifest first.
func (c *Config) Suffixes() []string {
	out := make([]string, 0, len(c.Extract.ManifestSuffixes)+len(c.Extract.SegmentSuffixes))
	out = append(out, c.Extract.ManifestSuffixes...)
	return append(out, c.Extract.SegmentSuffixes...)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
