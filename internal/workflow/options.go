package workflow

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"harextract/internal/archive"
	"harextract/internal/config"
	"harextract/internal/remux"
	"harextract/internal/services"
)

// Options configures one extraction run.
type Options struct {
	ArchivePath string
	OutputPath  string
	// StagingDir defaults to "<OutputPath>-tmp".
	StagingDir       string
	ManifestSuffixes []string
	SegmentSuffixes  []string
	MissingThreshold int
	// Verbose keeps ffmpeg at its default log level.
	Verbose bool
	Remuxer remux.Runner
	Logger  *slog.Logger
}

// OptionsFromConfig builds run options from the loaded configuration. An
// empty output falls back to paths.output_path.
func OptionsFromConfig(cfg *config.Config, archivePath, output string, verbose bool, logger *slog.Logger) Options {
	if strings.TrimSpace(output) == "" {
		output = cfg.Paths.OutputPath
	}
	return Options{
		ArchivePath:      archivePath,
		OutputPath:       output,
		StagingDir:       cfg.StagingDirFor(output),
		ManifestSuffixes: append([]string(nil), cfg.Extract.ManifestSuffixes...),
		SegmentSuffixes:  append([]string(nil), cfg.Extract.SegmentSuffixes...),
		MissingThreshold: cfg.Remux.MissingThreshold,
		Verbose:          verbose,
		Remuxer:          remux.NewFFmpeg(remux.WithBinary(cfg.FFmpegBinary()), remux.WithLogger(logger)),
		Logger:           logger,
	}
}

func (o Options) validate() error {
	if strings.TrimSpace(o.ArchivePath) == "" {
		return services.Wrap(services.ErrValidation, "extract", "options", "archive path required", nil)
	}
	if strings.TrimSpace(o.OutputPath) == "" {
		return services.Wrap(services.ErrValidation, "extract", "options", "output path required", nil)
	}
	if o.MissingThreshold < 0 {
		return services.Wrap(services.ErrValidation, "extract", "options",
			fmt.Sprintf("missing threshold must be >= 0, got %d", o.MissingThreshold), nil)
	}
	if len(o.ManifestSuffixes) == 0 {
		return services.Wrap(services.ErrValidation, "extract", "options", "at least one manifest suffix required", errors.New("empty suffix list"))
	}
	return nil
}

func (o Options) stagingDir() string {
	if dir := strings.TrimSpace(o.StagingDir); dir != "" {
		return dir
	}
	output := filepath.Clean(o.OutputPath)
	return filepath.Join(filepath.Dir(output), filepath.Base(output)+config.StagingSuffix)
}

func (o Options) filter() archive.Filter {
	suffixes := make([]string, 0, len(o.ManifestSuffixes)+len(o.SegmentSuffixes))
	suffixes = append(suffixes, o.ManifestSuffixes...)
	suffixes = append(suffixes, o.SegmentSuffixes...)
	return archive.SuffixFilter(suffixes...)
}

// Report summarizes a finished run.
type Report struct {
	RunID        string
	Outcome      Outcome
	Missing      []string
	Manifest     string
	ManifestPath string
	OutputPath   string
	StagingDir   string
	Compression  archive.Compression
	// Entries counts archive entries seen; Resources counts those recovered.
	Entries   int
	Resources int
	Segments  int
	Bytes     int64
	Duration  time.Duration
}
