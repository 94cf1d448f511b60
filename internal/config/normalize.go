package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExtract()
	c.normalizeRemux()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputPath) == "" {
		c.Paths.OutputPath = defaultOutputPath
	}
	if c.Paths.OutputPath, err = expandPath(c.Paths.OutputPath); err != nil {
		return fmt.Errorf("paths.output_path: %w", err)
	}
	if c.Paths.StagingDir, err = expandPath(strings.TrimSpace(c.Paths.StagingDir)); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExtract() {
	c.Extract.ManifestSuffixes = normalizeSuffixes(c.Extract.ManifestSuffixes, defaultManifestSuffixes)
	c.Extract.SegmentSuffixes = normalizeSuffixes(c.Extract.SegmentSuffixes, defaultSegmentSuffixes)
}

func (c *Config) normalizeRemux() {
	c.Remux.FFmpegBinary = strings.TrimSpace(c.Remux.FFmpegBinary)
	if c.Remux.FFmpegBinary == "" {
		if value, ok := os.LookupEnv("HAREXTRACT_FFMPEG"); ok && strings.TrimSpace(value) != "" {
			c.Remux.FFmpegBinary = strings.TrimSpace(value)
		} else {
			c.Remux.FFmpegBinary = defaultFFmpegBinary
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeSuffixes lower-cases, dot-prefixes and de-duplicates suffixes,
// falling back to the defaults when nothing usable remains.
func normalizeSuffixes(values, fallback []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
