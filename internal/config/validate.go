package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExtract(); err != nil {
		return err
	}
	if err := c.validateRemux(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateExtract() error {
	segments := make(map[string]struct{}, len(c.Extract.SegmentSuffixes))
	for _, suffix := range c.Extract.SegmentSuffixes {
		segments[suffix] = struct{}{}
	}
	for _, suffix := range c.Extract.ManifestSuffixes {
		if _, ok := segments[suffix]; ok {
			return fmt.Errorf("extract: suffix %q cannot be both a manifest and a segment suffix", suffix)
		}
	}
	return nil
}

func (c *Config) validateRemux() error {
	if c.Remux.MissingThreshold < 0 {
		return errors.New("remux.missing_threshold must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (expected console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
