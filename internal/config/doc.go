// Package config loads, normalizes, and validates harextract configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the HAREXTRACT_FFMPEG environment
// fallback. The Config type centralizes every knob the CLI needs: where the
// remuxed output and staging directory live, which archive entries count as
// manifests or segments, and how tolerant the remux hand-off is of missing
// segments.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical suffixes, and clear validation errors.
package config
