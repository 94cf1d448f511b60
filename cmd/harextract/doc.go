// Package main hosts the harextract CLI entrypoint and command graph.
//
// The root command extracts an archive: "harextract session.har" recovers the
// HLS manifest and segments, stages them beside the output file and remuxes
// them with ffmpeg. Supporting commands list archive contents, check the
// environment, clean stale staging directories and scaffold configuration.
//
// Keep this package lean: the extraction pipeline lives in internal/workflow
// and friends; commands here resolve configuration, set up logging and map
// results to exit codes.
package main
