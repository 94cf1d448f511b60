// Package services defines shared utilities consumed by the extraction
// workflow and the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and the archive path
//     for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (validation vs external tool vs configuration) and map them to exit
//     codes.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
