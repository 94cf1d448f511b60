// Package workflow drives one extraction run from archive to remuxed output.
//
// Run scans the archive in document order, stages every segment under its
// bare file name, rewrites the manifest to those names, and applies the
// missing-segment policy before handing off to ffmpeg. Everything is
// sequential; staged files are left in place whatever the outcome so a run
// can be inspected or remuxed by hand afterwards.
package workflow
