// Package preflight provides readiness checks for the filesystem paths and
// external programs an extraction depends on.
//
// The CLI runs RunAll before touching the archive so a missing ffmpeg or an
// unwritable output directory is reported before any segment is staged. The
// "harextract check" command renders the same results as a status list.
package preflight
