// Package staging owns the flat directory that recovered resources are
// written into before the remux step.
//
// An Area holds an exclusive lock for its lifetime so concurrent runs cannot
// interleave writes into the same directory. Every directory created by Open
// carries a marker file; CleanStale and ListDirectories only consider marked
// directories, so unrelated "-tmp" folders are never touched.
package staging
