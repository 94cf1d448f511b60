// Package fileutil holds the small file-name and file-writing helpers shared
// by the extractor, the playlist reconciler and the staging area.
package fileutil
