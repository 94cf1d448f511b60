// Package playlist decodes HLS manifests and reconciles their segment
// references against the resources recovered from an archive.
package playlist
