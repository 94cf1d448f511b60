// Package remux hands a staged HLS manifest to ffmpeg, which copies the
// referenced streams into a single container without re-encoding.
package remux
