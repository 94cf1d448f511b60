// Package archive scans captured network-session archives (HAR documents)
// and recovers the response bodies of selected entries.
//
// The Extractor is a pull parser over the JSON token stream: it never holds
// more than one entry's body in memory, classifies each entry by the path of
// its URL before touching the body, and skips the bodies of entries the filter
// rejects without decoding them. Bodies are decoded by Decode according to
// their declared encoding.
//
// Archives may be plain JSON or compressed with gzip, zstd or lz4; Open sniffs
// the leading magic bytes and returns a reader over the decompressed document.
package archive
