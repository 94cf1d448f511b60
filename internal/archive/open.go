package archive

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how an archive file is compressed on disk.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

const readBufferSize = 256 * 1024

// Open opens the archive at path and returns a reader over the decompressed
// document together with the detected compression.
func Open(path string) (io.ReadCloser, Compression, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open archive: %w", err)
	}
	rc, kind, err := NewReader(file)
	if err != nil {
		_ = file.Close()
		return nil, "", err
	}
	return &stackedCloser{Reader: rc, closers: []io.Closer{rc, file}}, kind, nil
}

// NewReader wraps r with the decompressor matching its leading magic bytes.
// Closing the returned reader does not close r.
func NewReader(r io.Reader) (io.ReadCloser, Compression, error) {
	buffered := bufio.NewReaderSize(r, readBufferSize)
	head, err := buffered.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("read archive header: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, magicGzip):
		zr, err := gzip.NewReader(buffered)
		if err != nil {
			return nil, "", fmt.Errorf("open gzip archive: %w", err)
		}
		return zr, CompressionGzip, nil
	case bytes.HasPrefix(head, magicZstd):
		zr, err := zstd.NewReader(buffered)
		if err != nil {
			return nil, "", fmt.Errorf("open zstd archive: %w", err)
		}
		return zr.IOReadCloser(), CompressionZstd, nil
	case bytes.HasPrefix(head, magicLZ4):
		return io.NopCloser(lz4.NewReader(buffered)), CompressionLZ4, nil
	default:
		return io.NopCloser(buffered), CompressionNone, nil
	}
}

type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
