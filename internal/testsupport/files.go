package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

const tsPacketSize = 188

// SegmentPayload returns a fake MPEG-TS payload of the requested number of
// packets. Every packet starts with the 0x47 sync byte and carries seed in its
// body so payloads of different segments differ.
func SegmentPayload(seed byte, packets int) []byte {
	if packets <= 0 {
		packets = 1
	}
	buf := make([]byte, packets*tsPacketSize)
	for i := 0; i < packets; i++ {
		packet := buf[i*tsPacketSize : (i+1)*tsPacketSize]
		packet[0] = 0x47
		packet[1] = 0x01
		packet[2] = 0x00
		packet[3] = 0x10 | byte(i&0x0f)
		for j := 4; j < tsPacketSize; j++ {
			packet[j] = seed ^ byte(j)
		}
	}
	return buf
}

// ReadFile returns the file contents or fails the test.
func ReadFile(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
