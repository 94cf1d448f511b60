package fileutil

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalName reduces a URL or slash-separated reference to its final path
// component. Scheme, host, query and fragment are discarded; percent escapes
// and colons inside a relative name are kept as written. LocalName is
// idempotent and returns "" when no usable component remains.
func LocalName(ref string) string {
	p := strings.TrimSpace(ref)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if _, rest, ok := strings.Cut(p, "://"); ok {
		// Drop the authority; a reference without a path has no name.
		_, p, _ = strings.Cut(rest, "/")
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	base := path.Base(p)
	if base == "." || base == ".." || base == "/" {
		return ""
	}
	return base
}

// IsBareName reports whether name is a single path element that stays inside
// the directory it is joined to.
func IsBareName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

// WriteFileAtomic writes data to a temporary sibling of dst and renames it
// into place, so readers never observe a partially written file.
func WriteFileAtomic(dst string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", dst, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		cleanup()
		return fmt.Errorf("rename into %s: %w", dst, err)
	}
	return nil
}
