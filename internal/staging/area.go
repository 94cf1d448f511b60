package staging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofrs/flock"
	"github.com/zeebo/blake3"

	"harextract/internal/fileutil"
	"harextract/internal/logging"
)

const (
	// MarkerFile identifies directories created by Open.
	MarkerFile = ".harextract-staging"
	// LockFile is held exclusively while an Area is open.
	LockFile = ".harextract.lock"
)

// ErrLocked reports that another process holds the staging directory.
var ErrLocked = errors.New("staging directory is locked by another run")

// InvalidNameError reports a resource name that is not a bare file name.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid staged resource name %q", e.Name)
}

// Staged describes one completed write.
type Staged struct {
	Name      string
	Path      string
	Bytes     int64
	MediaType string
	// Replaced is set when an earlier write in this run used the same name;
	// Changed reports whether the bytes differed from that earlier write.
	Replaced bool
	Changed  bool
}

// Area is an open, locked staging directory.
type Area struct {
	dir     string
	lock    *flock.Flock
	logger  *slog.Logger
	digests map[string][32]byte
	bytes   int64
}

// Open creates dir if needed, marks it as a staging directory and takes its
// lock. It fails with ErrLocked when another run holds the directory.
func Open(dir string, logger *slog.Logger) (*Area, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("staging directory not set")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, LockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock staging directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}

	marker := filepath.Join(dir, MarkerFile)
	if _, err := os.Stat(marker); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(marker, nil, 0o644); err != nil {
			_ = lock.Unlock()
			return nil, fmt.Errorf("mark staging directory: %w", err)
		}
	}

	return &Area{
		dir:     dir,
		lock:    lock,
		logger:  logger,
		digests: make(map[string][32]byte),
	}, nil
}

// Dir returns the staging directory path.
func (a *Area) Dir() string {
	return a.dir
}

// Path returns where name is stored inside the area.
func (a *Area) Path(name string) string {
	return filepath.Join(a.dir, name)
}

// Write stores data under name, replacing any earlier file of that name.
func (a *Area) Write(name string, data []byte) (Staged, error) {
	if !fileutil.IsBareName(name) || name == MarkerFile || name == LockFile {
		return Staged{}, &InvalidNameError{Name: name}
	}

	target := a.Path(name)
	if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
		return Staged{}, fmt.Errorf("stage %s: %w", name, err)
	}

	sum := blake3.Sum256(data)
	prev, replaced := a.digests[name]
	a.digests[name] = sum
	a.bytes += int64(len(data))

	staged := Staged{
		Name:      name,
		Path:      target,
		Bytes:     int64(len(data)),
		MediaType: mimetype.Detect(data).String(),
		Replaced:  replaced,
		Changed:   replaced && prev != sum,
	}
	if replaced {
		a.logger.Debug("staged resource overwritten",
			logging.String("name", name),
			logging.Bool("changed", staged.Changed),
			logging.String("digest", fmt.Sprintf("%x", sum[:8])),
		)
	}
	return staged, nil
}

// Names returns the sorted names written during this run.
func (a *Area) Names() []string {
	names := make([]string, 0, len(a.digests))
	for name := range a.digests {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Bytes returns the total bytes written during this run, overwrites included.
func (a *Area) Bytes() int64 {
	return a.bytes
}

// Close releases the lock. Staged files stay on disk.
func (a *Area) Close() error {
	if a == nil || a.lock == nil {
		return nil
	}
	err := a.lock.Unlock()
	_ = os.Remove(a.lock.Path())
	a.lock = nil
	return err
}
