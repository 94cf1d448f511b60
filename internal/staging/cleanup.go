package staging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"harextract/internal/config"
	"harextract/internal/logging"
)

// CleanStaleResult contains the outcome of a stale directory cleanup operation.
type CleanStaleResult struct {
	Removed []string
	Skipped []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// DirInfo contains metadata about a staging directory.
type DirInfo struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
	Files   int
	Locked  bool
}

// CleanStale removes staging directories under root whose modification time
// is older than maxAge. Directories locked by a running extraction are left
// alone and reported in Skipped.
func CleanStale(ctx context.Context, root string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}
	if logger == nil {
		logger = logging.NewNop()
	}

	dirs, err := ListDirectories(root)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: root, Error: err})
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, dir := range dirs {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir.Path, Error: ctx.Err()})
			return result
		}
		if !dir.ModTime.Before(cutoff) {
			continue
		}
		if dir.Locked {
			result.Skipped = append(result.Skipped, dir.Path)
			logger.Info("staging directory in use, skipping",
				logging.String("path", dir.Path),
				logging.String(logging.FieldEventType, "staging_cleanup_skipped"),
			)
			continue
		}

		if err := os.RemoveAll(dir.Path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir.Path, Error: err})
			logging.WarnWithContext(logger, "failed to remove stale staging directory", "staging_cleanup_failed",
				logging.String("path", dir.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check staging directory permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, dir.Path)
		logger.Info("removed stale staging directory",
			logging.String("path", dir.Path),
			logging.Duration("age", time.Since(dir.ModTime)),
			logging.Int64("size_bytes", dir.Size),
			logging.String(logging.FieldEventType, "staging_cleanup"),
		)
	}

	return result
}

// ListDirectories returns the staging directories directly under root: those
// named with the staging suffix that carry the staging marker file.
func ListDirectories(root string) ([]DirInfo, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dirs []DirInfo
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), config.StagingSuffix) {
			continue
		}
		dirPath := filepath.Join(root, entry.Name())
		if _, err := os.Stat(filepath.Join(dirPath, MarkerFile)); err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		size, files := dirUsage(dirPath)
		dirs = append(dirs, DirInfo{
			Name:    entry.Name(),
			Path:    dirPath,
			ModTime: info.ModTime(),
			Size:    size,
			Files:   files,
			Locked:  isLocked(dirPath),
		})
	}

	return dirs, nil
}

func isLocked(dir string) bool {
	lockPath := filepath.Join(dir, LockFile)
	if _, err := os.Stat(lockPath); err != nil {
		return false
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return true
	}
	if ok {
		_ = lock.Unlock()
		return false
	}
	return true
}

// dirUsage totals regular file sizes, ignoring the marker and lock files.
func dirUsage(path string) (int64, int) {
	var size int64
	var files int
	_ = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if name := d.Name(); name == MarkerFile || name == LockFile {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		size += info.Size()
		files++
		return nil
	})
	return size, files
}
