package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"harextract/internal/config"
	"harextract/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckStagingDir verifies the staging directory, or the nearest existing
// ancestor that it would be created under.
func CheckStagingDir(path string) Result {
	const name = "Staging directory"

	candidate := filepath.Clean(path)
	for {
		_, err := os.Stat(candidate)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", candidate, err)}
		}
		parent := filepath.Dir(candidate)
		if parent == candidate {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing parent)", path)}
		}
		candidate = parent
	}

	result := CheckDirectoryAccess(name, candidate)
	if result.Passed && candidate != filepath.Clean(path) {
		result.Detail = fmt.Sprintf("%s (will be created under %s)", path, candidate)
	}
	return result
}

// CheckFFmpeg verifies the configured ffmpeg binary resolves and answers
// -version.
func CheckFFmpeg(ctx context.Context, binary string) Result {
	const name = "FFmpeg"

	status := deps.CheckBinaries([]deps.Requirement{deps.FFmpegRequirement(binary)})[0]
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	version, err := deps.FFmpegVersion(ctx, status.Command)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", status.Command, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", status.Command, version)}
}

// CheckSystemDeps evaluates all external programs for the given config.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries([]deps.Requirement{
		deps.FFmpegRequirement(cfg.FFmpegBinary()),
	})
}
