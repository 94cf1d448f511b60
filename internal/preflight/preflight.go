package preflight

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"harextract/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks needed to extract into output. An empty output
// falls back to the configured output path.
func RunAll(ctx context.Context, cfg *config.Config, output string) []Result {
	if cfg == nil {
		return nil
	}
	if strings.TrimSpace(output) == "" {
		output = cfg.Paths.OutputPath
	}

	results := []Result{
		CheckDirectoryAccess("Output directory", filepath.Dir(filepath.Clean(output))),
		CheckStagingDir(cfg.StagingDirFor(output)),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckStagingDirLike("Log directory", cfg.Paths.LogDir))
	}
	results = append(results, CheckFFmpeg(ctx, cfg.FFmpegBinary()))
	return results
}

// CheckStagingDirLike applies the staging-directory rules to another
// directory that is created on demand.
func CheckStagingDirLike(name, path string) Result {
	result := CheckStagingDir(path)
	result.Name = name
	return result
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Summarize joins failed checks into one message, or returns "" when all
// passed.
func Summarize(results []Result) string {
	failed := Failed(results)
	if len(failed) == 0 {
		return ""
	}
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return strings.Join(parts, "; ")
}
