package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"harextract/internal/config"
)

func stubFFmpeg(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\necho 'ffmpeg version 7.1'\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckStagingDir_CreatedOnDemand(t *testing.T) {
	base := t.TempDir()
	result := CheckStagingDir(filepath.Join(base, "a", "b", "out.mp4-tmp"))
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created under "+base) {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckStagingDir_ParentIsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckStagingDir(filepath.Join(f, "out.mp4-tmp")); result.Passed {
		t.Fatal("expected failure when the parent is a file")
	}
}

func TestCheckFFmpeg(t *testing.T) {
	result := CheckFFmpeg(context.Background(), stubFFmpeg(t))
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "ffmpeg version 7.1") {
		t.Fatalf("expected version in detail, got %q", result.Detail)
	}

	missing := CheckFFmpeg(context.Background(), filepath.Join(t.TempDir(), "absent"))
	if missing.Passed {
		t.Fatal("expected failure for missing binary")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, ""); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.OutputPath = filepath.Join(t.TempDir(), "output.mp4")
	cfg.Remux.FFmpegBinary = stubFFmpeg(t)

	results := RunAll(context.Background(), &cfg, "")
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if Summarize(results) != "" {
		t.Fatalf("expected empty summary, got %q", Summarize(results))
	}
}

func TestRunAll_ReportsFailures(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Remux.FFmpegBinary = filepath.Join(t.TempDir(), "absent")

	output := filepath.Join(t.TempDir(), "missing-dir", "output.mp4")
	results := RunAll(context.Background(), &cfg, output)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 2 {
		t.Fatalf("expected output directory and ffmpeg failures, got %+v", failed)
	}
	summary := Summarize(results)
	if !strings.Contains(summary, "Output directory") || !strings.Contains(summary, "FFmpeg") {
		t.Fatalf("unexpected summary %q", summary)
	}
}
