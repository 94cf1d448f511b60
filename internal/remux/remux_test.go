package remux_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"harextract/internal/remux"
	"harextract/internal/services"
	"harextract/internal/testsupport"
)

func TestArgsQuiet(t *testing.T) {
	got := remux.Args("/tmp/out.mp4-tmp/index.m3u8", "/tmp/out.mp4", false)
	want := []string{
		"-hide_banner", "-stats",
		"-loglevel", "warning",
		"-i", "/tmp/out.mp4-tmp/index.m3u8",
		"-c", "copy",
		"-map", "0:v",
		"-map", "0:a",
		"-bsf:a", "aac_adtstoasc",
		"/tmp/out.mp4",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected args\n got: %q\nwant: %q", got, want)
	}
}

func TestArgsVerboseOmitsLogLevel(t *testing.T) {
	got := remux.Args("in.m3u8", "out.mp4", true)
	want := []string{
		"-hide_banner", "-stats",
		"-i", "in.m3u8",
		"-c", "copy",
		"-map", "0:v",
		"-map", "0:a",
		"-bsf:a", "aac_adtstoasc",
		"out.mp4",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected args\n got: %q\nwant: %q", got, want)
	}
}

func TestFFmpegRemuxInvokesBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedFFmpeg(0))
	runner := remux.NewFFmpeg(
		remux.WithBinary(cfg.Remux.FFmpegBinary),
		remux.WithOutput(io.Discard, io.Discard),
	)
	manifest := filepath.Join(testsupport.BaseDir(cfg), "index.m3u8")

	if err := runner.Remux(context.Background(), manifest, cfg.Paths.OutputPath, false); err != nil {
		t.Fatalf("Remux: %v", err)
	}
	got := testsupport.FFmpegArgs(t, cfg)
	if want := remux.Args(manifest, cfg.Paths.OutputPath, false); !slices.Equal(got, want) {
		t.Fatalf("ffmpeg saw %q, want %q", got, want)
	}
}

func TestFFmpegRemuxNonZeroExit(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedFFmpeg(3))
	runner := remux.NewFFmpeg(
		remux.WithBinary(cfg.Remux.FFmpegBinary),
		remux.WithOutput(io.Discard, io.Discard),
	)

	err := runner.Remux(context.Background(), "in.m3u8", cfg.Paths.OutputPath, true)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 3") {
		t.Fatalf("expected exit status in error, got %v", err)
	}
	if services.ExitCode(err) != 1 {
		t.Fatalf("expected exit code 1, got %d", services.ExitCode(err))
	}
}

func TestFFmpegRemuxMissingBinary(t *testing.T) {
	runner := remux.NewFFmpeg(
		remux.WithBinary(filepath.Join(t.TempDir(), "no-such-ffmpeg")),
		remux.WithOutput(io.Discard, io.Discard),
	)
	err := runner.Remux(context.Background(), "in.m3u8", "out.mp4", false)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestFFmpegRemuxCanceled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedFFmpeg(0))
	runner := remux.NewFFmpeg(remux.WithBinary(cfg.Remux.FFmpegBinary), remux.WithOutput(io.Discard, io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runner.Remux(ctx, "in.m3u8", "out.mp4", false); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFFmpegRemuxRequiresPaths(t *testing.T) {
	runner := remux.NewFFmpeg()
	if err := runner.Remux(context.Background(), "", "out.mp4", false); err == nil {
		t.Fatal("expected error for empty manifest path")
	}
	if err := runner.Remux(context.Background(), "in.m3u8", "", false); err == nil {
		t.Fatal("expected error for empty output path")
	}
}
