package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"harextract/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The output file lives in <base>/out and staging uses the default
// "<output>-tmp" location next to it.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	outDir := filepath.Join(base, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatalf("mkdir out dir: %v", err)
	}
	cfgVal := config.Default()
	cfgVal.Paths.OutputPath = filepath.Join(outDir, "output.mp4")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithThreshold overrides the missing-segment threshold.
func WithThreshold(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Remux.MissingThreshold = n
	}
}

// WithStubbedFFmpeg installs a fake ffmpeg that appends each argument on its
// own line to FFmpegArgsPath and exits with exitCode. "-version" prints a
// version banner and is not recorded.
func WithStubbedFFmpeg(exitCode int) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		argsPath := filepath.Join(b.baseDir, "ffmpeg.args")
		script := fmt.Sprintf("#!/bin/sh\n"+
			"if [ \"$1\" = \"-version\" ]; then echo 'ffmpeg version 7.1-stub'; exit 0; fi\n"+
			"for arg in \"$@\"; do printf '%%s\\n' \"$arg\" >> %q; done\n"+
			"exit %d\n", argsPath, exitCode)
		target := filepath.Join(binDir, "ffmpeg")
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write ffmpeg stub: %v", err)
		}
		b.cfg.Remux.FFmpegBinary = target
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg"}
		}
		binDir := filepath.Join(b.baseDir, "pathbin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Paths.OutputPath))
}

// FFmpegArgsPath is where the stubbed ffmpeg records its arguments.
func FFmpegArgsPath(cfg *config.Config) string {
	return filepath.Join(BaseDir(cfg), "ffmpeg.args")
}

// FFmpegArgs returns the arguments recorded by the stubbed ffmpeg, or nil when
// it never ran.
func FFmpegArgs(t testing.TB, cfg *config.Config) []string {
	t.Helper()

	data, err := os.ReadFile(FFmpegArgsPath(cfg))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read ffmpeg args: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
