package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"harextract/internal/config"
	"harextract/internal/testsupport"
)

const cdn = "https://cdn.example.com/vod"

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	opts = append([]testsupport.ConfigOption{testsupport.WithStubbedFFmpeg(0)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (env *cliTestEnv) stagingDir() string {
	return env.cfg.StagingDirFor(env.cfg.Paths.OutputPath)
}

func (env *cliTestEnv) archive(t *testing.T, entries ...testsupport.Entry) string {
	t.Helper()
	return testsupport.WriteArchive(t, env.baseDir, entries...)
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func manifestEntry(uris ...string) testsupport.Entry {
	return testsupport.Entry{
		URL:      cdn + "/index.m3u8",
		MimeType: "application/vnd.apple.mpegurl",
		Text:     testsupport.Playlist(uris...),
	}
}

func fullSession() []testsupport.Entry {
	return append([]testsupport.Entry{manifestEntry(cdn+"/seg1.ts", cdn+"/seg2.ts")},
		testsupport.SegmentEntries(cdn, "seg1.ts", "seg2.ts")...)
}
