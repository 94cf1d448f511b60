package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"harextract/internal/services"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   int
		output string
	}{
		{name: "success", err: nil, want: 0},
		{name: "policy abort", err: &exitError{code: 2}, want: 2},
		{name: "interrupted", err: fmt.Errorf("scan: %w", context.Canceled), want: exitInterrupted, output: "interrupted by user"},
		{name: "config", err: services.Wrap(services.ErrConfiguration, "config", "load", "", errors.New("bad toml")), want: 78, output: "bad toml"},
		{name: "remux", err: services.Wrap(services.ErrExternalTool, "remux", "ffmpeg", "ffmpeg exited with status 1", nil), want: 1, output: "status 1"},
		{name: "plain", err: errors.New("boom"), want: 1, output: "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if got := exitCode(tt.err, &buf); got != tt.want {
				t.Fatalf("exitCode = %d, want %d", got, tt.want)
			}
			if tt.output == "" && buf.Len() != 0 {
				t.Fatalf("expected no output, got %q", buf.String())
			}
			if !strings.Contains(buf.String(), tt.output) {
				t.Fatalf("expected output containing %q, got %q", tt.output, buf.String())
			}
		})
	}
}
