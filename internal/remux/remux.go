package remux

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"harextract/internal/logging"
	"harextract/internal/services"
)

var commandContext = exec.CommandContext

// Runner converts a staged manifest into the output container.
type Runner interface {
	Remux(ctx context.Context, manifestPath, outputPath string, verbose bool) error
}

// Args returns the ffmpeg argument vector, without the program name, for
// remuxing manifestPath into outputPath. Quiet runs lower ffmpeg's log level
// to warnings while keeping its progress line.
func Args(manifestPath, outputPath string, verbose bool) []string {
	args := []string{"-hide_banner", "-stats"}
	if !verbose {
		args = append(args, "-loglevel", "warning")
	}
	return append(args,
		"-i", manifestPath,
		"-c", "copy",
		"-map", "0:v",
		"-map", "0:a",
		"-bsf:a", "aac_adtstoasc",
		outputPath,
	)
}

// Option configures the FFmpeg runner.
type Option func(*FFmpeg)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(f *FFmpeg) {
		if binary = strings.TrimSpace(binary); binary != "" {
			f.binary = binary
		}
	}
}

// WithOutput redirects ffmpeg's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(f *FFmpeg) {
		f.stdout = stdout
		f.stderr = stderr
	}
}

// WithLogger sets the logger used to record the command line.
func WithLogger(logger *slog.Logger) Option {
	return func(f *FFmpeg) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// FFmpeg runs the ffmpeg command-line tool.
type FFmpeg struct {
	binary string
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// NewFFmpeg constructs a runner using defaults. ffmpeg's own output goes to
// the process stdout and stderr so its progress line stays visible.
func NewFFmpeg(opts ...Option) *FFmpeg {
	f := &FFmpeg{
		binary: "ffmpeg",
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Binary returns the executable the runner invokes.
func (f *FFmpeg) Binary() string {
	return f.binary
}

// Remux runs ffmpeg synchronously. A non-zero exit is reported as an
// external tool failure; it is never retried.
func (f *FFmpeg) Remux(ctx context.Context, manifestPath, outputPath string, verbose bool) error {
	if manifestPath == "" {
		return errors.New("manifest path required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}

	args := Args(manifestPath, outputPath, verbose)
	f.logger.Debug("running ffmpeg",
		logging.String("binary", f.binary),
		logging.String("command", f.binary+" "+strings.Join(args, " ")),
	)

	cmd := commandContext(ctx, f.binary, args...) //nolint:gosec
	cmd.Stdout = f.stdout
	cmd.Stderr = f.stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return services.Wrap(services.ErrExternalTool, "remux", "ffmpeg",
				fmt.Sprintf("ffmpeg exited with status %d", exitErr.ExitCode()), err)
		}
		return services.Wrap(services.ErrExternalTool, "remux", "ffmpeg", "failed to start ffmpeg", err)
	}
	return nil
}
