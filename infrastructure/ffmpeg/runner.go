package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Run executes a command and returns any error
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Output executes a command and returns its stdout.
// When the command exits non-zero the captured stderr is included in the error.
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return out, err
	}
	return out, nil
}

// Tools locates the ffmpeg and ffprobe executables
type Tools struct {
	FFmpegPath  string
	FFprobePath string
	Runner      CommandRunner
}

// Option is a functional option for configuring Tools
type Option func(*Tools)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) Option {
	return func(t *Tools) {
		if path != "" {
			t.FFmpegPath = path
		}
	}
}

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) Option {
	return func(t *Tools) {
		if path != "" {
			t.FFprobePath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) Option {
	return func(t *Tools) {
		t.Runner = runner
	}
}

// NewTools creates the ffmpeg tool set with defaults taken from $PATH
func NewTools(opts ...Option) *Tools {
	t := &Tools{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		Runner:      &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// VerifyInstalled checks that ffmpeg and ffprobe are available
func (t *Tools) VerifyInstalled(ctx context.Context) error {
	if _, err := t.Runner.Output(ctx, t.FFmpegPath, "-version"); err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	if _, err := t.Runner.Output(ctx, t.FFprobePath, "-version"); err != nil {
		return fmt.Errorf("ffprobe not found or not executable: %w", err)
	}
	return nil
}
