// Package archiver runs the 7-Zip command line tool and returns the listing
// it prints for an archive.
package archiver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// ErrFailed is returned when the archiver exits with a fatal status.
var ErrFailed = errors.New("archiver failed")

// 7-Zip exit status for warnings such as unreadable files; the listing is
// still complete.
const exitWarning = 1

type Option func(*Lister)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(li *Lister) {
		li.logger = l
	}
}

// Lister lists archives with an external 7-Zip executable.
type Lister struct {
	executable string
	technical  bool
	logger     *slog.Logger
}

// New returns a Lister running executable. With technical set, listings use
// the key/value format (-slt).
func New(executable string, technical bool, opts ...Option) *Lister {
	l := &Lister{
		executable: executable,
		technical:  technical,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Lister) args(path string) []string {
	args := []string{"l"}
	if l.technical {
		args = append(args, "-slt")
	}
	return append(args, "--", path)
}

// List returns the console listing of the archive at path.
func (l *Lister) List(ctx context.Context, path string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, l.executable, l.args(path)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	l.logger.Debug("running archiver", "cmd", cmd.String())
	err := cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr) && exitErr.ExitCode() == exitWarning:
		l.logger.Warn("archiver reported warnings", "path", path, "stderr", strings.TrimSpace(stderr.String()))
	case errors.As(err, &exitErr):
		return "", fmt.Errorf("%w: %s: exit status %d: %s", ErrFailed, path, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
	default:
		return "", fmt.Errorf("failed to run %s: %w", l.executable, err)
	}
	return stdout.String(), nil
}
