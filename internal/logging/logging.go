// Package logging sets up the structured logger. The chat view owns the
// terminal, so records go to a file rather than stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Options configures New
type Options struct {
	Path    string
	Verbose bool
}

// New opens (or creates) the log file and returns a text logger writing to
// it, plus a close function. If the file cannot be opened the returned logger
// discards everything and the error is returned for the caller to report.
func New(opts Options) (*slog.Logger, func() error, error) {
	if opts.Path == "" {
		return Discard(), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o700); err != nil {
		return Discard(), func() error { return nil }, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return Discard(), func() error { return nil }, fmt.Errorf("failed to open log file: %w", err)
	}

	return NewWithWriter(f, opts.Verbose), f.Close, nil
}

// NewWithWriter returns a text logger writing to w
func NewWithWriter(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
