// Package logging configures the process-wide slog logger.
//
// The TUI owns the terminal, so nothing is ever written to stdout or
// stderr: debug output goes to a file, otherwise logs are dropped.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options selects where and how much to log
type Options struct {
	Debug bool
	// Path of the log file. Only used with Debug.
	Path  string
	Level string
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "error":
		return slog.LevelError
	case "warn":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Setup installs the default logger. The returned closer releases the log
// file and must be called on exit.
func Setup(opts Options) (*slog.Logger, io.Closer, error) {
	if !opts.Debug {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		slog.SetDefault(logger)
		return logger, io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := slog.LevelDebug
	if opts.Level != "" {
		level = ParseLevel(opts.Level)
	}

	logger := New(f, level)
	slog.SetDefault(logger)
	return logger, f, nil
}

// New returns a text logger writing to w
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// For returns the default logger tagged with a subsystem name
func For(subsystem string) *slog.Logger {
	return slog.Default().With("subsystem", subsystem)
}
