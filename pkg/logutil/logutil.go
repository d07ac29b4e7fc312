// Package logutil configures run logging: slog text output to the
// console plus an append-only log file that survives across runs.
package logutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Options controls logger construction.
type Options struct {
	// Debug lowers the level from INFO to DEBUG.
	Debug bool

	// LogFile is the append-only log file path. Empty disables the
	// file handler and logs to the console only.
	LogFile string
}

// Setup builds the run logger and installs it as the slog default.
// The returned closer flushes and closes the log file; callers should
// defer it.
func Setup(opts Options) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	out := io.Writer(os.Stdout)
	closer := func() error { return nil }

	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", opts.LogFile, err)
		}
		out = io.MultiWriter(os.Stdout, f)
		closer = f.Close
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closer, nil
}
