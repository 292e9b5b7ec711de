// Package logging builds the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how verbosely the logger writes.
type Options struct {
	Debug   bool
	LogFile string
}

// New returns a JSON slog logger. When LogFile is set, output is rotated by
// lumberjack instead of going to stdout.
func New(opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if opts.Debug {
		handlerOpts.Level = slog.LevelDebug
	}

	var output io.Writer = os.Stdout
	if opts.LogFile != "" {
		output = &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    100,
			MaxAge:     28,
			MaxBackups: 3,
			Compress:   true,
			LocalTime:  true,
		}
	}

	return slog.New(slog.NewJSONHandler(output, handlerOpts))
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
