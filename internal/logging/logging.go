// Package logging builds the gateway's slog.Logger: colorized console output
// in dev, JSON elsewhere, with optional size-rotated file output.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Option adjusts logger construction.
type Option func(*options)

type options struct {
	level   slog.Level
	logFile string
	console io.Writer
}

// WithLevel sets the minimum level from its string name (debug, info, warn, error).
func WithLevel(level string) Option {
	return func(o *options) {
		o.level = ParseLevel(level)
	}
}

// WithLogFile adds a size-rotated log file next to the console output.
func WithLogFile(path string) Option {
	return func(o *options) {
		o.logFile = path
	}
}

// WithWriter replaces the console writer (used in tests).
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.console = w
	}
}

// New builds the gateway logger for the given environment. "dev" gets
// human-readable colorized output; every other environment logs JSON.
func New(env string, opts ...Option) *slog.Logger {
	o := options{
		level:   slog.LevelInfo,
		console: os.Stderr,
	}
	for _, opt := range opts {
		opt(&o)
	}

	out := o.console
	if o.logFile != "" {
		out = io.MultiWriter(o.console, &lumberjack.Logger{
			Filename:   o.logFile,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
		})
	}

	var handler slog.Handler
	if env == "dev" {
		handler = tint.NewHandler(out, &tint.Options{
			Level: o.level,
			// Color codes would end up in the rotated file as well.
			NoColor: o.logFile != "",
		})
	} else {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: o.level})
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to its slog value, defaulting to info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
