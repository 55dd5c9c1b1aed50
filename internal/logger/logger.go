// Package logger builds the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
)

const (
	envDevelopment = "development"
	envTest        = "test"
)

// New returns a logger writing to stdout configured for env.
func New(env string) *slog.Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter returns a logger for env writing to w.
// Development gets human-readable text at debug level; every other
// environment gets JSON, at info level except in test where warnings only.
func NewWithWriter(env string, w io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envDevelopment:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envTest:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log.With(slog.String("service", "portfolio"), slog.String("env", env))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Err puts an error inside a log record under the "error" key.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
