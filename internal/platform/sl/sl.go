// Package sl holds small helpers around log/slog.
package sl

import (
	"io"
	"log/slog"
	"os"
)

// Err returns the attribute used to log an error under the "error" key.
//
//	log.Error("failed to save trip", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// New builds the process logger. env "local" gets human-readable text at debug
// level; everything else gets JSON at info level.
func New(env string) *slog.Logger {
	if env == "local" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Discard returns a logger that drops every record. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
