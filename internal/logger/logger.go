// Package logger configures the shared structured logger.
package logger

import (
	"log/slog"
	"os"
)

// New returns a text-format slog logger writing to stderr.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
