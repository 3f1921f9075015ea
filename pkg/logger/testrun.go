package logger

import (
	"io"
	"log/slog"
)

// NewTestHandler drops output but still honours level checks.
func NewTestHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
}

func Discard() *slog.Logger {
	return slog.New(NewTestHandler(slog.LevelError))
}
