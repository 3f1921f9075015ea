package helpers

import (
	"context"
	"log/slog"

	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

// TestCtx returns a background context carrying a silent logger.
func TestCtx() context.Context {
	return logger.ToContext(context.Background(), TestLogger())
}

func TestLogger() *slog.Logger {
	return slog.New(logger.NewTestHandler(slog.LevelDebug))
}
