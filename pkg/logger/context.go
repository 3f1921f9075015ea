package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func ToContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext never returns nil; callers without a scoped logger get slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}

// With adds attributes to the scoped logger and stores the result back:
//
//	log, ctx := logger.With(ctx, "uid", uid)
func With(ctx context.Context, args ...any) (*slog.Logger, context.Context) {
	log := FromContext(ctx).With(args...)
	return log, ToContext(ctx, log)
}

// Component tags the scoped logger with the subsystem doing the work.
func Component(ctx context.Context, name string) (*slog.Logger, context.Context) {
	return With(ctx, "component", name)
}
