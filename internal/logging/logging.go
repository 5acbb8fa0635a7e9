// Package logging carries request-scoped slog loggers through contexts.
package logging

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// ContextWithLogger attaches logger to ctx. A nil ctx or logger is returned
// unchanged so callers do not have to guard.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger attached by ContextWithLogger, or nil when
// the context carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return nil
}
