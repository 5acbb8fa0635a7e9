package http

import (
	"context"
	"log/slog"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// handlerLogger resolves the request-scoped logger, falling back to the
// handler's own logger, and tags it with the handler name and operation.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = defaultLogger(fallback)
	}

	logger = logger.With("handler", handlerName)
	if operation != "" {
		logger = logger.With("operation", operation)
	}
	if len(attrs) > 0 {
		logger = logger.With(attrs...)
	}
	return logger
}
