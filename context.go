package preplan

import (
	"context"
	"log/slog"
)

type ctxLoggerKey struct{}

var defaultLogger = slog.New(slog.DiscardHandler)

// CtxWithLogger returns a context carrying logger. Components of this module
// log only through the logger found in the context.
func CtxWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return defaultLogger
}
