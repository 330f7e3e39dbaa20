// Package dblog provides structured logging via log/slog, wrapping a
// package-level logger the way the example pack's internal logging
// packages do, plus a per-statement correlation id attached through
// context.
package dblog

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey string

const correlationIDKey ctxKey = "correlation_id"

var defaultLogger *slog.Logger

func init() {
	defaultLogger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Default returns the package-level logger.
func Default() *slog.Logger {
	return defaultLogger
}

// SetDefault replaces the package-level logger, e.g. to change level or
// output format at startup.
func SetDefault(l *slog.Logger) {
	defaultLogger = l
}

// WithCorrelationID attaches id to ctx for later retrieval by From.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID returns the id attached to ctx, or "" if none.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// From returns a logger with ctx's correlation id attached, if any.
func From(ctx context.Context) *slog.Logger {
	if id := CorrelationID(ctx); id != "" {
		return defaultLogger.With("correlation_id", id)
	}
	return defaultLogger
}
