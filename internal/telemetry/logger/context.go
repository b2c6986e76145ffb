package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	loggerKey    contextKey = "worldsync.logger"
	requestIDKey contextKey = "worldsync.request_id"
	runIDKey     contextKey = "worldsync.run_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the context logger, or the default logger.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithRunID adds a reconstruction run ID to the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run ID from context.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// TraceIDFromContext returns the active OpenTelemetry trace id, if any.
func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// L returns the context logger enriched with the ids found in ctx.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if id := RequestIDFromContext(ctx); id != "" {
		l = l.With("request_id", id)
	}
	if id := RunIDFromContext(ctx); id != "" {
		l = l.With("run_id", id)
	}
	if id := TraceIDFromContext(ctx); id != "" {
		l = l.With("trace_id", id)
	}
	return l.WithContext(ctx)
}
