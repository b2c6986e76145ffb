package remote

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/oklog/ulid/v2"

	"github.com/yndnr/worldsync/internal/telemetry/logger"
)

// HeaderRequestID carries the per-request ULID.
const HeaderRequestID = "X-Request-Id"

// NewRequestIDInterceptor stamps every request with a fresh ULID, or with
// the request id already on the context.
func NewRequestIDInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				id := logger.RequestIDFromContext(ctx)
				if id == "" {
					id = ulid.Make().String()
				}
				req.Header().Set(HeaderRequestID, id)
			}
			return next(ctx, req)
		}
	}
}

// NewAuthInterceptor sends apiKey as a bearer token. An empty key sends nothing.
func NewAuthInterceptor(apiKey string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if apiKey != "" && req.Spec().IsClient {
				req.Header().Set("Authorization", "Bearer "+apiKey)
			}
			return next(ctx, req)
		}
	}
}

// NewLoggingInterceptor logs each attempt at debug level and failures at warn.
func NewLoggingInterceptor(log *slog.Logger) connect.UnaryInterceptorFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			attrs := []any{
				"procedure", req.Spec().Procedure,
				"request_id", req.Header().Get(HeaderRequestID),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				log.Warn("remote rpc error", append(attrs, "code", connect.CodeOf(err).String(), "error", err)...)
			} else {
				log.Debug("remote rpc", attrs...)
			}
			return resp, err
		}
	}
}
