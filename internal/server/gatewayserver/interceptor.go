package gatewayserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yndnr/worldsync/internal/core/domain"
	"github.com/yndnr/worldsync/internal/telemetry/logger"
	"github.com/yndnr/worldsync/internal/telemetry/tracer"
	"github.com/yndnr/worldsync/pkg/token"
)

// The WorldService has no streaming procedures, so every interceptor
// passes streams through untouched.

// LoggingInterceptor logs every RPC and opens a span around it.
type LoggingInterceptor struct {
	logger *slog.Logger
}

// NewLoggingInterceptor creates a new logging interceptor.
func NewLoggingInterceptor(log *slog.Logger) *LoggingInterceptor {
	if log == nil {
		log = slog.Default()
	}
	return &LoggingInterceptor{logger: log}
}

// WrapUnary implements connect.Interceptor.
func (i *LoggingInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (resp connect.AnyResponse, err error) {
		procedure := req.Spec().Procedure
		ctx, span := tracer.Start(ctx, procedure, attribute.String("rpc.peer", req.Peer().Addr))
		defer func() { tracer.End(span, err) }()

		start := time.Now()
		resp, err = next(ctx, req)

		attrs := []any{
			"procedure", procedure,
			"peer", req.Peer().Addr,
			"request_id", logger.RequestIDFromContext(ctx),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if err != nil {
			i.logger.Warn("world rpc error", append(attrs, "code", connect.CodeOf(err).String(), "error", err)...)
		} else {
			i.logger.Debug("world rpc", attrs...)
		}
		return resp, err
	}
}

// WrapStreamingClient implements connect.Interceptor.
func (i *LoggingInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

// WrapStreamingHandler implements connect.Interceptor.
func (i *LoggingInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}

// AuthInterceptor requires a bearer API key whose sha256 digest is in the
// configured set. With no digests configured every request passes.
type AuthInterceptor struct {
	logger *slog.Logger
	hashes []string
}

// NewAuthInterceptor creates an auth interceptor accepting plain keys and
// key digests. Plain keys are hashed immediately and not retained.
func NewAuthInterceptor(keys, hashes []string, log *slog.Logger) *AuthInterceptor {
	if log == nil {
		log = slog.Default()
	}
	all := make([]string, 0, len(keys)+len(hashes))
	for _, k := range keys {
		all = append(all, token.Hash(k))
	}
	for _, h := range hashes {
		all = append(all, strings.ToLower(h))
	}
	return &AuthInterceptor{logger: log, hashes: all}
}

// Enabled reports whether keys are required.
func (i *AuthInterceptor) Enabled() bool {
	return len(i.hashes) > 0
}

// WrapUnary implements connect.Interceptor.
func (i *AuthInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if err := i.authenticate(req.Header().Get("Authorization")); err != nil {
			i.logger.Warn("world rpc auth failed",
				"procedure", req.Spec().Procedure,
				"peer", req.Peer().Addr,
				"error", err)
			return nil, connect.NewError(connect.CodeUnauthenticated, domain.ErrUnauthenticated.WithCause(err))
		}
		return next(ctx, req)
	}
}

func (i *AuthInterceptor) authenticate(header string) error {
	if !i.Enabled() {
		return nil
	}
	key, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || key == "" {
		return errors.New("missing bearer token")
	}
	// Every digest is compared so timing does not reveal which one matched.
	matched := false
	for _, h := range i.hashes {
		if token.Verify(key, h) {
			matched = true
		}
	}
	if !matched {
		return errors.New("unknown api key")
	}
	return nil
}

// WrapStreamingClient implements connect.Interceptor.
func (i *AuthInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

// WrapStreamingHandler implements connect.Interceptor.
func (i *AuthInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}

// RPCObserver records one finished RPC.
type RPCObserver interface {
	ObserveRPC(procedure, code string, elapsed time.Duration)
}

// MetricsInterceptor reports RPC counts and latencies.
type MetricsInterceptor struct {
	observer RPCObserver
}

// NewMetricsInterceptor creates a metrics interceptor.
func NewMetricsInterceptor(observer RPCObserver) *MetricsInterceptor {
	return &MetricsInterceptor{observer: observer}
}

// WrapUnary implements connect.Interceptor.
func (i *MetricsInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		code := "ok"
		if err != nil {
			code = connect.CodeOf(err).String()
		}
		i.observer.ObserveRPC(req.Spec().Procedure, code, time.Since(start))
		return resp, err
	}
}

// WrapStreamingClient implements connect.Interceptor.
func (i *MetricsInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

// WrapStreamingHandler implements connect.Interceptor.
func (i *MetricsInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}

// RecoveryInterceptor turns handler panics into Internal errors.
type RecoveryInterceptor struct {
	logger *slog.Logger
}

// NewRecoveryInterceptor creates a new recovery interceptor.
func NewRecoveryInterceptor(log *slog.Logger) *RecoveryInterceptor {
	if log == nil {
		log = slog.Default()
	}
	return &RecoveryInterceptor{logger: log}
}

// WrapUnary implements connect.Interceptor.
func (i *RecoveryInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (resp connect.AnyResponse, err error) {
		defer func() {
			if r := recover(); r != nil {
				i.logger.Error("world rpc panic recovered",
					"procedure", req.Spec().Procedure,
					"panic", r)
				err = connect.NewError(connect.CodeInternal,
					domain.ErrInternal.WithCause(fmt.Errorf("panic: %v", r)))
			}
		}()
		return next(ctx, req)
	}
}

// WrapStreamingClient implements connect.Interceptor.
func (i *RecoveryInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

// WrapStreamingHandler implements connect.Interceptor.
func (i *RecoveryInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}
