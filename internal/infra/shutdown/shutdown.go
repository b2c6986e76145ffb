// Package shutdown runs named cleanup hooks when a process is told to stop.
//
//	ctx, stop := shutdown.NotifyContext(context.Background())
//	defer stop()
//	h := shutdown.NewHandler(15 * time.Second, logger)
//	h.OnShutdown("http", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Signals are the signals that trigger shutdown.
var Signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// NotifyContext returns a context canceled on the first shutdown signal.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, Signals...)
}

type hook struct {
	name string
	fn   func(context.Context) error
}

// Handler runs registered hooks once, newest first, under a shared deadline.
type Handler struct {
	timeout time.Duration
	logger  *slog.Logger

	mu    sync.Mutex
	hooks []hook

	once sync.Once
	err  error
	done chan struct{}
}

// NewHandler creates a handler whose hooks together get at most timeout.
func NewHandler(timeout time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		timeout: timeout,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// OnShutdown registers a hook.
func (h *Handler) OnShutdown(name string, fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook{name: name, fn: fn})
}

// Wait blocks until ctx is done, then runs the hooks.
func (h *Handler) Wait(ctx context.Context) error {
	<-ctx.Done()
	h.logger.Info("shutting down", "timeout", h.timeout)
	return h.Shutdown()
}

// Shutdown runs the hooks. Later calls return the first result.
func (h *Handler) Shutdown() error {
	h.once.Do(func() {
		defer close(h.done)

		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		h.mu.Lock()
		hooks := append([]hook(nil), h.hooks...)
		h.mu.Unlock()

		var errs []error
		for i := len(hooks) - 1; i >= 0; i-- {
			start := time.Now()
			if err := hooks[i].fn(ctx); err != nil {
				h.logger.Error("shutdown hook failed", "hook", hooks[i].name, "error", err)
				errs = append(errs, fmt.Errorf("%s: %w", hooks[i].name, err))
				continue
			}
			h.logger.Debug("shutdown hook done", "hook", hooks[i].name, "elapsed", time.Since(start))
		}
		h.err = errors.Join(errs...)
	})
	return h.err
}

// Done is closed once every hook has run.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
