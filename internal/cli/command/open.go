package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/yndnr/worldsync/internal/cli/config"
	"github.com/yndnr/worldsync/internal/core/service"
	"github.com/yndnr/worldsync/internal/server/httpserver"
	"github.com/yndnr/worldsync/internal/storage"
	"github.com/yndnr/worldsync/internal/storage/memory"
	"github.com/yndnr/worldsync/internal/storage/snapshot"
	"github.com/yndnr/worldsync/internal/telemetry/metric"
)

// cacheStore is what sync needs from a cache backend.
type cacheStore interface {
	service.Cache
	service.CacheWriter
	Close() error
}

// openCache opens the configured backend. With reg set, the badger size
// gauges are registered on it.
func (rt *runtime) openCache(backend string, reg *metric.Registry) (cacheStore, error) {
	switch backend {
	case config.BackendMemory:
		rt.log.Debug("using in-memory cache, nothing will be persisted")
		return memory.New(), nil
	case config.BackendBadger, "":
		return rt.openBadger(reg)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

func (rt *runtime) openBadger(reg *metric.Registry) (*storage.ChunkStore, error) {
	cs, err := storage.OpenCache(rt.cfg.Cache.Badger, rt.log.Slog())
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", rt.cfg.Cache.Badger.Dir, err)
	}
	if reg != nil {
		if be, ok := cs.Engine().(*storage.BadgerEngine); ok {
			be.RegisterMetrics(reg.Prometheus())
		}
	}
	return cs, nil
}

func (rt *runtime) openSnapshots() (*snapshot.Manager, error) {
	return snapshot.NewManager(rt.cfg.Snapshot.ManagerConfig(), rt.log.Slog())
}

// serveMetrics serves /metrics and /health on addr until the returned stop
// function is called.
func serveMetrics(addr string, reg *metric.Registry, log *slog.Logger) (stop func(), err error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	srv := httpserver.New(addr, httpserver.NewRouter(&httpserver.RouterConfig{
		Metrics: reg.Handler(),
		Logger:  log,
	}))
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", "error", err)
		}
	}()
	log.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn("metrics server shutdown", "error", err)
		}
	}, nil
}
