package gatewayserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"connectrpc.com/connect"

	"github.com/yndnr/worldsync/api/worldv1/worldv1connect"
	"github.com/yndnr/worldsync/internal/infra/confloader"
	"github.com/yndnr/worldsync/internal/infra/tlsroots"
	"github.com/yndnr/worldsync/internal/server/config"
	"github.com/yndnr/worldsync/internal/server/httpserver"
	"github.com/yndnr/worldsync/internal/telemetry/metric"
)

// Server is a running gateway: HTTP front, connect service and fixture watcher.
type Server struct {
	cfg     *config.GatewayConfig
	svc     *Service
	metrics *metric.Registry
	handler http.Handler
	http    *httpserver.Server
	logger  *slog.Logger

	certs *tlsroots.Watcher

	mu      sync.Mutex
	watcher *confloader.Watcher
}

// New loads the fixture and builds the handler chain. It does not listen.
func New(cfg *config.GatewayConfig, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}

	svc := NewService(WithMaxPageSize(cfg.World.MaxPageSize), WithServiceLogger(log))
	if err := svc.Reload(cfg.World.Fixture); err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, svc: svc, logger: log}

	auth := NewAuthInterceptor(cfg.Security.APIKeys, cfg.Security.APIKeyHashes, log)
	if !auth.Enabled() {
		log.Warn("no api keys configured, gateway is open to every client")
	}
	interceptors := []connect.Interceptor{
		NewRecoveryInterceptor(log),
		NewLoggingInterceptor(log),
	}

	var metricsHandler http.Handler
	if cfg.Telemetry.Metrics {
		s.metrics = metric.NewRegistry()
		s.metrics.Prometheus().MustRegister(metric.NewWorldCollector(svc.Counts))
		metricsHandler = s.metrics.Handler()
		interceptors = append(interceptors, NewMetricsInterceptor(s.metrics))
	}
	interceptors = append(interceptors, auth)

	path, handler := worldv1connect.NewWorldServiceHandler(svc, connect.WithInterceptors(interceptors...))

	s.handler = httpserver.NewRouter(&httpserver.RouterConfig{
		ServicePath:        path,
		Service:            handler,
		Metrics:            metricsHandler,
		MetricsAllowList:   cfg.Telemetry.MetricsAllowList,
		Ready:              svc.Ready,
		Logger:             log,
		RateLimit:          cfg.Security.RateLimit,
		Burst:              cfg.Security.Burst,
		CORSAllowedOrigins: cfg.Security.CORSAllowedOrigins,
		EnableAudit:        cfg.Telemetry.Audit,
	})
	opts := []httpserver.Option{
		httpserver.WithTimeouts(cfg.Server.ReadHeaderTimeout, cfg.Server.IdleTimeout),
	}
	if cfg.Server.TLSCertFile != "" {
		certs, err := tlsroots.NewWatcher(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile, tlsroots.WithLogger(log))
		if err != nil {
			return nil, err
		}
		s.certs = certs
		opts = append(opts, httpserver.WithTLSConfig(certs.ServerTLS()))
	}
	s.http = httpserver.New(cfg.Server.Addr, s.handler, opts...)
	return s, nil
}

// Handler returns the full HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Service returns the world service.
func (s *Server) Service() *Service {
	return s.svc
}

// Metrics returns the metrics registry, or nil when metrics are disabled.
func (s *Server) Metrics() *metric.Registry {
	return s.metrics
}

// ListenAndServe listens on the configured address and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ln)
}

// Serve starts the fixture watcher when configured and serves on ln until
// Shutdown. It returns nil after a graceful shutdown.
func (s *Server) Serve(ln net.Listener) error {
	if s.cfg.World.Watch {
		if err := s.watch(); err != nil {
			ln.Close()
			return err
		}
	}

	s.logger.Info("gateway listening", "addr", ln.Addr().String(), "tls", s.certs != nil)

	var err error
	if s.certs != nil {
		if err := s.certs.Start(); err != nil {
			ln.Close()
			return err
		}
		err = s.http.ServeTLS(ln, "", "")
	} else {
		err = s.http.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) watch() error {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(s.logger))
	if err != nil {
		return fmt.Errorf("create fixture watcher: %w", err)
	}
	if err := w.Watch(s.cfg.World.Fixture); err != nil {
		w.Stop()
		return fmt.Errorf("watch fixture: %w", err)
	}
	w.OnChange(func(path string) {
		if err := s.svc.Reload(path); err != nil {
			s.logger.Warn("fixture reload failed, keeping previous world", "path", path, "error", err)
		}
	})
	w.StartAsync()

	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()
	return nil
}

// Shutdown stops the watcher and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	w := s.watcher
	s.mu.Unlock()
	if w != nil {
		if err := w.Stop(); err != nil {
			s.logger.Warn("stop fixture watcher", "error", err)
		}
	}
	if s.certs != nil {
		s.certs.Stop()
	}
	return s.http.Shutdown(ctx)
}
