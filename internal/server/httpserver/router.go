package httpserver

import (
	"log/slog"
	"net/http"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// ServicePath and Service are the connect mount point and handler.
	ServicePath string
	Service     http.Handler

	// Metrics serves /metrics; nil leaves the endpoint unmounted.
	Metrics http.Handler

	// MetricsAllowList is the IP/CIDR allowlist for /metrics (empty = no restriction).
	MetricsAllowList []string

	// Ready reports readiness; nil means always ready.
	Ready func() error

	Logger *slog.Logger

	// RateLimit is requests/second per client IP on the service; 0 disables it.
	RateLimit float64
	Burst     int

	// CORSAllowedOrigins enables CORS on the service when non-empty.
	CORSAllowedOrigins []string

	// EnableAudit logs every service request.
	EnableAudit bool
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Logger:      slog.Default(),
		RateLimit:   200,
		Burst:       400,
		EnableAudit: true,
	}
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	mux := http.NewServeMux()

	health := &healthHandler{ready: cfg.Ready}
	mux.Handle("GET /health", Chain(http.HandlerFunc(health.handleHealth), Recover(log), RequestID()))
	mux.Handle("GET /ready", Chain(http.HandlerFunc(health.handleReady), Recover(log), RequestID()))

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics,
			Recover(log),
			RequestID(),
			NetworkACL(cfg.MetricsAllowList, log),
		))
	}

	if cfg.Service != nil {
		// Order: Recover -> RequestID -> CORS -> RateLimit -> Audit -> Service
		middlewares := []Middleware{Recover(log), RequestID()}
		if len(cfg.CORSAllowedOrigins) > 0 {
			middlewares = append(middlewares, CORS(cfg.CORSAllowedOrigins))
		}
		if cfg.RateLimit > 0 {
			middlewares = append(middlewares, RateLimit(cfg.RateLimit, cfg.Burst))
		}
		if cfg.EnableAudit {
			middlewares = append(middlewares, Audit(log))
		}
		mux.Handle(cfg.ServicePath, Chain(cfg.Service, middlewares...))
	}

	return mux
}
