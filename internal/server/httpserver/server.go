package httpserver

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
}

// Option configures a Server.
type Option func(*http.Server)

// WithTimeouts sets the header read and idle timeouts.
func WithTimeouts(readHeader, idle time.Duration) Option {
	return func(s *http.Server) {
		s.ReadHeaderTimeout = readHeader
		s.IdleTimeout = idle
	}
}

// WithTLSConfig sets the TLS configuration used by ServeTLS. With
// GetCertificate set, ServeTLS takes empty file names.
func WithTLSConfig(tc *tls.Config) Option {
	return func(s *http.Server) { s.TLSConfig = tc }
}

// New creates a new HTTP server.
func New(addr string, handler http.Handler, opts ...Option) *Server {
	hs := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(hs)
	}
	return &Server{httpServer: hs, handler: handler}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// ServeTLS accepts TLS connections on ln.
func (s *Server) ServeTLS(ln net.Listener, certFile, keyFile string) error {
	return s.httpServer.ServeTLS(ln, certFile, keyFile)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
