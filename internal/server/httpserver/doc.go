// Package httpserver provides the HTTP/HTTPS front of the worldsync gateway.
//
// The router mounts:
//
//   - The connect WorldService under /worldsync.v1.WorldService/
//   - Health endpoints: /health, /ready
//   - Prometheus metrics: /metrics (optionally IP restricted)
//
// Middleware chain: Recover, RequestID, CORS, RateLimit, Audit.
// Authentication is enforced by connect interceptors, not here.
package httpserver
