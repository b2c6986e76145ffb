package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/worldsync/internal/core/domain"
	"github.com/yndnr/worldsync/internal/telemetry/logger"
)

// HeaderRequestID is the request id header, shared with the remote client.
const HeaderRequestID = "X-Request-Id"

type contextKey string

// ContextKeyStartTime is the context key for request start time.
const ContextKeyStartTime contextKey = "start_time"

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together. The first runs outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID keeps the caller's request id or assigns a ULID, and stores
// it in the context for logging.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID = ulid.Make().String()
			}
			w.Header().Set(HeaderRequestID, requestID)

			ctx := logger.WithRequestID(r.Context(), requestID)
			ctx = context.WithValue(ctx, ContextKeyStartTime, time.Now())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit applies a token bucket per client IP. Buckets idle for ten
// minutes are dropped.
func RateLimit(rps float64, burst int) Middleware {
	return rateLimit(rps, burst, 10*time.Minute)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func rateLimit(rps float64, burst int, idleTTL time.Duration) Middleware {
	var (
		mu        sync.Mutex
		visitors  = make(map[string]*visitor)
		lastSweep = time.Now()
	)

	get := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if now.Sub(lastSweep) > idleTTL {
			for k, v := range visitors {
				if now.Sub(v.lastSeen) > idleTTL {
					delete(visitors, k)
				}
			}
			lastSweep = now
		}

		v, ok := visitors[ip]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			visitors[ip] = v
		}
		v.lastSeen = now
		return v.limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !get(getClientIP(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, domain.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Audit logs one line per request.
func Audit(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			startTime, ok := r.Context().Value(ContextKeyStartTime).(time.Time)
			if !ok {
				startTime = time.Now()
			}
			attrs := []any{
				"request_id", logger.RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(startTime).Milliseconds(),
				"client_ip", getClientIP(r),
			}

			switch {
			case wrapped.statusCode >= 500:
				log.Error("request completed with error", attrs...)
			case wrapped.statusCode >= 400:
				log.Warn("request completed with client error", attrs...)
			default:
				log.Info("request completed", attrs...)
			}
		})
	}
}

// Recover recovers from panics and returns 500.
func Recover(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("panic recovered",
						"request_id", logger.RequestIDFromContext(r.Context()),
						"error", err,
						"path", r.URL.Path,
					)
					writeError(w, http.StatusInternalServerError, domain.ErrInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// NetworkACL rejects clients outside allowList. An empty list allows all.
// Invalid entries are logged and skipped.
func NetworkACL(allowList []string, log *slog.Logger) Middleware {
	var networks []*net.IPNet
	for _, entry := range allowList {
		if !strings.Contains(entry, "/") {
			if ip := net.ParseIP(entry); ip != nil {
				bits := 8 * len(ip.To16())
				if ip.To4() != nil {
					ip, bits = ip.To4(), 32
				}
				networks = append(networks, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
				continue
			}
			log.Warn("invalid IP in allowlist", "entry", entry)
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			log.Warn("invalid CIDR in allowlist", "entry", entry, "error", err)
			continue
		}
		networks = append(networks, ipNet)
	}

	return func(next http.Handler) http.Handler {
		if len(allowList) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)
			if ip := net.ParseIP(clientIP); ip != nil {
				for _, n := range networks {
					if n.Contains(ip) {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			log.Warn("request denied by network ACL", "client_ip", clientIP, "path", r.URL.Path)
			writeError(w, http.StatusForbidden, domain.ErrForbidden)
		})
	}
}

// CORS adds Cross-Origin Resource Sharing headers.
func CORS(allowedOrigins []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := len(allowedOrigins) == 0
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					allowed = true
					break
				}
			}

			if allowed && origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers",
					"Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms, "+HeaderRequestID)
				w.Header().Set("Access-Control-Max-Age", "86400")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// writeError writes a JSON error body carrying the domain error code.
func writeError(w http.ResponseWriter, status int, err *domain.DomainError) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", err.Code)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    err.Code,
		"message": err.Message,
	})
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
