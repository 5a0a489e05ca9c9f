package http

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// appMetrics holds the counters exposed on /metrics.
type appMetrics struct {
	requests    int64
	clientErrs  int64
	serverErrs  int64
	rateLimited int64
	unauthed    int64
}

// trustedNets are the source networks allowed to set forwarding headers.
// Anything else gets its socket address as the client IP.
var trustedNets = func() []*net.IPNet {
	cidrs := []string{"127.0.0.0/8", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic("bad trusted proxy cidr " + c)
		}
		nets = append(nets, n)
	}
	return nets
}()

func fromTrustedProxy(ip net.IP) bool {
	for _, n := range trustedNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// clientIP resolves the requester's address, honoring X-Forwarded-For and
// X-Real-IP only when the direct peer is a trusted proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	peer := net.ParseIP(host)
	if peer == nil || !fromTrustedProxy(peer) {
		return host
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}
	return host
}

func newRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "req_unknown"
	}
	return "req_" + hex.EncodeToString(buf)
}

// responseWriter captures the status code for logging and metrics.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// withSecurity wraps every route with request logging, security headers, and
// rate limiting on mutating methods.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := newRequestID()
		ip := clientIP(r)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")

		atomic.AddInt64(&s.metrics.requests, 1)

		if isMutating(r.Method) && !s.limiter.allow(ip, s.metrics) {
			slog.WarnContext(r.Context(), "Rate limit exceeded",
				"request_id", reqID, "client_ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		slog.InfoContext(r.Context(), "Request started",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"client_ip", ip)

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		switch {
		case rw.status >= 500:
			atomic.AddInt64(&s.metrics.serverErrs, 1)
		case rw.status >= 400:
			atomic.AddInt64(&s.metrics.clientErrs, 1)
		}

		slog.InfoContext(r.Context(), "Request completed",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// withAuth guards the API routes with the static x-auth-token header.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiToken != "" && r.Header.Get("x-auth-token") != s.apiToken {
			atomic.AddInt64(&s.metrics.unauthed, 1)
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next(w, r)
	}
}
