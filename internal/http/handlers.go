package http

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

// handleReady checks the database connection so the orchestrator only routes
// traffic once SQLite is reachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ready")
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "http_requests_total %d\n", atomic.LoadInt64(&s.metrics.requests))
	fmt.Fprintf(w, "http_responses_4xx_total %d\n", atomic.LoadInt64(&s.metrics.clientErrs))
	fmt.Fprintf(w, "http_responses_5xx_total %d\n", atomic.LoadInt64(&s.metrics.serverErrs))
	fmt.Fprintf(w, "http_rate_limited_total %d\n", atomic.LoadInt64(&s.metrics.rateLimited))
	fmt.Fprintf(w, "http_unauthorized_total %d\n", atomic.LoadInt64(&s.metrics.unauthed))
	fmt.Fprintf(w, "summary_cache_entries %d\n", s.summaries.Size())
}
