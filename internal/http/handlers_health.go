package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	applog "fintrack/internal/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady checks the document is actually loadable before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, _, _, err := s.ledger.Counts(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", applog.FieldError, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleMetrics exposes counters in the Prometheus text format, without
// pulling in a client library for a handful of gauges.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	txns, incomeCats, expenseCats, err := s.ledger.Counts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed reading counts for metrics", applog.FieldError, err)
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP fintrack_http_requests_total Total HTTP requests handled.\n")
	fmt.Fprintf(w, "# TYPE fintrack_http_requests_total counter\n")
	fmt.Fprintf(w, "fintrack_http_requests_total %d\n", s.tracer.GetMetrics().TotalRequests)
	fmt.Fprintf(w, "# HELP fintrack_transactions_created_total Transactions created since start.\n")
	fmt.Fprintf(w, "# TYPE fintrack_transactions_created_total counter\n")
	fmt.Fprintf(w, "fintrack_transactions_created_total %d\n", s.createdCount())
	fmt.Fprintf(w, "# HELP fintrack_transactions Current transaction count.\n")
	fmt.Fprintf(w, "# TYPE fintrack_transactions gauge\n")
	fmt.Fprintf(w, "fintrack_transactions %d\n", txns)
	fmt.Fprintf(w, "# HELP fintrack_categories Current category count by type.\n")
	fmt.Fprintf(w, "# TYPE fintrack_categories gauge\n")
	fmt.Fprintf(w, "fintrack_categories{type=\"income\"} %d\n", incomeCats)
	fmt.Fprintf(w, "fintrack_categories{type=\"expense\"} %d\n", expenseCats)
	fmt.Fprintf(w, "# HELP fintrack_summary_cache_entries Cached summary windows.\n")
	fmt.Fprintf(w, "# TYPE fintrack_summary_cache_entries gauge\n")
	fmt.Fprintf(w, "fintrack_summary_cache_entries %d\n", s.summaryCache.Size())
	fmt.Fprintf(w, "# HELP fintrack_ratelimit_rejections_total Requests rejected by the rate limiter.\n")
	fmt.Fprintf(w, "# TYPE fintrack_ratelimit_rejections_total counter\n")
	fmt.Fprintf(w, "fintrack_ratelimit_rejections_total %d\n", s.rateLimiter.TotalHits())
	fmt.Fprintf(w, "# HELP fintrack_uptime_seconds Seconds since the server started.\n")
	fmt.Fprintf(w, "# TYPE fintrack_uptime_seconds gauge\n")
	fmt.Fprintf(w, "fintrack_uptime_seconds %d\n", int64(time.Since(s.startedAt).Seconds()))
}
