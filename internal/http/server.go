// Package http exposes the ledger over a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/middleware/cors"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/trace"
)

// Server wraps http.Server with the ledger service and its caches.
type Server struct {
	http.Server
	ledger      *ledger.Service
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware

	// Summaries are cheap to compute but hit on every dashboard refresh,
	// so they get a short-lived cache keyed by window.
	summaryCache *cache.LRUCache[core.Summary]
	cacheManager *cache.Manager

	startedAt    time.Time
	txnsCreated  int64
	shutdownOnce sync.Once
}

// Options tunes server behaviour. Zero values fall back to defaults.
type Options struct {
	CORS         cors.Config
	RateLimit    ratelimit.Config
	SummaryTTL   time.Duration
	CacheCleanup time.Duration
}

// DefaultOptions returns the options used when none are provided.
func DefaultOptions() Options {
	return Options{
		CORS:         cors.DefaultConfig(),
		RateLimit:    ratelimit.DefaultConfig(),
		SummaryTTL:   30 * time.Second,
		CacheCleanup: 10 * time.Minute,
	}
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc *ledger.Service, opts Options) *Server {
	if opts.SummaryTTL <= 0 {
		opts.SummaryTTL = DefaultOptions().SummaryTTL
	}
	if opts.CacheCleanup <= 0 {
		opts.CacheCleanup = DefaultOptions().CacheCleanup
	}
	if opts.CORS.AllowedOrigin == "" {
		opts.CORS = cors.DefaultConfig()
	}

	s := &Server{
		ledger:       svc,
		rateLimiter:  ratelimit.NewLimiter(opts.RateLimit),
		tracer:       trace.NewMiddleware(nil),
		summaryCache: cache.NewLRUCache[core.Summary](8, opts.SummaryTTL),
		cacheManager: cache.NewManager(),
		startedAt:    time.Now(),
	}
	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(opts.CacheCleanup)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("POST /api/transactions/add", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/income-categories", s.handleIncomeCategories)
	mux.HandleFunc("GET /api/expense-categories", s.handleExpenseCategories)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	var handler http.Handler = mux
	handler = s.rateLimiter.Handler(trace.ClientIP, handler)
	handler = cors.Handler(opts.CORS, handler)
	handler = s.tracer.Handler(handler)

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// invalidateSummaries drops cached summaries after any mutation.
func (s *Server) invalidateSummaries() {
	s.summaryCache.Purge()
}

// Shutdown stops background cleanup goroutines before closing the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) recordCreated() {
	atomic.AddInt64(&s.txnsCreated, 1)
}

func (s *Server) createdCount() int64 {
	return atomic.LoadInt64(&s.txnsCreated)
}
