package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"budget/internal/cache"
	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/middleware/ratelimit"
	"budget/internal/middleware/security"
	"budget/internal/middleware/trace"
	"budget/internal/services"
)

// ServerConfig holds the knobs of the API server.
type ServerConfig struct {
	Addr               string
	CacheTTL           time.Duration
	RateLimitPerMinute int
	Logger             *applog.Logger
}

// Server exposes the ledger as a JSON API.
type Server struct {
	http.Server
	ledger services.Ledger

	totalsCache  *cache.LRUCache[[]core.CategoryTotal]
	netCache     *cache.LRUCache[float64]
	summaryCache *cache.LRUCache[core.Summary]
	caches       *cache.Manager

	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware
	detector    *security.Detector

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg ServerConfig, ledger services.Ledger) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	s := &Server{
		ledger:       ledger,
		totalsCache:  cache.NewLRUCache[[]core.CategoryTotal](8, ttl),
		netCache:     cache.NewLRUCache[float64](4, ttl),
		summaryCache: cache.NewLRUCache[core.Summary](4, ttl),
		caches:       cache.NewManager(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
		}),
		detector: security.NewDetector(),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	s.caches.Register(s.totalsCache)
	s.caches.Register(s.netCache)
	s.caches.Register(s.summaryCache)
	s.caches.StartCleanup(ttl)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("/api/", s.rateLimiter.Middleware(s.detector.ExtractClientIP, handleRateLimited)(s.apiRoutes()))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	var handler http.Handler = mux
	handler = s.detector.Middleware(handler)
	handler = headers.Middleware(handler)
	handler = s.tracer.Middleware(handler)
	handler = applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) apiRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/expenses", s.handleAddExpense)
	mux.HandleFunc("GET /api/expenses", s.handleTrackSpending)
	mux.HandleFunc("GET /api/expenses/{category}", s.handleViewExpenses)
	mux.HandleFunc("PUT /api/expenses/{category}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{category}", s.handleDeleteExpenseCategory)

	mux.HandleFunc("POST /api/income", s.handleAddIncome)
	mux.HandleFunc("POST /api/income/categories", s.handleAddIncomeCategory)
	mux.HandleFunc("GET /api/income", s.handleTrackIncome)
	mux.HandleFunc("GET /api/income/{category}", s.handleViewIncome)
	mux.HandleFunc("DELETE /api/income/{category}", s.handleDeleteIncomeCategory)

	mux.HandleFunc("GET /api/categories", s.handleViewCategories)
	mux.HandleFunc("GET /api/budget", s.handleCalculateBudget)
	mux.HandleFunc("GET /api/summary", s.handleSummary)

	mux.HandleFunc("POST /api/budgets", s.handleSetBudget)
	mux.HandleFunc("GET /api/budgets/{category}", s.handleViewBudget)

	mux.HandleFunc("POST /api/goals", s.handleSetGoal)
	mux.HandleFunc("GET /api/goals", s.handleViewGoals)
	mux.HandleFunc("PUT /api/goals/{id}", s.handleUpdateGoalProgress)

	mux.HandleFunc("GET /api/metrics", s.handleMetrics)

	return mux
}

// Shutdown stops background goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// invalidate drops every cached aggregate after a mutation.
func (s *Server) invalidate() {
	s.caches.InvalidateAll()
}

func handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	TooManyRequestsError().Write(w)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ledger.Ping(ctx); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
		ServiceUnavailableError("ledger store unavailable").Write(w)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
