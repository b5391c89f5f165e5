package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"expensetracker/internal/ledger"
	applog "expensetracker/internal/log"
	"expensetracker/internal/metrics"
	"expensetracker/internal/middleware/ratelimit"
	"expensetracker/internal/middleware/security"
	"expensetracker/internal/middleware/trace"
)

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes the server. The zero value is usable.
type Options struct {
	Logger             *applog.Logger
	Pinger             Pinger
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	router      chi.Router
	ledger      ledger.Ledger
	pinger      Pinger
	logger      *applog.Logger
	rateLimiter *ratelimit.Limiter
	ipResolver  *security.IPResolver
	started     time.Time

	shutdownOnce sync.Once
}

// NewServer wires the expense API around l.
func NewServer(addr string, l ledger.Ledger, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	s := &Server{
		ledger:      l,
		pinger:      opts.Pinger,
		logger:      logger.WithComponent(applog.ComponentHTTP),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		ipResolver:  security.NewIPResolver(),
		started:     time.Now(),
	}

	tracer := trace.NewMiddleware(logger, s.ipResolver.ClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(tracer.Handler)
	r.Use(headers.Middleware)
	r.Use(s.rateLimiter.Middleware(s.ipResolver.ClientIP, s.handleRateLimited, http.MethodPost))

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Post("/expenses", s.handleRecordExpense)
	r.Get("/expenses/{date}", s.handleExpensesOn)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", metrics.Handler())

	s.router = r
	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops background work and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
	})
	return s.Server.Shutdown(ctx)
}

var routeMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// allowedMethods lists the methods that have a route for path.
func (s *Server) allowedMethods(path string) []string {
	var allowed []string
	for _, m := range routeMethods {
		if s.router.Match(chi.NewRouteContext(), m, path) {
			allowed = append(allowed, m)
		}
	}
	return allowed
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", strings.Join(s.allowedMethods(r.URL.Path), ", "))
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).Warn("Rate limit exceeded",
		applog.FieldClientIP, s.ipResolver.ClientIP(r),
		applog.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
}
