// Package web provides the HTTP server and handlers for the register
// of information API.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/meridiangrc/roi/internal/config"
	"github.com/meridiangrc/roi/internal/incident"
	"github.com/meridiangrc/roi/internal/lei"
	custommw "github.com/meridiangrc/roi/internal/web/middleware"
	"github.com/meridiangrc/roi/internal/roi"
)

// Server is the HTTP server for the register API.
type Server struct {
	service   *roi.Service
	incidents *incident.Service
	leiClient *lei.Client
	cfg       *config.Config
	validate  *validator.Validate
	router    *chi.Mux
	server    *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service *roi.Service, incidents *incident.Service, leiClient *lei.Client, cfg *config.Config) (*Server, error) {
	s := &Server{
		service:   service,
		incidents: incidents,
		leiClient: leiClient,
		cfg:       cfg,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		router:    chi.NewRouter(),
	}

	keys, err := cfg.Security.ParseAPIKeys()
	if err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes(keys)
	return s, nil
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Security hardening
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(keys map[string]uuid.UUID) {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		r.Use(custommw.APIKeyAuth(keys))

		r.Route("/api", func(r chi.Router) {
			r.Get("/roi/templates", s.handleListTemplates)

			r.Route("/roi/{templateID}", func(r chi.Router) {
				r.Get("/", s.handleFetchTemplate)
				r.Post("/", s.handleCreateRecord)
				r.Patch("/", s.handleUpdateCell)
				r.Delete("/", s.handleDeleteRecords)
				r.Get("/validate", s.handleValidateTemplate)
				r.Get("/export", s.handleExportTemplate)
			})

			r.Get("/incidents/{incidentID}/report", s.handleIncidentReport)

			r.Post("/dora/coverage", s.handleDoraCoverage)

			r.Get("/lei/search", s.handleLEISearch)
		})
	})
}

// handleHealth reports liveness. It sits above authentication so load
// balancers can probe it.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// rateLimiter implements a simple token bucket rate limiter per client.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // requests per window
	window   time.Duration // time window
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a rate limiter with the specified rate per window.
func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
	// Start cleanup goroutine
	go rl.cleanup()
	return rl
}

// cleanup removes stale visitor entries every minute.
func (rl *rateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for key, v := range rl.visitors {
			if time.Since(v.lastReset) > rl.window*2 {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		rl.visitors[key] = &visitor{
			tokens:    rl.rate - 1, // consume one token
			lastReset: time.Now(),
		}
		return true
	}

	// Reset tokens if window has passed
	if time.Since(v.lastReset) > rl.window {
		v.tokens = rl.rate - 1
		v.lastReset = time.Now()
		return true
	}

	if v.tokens <= 0 {
		return false
	}

	v.tokens--
	return true
}

// middleware returns an HTTP middleware that rate limits by client IP.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		// RealIP middleware rewrites RemoteAddr when behind a proxy
		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			key = realIP
		}

		if !rl.allow(key) {
			w.Header().Set("Retry-After", "60")
			writeErrorCode(w, http.StatusTooManyRequests, "RATE_LIMITED",
				"Too many requests", "Slow down and retry after a minute")
			return
		}

		next.ServeHTTP(w, r)
	})
}
