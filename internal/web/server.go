// Package web provides the HTTP API of the catalog service.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/bizdir/internal/config"
	"github.com/JonMunkholm/bizdir/internal/core"
	"github.com/JonMunkholm/bizdir/internal/logging"
	"github.com/JonMunkholm/bizdir/internal/web/middleware"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP server of the catalog service.
type Server struct {
	service *core.Service
	cfg     *config.Config
	health  Pinger
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a Server. health may be nil, in which case /healthz only
// reports liveness.
func NewServer(service *core.Service, cfg *config.Config, health Pinger) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		health:  health,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := middleware.NewRateLimiter(s.cfg.Rate.RequestsPerMinute, s.cfg.Rate.Burst)
		s.router.Use(limiter.Middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if s.cfg.Server.RequestTimeout > 0 {
				r.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
			}
			r.Get("/schemas", s.handleListSchemas)
			r.Get("/template/{kind}", s.handleDownloadTemplate)

			// Directory browsing
			r.Get("/search", s.handleSearch)
			r.Get("/categories", s.handleListCategories)
			r.Get("/categories/{categoryID}/companies", s.handleBrowseCategory)
			r.Get("/companies/{companyID}/products", s.handleListProducts)
		})

		// Imports are bounded by the import timeout instead of the request timeout.
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(s.cfg.Security))
			if s.cfg.Rate.Enabled {
				r.Use(middleware.NewRateLimiter(s.cfg.Rate.UploadLimit, 0).Middleware)
			}
			r.Post("/import/{kind}", s.handleImport)
			r.Post("/import/{kind}/preview", s.handlePreview)
			r.Get("/imports", s.handleListImports)
		})
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
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

// securityHeaders adds hardening headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				h.Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data: https:; frame-ancestors 'none'")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
