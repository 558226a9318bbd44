// Package server provides the HTTP server and routing for the wealth tracker.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/nravi/wealthtrack/internal/auth"
	"github.com/nravi/wealthtrack/internal/config"
	"github.com/nravi/wealthtrack/internal/modules/catalog"
	"github.com/nravi/wealthtrack/internal/modules/dashboard"
	"github.com/nravi/wealthtrack/internal/modules/fxrates"
	"github.com/nravi/wealthtrack/internal/modules/goals"
	"github.com/nravi/wealthtrack/internal/modules/liabilities"
	"github.com/nravi/wealthtrack/internal/modules/transactions"
	"github.com/nravi/wealthtrack/internal/modules/users"
	"github.com/nravi/wealthtrack/internal/modules/valuations"
)

// Handlers bundles the module handlers the router mounts.
type Handlers struct {
	Dashboard    *dashboard.Handler
	Transactions *transactions.Handler
	Valuations   *valuations.Handler
	Liabilities  *liabilities.Handler
	FxRates      *fxrates.Handler
	Catalog      *catalog.Handler
	Goals        *goals.Handler
	Users        *users.Handler
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	cfg    *config.Config
}

// New creates a new HTTP server and mounts all routes.
func New(cfg *config.Config, handlers Handlers, log zerolog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    log.With().Str("component", "server").Logger(),
		cfg:    cfg,
	}

	s.setupMiddleware()
	s.setupRoutes(handlers)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if !s.cfg.DevMode {
		s.router.Use(middleware.Compress(5))
	}
}

func (s *Server) setupRoutes(handlers Handlers) {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		handlers.Users.RegisterAuthRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware([]byte(s.cfg.JWTSecret), s.log))

			handlers.Users.RegisterRoutes(r)
			handlers.Dashboard.RegisterRoutes(r)
			handlers.Transactions.RegisterRoutes(r)
			handlers.Valuations.RegisterRoutes(r)
			handlers.Liabilities.RegisterRoutes(r)
			handlers.FxRates.RegisterRoutes(r)
			handlers.Catalog.RegisterRoutes(r)
			handlers.Goals.RegisterRoutes(r)
		})
	})
}

// loggingMiddleware emits one structured line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request")
	})
}

// Start begins listening. It blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("HTTP server listening")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router exposes the mux for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
