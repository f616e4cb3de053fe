// Package server wires the HTTP API: analysis and chat endpoints for
// the advisor client, plus the credentials, profile and news routes
// backing the dashboard.
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

	"github.com/stockai/advisor/internal/config"
	"github.com/stockai/advisor/internal/modules/agents"
	"github.com/stockai/advisor/internal/modules/chat"
	"github.com/stockai/advisor/internal/modules/credentials"
	"github.com/stockai/advisor/internal/modules/market"
	"github.com/stockai/advisor/internal/modules/newsfeed"
	"github.com/stockai/advisor/internal/modules/profile"
)

// Deps are the services the HTTP layer exposes
type Deps struct {
	Log         zerolog.Logger
	Config      *config.Config
	Resolver    *market.Resolver
	Market      *market.Service
	Fundamental *agents.FundamentalAgent
	Technical   *agents.TechnicalAgent
	Risk        *agents.RiskAgent
	Sentiment   *agents.SentimentAgent
	News        *agents.NewsAgent
	Advisor     *agents.AdvisorAgent
	Chat        *chat.Service
	Feed        *newsfeed.Service
	Credentials *credentials.Repository
	Profile     *profile.Repository
}

// Server represents the HTTP server
type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     zerolog.Logger
	deps    Deps
	started time.Time
}

// New creates a new HTTP server
func New(deps Deps) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		log:     deps.Log.With().Str("component", "server").Logger(),
		deps:    deps,
		started: time.Now(),
	}

	s.setupMiddleware(deps.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", deps.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// LLM-backed analyses can run long, so the timeout is generous
	s.router.Use(middleware.Timeout(120 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/chat", s.handleChat)

		r.Get("/news", s.handleNews)

		r.Route("/credentials", func(r chi.Router) {
			r.Get("/", s.handleGetCredentials)
			r.Put("/", s.handleUpdateCredentials)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", s.handleGetProfile)
			r.Put("/", s.handleUpdateProfile)
		})

		// System
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.handleSystemStatus)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.deps.Config.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler returns the router, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// loggingMiddleware logs HTTP requests
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
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
