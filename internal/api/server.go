// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/auth"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/dashboard"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/patrons"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/config"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/constants"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/middleware"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/reports"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles login, logout, and staff account administration.
	Auth *auth.Handler

	// Reports handles the analytical report catalog and CSV exports.
	Reports *reports.Handler

	// Dashboard handles the cached composite dashboard payload.
	Dashboard *dashboard.Handler

	// Patrons handles patron lookup and borrowing history.
	Patrons *patrons.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// Everything except login and the health probes sits behind RequireAuth:
// report output contains minors' borrowing records, which is exactly the
// data a public reporting endpoint must not leak.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", h.Auth.RegisterRoutes)

		api.Group(func(private chi.Router) {
			private.Use(middleware.RequireAuth)

			private.Route("/reports", h.Reports.RegisterRoutes)
			private.Route("/dashboard", h.Dashboard.RegisterRoutes)
			private.Route("/patrons", h.Patrons.RegisterRoutes)
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
