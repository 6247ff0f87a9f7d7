// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and the domain
handlers of one binary into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - Every binary (gateway and services) builds its server through [NewServer],
    so all of them share the same middleware chain and probes.
  - Only this package and cmd/* are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/socialnet/internal/platform/constants"
	"github.com/taibuivan/socialnet/internal/platform/middleware"
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

// Options holds the per-binary server settings.
type Options struct {
	// Port is the TCP port to listen on.
	Port string

	// CORS decides the accepted origins.
	CORS middleware.AppConfig

	// RateLimiter is mounted for public-facing binaries only.
	RateLimiter *middleware.RateLimiter
}

// # Handler Registry

// Handlers groups the probes and the domain routes of one binary.
type Handlers struct {
	// Liveness is the /health handler, always 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when all checks pass.
	Readiness http.HandlerFunc

	// Routes mounts the domain routes at the root.
	Routes func(router chi.Router)
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers the probes and domain routes.
func NewServer(log *slog.Logger, options Options, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	if options.RateLimiter != nil {
		r.Use(options.RateLimiter.Handler)
	}
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(options.CORS))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	if h.Routes != nil {
		h.Routes(r)
	}

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + options.Port,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
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

// RegisterOnShutdown runs f when Shutdown starts, e.g. to close hijacked connections.
func (s *Server) RegisterOnShutdown(f func()) {
	s.httpServer.RegisterOnShutdown(f)
}
