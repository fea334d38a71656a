// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.

The API splits into two timeout regimes: the browse surface answers within
the global request timeout, while content ingestion routes carry base64 image
payloads and run under the extended write timeout.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/plcastro/mangario/internal/core/chapter"
	"github.com/plcastro/mangario/internal/core/content"
	"github.com/plcastro/mangario/internal/core/manga"
	"github.com/plcastro/mangario/internal/platform/config"
	"github.com/plcastro/mangario/internal/platform/constants"
	"github.com/plcastro/mangario/internal/platform/middleware"
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
// New domains add a field here; no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler, always 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when all dependencies are healthy.
	Readiness http.HandlerFunc

	// Manga serves the catalogue browse surface.
	Manga *manga.Handler

	// Chapter serves chapter metadata and the reader's page listings.
	Chapter *chapter.Handler

	// Content serves ingestion, reordering and deletion.
	Content *content.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. The uploadRoot directory is served read-only
// under /uploads so stored page images and covers resolve by reference.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Image Delivery
	// Blob references returned by the API resolve under this prefix.
	fileServer := http.FileServer(http.Dir(cfg.UploadRoot))
	r.With(chimw.Timeout(constants.GlobalRequestTimeout)).
		Handle(constants.UploadsURLPrefix+"/*", http.StripPrefix(constants.UploadsURLPrefix, fileServer))

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {

		// Browse surface, bounded by the global request timeout.
		api.Group(func(read chi.Router) {
			read.Use(chimw.Timeout(constants.GlobalRequestTimeout))
			h.Manga.RegisterRoutes(read)
			h.Chapter.RegisterRoutes(read)
		})

		// Ingestion surface, bounded by the extended write timeout.
		api.Group(func(write chi.Router) {
			write.Use(chimw.Timeout(constants.ContentWriteTimeout))
			h.Content.RegisterRoutes(write)
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
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
