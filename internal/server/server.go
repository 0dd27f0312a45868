// Package server provides the HTTP API for mdindex.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/mdindex/internal/config"
	"github.com/hyperjump/mdindex/internal/search"
	"go.uber.org/zap"
)

// Server is the HTTP server for the mdindex API.
type Server struct {
	engine     *search.Engine
	config     *config.ServerConfig
	defaultDir string
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates a server. defaultDir is used by requests that name no directory;
// when empty, such requests are rejected.
func NewServer(engine *search.Engine, cfg *config.ServerConfig, defaultDir string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:     engine,
		config:     cfg,
		defaultDir: defaultDir,
		logger:     logger,
	}
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/search/tags", s.handleSearchTags)
		r.Post("/search/dates", s.handleSearchDates)
		r.Get("/files", s.handleListFiles)
		r.Get("/stats", s.handleStats)
		r.Get("/document", s.handleGetDocument)
		r.Get("/document/html", s.handleGetDocumentHTML)
		r.Post("/headings", s.handleHeadings)
		r.Post("/frontmatter", s.handleFrontmatter)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
