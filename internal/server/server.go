// Package server exposes the session, schema, and question pipeline over a
// JSON HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/intellisql/intellisql/internal/config"
	"github.com/intellisql/intellisql/internal/filestore"
	"github.com/intellisql/intellisql/internal/logger"
	"github.com/intellisql/intellisql/internal/session"
)

// Server wires the session manager and optional object store behind HTTP
// handlers.
type Server struct {
	cfg   *config.Config
	log   *logger.Logger
	mgr   *session.Manager
	store filestore.Store // nil when attach-from-bucket is disabled

	httpServer *http.Server
}

// New creates a Server. store may be nil; the attach endpoint then accepts
// local paths only.
func New(cfg *config.Config, log *logger.Logger, mgr *session.Manager, store filestore.Store) *Server {
	s := &Server{
		cfg:   cfg,
		log:   log,
		mgr:   mgr,
		store: store,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/attach", s.handleAttach)
		r.Post("/detach", s.handleDetach)
		r.Get("/session", s.handleSession)
		r.Get("/schema", s.handleSchema)
		r.Get("/prompt", s.handlePrompt)
		r.Get("/examples", s.handleExamples)
		r.Post("/ask", s.handleAsk)
		r.Post("/query", s.handleQuery)
		r.Post("/export", s.handleExportCSV)
	})

	return r
}

// Start begins serving. It blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.log.Infof("listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and detaches the current session.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.mgr.Detach()
	return err
}
