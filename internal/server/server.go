// Package server provides the HTTP API of the chatbot.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"qabot/internal/config"
	"qabot/internal/domain"
)

// Server is the HTTP adapter around a shared, read-only chatbot.
type Server struct {
	bot      domain.Answerer
	sessions *sessions
	metrics  *Metrics
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies. The listener is
// only opened by Start, but Stop may be called at any time.
func NewServer(bot domain.Answerer, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		bot:      bot,
		sessions: newSessions(cfg.MaxSessions, cfg.SessionTTL),
		metrics:  NewMetrics(),
		logger:   logger,
	}
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Post("/api/v1/answer", s.handleAnswer)
	r.Post("/api/v1/sessions", s.handleCreateSession)
	r.Get("/api/v1/sessions/{id}", s.handleGetSession)
	r.Delete("/api/v1/sessions/{id}", s.handleDeleteSession)
	r.Post("/api/v1/sessions/{id}/messages", s.handlePostMessage)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

// Start starts the HTTP server and blocks until it stops. It returns nil
// once Stop has been called, even if Stop ran first.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
