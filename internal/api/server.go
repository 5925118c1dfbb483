// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/opensource-finance/frictrak/internal/analyzer"
	"github.com/opensource-finance/frictrak/internal/domain"
	"github.com/opensource-finance/frictrak/internal/worker"
)

// Server is the HTTP front of the analyzer.
type Server struct {
	router  *chi.Mux
	handler *Handler
	server  *http.Server
	config  domain.ServerConfig
}

// NewServer wires routes and middleware around an analyzer.
func NewServer(cfg domain.ServerConfig, repo domain.Repository, cache domain.Cache, bus domain.EventBus, an *analyzer.Analyzer, version string, logger *slog.Logger) *Server {
	handler := NewHandler(repo, cache, bus, an, version, logger)
	router := chi.NewRouter()

	router.Use(CORSMiddleware)
	router.Use(RecoverMiddleware)
	router.Use(TracingMiddleware)
	router.Use(LoggingMiddleware(handler.logger))
	router.Use(middleware.RealIP)
	router.Use(middleware.Compress(5))

	router.Get("/health", handler.Health)
	router.Get("/ready", handler.Ready)

	router.Group(func(r chi.Router) {
		r.Use(TenantMiddleware)

		r.Post("/analyze", handler.Analyze)
		r.Post("/analyze/statement", handler.AnalyzeStatement)
		r.Post("/classify", handler.Classify)
		r.Post("/score", handler.Score)

		r.Get("/lenders", handler.ListLenders)
		r.Get("/rules", handler.ListRules)

		r.Get("/analyses", handler.ListAnalyses)
		r.Get("/analyses/{id}", handler.GetAnalysis)
		r.Get("/exposure", handler.Exposure)
	})

	return &Server{
		router:  router,
		handler: handler,
		config:  cfg,
	}
}

// AttachWorker enables ?async=true on the analyze routes. Batches are
// handed to w, which routes them to its tenant or global subscription.
func (s *Server) AttachWorker(w *worker.Worker) {
	s.handler.worker = w
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router exposes the mux for httptest.
func (s *Server) Router() http.Handler {
	return s.router
}
