package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"dailyreader/internal/archive"
	"dailyreader/internal/config"
	"dailyreader/internal/digest"
	"dailyreader/internal/monitoring"
	"dailyreader/internal/tracker"
)

// Runner triggers one digest run. Satisfied by *digest.Runner.
type Runner interface {
	Run(ctx context.Context) (*digest.Report, error)
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	config     *config.Config
	router     http.Handler
	httpServer *http.Server
	runner     Runner
	store      tracker.Store
	archive    archive.Archive
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, r Runner, store tracker.Store, ar archive.Archive, m *monitoring.Metrics, l *zap.Logger) *Server {
	s := &Server{
		config:  cfg,
		runner:  r,
		store:   store,
		archive: ar,
		metrics: m,
		logger:  l,
	}
	s.router = s.setupRouter()
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.config.ServerPort),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // a triggered run scrapes, summarizes and sends inline
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
