// Package server provides the HTTP server of the dashboard: chi routing, the
// middleware stack and graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giygas/drugs-eda/config"
	"github.com/giygas/drugs-eda/dashboard"
	"github.com/giygas/drugs-eda/handlers"
	"github.com/giygas/drugs-eda/interfaces"
	"github.com/giygas/drugs-eda/logging"
	"github.com/giygas/drugs-eda/metrics"
	"github.com/giygas/drugs-eda/validation"
)

// Server represents the HTTP server
type Server struct {
	server    *http.Server
	router    chi.Router
	dataStore interfaces.DataStore
	handler   interfaces.HTTPHandler
	limiter   *RateLimiter
	config    *config.Config

	// ctx bounds the background work of the server
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new server instance serving the table held by dataStore
func NewServer(cfg *config.Config, dataStore interfaces.DataStore, healthChecker interfaces.HealthChecker) *Server {
	router := chi.NewRouter()

	opt := dashboard.DefaultOptions()
	if cfg.PreviewRows > 0 {
		opt.PreviewRows = cfg.PreviewRows
	}
	if cfg.TopN > 0 {
		opt.TopN = cfg.TopN
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		server: &http.Server{
			Handler:        router,
			Addr:           cfg.Address + ":" + cfg.Port,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: int(cfg.MaxHeaderSize),
		},
		router:    router,
		dataStore: dataStore,
		handler:   handlers.NewHTTPHandler(dataStore, validation.NewDataValidator(), healthChecker, opt),
		limiter:   NewRateLimiter(cfg.RateLimitRate, cfg.RateLimitCapacity),
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if s.config.Env == config.EnvProduction {
		// Before RealIPMiddleware so that the original RemoteAddr is checked
		s.router.Use(BlockDirectAccessMiddleware)
	}
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.Logger()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Metrics)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(s.limiter.Middleware)
	s.router.Use(middleware.Compress(5, "application/json", "text/html"))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handler.Index)
	s.router.Get("/api/view", s.handler.ServeView)
	s.router.Get("/api/filters", s.handler.ServeFilters)
	s.router.Get("/charts/{chart}.png", s.handler.ServeChart)
	s.router.Get("/health", s.handler.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	go s.limiter.Run(s.ctx)

	s.dataStore.SetServerStartTime(time.Now())
	logging.Info("Starting server", "address", "http://"+s.server.Addr, "env", s.config.Env.String())

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.cancel()
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")
	s.cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}
