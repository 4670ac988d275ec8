package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"spyglass-hq/spyglass/pkg/config"
	"spyglass-hq/spyglass/pkg/logquery"
	"spyglass-hq/spyglass/pkg/server/middleware"
	"spyglass-hq/spyglass/pkg/telemetry/health"
	"spyglass-hq/spyglass/pkg/telemetry/metrics"
)

// Server is the Spyglass HTTP server. It exposes the metrics exposition
// endpoint, the admin log endpoints, and health probes, with every
// request flowing through the instrumentation middleware chain.
type Server struct {
	config    *config.Config
	collector *metrics.Collector
	logs      *logquery.Handler
	checker   *health.Checker
	logger    *slog.Logger

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a server. The collector and log handler are shared with
// the rest of the process; the server does not own them.
func New(cfg *config.Config, collector *metrics.Collector, logs *logquery.Handler, checker *health.Checker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if checker == nil {
		checker = health.New(0)
	}
	return &Server{
		config:    cfg,
		collector: collector,
		logs:      logs,
		checker:   checker,
		logger:    logger.With("component", "server"),
	}
}

// Start starts the HTTP server and blocks until the context is
// cancelled, a shutdown signal arrives, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        s.Handler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", s.config.Server.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server, letting in-flight requests
// finish within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is accepting requests.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler with the full middleware
// chain applied. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Exposition endpoint, scraped unauthenticated by the metrics
	// backend
	mux.Handle("/metrics", s.collector.Handler())

	// Admin log endpoints
	adminAuth := middleware.AdminAuth(s.config.Auth.AdminSecret)
	mux.Handle("/logs", adminAuth(http.HandlerFunc(s.logs.ServeHTML)))
	mux.Handle("/logs/json", adminAuth(http.HandlerFunc(s.logs.ServeJSON)))

	// Health probes
	mux.Handle("/healthz", s.checker.LivenessHandler())
	mux.Handle("/readyz", s.checker.ReadinessHandler())

	// Middleware chain, innermost first. Recovery sits inside Metrics
	// so a panicked request is recorded as a 500 before the gauge is
	// released.
	var handler http.Handler = mux
	handler = middleware.Recovery(handler)
	handler = middleware.Metrics(s.collector)(handler)
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
