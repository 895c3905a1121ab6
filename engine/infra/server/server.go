package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/compozy/pdftab/engine/batch"
	"github.com/compozy/pdftab/engine/infra/monitoring"
	"github.com/compozy/pdftab/pkg/config"
	"github.com/compozy/pdftab/pkg/logger"
)

const (
	serverShutdownTimeout = 5 * time.Second
	httpIdleTimeout       = 60 * time.Second
)

// Server exposes the conversion pipeline over HTTP. Conversions run one at a
// time; concurrent requests wait for the running one to finish.
type Server struct {
	serverConfig *config.ServerConfig
	runner       *batch.Runner
	monitoring   *monitoring.Service
	router       *gin.Engine
	runMu        sync.Mutex
}

// NewServer builds the router from the configuration attached to ctx.
func NewServer(ctx context.Context, runner *batch.Runner, mon *monitoring.Service) (*Server, error) {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, fmt.Errorf("configuration missing from context; attach a manager with config.ContextWithManager")
	}
	if runner == nil {
		return nil, fmt.Errorf("batch runner is required")
	}
	s := &Server{
		serverConfig: &cfg.Server,
		runner:       runner,
		monitoring:   mon,
	}
	s.router = s.buildRouter(ctx)
	return s, nil
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled or the process receives SIGINT/SIGTERM.
func (s *Server) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	srv := s.createHTTPServer(ctx)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-quit:
		log.Debug("Received shutdown signal, initiating graceful shutdown")
	case <-ctx.Done():
		log.Debug("Context canceled, initiating graceful shutdown")
	}
	return s.shutdown(ctx, srv)
}

func (s *Server) createHTTPServer(ctx context.Context) *http.Server {
	addr := s.serverConfig.FullAddress()
	logger.FromContext(ctx).Info("Starting HTTP server", "address", fmt.Sprintf("http://%s", addr))
	return &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.serverConfig.Timeout,
		WriteTimeout: s.serverConfig.Timeout,
		IdleTimeout:  httpIdleTimeout,
	}
}

func (s *Server) shutdown(ctx context.Context, srv *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), serverShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if s.monitoring != nil {
		if err := s.monitoring.Shutdown(shutdownCtx); err != nil {
			logger.FromContext(ctx).Warn("Monitoring shutdown failed", "error", err)
		}
	}
	logger.FromContext(ctx).Info("Server shutdown completed successfully")
	return nil
}
