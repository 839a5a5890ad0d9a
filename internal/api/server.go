// Package api serves the analytics engines over HTTP for the dashboard.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/wonny/soccer-analytics/pkg/config"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

// Server is the dashboard backend. Every endpoint is a read, so writes
// only need to outlast the slowest batch (power rankings of a full league).
// ⭐ SSOT: API server settings live in this file only
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
	env        string
}

// New builds a server listening on cfg.Port
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: log.Module("api"),
		env:    cfg.Env,
	}
}

// Start listens on the configured address and blocks until Shutdown
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(l)
}

// Serve answers requests on l until Shutdown. A closed server is not an error.
func (s *Server) Serve(l net.Listener) error {
	s.logger.WithFields(map[string]interface{}{
		"addr": l.Addr().String(),
		"env":  s.env,
	}).Info("Serving soccer analytics API")

	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve api: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx ends
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Draining API requests")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown api: %w", err)
	}
	return nil
}
