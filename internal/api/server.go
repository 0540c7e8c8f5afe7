package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ServerConfig holds listener settings for identityd
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080"
	Addr string

	// ReadTimeout and WriteTimeout bound a single request cycle.
	// The write timeout is roomier because register and login spend
	// real time in bcrypt before answering.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// ShutdownGrace is how long in-flight requests get to finish once
	// shutdown begins
	ShutdownGrace time.Duration
}

// DefaultServerConfig returns the development defaults
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:          ":8080",
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  20 * time.Second,
		ShutdownGrace: 15 * time.Second,
	}
}

// Server runs the identity HTTP listener with graceful shutdown
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	grace      time.Duration
}

// NewServer wraps the handler in a configured listener
func NewServer(handler http.Handler, cfg ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
		grace:  cfg.ShutdownGrace,
	}
}

// Start listens until the server is shut down or fails
func (s *Server) Start() error {
	s.logger.Info("identity service listening", slog.String("addr", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("identity server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the grace period
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("identity service draining")

	drainCtx, cancel := context.WithTimeout(ctx, s.grace)
	defer cancel()

	if err := s.httpServer.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("identity server shutdown: %w", err)
	}
	return nil
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
