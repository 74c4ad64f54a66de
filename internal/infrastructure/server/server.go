package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/pronadmin/internal/infrastructure/config"
)

// Server hosts the web console.
type Server struct {
	config     *config.Config
	httpServer *http.Server
	logger     *logrus.Logger
}

// NewServer wraps handler with CORS and request logging.
func NewServer(cfg *config.Config, logger *logrus.Logger, handler http.Handler) *Server {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Console.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
	})

	httpServer := &http.Server{
		Addr:              cfg.ConsoleAddr(),
		Handler:           RequestLogger(logger)(c.Handler(handler)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		config:     cfg,
		httpServer: httpServer,
		logger:     logger,
	}
}

func (s *Server) Addr() string { return s.httpServer.Addr }

// Handler exposes the fully wrapped handler for in-process tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Infof("console listening on http://%s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Errorf("Failed to shutdown HTTP server: %v", err)
		return err
	}

	s.logger.Info("Server shutdown complete")
	return nil
}
