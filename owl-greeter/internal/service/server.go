package service

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates the HTTP server
func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &Server{httpServer: s, logger: logger}
}

// Start blocks until the server stops; a clean shutdown returns nil
func (s *Server) Start() error {
	s.logger.Info("Starting owl-greeter HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop graceful shutdown bounded by ctx
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping owl-greeter HTTP server")
	return s.httpServer.Shutdown(ctx)
}
