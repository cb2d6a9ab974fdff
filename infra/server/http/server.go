package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/webitel/social-dashboard/config"
	"go.uber.org/fx"
)

// Server wraps http.Server with lifecycle helpers.
type Server struct {
	*http.Server
	logger *slog.Logger
}

func New(cfg config.HTTPConfig, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		Server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger.With("component", "http"),
	}
}

// Start binds the listener synchronously so address errors fail startup, then serves in the background.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("http listen %s: %w", s.Addr, err)
	}

	s.logger.Info("HTTP_SERVER_LISTENING", "addr", lis.Addr().String())
	go func() {
		if err := s.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP_SERVER_FAILED", "err", err)
		}
	}()
	return nil
}

var Module = fx.Module("http-server",
	fx.Provide(func(cfg *config.Config, handler http.Handler, logger *slog.Logger) *Server {
		return New(cfg.HTTP, handler, logger)
	}),
	fx.Invoke(func(lc fx.Lifecycle, s *Server) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error { return s.Start() },
			OnStop:  s.Shutdown,
		})
	}),
)
