package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/webitel/social-dashboard/config"
	"github.com/webitel/social-dashboard/infra/server/grpc/interceptors"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Server wraps grpc.Server with its listen address.
type Server struct {
	*grpc.Server
	Addr string

	health *health.Server
	logger *slog.Logger
}

// New builds the server with recovery, session, logging and tracing middleware.
func New(addr string, logger *slog.Logger, tp trace.TracerProvider) *Server {
	l := logger.With("component", "grpc")

	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler(otelgrpc.WithTracerProvider(tp))),
		grpc.ChainUnaryInterceptor(
			interceptors.UnaryRecovery(l),
			interceptors.UnaryLogging(l),
		),
		grpc.ChainStreamInterceptor(
			interceptors.StreamRecovery(l),
			interceptors.NewStreamSessionInterceptor(),
			interceptors.StreamLogging(l),
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &Server{Server: srv, Addr: addr, health: hs, logger: l}
}

// Serve accepts connections on lis until Stop.
func (s *Server) Serve(lis net.Listener) error {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.logger.Info("GRPC_SERVER_LISTENING", "addr", lis.Addr().String())

	if err := s.Server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Shutdown drains streams until ctx expires, then stops hard.
func (s *Server) Shutdown(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.Stop()
	}
}

var Module = fx.Module("grpc-server",
	fx.Provide(func(cfg *config.Config, logger *slog.Logger, tp trace.TracerProvider) *Server {
		return New(cfg.GRPC.Addr, logger, tp)
	}),
	fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, s *Server) {
		if !cfg.GRPC.Enabled {
			return
		}
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				lis, err := net.Listen("tcp", s.Addr)
				if err != nil {
					return fmt.Errorf("grpc listen %s: %w", s.Addr, err)
				}
				go func() {
					if err := s.Serve(lis); err != nil {
						s.logger.Error("GRPC_SERVER_FAILED", "err", err)
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				s.Shutdown(ctx)
				return nil
			},
		})
	}),
)
