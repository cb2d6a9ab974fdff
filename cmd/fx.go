package cmd

import (
	"io"
	"log/slog"

	"github.com/webitel/social-dashboard/config"
	grpcsrv "github.com/webitel/social-dashboard/infra/server/grpc"
	httpsrv "github.com/webitel/social-dashboard/infra/server/http"
	"github.com/webitel/social-dashboard/infra/telemetry"
	"github.com/webitel/social-dashboard/internal/adapter/pubsub"
	"github.com/webitel/social-dashboard/internal/domain/registry"
	bushandler "github.com/webitel/social-dashboard/internal/handler/bus"
	grpchandler "github.com/webitel/social-dashboard/internal/handler/grpc"
	"github.com/webitel/social-dashboard/internal/handler/web"
	"github.com/webitel/social-dashboard/internal/metrics"
	"github.com/webitel/social-dashboard/internal/service"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// core wires everything a dashboard needs to tick and fan frames out in-process.
func core(cfg *config.Config, logOut io.Writer) fx.Option {
	return fx.Options(
		fx.Provide(
			func() *config.Config { return cfg },
			func() telemetry.ServiceInfo {
				return telemetry.ServiceInfo{Name: ServiceName, Namespace: ServiceNamespace, Version: version}
			},
			func() telemetry.Output { return telemetry.Output{Writer: logOut} },
		),
		fx.WithLogger(func(l *slog.Logger) fxevent.Logger {
			fl := &fxevent.SlogLogger{Logger: l}
			fl.UseLogLevel(slog.LevelDebug)
			return fl
		}),
		telemetry.Module,
		metrics.Module,
		registry.Module,
		service.Module,
		pubsub.Module,
		bushandler.Module,
	)
}

// NewApp builds the server: tick driver plus HTTP and gRPC surfaces.
func NewApp(cfg *config.Config) *fx.App {
	return fx.New(
		core(cfg, nil),
		web.Module,
		httpsrv.Module,
		grpcsrv.Module,
		grpchandler.Module,
		service.DriverLifecycle,
	)
}

// NewTUIApp builds the terminal surface. Logs are kept off the terminal.
func NewTUIApp(cfg *config.Config, populate ...any) *fx.App {
	return fx.New(
		core(cfg, io.Discard),
		service.DriverLifecycle,
		fx.Populate(populate...),
	)
}

// NewTickApp builds the pipeline without a schedule; ticks are driven by hand.
func NewTickApp(cfg *config.Config, populate ...any) *fx.App {
	return fx.New(
		core(cfg, nil),
		fx.Populate(populate...),
	)
}
