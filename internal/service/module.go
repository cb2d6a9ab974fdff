package service

import (
	"context"
	"log/slog"

	"github.com/webitel/social-dashboard/config"
	"github.com/webitel/social-dashboard/internal/domain/registry"
	"github.com/webitel/social-dashboard/internal/metrics"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

const tracerName = "github.com/webitel/social-dashboard/internal/service"

var Module = fx.Module(
	"service",

	fx.Provide(
		func(cfg *config.Config, tp trace.TracerProvider) (*Catalog, error) {
			return NewCatalogFromConfig(cfg, tp.Tracer(tracerName))
		},
		func(cfg *config.Config) *History {
			return NewHistory(cfg.History.Size)
		},
		// Domain services
		fx.Annotate(
			func(hub registry.Hubber, catalog *Catalog, history *History, m *metrics.Metrics, cfg *config.Config) *DeliveryService {
				return NewDeliveryService(hub, catalog, history, m, cfg.Hub.SessionBuffer)
			},
			fx.As(new(Deliverer)),
		),
		newDriver,
	),
)

// DriverLifecycle starts the tick driver with the application. Commands that drive ticks
// by hand leave it out.
var DriverLifecycle = fx.Invoke(func(lc fx.Lifecycle, d *Driver) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			d.Start()
			return nil
		},
		OnStop: d.Stop,
	})
})

// [DECORATION_LAYER] Every dashboard ticks through the logging decorator.
func newDriver(cfg *config.Config, catalog *Catalog, pub FramePublisher, m *metrics.Metrics, logger *slog.Logger) *Driver {
	all := catalog.All()
	tickers := make([]Ticker, 0, len(all))
	for _, d := range all {
		tickers = append(tickers, NewTickerMiddleware(d, logger))
	}
	return NewDriver(cfg.Feed.Interval, tickers, pub, m, logger)
}
