package pubsub

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/webitel/social-dashboard/config"
	"github.com/webitel/social-dashboard/internal/metrics"
	"github.com/webitel/social-dashboard/internal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pubsub",
	fx.Provide(
		func(logger *slog.Logger) watermill.LoggerAdapter {
			return watermill.NewSlogLogger(logger.With("component", "watermill"))
		},
		NewBus,
		func(bus *Bus) message.Subscriber { return bus },
		func(bus *Bus) EventDispatcher { return NewEventDispatcher(bus) },
		provideExporter,
		func(local EventDispatcher, exporter *Exporter, logger *slog.Logger) service.FramePublisher {
			return NewFanout(local, exporter, logger)
		},
	),
	fx.Invoke(func(lc fx.Lifecycle, bus *Bus) {
		lc.Append(fx.StopHook(func(context.Context) error { return bus.Close() }))
	}),
)

func provideExporter(lc fx.Lifecycle, cfg *config.Config, wl watermill.LoggerAdapter, m *metrics.Metrics, logger *slog.Logger) (*Exporter, error) {
	pub, err := NewAMQPPublisher(cfg, wl)
	if err != nil || pub == nil {
		return nil, err
	}

	exp := NewExporter(pub, cfg.Broker.BreakerTimeout, m, logger)
	lc.Append(fx.StopHook(func(context.Context) error { return exp.Close() }))
	logger.Info("FRAME_EXPORT_ENABLED", "broker", "amqp")
	return exp, nil
}
