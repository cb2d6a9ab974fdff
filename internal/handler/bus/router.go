package bus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/webitel/social-dashboard/config"
	"github.com/webitel/social-dashboard/internal/domain/event"
	"go.uber.org/fx"
)

// NewRouter creates the watermill router frames are consumed through.
func NewRouter(logger watermill.LoggerAdapter) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 5 * time.Second}, logger)
	if err != nil {
		return nil, fmt.Errorf("bus router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	return router, nil
}

// [REGISTRATION_PIPELINE]
// RegisterHandlers adds one consumer per hosted dashboard, table-driven like the rest of the pipeline.
func RegisterHandlers(router *message.Router, sub message.Subscriber, h *FrameHandler, cfg *config.Config, wl watermill.LoggerAdapter, logger *slog.Logger) {
	for _, name := range cfg.Feed.Dashboards {
		handlerName := fmt.Sprintf("ON_FRAME_%s", name)
		router.AddConsumerHandler(handlerName, event.FrameTopic(name), sub, h.Handle).AddMiddleware(
			TraceIDMiddleware,
			LoggingMiddleware(logger),
			NewRetryMiddleware(wl).Middleware,
			middleware.Timeout(time.Second),
		)
	}
	logger.Info("FRAME_PIPELINE_READY", "dashboards", len(cfg.Feed.Dashboards))
}

// Run starts the router in the background and blocks until it is running.
func Run(ctx context.Context, router *message.Router, logger *slog.Logger) error {
	go func() {
		if err := router.Run(context.Background()); err != nil {
			logger.Error("FRAME_ROUTER_STOPPED", "err", err)
		}
	}()

	select {
	case <-router.Running():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var Module = fx.Module("bus-handler",
	fx.Provide(
		NewFrameHandler,
		NewRouter,
	),
	fx.Invoke(RegisterHandlers),
	fx.Invoke(func(lc fx.Lifecycle, router *message.Router, logger *slog.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error { return Run(ctx, router, logger) },
			OnStop:  func(context.Context) error { return router.Close() },
		})
	}),
)
