package pubsub

import (
	"context"
	"log/slog"

	"github.com/webitel/social-dashboard/internal/domain/event"
	"golang.org/x/sync/errgroup"
)

// Fanout publishes every frame to the local bus and, when configured, to the exporter.
// Only a bus failure is returned; export failures are logged.
type Fanout struct {
	local    EventDispatcher
	exporter *Exporter
	logger   *slog.Logger
}

func NewFanout(local EventDispatcher, exporter *Exporter, logger *slog.Logger) *Fanout {
	return &Fanout{local: local, exporter: exporter, logger: logger}
}

func (f *Fanout) Publish(ctx context.Context, ev event.Eventer) error {
	var g errgroup.Group

	g.Go(func() error {
		return f.local.Publish(ctx, ev)
	})

	if f.exporter != nil {
		g.Go(func() error {
			if err := f.exporter.Publish(ctx, ev); err != nil {
				f.logger.Warn("FRAME_EXPORT_FAILED", "dashboard", ev.GetDashboard(), "event_id", ev.GetID(), "err", err)
			}
			return nil
		})
	}

	return g.Wait()
}
