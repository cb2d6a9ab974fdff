package registry

import (
	"context"

	"github.com/webitel/social-dashboard/config"
	"go.uber.org/fx"
)

var Module = fx.Module("registry",
	fx.Provide(
		// [CLEAN_INJECTION] Configure Hub using Functional Options
		func(cfg *config.Config) *Hub {
			return NewHub(
				WithEvictionInterval(cfg.Hub.EvictionInterval),
				WithIdleTimeout(cfg.Hub.IdleTimeout),
				WithMailboxSize(cfg.Hub.MailboxSize),
				WithSendTimeout(cfg.Hub.SendTimeout),
			)
		},
		func(h *Hub) Hubber { return h },
	),
	fx.Invoke(func(lc fx.Lifecycle, h Hubber) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				h.Shutdown() // [GRACEFUL_SHUTDOWN] Stop all Actor goroutines
				return nil
			},
		})
	}),
)
