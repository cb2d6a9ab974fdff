package web

import (
	"log/slog"
	"net/http"

	"github.com/webitel/social-dashboard/config"
	"github.com/webitel/social-dashboard/internal/handler/lp"
	"github.com/webitel/social-dashboard/internal/handler/ws"
	"github.com/webitel/social-dashboard/internal/metrics"
	"github.com/webitel/social-dashboard/internal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("delivery-http",
	fx.Provide(
		NewHandler,
		ws.NewWSHandler,
		func(d service.Deliverer, cfg *config.Config) *lp.LPHandler {
			return lp.NewLPHandler(d, cfg.HTTP.PollTimeout)
		},
		func(h *Handler, wsh *ws.WSHandler, lph *lp.LPHandler, m *metrics.Metrics, logger *slog.Logger) http.Handler {
			return NewRouter(h, wsh, lph, m, logger)
		},
	),
)
