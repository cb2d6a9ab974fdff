package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/webitel/social-dashboard/internal/domain/event"
	"github.com/webitel/social-dashboard/internal/domain/model"
	wsmarshaller "github.com/webitel/social-dashboard/internal/handler/marshaller/ws"
	"github.com/webitel/social-dashboard/internal/service"
)

const writeWait = 5 * time.Second

type WSHandler struct {
	logger    *slog.Logger
	deliverer service.Deliverer
	upgrader  websocket.Upgrader
}

func NewWSHandler(logger *slog.Logger, deliverer service.Deliverer) *WSHandler {
	return &WSHandler{
		logger:    logger,
		deliverer: deliverer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Pages are served from any host in dev setups.
		},
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	dashboard := chi.URLParam(r, "name")

	// 1. SUBSCRIBE BEFORE THE UPGRADE so unknown dashboards get a plain 404
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn, err := h.deliverer.Subscribe(ctx, dashboard)
	if err != nil {
		if errors.Is(err, service.ErrUnknownDashboard) {
			http.Error(w, "dashboard not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to subscribe", http.StatusServiceUnavailable)
		return
	}
	defer h.deliverer.Unsubscribe(dashboard, conn.GetID())

	// 2. UPGRADE TO WEBSOCKET
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WS_UPGRADE_FAILED", "err", err)
		return
	}
	defer ws.Close()

	l := h.logger.With("dashboard", dashboard, "conn_id", conn.GetID())
	l.Info("WS_OPENED")

	// 3. READ PUMP: control frames only; a read error means the client left
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	welcome := event.NewSystemEvent(dashboard, event.Connected, event.PriorityNormal, &model.ConnectedPayload{
		Ok:            true,
		ConnectionID:  conn.GetID().String(),
		Dashboard:     dashboard,
		ServerVersion: model.ServerVersion,
	})
	if err := h.write(ws, welcome); err != nil {
		l.Warn("WS_HANDSHAKE_FAILED", "err", err)
		return
	}

	// 4. MAIN WS PUMP LOOP
	for {
		select {
		case <-ctx.Done():
			l.Info("WS_CLOSED")
			return
		case ev, ok := <-conn.Recv():
			if !ok {
				bye := event.NewSystemEvent(dashboard, event.Disconnected, event.PriorityHigh, &model.DisconnectedPayload{
					Reason: "session_closed_by_server",
				})
				_ = h.write(ws, bye)
				_ = ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
					time.Now().Add(writeWait))
				return
			}

			if err := h.write(ws, ev); err != nil {
				l.Warn("WS_SEND_FAILED", "err", err)
				return
			}
		}
	}
}

func (h *WSHandler) write(ws *websocket.Conn, ev event.Eventer) error {
	data, err := wsmarshaller.MarshallDeliveryEvent(ev)
	if err != nil {
		h.logger.Error("WS_MARSHAL_FAILED", "err", err, "event_id", ev.GetID())
		return nil
	}
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	return ws.WriteMessage(websocket.TextMessage, data)
}
