package bus

import (
	"encoding/json"
	"log/slog"
	"runtime/debug"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/webitel/social-dashboard/internal/adapter/pubsub"
	"github.com/webitel/social-dashboard/internal/domain/event"
	"github.com/webitel/social-dashboard/internal/domain/model"
	"github.com/webitel/social-dashboard/internal/domain/registry"
	"github.com/webitel/social-dashboard/internal/metrics"
	"github.com/webitel/social-dashboard/internal/service"
)

// FrameHandler moves frames from the bus into history and on to the subscribed surfaces.
type FrameHandler struct {
	hub     registry.Hubber
	history *service.History
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewFrameHandler(hub registry.Hubber, history *service.History, m *metrics.Metrics, logger *slog.Logger) *FrameHandler {
	return &FrameHandler{hub: hub, history: history, metrics: m, logger: logger}
}

// [INFRASTRUCTURE_BRIDGE]
// Handle connects watermill to the hub, handling panic recovery, decoding and fan-out.
func (h *FrameHandler) Handle(msg *message.Message) error {
	// [PANIC_RECOVERY]
	// Safely handle runtime panics to keep the consumer alive.
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("PANIC_RECOVERED",
				"err", r,
				"stack", string(debug.Stack()),
				"msg_id", msg.UUID)
		}
	}()

	// [DECODING]
	frame := new(model.Frame)
	if err := json.Unmarshal(msg.Payload, frame); err != nil {
		h.logger.Error("DECODE_FAILED", "err", err, "msg_id", msg.UUID)
		return nil // ACK: Poison Pill protection.
	}
	if frame.Dashboard == "" {
		h.logger.Warn("ROUTING_FAILED: dashboard_missing", "msg_id", msg.UUID)
		return nil
	}

	// 1. Retain for long-poll catch-up, watched or not.
	h.history.Add(frame)

	// [LOCALITY_FILTER] Nobody is watching this dashboard: nothing more to do.
	if !h.hub.IsWatched(frame.Dashboard) {
		return nil
	}

	// 2. Local delivery (WebSockets/long-poll/gRPC/TUI).
	ev := event.NewFrameEvent(frame)
	if id, err := uuid.Parse(msg.Metadata.Get(pubsub.MetaEventID)); err == nil {
		ev.ID = id
	}
	if !h.hub.Broadcast(ev) {
		h.metrics.FramesDropped.WithLabelValues(frame.Dashboard).Inc()
		h.logger.Debug("FRAME_DROPPED", "dashboard", frame.Dashboard, "tick", frame.Tick)
	}
	return nil
}
