package wsmarshaller

import (
	"encoding/json"

	"github.com/webitel/social-dashboard/internal/domain/event"
)

// WSEvent is a generic wrapper for WebSocket messages to provide consistent structure
type WSEvent struct {
	Event   string `json:"event"` // "frame", "connected", "disconnected"
	ID      string `json:"id"`
	SentAt  int64  `json:"sent_at"`
	Payload any    `json:"payload"`
}

// MarshallDeliveryEvent prepares data for WebSocket transmission.
// Every session of a dashboard receives the same bytes, so the encoding is cached on the event.
func MarshallDeliveryEvent(ev event.Eventer) ([]byte, error) {
	if cached, ok := ev.GetCached(cacheKey).([]byte); ok {
		return cached, nil
	}

	res := &WSEvent{
		Event:   ev.GetKind().String(),
		ID:      ev.GetID(),
		SentAt:  ev.GetOccurredAt(),
		Payload: ev.GetPayload(),
	}

	data, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	ev.SetCached(cacheKey, data)
	return data, nil
}

const cacheKey = "ws"
