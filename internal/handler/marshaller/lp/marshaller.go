package lpmarshaller

import (
	"encoding/json"

	"github.com/webitel/social-dashboard/internal/domain/event"
	"github.com/webitel/social-dashboard/internal/domain/model"
)

// Event types sent to long-polling consumers.
const (
	TypeFrame              = "frame"
	TypeSystemConnected    = "system_connected"
	TypeSystemDisconnected = "system_disconnected"
)

// LPEvent represents a single event structured for long-polling consumers.
type LPEvent struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Payload any    `json:"payload"`
}

// Response defines the top-level JSON array to support event batching.
type Response struct {
	Events []LPEvent `json:"events"`
}

// MarshallEvents converts a slice of domain events into a single JSON batch.
func MarshallEvents(events []event.Eventer) ([]byte, error) {
	res := Response{
		Events: make([]LPEvent, 0, len(events)),
	}

	for _, ev := range events {
		lpEv := LPEvent{
			ID:      ev.GetID(),
			Payload: ev.GetPayload(),
		}

		// Map domain payload types to string identifiers for the frontend.
		switch ev.GetPayload().(type) {
		case *model.Frame:
			lpEv.Type = TypeFrame
		case *model.ConnectedPayload:
			lpEv.Type = TypeSystemConnected
		case *model.DisconnectedPayload:
			lpEv.Type = TypeSystemDisconnected
		default:
			lpEv.Type = "unknown"
		}
		res.Events = append(res.Events, lpEv)
	}

	return json.Marshal(res)
}

// MarshallFrames batches frames replayed from history.
func MarshallFrames(frames []*model.Frame) ([]byte, error) {
	events := make([]event.Eventer, 0, len(frames))
	for _, f := range frames {
		events = append(events, event.NewFrameEvent(f))
	}
	return MarshallEvents(events)
}
