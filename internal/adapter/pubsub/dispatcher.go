package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/webitel/social-dashboard/internal/domain/event"
)

// Metadata keys set on every frame message.
const (
	MetaDashboard = "dashboard"
	MetaEventID   = "event_id"
	MetaKind      = "kind"
)

// EventDispatcher defines the high-level contract for outgoing events.
// This allows the driver to stay agnostic of the transport implementation.
type EventDispatcher interface {
	Publish(ctx context.Context, ev event.Eventer) error
	Publisher() message.Publisher
}

// eventDispatcher is the concrete implementation (private).
type eventDispatcher struct {
	publisher message.Publisher
}

// NewEventDispatcher returns the interface instead of the pointer to the struct.
func NewEventDispatcher(pub message.Publisher) EventDispatcher {
	return &eventDispatcher{
		publisher: pub,
	}
}

// Publish encodes the event payload as JSON and sends it to the event routing key.
func (d *eventDispatcher) Publish(ctx context.Context, ev event.Eventer) error {
	if ev == nil {
		return fmt.Errorf("event dispatcher: cannot publish nil event")
	}

	exp, ok := ev.(event.Exportable)
	if !ok || exp.GetRoutingKey() == "" {
		return fmt.Errorf("event dispatcher: event %s has no routing key", ev.GetID())
	}
	topic := exp.GetRoutingKey()

	msg, err := NewMessage(ctx, ev)
	if err != nil {
		return err
	}

	if err := d.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("event dispatcher: failed to publish to topic %s: %w", topic, err)
	}
	return nil
}

func (d *eventDispatcher) Publisher() message.Publisher {
	return d.publisher
}

// NewMessage builds the watermill message for an event.
func NewMessage(ctx context.Context, ev event.Eventer) (*message.Message, error) {
	payload, err := json.Marshal(ev.GetPayload())
	if err != nil {
		return nil, fmt.Errorf("event dispatcher: marshal failure: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetaDashboard, ev.GetDashboard())
	msg.Metadata.Set(MetaEventID, ev.GetID())
	msg.Metadata.Set(MetaKind, ev.GetKind().String())
	msg.SetContext(ctx)
	return msg, nil
}
