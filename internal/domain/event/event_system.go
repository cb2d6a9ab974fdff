package event

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// [GUARD] Ensure compliance with the Eventer interface.
var _ Eventer = (*SystemEvent)(nil)

// SystemEvent is a generic envelope for service-generated signals.
type SystemEvent struct {
	id         string
	dashboard  string
	kind       EventKind
	priority   EventPriority
	occurredAt int64
	payload    any
	cached     sync.Map
}

// [INTERFACE_IMPLEMENTATION]
func (e *SystemEvent) GetID() string              { return e.id }
func (e *SystemEvent) GetKind() EventKind         { return e.kind }
func (e *SystemEvent) GetDashboard() string       { return e.dashboard }
func (e *SystemEvent) GetPriority() EventPriority { return e.priority }
func (e *SystemEvent) GetOccurredAt() int64       { return e.occurredAt }
func (e *SystemEvent) GetPayload() any            { return e.payload }

func (e *SystemEvent) GetCached(transport string) any {
	v, _ := e.cached.Load(transport)
	return v
}

func (e *SystemEvent) SetCached(transport string, v any) { e.cached.Store(transport, v) }

// GetRoutingKey is empty: system signals never leave the node.
func (e *SystemEvent) GetRoutingKey() string {
	return ""
}

// NewSystemEvent is a universal factory for creating any signal.
func NewSystemEvent(dashboard string, kind EventKind, priority EventPriority, payload any) *SystemEvent {
	return &SystemEvent{
		id:         uuid.NewString(),
		dashboard:  dashboard,
		kind:       kind,
		priority:   priority,
		occurredAt: time.Now().UnixMilli(),
		payload:    payload,
	}
}
