package event

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/webitel/social-dashboard/internal/domain/model"
)

var (
	_ Eventer    = (*FrameEvent)(nil)
	_ Exportable = (*FrameEvent)(nil)
)

// FrameEvent carries one rendered tick to every surface subscribed to the dashboard.
// Frames are low priority: a dropped frame is superseded by the next tick.
type FrameEvent struct {
	ID    uuid.UUID    `json:"id"`
	Frame *model.Frame `json:"frame"`

	cache sync.Map
}

func NewFrameEvent(frame *model.Frame) *FrameEvent {
	return &FrameEvent{
		ID:    uuid.New(),
		Frame: frame,
	}
}

func (e *FrameEvent) GetID() string              { return e.ID.String() }
func (e *FrameEvent) GetKind() EventKind         { return FrameRendered }
func (e *FrameEvent) GetDashboard() string       { return e.Frame.Dashboard }
func (e *FrameEvent) GetPriority() EventPriority { return PriorityLow }
func (e *FrameEvent) GetOccurredAt() int64       { return e.Frame.GeneratedAt }
func (e *FrameEvent) GetPayload() any            { return e.Frame }

func (e *FrameEvent) GetCached(transport string) any {
	v, _ := e.cache.Load(transport)
	return v
}

func (e *FrameEvent) SetCached(transport string, v any) { e.cache.Store(transport, v) }

// GetRoutingKey builds the broker topic for the frame.
// [PATTERN] social_dashboard.{dashboard}.frame.v1
func (e *FrameEvent) GetRoutingKey() string {
	return FrameTopic(e.Frame.Dashboard)
}

// FrameTopic is the topic frames of the named dashboard are published on.
func FrameTopic(dashboard string) string {
	return fmt.Sprintf("social_dashboard.%s.frame.v1", dashboard)
}
