package event

type EventKind int16

const (
	Connected     EventKind = iota + 1 // [SYSTEM]
	Disconnected                       // [SYSTEM]
	FrameRendered                      // [BUSINESS]
)

func (k EventKind) String() string {
	switch k {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case FrameRendered:
		return "frame"
	default:
		return "unknown"
	}
}

type EventPriority int32

const (
	PriorityLow    EventPriority = 10
	PriorityNormal EventPriority = 20
	PriorityHigh   EventPriority = 30
)

// Eventer defines the contract for all data packets flowing through the Hub.
type Eventer interface {
	GetID() string
	GetKind() EventKind
	GetDashboard() string
	GetPriority() EventPriority
	GetOccurredAt() int64
	GetPayload() any
	// GetCached and SetCached keep per-transport encodings so a frame fanned out to many
	// sessions is encoded once per transport. Safe for concurrent use.
	GetCached(transport string) any
	SetCached(transport string, v any)
}

// Exportable defines an event that should be re-published to the message bus.
type Exportable interface {
	// We return the key only if the event is ready to be exported.
	// If it returns an empty string, the exporter will skip publishing.
	GetRoutingKey() string
}
