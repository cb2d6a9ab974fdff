package registry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/webitel/social-dashboard/internal/domain/event"
)

// Interface guard
var _ Connector = (*connect)(nil)

// [CONNECTOR] THE INTERFACE FOR EXTERNAL LAYERS (REGISTRY/HUB)
// This allows mocking and decoupling from the concrete implementation
type Connector interface {
	GetID() uuid.UUID
	GetDashboard() string
	Send(ev event.Eventer, timeout time.Duration) bool // Thread-safe send with backpressure handling
	Recv() <-chan event.Eventer
	Dropped() uint64
	Close() // Terminate connection and release resources
}

// [CONNECT] CONCRETE IMPLEMENTATION (UNEXPORTED TO FORCE INTERFACE USAGE)
type connect struct {
	id        uuid.UUID
	dashboard string
	createdAt time.Time
	ctx       context.Context
	cancelFn  context.CancelFunc

	// mu guards sendCh against a concurrent Close.
	mu           sync.RWMutex
	sendCh       chan event.Eventer
	closed       bool
	closeOnce    sync.Once
	droppedCount atomic.Uint64
}

// NewConnector creates a session bound to one dashboard. The session ends when ctx is
// cancelled or Close is called.
func NewConnector(ctx context.Context, dashboard string, bufferSize int) Connector {
	if bufferSize < 1 {
		bufferSize = 1
	}
	childCtx, cancel := context.WithCancel(ctx)
	return &connect{
		id:        uuid.New(),
		dashboard: dashboard,
		createdAt: time.Now(),
		ctx:       childCtx,
		cancelFn:  cancel,
		sendCh:    make(chan event.Eventer, bufferSize),
	}
}

// --- IMPLEMENTATION OF CONNECTOR INTERFACE ---

func (c *connect) GetID() uuid.UUID           { return c.id }
func (c *connect) GetDashboard() string       { return c.dashboard }
func (c *connect) Recv() <-chan event.Eventer { return c.sendCh }
func (c *connect) Dropped() uint64            { return c.droppedCount.Load() }

// Send attempts to push an event into the session buffer.
// If the buffer stays full for the whole timeout, lower priority events are shed.
func (c *connect) Send(ev event.Eventer, timeout time.Duration) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return false
	}

	// [FAST_PATH] Most sends land in a non-full buffer.
	select {
	case c.sendCh <- ev:
		return true
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	// 1. [LIFECYCLE_GATE] Immediately abort if the underlying transport is already dead.
	case <-c.ctx.Done():
		return false

	// 2. [PRIMARY_DELIVERY] Wait up to 'timeout' for space to become available.
	case c.sendCh <- ev:
		return true

	// 3. [BACKPRESSURE_THRESHOLD] The consumer is persistently slow.
	case <-timer.C:
		return c.handleBackpressure(ev)
	}
}

// handleBackpressure manages full buffers by dropping low-priority events.
func (c *connect) handleBackpressure(ev event.Eventer) bool {
	// Low priority frames are superseded by the next tick: drop them right away.
	if ev.GetPriority() <= event.PriorityLow {
		c.droppedCount.Add(1)
		return false
	}

	// Evict the oldest buffered event to make room when it is less important.
	select {
	case oldEv := <-c.sendCh:
		if oldEv.GetPriority() < ev.GetPriority() {
			select {
			case c.sendCh <- ev:
				c.droppedCount.Add(1)
				return true
			default:
			}
		} else {
			// Put it back (best effort).
			select {
			case c.sendCh <- oldEv:
			default:
			}
		}
	default:
	}

	c.droppedCount.Add(1)
	return false
}

// Close terminates the session. It is idempotent and safe to call from the Hub
// (shutdown), the Cell (eviction) and the transport handler (defer) concurrently.
func (c *connect) Close() {
	c.closeOnce.Do(func() {
		// 1. [SIGNAL_ABORT] Cancel the context to stop any pending Send operations.
		c.cancelFn()

		// 2. [UPSTREAM_NOTIFY] Closing the channel signals the transport handler (via !ok)
		// to send a final 'Disconnected' event and exit its loop.
		c.mu.Lock()
		c.closed = true
		close(c.sendCh)
		c.mu.Unlock()
	})
}
