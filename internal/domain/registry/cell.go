/*
Package registry distributes rendered frames to the display surfaces watching a dashboard.

Key Architectural Concepts:
  - Virtual Cells: Every watched dashboard is represented by an isolated 'Cell' (Actor) that
    encapsulates all concurrent sessions (WebSocket, long-poll, gRPC, TUI) for that dashboard.
  - Decoupling & Backpressure: Through the use of per-dashboard mailboxes, the tick driver is
    never blocked by a slow network consumer.
  - Computational Efficiency: Events are marshaled into a wire format once per transport,
    leveraging the event cache to avoid re-encoding a frame for every session.
  - Concurrency Management: Lock-free lookups via sync.Map and fine-grained locking within
    individual cells eliminate global mutex contention.
*/
package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/webitel/social-dashboard/internal/domain/event"
)

// Celler defines the internal API for dashboard-specific delivery units.
type Celler interface {
	Push(ev event.Eventer) bool
	Attach(conn Connector)
	Detach(connID uuid.UUID) bool
	Sessions() int
	IsIdle(timeout time.Duration) bool
	Stop()
}

// Cell implements [ISOLATED_DELIVERY] logic for a single dashboard.
type Cell struct {
	// [IDENTITY]
	dashboard string

	// [MAILBOX]
	// Buffered channel that decouples the frame bus from individual delivery.
	mailbox chan event.Eventer

	// [SESSIONS]
	// Registry of all active transport channels for the dashboard.
	sessions map[uuid.UUID]Connector

	mu          sync.RWMutex
	sendTimeout time.Duration

	// [LIFECYCLE_CONTROL]
	doneCh   chan struct{}
	stopOnce sync.Once

	// lastActivityAt records the last time an event was processed for this cell.
	lastActivityAt time.Time
}

func NewCell(dashboard string, bufferSize int, sendTimeout time.Duration) *Cell {
	if bufferSize < 1 {
		bufferSize = 1
	}
	c := &Cell{
		dashboard:      dashboard,
		mailbox:        make(chan event.Eventer, bufferSize), // [DYNAMIC_BUFFER]
		sessions:       make(map[uuid.UUID]Connector),
		sendTimeout:    sendTimeout,
		doneCh:         make(chan struct{}),
		lastActivityAt: time.Now(),
	}
	go c.loop()
	return c
}

// IsIdle returns true if the dashboard has no active sessions and hasn't received events lately.
func (c *Cell) IsIdle(timeout time.Duration) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions) == 0 && time.Since(c.lastActivityAt) > timeout
}

func (c *Cell) Sessions() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

func (c *Cell) touch() {
	c.mu.Lock()
	c.lastActivityAt = time.Now()
	c.mu.Unlock()
}

// Push enqueues ev without blocking. Returns false when the mailbox is full or the cell stopped.
func (c *Cell) Push(ev event.Eventer) bool {
	c.touch()
	select {
	case <-c.doneCh:
		return false
	default:
	}
	select {
	case c.mailbox <- ev:
		return true
	default:
		return false
	}
}

func (c *Cell) Attach(conn Connector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActivityAt = time.Now()
	c.sessions[conn.GetID()] = conn
}

// Detach removes and closes the session. Returns true when no sessions are left.
func (c *Cell) Detach(connID uuid.UUID) bool {
	c.mu.Lock()
	conn, ok := c.sessions[connID]
	delete(c.sessions, connID)
	c.lastActivityAt = time.Now()
	empty := len(c.sessions) == 0
	c.mu.Unlock()

	if ok {
		conn.Close()
	}
	return empty
}

func (c *Cell) loop() {
	for {
		select {
		case <-c.doneCh:
			return
		case ev := <-c.mailbox:
			c.deliver(ev)
		}
	}
}

func (c *Cell) deliver(ev event.Eventer) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, conn := range c.sessions {
		conn.Send(ev, c.sendTimeout)
	}
}

// Stop terminates the actor and closes every attached session.
func (c *Cell) Stop() {
	c.stopOnce.Do(func() {
		close(c.doneCh)

		c.mu.Lock()
		sessions := c.sessions
		c.sessions = make(map[uuid.UUID]Connector)
		c.mu.Unlock()

		for _, conn := range sessions {
			conn.Close()
		}
	})
}
