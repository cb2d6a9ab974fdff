package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/webitel/social-dashboard/internal/domain/event"
	"github.com/webitel/social-dashboard/internal/domain/model"
)

// ErrHubClosed is returned by Register after Shutdown.
var ErrHubClosed = errors.New("registry: hub is shut down")

// Hubber defines the gateway for session management and frame routing.
type Hubber interface {
	Broadcast(ev event.Eventer) bool
	Register(conn Connector) error
	Unregister(dashboard string, connID uuid.UUID)
	IsWatched(dashboard string) bool
	Subscribers(dashboard string) int
	Stats() model.HubStats
	Shutdown()
}

// Hub implements a [SCALABLE_REGISTRY] using Virtual Cell pattern.
type Hub struct {
	// cells stores Map[string]Celler keyed by dashboard name. Optimized for [READ_HEAVY] workloads.
	cells sync.Map

	// mu serializes cell creation and removal; Broadcast never takes it.
	mu        sync.Mutex
	closed    bool
	config    hubConfig
	startedAt time.Time

	stopJanitor chan struct{}
	janitorDone chan struct{}
}

func NewHub(opts ...Option) *Hub {
	h := &Hub{
		config:      defaultHubConfig(),
		startedAt:   time.Now(),
		stopJanitor: make(chan struct{}),
		janitorDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.config.evictionInterval > 0 {
		go h.janitor()
	} else {
		close(h.janitorDone)
	}
	return h
}

func (h *Hub) IsWatched(dashboard string) bool {
	return h.Subscribers(dashboard) > 0
}

func (h *Hub) Subscribers(dashboard string) int {
	if val, ok := h.cells.Load(dashboard); ok {
		return val.(Celler).Sessions()
	}
	return 0
}

// Broadcast routes event to the [DASHBOARD_CELL]. Returns false on miss or overflow.
func (h *Hub) Broadcast(ev event.Eventer) bool {
	if val, ok := h.cells.Load(ev.GetDashboard()); ok {
		if cell, ok := val.(Celler); ok {
			return cell.Push(ev)
		}
	}
	return false
}

// Register ensures [IDEMPOTENT] cell creation and attaches a new transport.
func (h *Hub) Register(conn Connector) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}

	name := conn.GetDashboard()
	// [LAZY_INIT] Create cell only when the first session arrives.
	val, ok := h.cells.Load(name)
	if !ok {
		val = NewCell(name, h.config.mailboxSize, h.config.sendTimeout)
		h.cells.Store(name, val)
	}
	val.(Celler).Attach(conn)
	return nil
}

// Unregister performs [GRACEFUL_RECLAMATION] of resources when sessions end.
func (h *Hub) Unregister(dashboard string, connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if val, ok := h.cells.Load(dashboard); ok {
		cell := val.(Celler)
		// If no sessions left, purge the cell from memory.
		if cell.Detach(connID) {
			cell.Stop()
			h.cells.Delete(dashboard)
		}
	}
}

// Stats reports the current session distribution.
func (h *Hub) Stats() model.HubStats {
	stats := model.HubStats{Uptime: time.Since(h.startedAt)}
	h.cells.Range(func(key, val any) bool {
		n := val.(Celler).Sessions()
		stats.Dashboards = append(stats.Dashboards, model.DashboardStats{
			Dashboard: key.(string),
			Sessions:  n,
		})
		stats.TotalConnections += n
		return true
	})
	return stats
}

// Shutdown stops the janitor and every cell; all sessions get their channel closed.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.cells.Range(func(key, val any) bool {
		val.(Celler).Stop()
		h.cells.Delete(key)
		return true
	})
	h.mu.Unlock()

	close(h.stopJanitor)
	<-h.janitorDone
}

// janitor reclaims cells left behind without sessions.
func (h *Hub) janitor() {
	defer close(h.janitorDone)

	ticker := time.NewTicker(h.config.evictionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopJanitor:
			return
		case <-ticker.C:
			h.evictIdle()
		}
	}
}

func (h *Hub) evictIdle() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	evicted := 0
	h.cells.Range(func(key, val any) bool {
		cell := val.(Celler)
		if cell.IsIdle(h.config.idleTimeout) {
			cell.Stop()
			h.cells.Delete(key)
			evicted++
		}
		return true
	})
	return evicted
}
