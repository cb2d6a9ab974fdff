package service

import (
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/webitel/social-dashboard/internal/domain/model"
)

// History keeps the most recent frames of every dashboard so long-poll clients can catch
// up on ticks they missed between requests.
type History struct {
	size int

	mu     sync.Mutex
	frames map[string]*lru.Cache[uint64, *model.Frame]
}

func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{
		size:   size,
		frames: make(map[string]*lru.Cache[uint64, *model.Frame]),
	}
}

func (h *History) cache(dashboard string) *lru.Cache[uint64, *model.Frame] {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.frames[dashboard]
	if !ok {
		// [MEMORY_MANAGEMENT] One bounded cache per dashboard; oldest ticks fall off first.
		c, _ = lru.New[uint64, *model.Frame](h.size)
		h.frames[dashboard] = c
	}
	return c
}

// Add records a published frame.
func (h *History) Add(frame *model.Frame) {
	h.cache(frame.Dashboard).Add(frame.Tick, frame)
}

// After returns retained frames of the dashboard with a tick greater than after, in tick order.
func (h *History) After(dashboard string, after uint64) []*model.Frame {
	c := h.cache(dashboard)

	out := make([]*model.Frame, 0)
	for _, tick := range c.Keys() {
		if tick <= after {
			continue
		}
		if f, ok := c.Peek(tick); ok {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b *model.Frame) int {
		switch {
		case a.Tick < b.Tick:
			return -1
		case a.Tick > b.Tick:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Latest returns the newest retained frame of the dashboard.
func (h *History) Latest(dashboard string) (*model.Frame, bool) {
	c := h.cache(dashboard)
	keys := c.Keys()
	if len(keys) == 0 {
		return nil, false
	}
	newest := slices.Max(keys)
	return c.Peek(newest)
}
