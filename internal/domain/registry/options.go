package registry

import "time"

// Option defines a functional configuration type for the Hub.
type Option func(*Hub)

type hubConfig struct {
	evictionInterval time.Duration
	idleTimeout      time.Duration
	mailboxSize      int
	sendTimeout      time.Duration
}

func defaultHubConfig() hubConfig {
	return hubConfig{
		evictionInterval: 15 * time.Minute,
		idleTimeout:      30 * time.Minute,
		mailboxSize:      256,
		sendTimeout:      500 * time.Millisecond,
	}
}

// WithEvictionInterval configures how often the [JANITOR] process runs
// to reclaim memory from unwatched dashboards.
func WithEvictionInterval(d time.Duration) Option {
	return func(h *Hub) {
		h.config.evictionInterval = d
	}
}

// WithIdleTimeout defines the [QUIET_PERIOD] after which a dashboard cell
// without active sessions is considered eligible for eviction.
func WithIdleTimeout(d time.Duration) Option {
	return func(h *Hub) {
		h.config.idleTimeout = d
	}
}

// WithMailboxSize sets the [BACKPRESSURE] threshold.
// It defines the buffer capacity for each individual dashboard's actor mailbox.
func WithMailboxSize(size int) Option {
	return func(h *Hub) {
		h.config.mailboxSize = size
	}
}

// WithSendTimeout bounds how long a cell waits on one slow session.
func WithSendTimeout(d time.Duration) Option {
	return func(h *Hub) {
		h.config.sendTimeout = d
	}
}
