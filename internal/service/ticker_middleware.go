package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/webitel/social-dashboard/internal/domain/feed"
	"github.com/webitel/social-dashboard/internal/domain/model"
)

// TickerMiddleware implements [DECORATOR_PATTERN] to add observability
// to the tick cycle without touching dashboard logic.
type TickerMiddleware struct {
	Next   Ticker
	Logger *slog.Logger
}

// NewTickerMiddleware creates a new logging decorator for the Ticker.
func NewTickerMiddleware(next Ticker, logger *slog.Logger) Ticker {
	return &TickerMiddleware{
		Next:   next,
		Logger: logger,
	}
}

func (m *TickerMiddleware) Name() string { return m.Next.Name() }
func (m *TickerMiddleware) Size() int    { return m.Next.Size() }

// Tick wraps one cycle with execution timing and outcome logging.
func (m *TickerMiddleware) Tick(ctx context.Context, tick uint64) (*model.Frame, error) {
	start := time.Now()

	// [EXECUTION]
	frame, err := m.Next.Tick(ctx, tick)

	// [OBSERVABILITY] Scoped logging for performance auditing
	duration := time.Since(start)

	switch {
	case errors.Is(err, feed.ErrGenerationExhausted):
		m.Logger.Warn("GENERATION_EXHAUSTED",
			"dashboard", m.Next.Name(),
			"tick", tick,
			"err", err,
		)
	case err != nil:
		m.Logger.Error("TICK_FAILED",
			"dashboard", m.Next.Name(),
			"tick", tick,
			"err", err,
			"duration_ms", duration.Milliseconds(),
		)
	default:
		m.Logger.Debug("TICK_COMPLETED",
			"dashboard", m.Next.Name(),
			"tick", tick,
			"records", m.Next.Size(),
			"duration_us", duration.Microseconds(),
		)
	}

	return frame, err
}
