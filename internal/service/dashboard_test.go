package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/social-dashboard/internal/domain/feed"
	"github.com/webitel/social-dashboard/internal/domain/present"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// lowestSource always draws the lower bound, so every identifier collides with the first.
type lowestSource struct{}

func (lowestSource) Between(min, _ int) int     { return min }
func (lowestSource) Pick(pool []string) string { return pool[0] }

func newFacebook(t *testing.T, opts ...DashboardOption) *Dashboard {
	t.Helper()
	gen := feed.NewGenerator(feed.Facebook(), feed.WithSource(feed.NewFakerSource(7)))
	return NewDashboard(gen, present.FacebookLayout(), opts...)
}

func TestDashboard_SnapshotBeforeFirstTick(t *testing.T) {
	d := newFacebook(t)

	frame := d.Snapshot()
	assert.Equal(t, feed.FacebookName, frame.Dashboard)
	assert.Zero(t, frame.Tick)
	assert.Empty(t, frame.Preview)
	require.Len(t, frame.Charts, 5)
	for _, c := range frame.Charts {
		assert.Zero(t, c.Points(), c.ID)
	}
}

func TestDashboard_TickFillsWindowUpToCapacity(t *testing.T) {
	d := newFacebook(t, WithFrameClock(func() time.Time { return time.UnixMilli(1700000000000) }))

	for tick := range uint64(60) {
		frame, err := d.Tick(context.Background(), tick)
		require.NoError(t, err)
		assert.Equal(t, tick, frame.Tick)
	}

	assert.Equal(t, 50, d.Size())
	records := d.Records()
	require.Len(t, records, 50)

	last := d.Snapshot()
	assert.Equal(t, uint64(59), last.Tick)
	assert.Equal(t, int64(1700000000000), last.GeneratedAt)
	assert.Contains(t, last.Preview, records[49].ID)

	likes, ok := last.Chart("likes-line")
	require.True(t, ok)
	assert.Equal(t, 50, likes.Points())
}

func TestDashboard_ExhaustedTickLeavesStateUntouched(t *testing.T) {
	gen := feed.NewGenerator(feed.Facebook(), feed.WithSource(lowestSource{}), feed.WithMaxAttempts(3))
	d := NewDashboard(gen, present.FacebookLayout())

	first, err := d.Tick(context.Background(), 0)
	require.NoError(t, err)

	_, err = d.Tick(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, feed.ErrGenerationExhausted))

	assert.Equal(t, 1, d.Size())
	assert.Same(t, first, d.Snapshot())
}

func TestDashboard_TickIsTraced(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	d := newFacebook(t, WithTracer(tp.Tracer("test")))
	_, err := d.Tick(context.Background(), 4)
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "dashboard.tick", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("dashboard", feed.FacebookName))
	assert.Contains(t, spans[0].Attributes(), attribute.Int64("tick", 4))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("records", 1))
}
