package bus

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/social-dashboard/config"
	"github.com/webitel/social-dashboard/internal/adapter/pubsub"
	"github.com/webitel/social-dashboard/internal/domain/event"
	"github.com/webitel/social-dashboard/internal/domain/model"
	"github.com/webitel/social-dashboard/internal/domain/registry"
	"github.com/webitel/social-dashboard/internal/metrics"
	"github.com/webitel/social-dashboard/internal/service"
)

type pipeline struct {
	hub        *registry.Hub
	history    *service.History
	metrics    *metrics.Metrics
	dispatcher pubsub.EventDispatcher
}

func startPipeline(t *testing.T, dashboards ...string) *pipeline {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	wl := watermill.NopLogger{}
	ch := gochannel.NewGoChannel(gochannel.Config{}, wl)

	p := &pipeline{
		hub:        registry.NewHub(registry.WithEvictionInterval(0)),
		history:    service.NewHistory(10),
		metrics:    metrics.New(),
		dispatcher: pubsub.NewEventDispatcher(ch),
	}

	router, err := NewRouter(wl)
	require.NoError(t, err)

	cfg := &config.Config{Feed: config.FeedConfig{Dashboards: dashboards}}
	RegisterHandlers(router, ch, NewFrameHandler(p.hub, p.history, p.metrics, logger), cfg, wl, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, Run(ctx, router, logger))

	t.Cleanup(func() {
		_ = router.Close()
		_ = ch.Close()
		p.hub.Shutdown()
	})
	return p
}

func TestFrameHandler_DeliversToWatchers(t *testing.T) {
	p := startPipeline(t, "facebook")

	conn := registry.NewConnector(context.Background(), "facebook", 4)
	require.NoError(t, p.hub.Register(conn))

	ev := event.NewFrameEvent(&model.Frame{Dashboard: "facebook", Tick: 3, Preview: "{}"})
	require.NoError(t, p.dispatcher.Publish(context.Background(), ev))

	select {
	case got := <-conn.Recv():
		frame := got.GetPayload().(*model.Frame)
		assert.Equal(t, uint64(3), frame.Tick)
		assert.Equal(t, "{}", frame.Preview)
		assert.Equal(t, ev.GetID(), got.GetID())
	case <-time.After(2 * time.Second):
		t.Fatal("frame not delivered")
	}
}

func TestFrameHandler_FillsHistoryWithoutWatchers(t *testing.T) {
	p := startPipeline(t, "instagram")

	for tick := range uint64(3) {
		ev := event.NewFrameEvent(&model.Frame{Dashboard: "instagram", Tick: tick})
		require.NoError(t, p.dispatcher.Publish(context.Background(), ev))
	}

	require.Eventually(t, func() bool {
		return len(p.history.After("instagram", 0)) == 2
	}, 2*time.Second, 10*time.Millisecond)

	latest, ok := p.history.Latest("instagram")
	require.True(t, ok)
	assert.Equal(t, uint64(2), latest.Tick)
	assert.Zero(t, testutil.ToFloat64(p.metrics.FramesDropped.WithLabelValues("instagram")))
}

func TestFrameHandler_IgnoresUndecodablePayload(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewFrameHandler(registry.NewHub(registry.WithEvictionInterval(0)), service.NewHistory(4), metrics.New(), logger)

	assert.NoError(t, h.Handle(message.NewMessage(watermill.NewUUID(), []byte("not json"))))
	assert.NoError(t, h.Handle(message.NewMessage(watermill.NewUUID(), []byte(`{"tick":1}`))))
}
