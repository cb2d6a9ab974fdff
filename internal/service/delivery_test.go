package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/social-dashboard/internal/domain/feed"
	"github.com/webitel/social-dashboard/internal/domain/model"
	"github.com/webitel/social-dashboard/internal/domain/present"
	"github.com/webitel/social-dashboard/internal/domain/registry"
	"github.com/webitel/social-dashboard/internal/metrics"
)

func newDelivery(t *testing.T) (*DeliveryService, *Catalog, *History) {
	t.Helper()

	hub := registry.NewHub(registry.WithEvictionInterval(0))
	t.Cleanup(hub.Shutdown)

	fb := NewDashboard(feed.NewGenerator(feed.Facebook(), feed.WithSource(feed.NewFakerSource(1))), present.FacebookLayout())
	ig := NewDashboard(feed.NewGenerator(feed.Instagram(), feed.WithSource(feed.NewFakerSource(2))), present.InstagramLayout())
	catalog := NewCatalog(fb, ig)
	history := NewHistory(8)

	return NewDeliveryService(hub, catalog, history, metrics.New(), 4), catalog, history
}

func TestDeliveryService_SubscribeLifecycle(t *testing.T) {
	svc, _, _ := newDelivery(t)

	conn, err := svc.Subscribe(context.Background(), "instagram")
	require.NoError(t, err)
	assert.Equal(t, "instagram", conn.GetDashboard())
	assert.Equal(t, 1, svc.hub.Subscribers("instagram"))

	svc.Unsubscribe("instagram", conn.GetID())
	assert.Zero(t, svc.hub.Subscribers("instagram"))

	_, open := <-conn.Recv()
	assert.False(t, open, "unsubscribe closes the session")
}

func TestDeliveryService_UnknownDashboard(t *testing.T) {
	svc, _, _ := newDelivery(t)

	_, err := svc.Subscribe(context.Background(), "myspace")
	assert.ErrorIs(t, err, ErrUnknownDashboard)

	_, err = svc.Snapshot("myspace")
	assert.ErrorIs(t, err, ErrUnknownDashboard)

	_, err = svc.Since("myspace", 0)
	assert.ErrorIs(t, err, ErrUnknownDashboard)
}

func TestDeliveryService_SnapshotAndSince(t *testing.T) {
	svc, catalog, history := newDelivery(t)

	fb, err := catalog.Get("facebook")
	require.NoError(t, err)
	frame, err := fb.Tick(context.Background(), 0)
	require.NoError(t, err)
	history.Add(frame)
	history.Add(&model.Frame{Dashboard: "facebook", Tick: 1})

	snap, err := svc.Snapshot("facebook")
	require.NoError(t, err)
	assert.Same(t, frame, snap)

	since, err := svc.Since("facebook", 0)
	require.NoError(t, err)
	require.Len(t, since, 1)
	assert.Equal(t, uint64(1), since[0].Tick)

	infos := svc.Dashboards()
	require.Len(t, infos, 2)
	assert.Equal(t, "facebook", infos[0].Name)
	assert.Equal(t, 50, infos[0].Capacity)
	assert.Equal(t, 40, infos[1].Capacity)
	assert.Len(t, infos[1].Charts, 6)
}
