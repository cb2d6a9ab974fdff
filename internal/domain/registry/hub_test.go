package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/social-dashboard/internal/domain/event"
	"github.com/webitel/social-dashboard/internal/domain/model"
)

func frame(dashboard string, tick uint64) *event.FrameEvent {
	return event.NewFrameEvent(&model.Frame{Dashboard: dashboard, Tick: tick})
}

func recvWithin(t *testing.T, conn Connector, d time.Duration) event.Eventer {
	t.Helper()
	select {
	case ev, ok := <-conn.Recv():
		require.True(t, ok, "session channel closed")
		return ev
	case <-time.After(d):
		t.Fatalf("no event within %s", d)
		return nil
	}
}

func TestHub_BroadcastReachesEverySessionOfDashboard(t *testing.T) {
	h := NewHub(WithEvictionInterval(0))
	defer h.Shutdown()

	a := NewConnector(context.Background(), "facebook", 4)
	b := NewConnector(context.Background(), "facebook", 4)
	other := NewConnector(context.Background(), "instagram", 4)
	require.NoError(t, h.Register(a))
	require.NoError(t, h.Register(b))
	require.NoError(t, h.Register(other))

	assert.Equal(t, 2, h.Subscribers("facebook"))
	require.True(t, h.Broadcast(frame("facebook", 7)))

	for _, conn := range []Connector{a, b} {
		ev := recvWithin(t, conn, time.Second)
		assert.Equal(t, uint64(7), ev.GetPayload().(*model.Frame).Tick)
	}

	select {
	case ev := <-other.Recv():
		t.Fatalf("unexpected event for other dashboard: %v", ev.GetID())
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_BroadcastWithoutWatchers(t *testing.T) {
	h := NewHub(WithEvictionInterval(0))
	defer h.Shutdown()

	assert.False(t, h.Broadcast(frame("facebook", 1)))
	assert.False(t, h.IsWatched("facebook"))
}

func TestHub_UnregisterClosesSessionAndPurgesCell(t *testing.T) {
	h := NewHub(WithEvictionInterval(0))
	defer h.Shutdown()

	conn := NewConnector(context.Background(), "instagram", 1)
	require.NoError(t, h.Register(conn))
	require.True(t, h.IsWatched("instagram"))

	h.Unregister("instagram", conn.GetID())

	_, ok := <-conn.Recv()
	assert.False(t, ok)
	assert.False(t, h.IsWatched("instagram"))
	assert.Empty(t, h.Stats().Dashboards)
}

func TestHub_ShutdownClosesSessionsAndRejectsNew(t *testing.T) {
	h := NewHub(WithEvictionInterval(time.Hour))

	conn := NewConnector(context.Background(), "facebook", 1)
	require.NoError(t, h.Register(conn))

	h.Shutdown()
	h.Shutdown()

	_, ok := <-conn.Recv()
	assert.False(t, ok)
	assert.ErrorIs(t, h.Register(NewConnector(context.Background(), "facebook", 1)), ErrHubClosed)
}

func TestHub_EvictIdle(t *testing.T) {
	h := NewHub(WithEvictionInterval(0), WithIdleTimeout(0))
	defer h.Shutdown()

	// A cell that lost its sessions without Unregister is a leftover.
	conn := NewConnector(context.Background(), "facebook", 1)
	require.NoError(t, h.Register(conn))
	val, _ := h.cells.Load("facebook")
	val.(Celler).Detach(conn.GetID())
	time.Sleep(time.Millisecond)

	assert.Equal(t, 1, h.evictIdle())
	_, ok := h.cells.Load("facebook")
	assert.False(t, ok)
}

func TestConnector_DropsLowPriorityWhenFull(t *testing.T) {
	conn := NewConnector(context.Background(), "facebook", 1)
	defer conn.Close()

	require.True(t, conn.Send(frame("facebook", 1), 10*time.Millisecond))
	assert.False(t, conn.Send(frame("facebook", 2), 10*time.Millisecond))
	assert.Equal(t, uint64(1), conn.Dropped())
}

func TestConnector_HighPriorityEvictsFrame(t *testing.T) {
	conn := NewConnector(context.Background(), "facebook", 1)
	defer conn.Close()

	require.True(t, conn.Send(frame("facebook", 1), 10*time.Millisecond))

	bye := event.NewSystemEvent("facebook", event.Disconnected, event.PriorityHigh, &model.DisconnectedPayload{Reason: "test"})
	require.True(t, conn.Send(bye, 10*time.Millisecond))

	ev := <-conn.Recv()
	assert.Equal(t, event.Disconnected, ev.GetKind())
}

func TestConnector_SendAfterClose(t *testing.T) {
	conn := NewConnector(context.Background(), "facebook", 1)
	conn.Close()
	conn.Close()

	assert.False(t, conn.Send(frame("facebook", 1), time.Millisecond))
}
