package web

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/social-dashboard/internal/domain/event"
	"github.com/webitel/social-dashboard/internal/domain/feed"
	"github.com/webitel/social-dashboard/internal/domain/model"
	"github.com/webitel/social-dashboard/internal/domain/present"
	"github.com/webitel/social-dashboard/internal/domain/registry"
	"github.com/webitel/social-dashboard/internal/handler/lp"
	lpmarshaller "github.com/webitel/social-dashboard/internal/handler/marshaller/lp"
	wsmarshaller "github.com/webitel/social-dashboard/internal/handler/marshaller/ws"
	"github.com/webitel/social-dashboard/internal/handler/ws"
	"github.com/webitel/social-dashboard/internal/metrics"
	"github.com/webitel/social-dashboard/internal/service"
)

type fixture struct {
	server  *httptest.Server
	hub     *registry.Hub
	history *service.History
}

func newFixture(t *testing.T, pollTimeout time.Duration) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hub := registry.NewHub(registry.WithEvictionInterval(0), registry.WithSendTimeout(50*time.Millisecond))
	fb := service.NewDashboard(feed.NewGenerator(feed.Facebook(), feed.WithSource(feed.NewFakerSource(1))), present.FacebookLayout())
	ig := service.NewDashboard(feed.NewGenerator(feed.Instagram(), feed.WithSource(feed.NewFakerSource(2))), present.InstagramLayout())
	history := service.NewHistory(16)
	m := metrics.New()
	deliverer := service.NewDeliveryService(hub, service.NewCatalog(fb, ig), history, m, 8)

	router := NewRouter(NewHandler(deliverer, logger), ws.NewWSHandler(logger, deliverer), lp.NewLPHandler(deliverer, pollTimeout), m, logger)
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		hub.Shutdown()
		srv.Close()
	})
	return &fixture{server: srv, hub: hub, history: history}
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(f.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func (f *fixture) waitSubscribed(t *testing.T, dashboard string) {
	t.Helper()
	require.Eventually(t, func() bool { return f.hub.Subscribers(dashboard) > 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestRouter_ListAndSnapshot(t *testing.T) {
	f := newFixture(t, time.Second)

	resp, body := f.get(t, "/dashboards")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var infos []model.DashboardInfo
	require.NoError(t, json.Unmarshal(body, &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "facebook", infos[0].Name)

	resp, body = f.get(t, "/dashboards/instagram/snapshot")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var frame model.Frame
	require.NoError(t, json.Unmarshal(body, &frame))
	assert.Equal(t, "instagram", frame.Dashboard)
	assert.Len(t, frame.Charts, 6)
	assert.Empty(t, frame.Preview)
	assert.Contains(t, string(body), `"values":[]`, "empty series encode as arrays")
}

func TestRouter_UnknownDashboardIs404(t *testing.T) {
	f := newFixture(t, time.Second)

	for _, path := range []string{"/dashboards/myspace", "/dashboards/myspace/snapshot", "/dashboards/myspace/poll", "/dashboards/myspace/ws"} {
		resp, _ := f.get(t, path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestRouter_Pages(t *testing.T) {
	f := newFixture(t, time.Second)

	resp, body := f.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `href="/dashboards/facebook"`)
	assert.Contains(t, string(body), `href="/dashboards/instagram"`)

	resp, body = f.get(t, "/dashboards/instagram")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), `id="recent-content-bar"`)
	assert.Contains(t, string(body), "plotly")
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	f := newFixture(t, time.Second)

	resp, body := f.get(t, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, body = f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestPoll_CatchUpFromHistory(t *testing.T) {
	f := newFixture(t, time.Second)
	for tick := range uint64(4) {
		f.history.Add(&model.Frame{Dashboard: "facebook", Tick: tick})
	}

	resp, body := f.get(t, "/dashboards/facebook/poll?after=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res lpmarshaller.Response
	require.NoError(t, json.Unmarshal(body, &res))
	require.Len(t, res.Events, 2)
	assert.Equal(t, lpmarshaller.TypeFrame, res.Events[0].Type)
	assert.Equal(t, float64(2), res.Events[0].Payload.(map[string]any)["tick"])

	resp, _ = f.get(t, "/dashboards/facebook/poll?after=abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPoll_TimesOutWithNoContent(t *testing.T) {
	f := newFixture(t, 50*time.Millisecond)

	resp, _ := f.get(t, "/dashboards/facebook/poll")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Zero(t, f.hub.Subscribers("facebook"), "poll session is released")
}

func TestPoll_WakesOnNextFrame(t *testing.T) {
	f := newFixture(t, 5*time.Second)

	type result struct {
		status int
		body   []byte
	}
	done := make(chan result, 1)
	go func() {
		resp, err := http.Get(f.server.URL + "/dashboards/instagram/poll?after=100")
		if err != nil {
			done <- result{}
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		done <- result{resp.StatusCode, body}
	}()

	f.waitSubscribed(t, "instagram")
	require.True(t, f.hub.Broadcast(event.NewFrameEvent(&model.Frame{Dashboard: "instagram", Tick: 101})))

	select {
	case res := <-done:
		require.Equal(t, http.StatusOK, res.status)
		assert.Contains(t, string(res.body), `"type":"frame"`)
		assert.Contains(t, string(res.body), `"tick":101`)
	case <-time.After(3 * time.Second):
		t.Fatal("poll did not return")
	}
}

func TestWebSocket_HandshakeThenFrames(t *testing.T) {
	f := newFixture(t, time.Second)

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/dashboards/facebook/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var hello wsmarshaller.WSEvent
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "connected", hello.Event)
	assert.Equal(t, "facebook", hello.Payload.(map[string]any)["dashboard"])

	f.waitSubscribed(t, "facebook")
	require.True(t, f.hub.Broadcast(event.NewFrameEvent(&model.Frame{Dashboard: "facebook", Tick: 5})))

	var frame wsmarshaller.WSEvent
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "frame", frame.Event)
	assert.Equal(t, float64(5), frame.Payload.(map[string]any)["tick"])

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.Eventually(t, func() bool { return f.hub.Subscribers("facebook") == 0 }, 2*time.Second, 10*time.Millisecond)
}

