package grpc

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpcsrv "github.com/webitel/social-dashboard/infra/server/grpc"
	"github.com/webitel/social-dashboard/internal/domain/event"
	"github.com/webitel/social-dashboard/internal/domain/feed"
	"github.com/webitel/social-dashboard/internal/domain/model"
	"github.com/webitel/social-dashboard/internal/domain/present"
	"github.com/webitel/social-dashboard/internal/domain/registry"
	"github.com/webitel/social-dashboard/internal/metrics"
	"github.com/webitel/social-dashboard/internal/service"
	"go.opentelemetry.io/otel/trace/noop"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startFeed(t *testing.T) (*FeedClient, *registry.Hub) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hub := registry.NewHub(registry.WithEvictionInterval(0))
	fb := service.NewDashboard(feed.NewGenerator(feed.Facebook(), feed.WithSource(feed.NewFakerSource(3))), present.FacebookLayout())
	deliverer := service.NewDeliveryService(hub, service.NewCatalog(fb), service.NewHistory(4), metrics.New(), 8)

	srv := grpcsrv.New("bufnet", logger, noop.NewTracerProvider())
	RegisterFeedServer(srv.Server, NewDeliveryService(logger, deliverer))

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()

	cc, err := gogrpc.NewClient("passthrough:///bufnet",
		gogrpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = cc.Close()
		hub.Shutdown()
		srv.Stop()
	})
	return NewFeedClient(cc), hub
}

func TestFeedStream_ConnectedThenFrames(t *testing.T) {
	client, hub := startFeed(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.Stream(ctx, "facebook")
	require.NoError(t, err)

	hello, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "connected", hello.GetFields()["event"].GetStringValue())
	payload := hello.GetFields()["payload"].GetStructValue()
	assert.True(t, payload.GetFields()["ok"].GetBoolValue())
	assert.Equal(t, "facebook", payload.GetFields()["dashboard"].GetStringValue())

	require.Eventually(t, func() bool { return hub.Subscribers("facebook") == 1 }, 2*time.Second, 5*time.Millisecond)
	require.True(t, hub.Broadcast(event.NewFrameEvent(&model.Frame{
		Dashboard: "facebook",
		Tick:      12,
		Preview:   "{}",
		Charts:    present.FacebookLayout().Render(nil),
	})))

	msg, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "frame", msg.GetFields()["event"].GetStringValue())
	assert.Equal(t, "LOW", msg.GetFields()["priority"].GetStringValue())
	frame := msg.GetFields()["payload"].GetStructValue()
	assert.Equal(t, float64(12), frame.GetFields()["tick"].GetNumberValue())
	assert.Len(t, frame.GetFields()["charts"].GetListValue().GetValues(), 5)
}

func TestFeedStream_Errors(t *testing.T) {
	client, _ := startFeed(t)

	cases := []struct {
		dashboard string
		code      codes.Code
	}{
		{"", codes.InvalidArgument},
		{"myspace", codes.NotFound},
	}
	for _, tc := range cases {
		t.Run(tc.code.String(), func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			stream, err := client.Stream(ctx, tc.dashboard)
			require.NoError(t, err)
			_, err = stream.Recv()
			require.Error(t, err)
			assert.Equal(t, tc.code, status.Code(err))
		})
	}
}

func TestFeedStream_ServerShutdownSendsDisconnect(t *testing.T) {
	client, hub := startFeed(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.Stream(ctx, "facebook")
	require.NoError(t, err)
	_, err = stream.Recv()
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.Subscribers("facebook") == 1 }, 2*time.Second, 5*time.Millisecond)
	hub.Shutdown()

	bye, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "disconnected", bye.GetFields()["event"].GetStringValue())

	_, err = stream.Recv()
	assert.Equal(t, codes.Unavailable, status.Code(err))
}
