package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	FeedServiceName  = "social.dashboard.v1.Feed"
	FeedStreamMethod = "/social.dashboard.v1.Feed/Stream"
)

// FeedServer streams the frames of one dashboard. The request names the dashboard in the
// "dashboard" field.
type FeedServer interface {
	Stream(req *structpb.Struct, stream FeedStreamServer) error
}

type FeedStreamServer interface {
	Send(*structpb.Struct) error
	gogrpc.ServerStream
}

type feedStreamServer struct {
	gogrpc.ServerStream
}

func (s *feedStreamServer) Send(m *structpb.Struct) error {
	return s.ServerStream.SendMsg(m)
}

func feedStreamHandler(srv any, stream gogrpc.ServerStream) error {
	req := new(structpb.Struct)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(FeedServer).Stream(req, &feedStreamServer{stream})
}

// FeedServiceDesc describes the Feed service for registration without generated stubs.
var FeedServiceDesc = gogrpc.ServiceDesc{
	ServiceName: FeedServiceName,
	HandlerType: (*FeedServer)(nil),
	Streams: []gogrpc.StreamDesc{
		{
			StreamName:    "Stream",
			Handler:       feedStreamHandler,
			ServerStreams: true,
		},
	},
	Metadata: "social/dashboard/v1/feed.proto",
}

func RegisterFeedServer(s gogrpc.ServiceRegistrar, srv FeedServer) {
	s.RegisterService(&FeedServiceDesc, srv)
}

// FeedStreamClient receives events of one dashboard.
type FeedStreamClient interface {
	Recv() (*structpb.Struct, error)
	gogrpc.ClientStream
}

type feedStreamClient struct {
	gogrpc.ClientStream
}

func (c *feedStreamClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := c.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// FeedClient is the client side of the Feed service.
type FeedClient struct {
	cc gogrpc.ClientConnInterface
}

func NewFeedClient(cc gogrpc.ClientConnInterface) *FeedClient {
	return &FeedClient{cc: cc}
}

// Stream opens the server stream for the dashboard.
func (c *FeedClient) Stream(ctx context.Context, dashboard string, opts ...gogrpc.CallOption) (FeedStreamClient, error) {
	stream, err := c.cc.NewStream(ctx, &FeedServiceDesc.Streams[0], FeedStreamMethod, opts...)
	if err != nil {
		return nil, err
	}

	req, err := structpb.NewStruct(map[string]any{"dashboard": dashboard})
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(req); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &feedStreamClient{stream}, nil
}
