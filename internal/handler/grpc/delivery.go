package grpc

import (
	"errors"
	"log/slog"

	"github.com/webitel/social-dashboard/infra/server/grpc/interceptors"
	"github.com/webitel/social-dashboard/internal/domain/event"
	"github.com/webitel/social-dashboard/internal/domain/model"
	grpcmarshaller "github.com/webitel/social-dashboard/internal/handler/marshaller/grpc"
	"github.com/webitel/social-dashboard/internal/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

var _ FeedServer = (*DeliveryService)(nil)

type DeliveryService struct {
	logger    *slog.Logger
	deliverer service.Deliverer
}

func NewDeliveryService(logger *slog.Logger, deliverer service.Deliverer) *DeliveryService {
	return &DeliveryService{
		logger:    logger,
		deliverer: deliverer,
	}
}

// Stream manages the lifecycle of a long-lived HTTP/2 server-streaming session.
func (d *DeliveryService) Stream(req *structpb.Struct, stream FeedStreamServer) error {
	dashboard := req.GetFields()["dashboard"].GetStringValue()
	if dashboard == "" {
		return status.Error(codes.InvalidArgument, "dashboard is required")
	}

	// Create a stream-scoped logger to track this specific connection
	l := d.logger.With(
		slog.String("dashboard", dashboard),
		slog.String("session_id", interceptors.GetSessionID(stream.Context())),
	)

	l.Info("[STREAM] incoming connection request", slog.String("version", model.ServerVersion))

	// [ACTOR_ATTACHMENT]
	// Subscribe links this specific gRPC stream to the dashboard cell.
	conn, err := d.deliverer.Subscribe(stream.Context(), dashboard)
	if err != nil {
		if errors.Is(err, service.ErrUnknownDashboard) {
			return status.Errorf(codes.NotFound, "dashboard %q is not hosted", dashboard)
		}
		l.Error("[HUB] subscription rejected", slog.Any("err", err))
		return status.Error(codes.Internal, "failed to establish connection session")
	}

	// [RESOURCE_RECLAMATION]
	// Ensure the connector is detached from the Hub when the function returns.
	defer func() {
		d.deliverer.Unsubscribe(dashboard, conn.GetID())
		l.Info("[STREAM] connection closed and resources reclaimed",
			slog.String("conn_id", conn.GetID().String()),
		)
	}()

	// [HANDSHAKE_LOGIC]
	welcomeEv := event.NewSystemEvent(dashboard, event.Connected, event.PriorityNormal, &model.ConnectedPayload{
		Ok:            true,
		ConnectionID:  conn.GetID().String(),
		Dashboard:     dashboard,
		ServerVersion: model.ServerVersion,
	})
	if err := d.send(stream, welcomeEv); err != nil {
		l.Error("[STREAM] handshake delivery failed", slog.Any("err", err))
		return err
	}

	l.Info("[STREAM] session established", slog.String("conn_id", conn.GetID().String()))

	// [EVENT_LOOP]
	// Main delivery loop that bridges the dashboard mailbox with the gRPC stream.
	for {
		select {
		case <-stream.Context().Done():
			// Triggers on client disconnect, timeout, or KeepAlive failure.
			l.Info("[STREAM] client terminated connection", slog.Any("reason", stream.Context().Err()))
			return nil

		case ev, ok := <-conn.Recv():
			if !ok {
				// [TERMINATION_SENTINEL]
				// Before returning the gRPC error, we push a final System Event to the wire.
				l.Warn("[HUB] mailbox closed, sending termination event")

				terminationEv := event.NewSystemEvent(dashboard, event.Disconnected, event.PriorityHigh, &model.DisconnectedPayload{
					Reason: "session_closed_by_server",
				})
				_ = d.send(stream, terminationEv)

				return status.Error(codes.Unavailable, "session_terminated_by_server")
			}

			if err := d.send(stream, ev); err != nil {
				l.Error("[STREAM] transmission error",
					slog.Any("err", err),
					slog.String("event_id", ev.GetID()),
				)
				return status.Error(codes.DataLoss, "stream_transmission_failed")
			}

			l.Debug("[STREAM] event pushed to wire", slog.String("event_type", ev.GetKind().String()))
		}
	}
}

func (d *DeliveryService) send(stream FeedStreamServer, ev event.Eventer) error {
	msg, err := grpcmarshaller.MarshallDeliveryEvent(ev)
	if err != nil {
		return err
	}
	return stream.Send(msg)
}
