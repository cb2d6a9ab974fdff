package grpcmarshaller

import (
	"fmt"

	"github.com/webitel/social-dashboard/internal/domain/event"
	"github.com/webitel/social-dashboard/internal/domain/model"
	"google.golang.org/protobuf/types/known/structpb"
)

const cacheKey = "grpc"

// MarshallDeliveryEvent transforms domain Eventer to the Struct sent on the Feed stream.
// It acts as a gateway and uses type-specific marshallers.
func MarshallDeliveryEvent(ev event.Eventer) (*structpb.Struct, error) {
	// 1. [PERFORMANCE] Check cache first.
	if cached, ok := ev.GetCached(cacheKey).(*structpb.Struct); ok {
		return cached, nil
	}

	// 2. Base event mapping.
	fields := map[string]any{
		"id":         ev.GetID(),
		"event":      ev.GetKind().String(),
		"dashboard":  ev.GetDashboard(),
		"created_at": ev.GetOccurredAt(),
		"priority":   mapPriority(ev.GetPriority()),
	}

	// 3. [STRATEGY] Route to specific logic based on payload type.
	var (
		payload any
		err     error
	)
	switch p := ev.GetPayload().(type) {
	case *model.Frame:
		payload, err = marshalFramePayload(p)
	case *model.ConnectedPayload:
		payload = marshalConnectedPayload(p)
	case *model.DisconnectedPayload:
		payload = marshalDisconnectedPayload(p)
	}
	if err != nil {
		return nil, err
	}
	if payload != nil {
		fields["payload"] = payload
	}

	res, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("grpc marshaller: event %s: %w", ev.GetID(), err)
	}

	// 4. [CACHE] Save the result back.
	ev.SetCached(cacheKey, res)
	return res, nil
}
