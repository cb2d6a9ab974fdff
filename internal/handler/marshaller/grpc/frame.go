package grpcmarshaller

import (
	"encoding/json"
	"fmt"

	"github.com/webitel/social-dashboard/internal/domain/model"
)

// marshalFramePayload maps a frame to plain JSON values, the shape structpb accepts.
func marshalFramePayload(f *model.Frame) (map[string]any, error) {
	if f == nil {
		return nil, nil
	}

	raw, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("grpc marshaller: frame: %w", err)
	}

	out := make(map[string]any)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("grpc marshaller: frame: %w", err)
	}
	return out, nil
}
