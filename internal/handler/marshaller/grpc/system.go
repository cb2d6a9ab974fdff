package grpcmarshaller

import (
	"github.com/webitel/social-dashboard/internal/domain/model"
)

// marshalConnectedPayload maps system connection data.
func marshalConnectedPayload(p *model.ConnectedPayload) map[string]any {
	if p == nil {
		return nil
	}
	return map[string]any{
		"ok":             p.Ok,
		"connection_id":  p.ConnectionID,
		"dashboard":      p.Dashboard,
		"server_version": p.ServerVersion,
	}
}

func marshalDisconnectedPayload(p *model.DisconnectedPayload) map[string]any {
	if p == nil {
		return nil
	}
	return map[string]any{
		"reason": p.Reason,
		"code":   p.Code,
	}
}
