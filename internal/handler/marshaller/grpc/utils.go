package grpcmarshaller

import (
	"github.com/webitel/social-dashboard/internal/domain/event"
)

func mapPriority(p event.EventPriority) string {
	switch p {
	case event.PriorityLow:
		return "LOW"
	case event.PriorityNormal:
		return "NORMAL"
	case event.PriorityHigh:
		return "HIGH"
	default:
		return "PRIORITY_UNSPECIFIED"
	}
}
