package grpcmarshaller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/social-dashboard/internal/domain/event"
	"github.com/webitel/social-dashboard/internal/domain/model"
)

func TestMarshallDeliveryEvent_Frame(t *testing.T) {
	ev := event.NewFrameEvent(&model.Frame{
		Dashboard: "instagram",
		Tick:      3,
		Charts: []model.Chart{{
			ID:     "content-pie",
			Kind:   model.ChartPie,
			Series: []model.Series{{Hole: 0.3, Labels: []string{"Reel"}, Values: []float64{2}}},
		}},
	})

	msg, err := MarshallDeliveryEvent(ev)
	require.NoError(t, err)
	assert.Equal(t, "frame", msg.GetFields()["event"].GetStringValue())
	assert.Equal(t, "instagram", msg.GetFields()["dashboard"].GetStringValue())

	charts := msg.GetFields()["payload"].GetStructValue().GetFields()["charts"].GetListValue().GetValues()
	require.Len(t, charts, 1)
	series := charts[0].GetStructValue().GetFields()["series"].GetListValue().GetValues()
	assert.Equal(t, 0.3, series[0].GetStructValue().GetFields()["hole"].GetNumberValue())

	again, err := MarshallDeliveryEvent(ev)
	require.NoError(t, err)
	assert.Same(t, msg, again, "second call is served from cache")
}

func TestMarshallDeliveryEvent_System(t *testing.T) {
	ev := event.NewSystemEvent("facebook", event.Disconnected, event.PriorityHigh, &model.DisconnectedPayload{Reason: "shutdown", Code: "SHUTDOWN"})

	msg, err := MarshallDeliveryEvent(ev)
	require.NoError(t, err)
	assert.Equal(t, "HIGH", msg.GetFields()["priority"].GetStringValue())
	payload := msg.GetFields()["payload"].GetStructValue().GetFields()
	assert.Equal(t, "shutdown", payload["reason"].GetStringValue())
	assert.Equal(t, "SHUTDOWN", payload["code"].GetStringValue())
}
