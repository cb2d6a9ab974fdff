package grpc

import (
	"go.uber.org/fx"

	grpcsrv "github.com/webitel/social-dashboard/infra/server/grpc"
)

var Module = fx.Module("delivery-grpc",
	fx.Provide(
		NewDeliveryService,
	),
	fx.Invoke(RegisterDeliveryServices),
)

func RegisterDeliveryServices(
	server *grpcsrv.Server,
	service *DeliveryService,
) {
	RegisterFeedServer(server.Server, service)
}
