package pubsub

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/v3/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/webitel/social-dashboard/config"
)

// Bus is the in-process frame bus. Frames are published by the driver and consumed by the
// bus handler that feeds history and the hub.
type Bus struct {
	*gochannel.GoChannel
}

// NewBus creates the in-process bus. Frames are not persisted: a frame published with no
// consumer attached is lost.
func NewBus(cfg *config.Config, logger watermill.LoggerAdapter) *Bus {
	return &Bus{
		GoChannel: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: int64(cfg.Hub.MailboxSize),
		}, logger),
	}
}

// NewAMQPPublisher builds the broker publisher frames are exported to. It returns nil when
// export is disabled.
func NewAMQPPublisher(cfg *config.Config, logger watermill.LoggerAdapter) (message.Publisher, error) {
	if cfg.Broker.AMQPURL == "" {
		return nil, nil
	}

	amqpCfg := amqp.NewDurablePubSubConfig(cfg.Broker.AMQPURL, amqp.GenerateQueueNameTopicName)
	pub, err := amqp.NewPublisher(amqpCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("amqp publisher: %w", err)
	}
	return pub, nil
}
