package pubsub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/sony/gobreaker"
	"github.com/webitel/social-dashboard/internal/domain/event"
	"github.com/webitel/social-dashboard/internal/metrics"
)

// Exporter republishes exportable events to an external broker. Calls go through a circuit
// breaker so an unreachable broker costs one rejected call per tick instead of a timeout.
type Exporter struct {
	dispatcher EventDispatcher
	breaker    *gobreaker.CircuitBreaker
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewExporter wraps pub. The breaker opens after 5 consecutive failures and probes again
// after timeout.
func NewExporter(pub message.Publisher, timeout time.Duration, m *metrics.Metrics, logger *slog.Logger) *Exporter {
	return &Exporter{
		dispatcher: NewEventDispatcher(pub),
		metrics:    m,
		logger:     logger,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "amqp-export",
			MaxRequests: 1,
			Timeout:     timeout,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("BREAKER_STATE_CHANGED", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

// Publish exports ev. Events without a routing key are skipped.
func (e *Exporter) Publish(ctx context.Context, ev event.Eventer) error {
	if exp, ok := ev.(event.Exportable); !ok || exp.GetRoutingKey() == "" {
		return nil
	}

	_, err := e.breaker.Execute(func() (any, error) {
		return nil, e.dispatcher.Publish(ctx, ev)
	})

	switch {
	case err == nil:
		e.metrics.FramesExported.WithLabelValues(metrics.OutcomeOK).Inc()
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		e.metrics.FramesExported.WithLabelValues(metrics.OutcomeRejected).Inc()
	default:
		e.metrics.FramesExported.WithLabelValues(metrics.OutcomeFailed).Inc()
	}
	return fmt.Errorf("exporter: %w", err)
}

// State reports the breaker state.
func (e *Exporter) State() gobreaker.State {
	return e.breaker.State()
}

func (e *Exporter) Close() error {
	return e.dispatcher.Publisher().Close()
}
