package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/webitel/social-dashboard/internal/domain/model"
	"github.com/webitel/social-dashboard/internal/domain/registry"
	"github.com/webitel/social-dashboard/internal/metrics"
)

// [DELIVERY_SERVICE] PRIMARY INTERFACE FOR TRANSPORT HANDLERS (gRPC/WebSocket/long-poll/TUI)
type Deliverer interface {
	Subscribe(ctx context.Context, dashboard string) (registry.Connector, error)
	Unsubscribe(dashboard string, connID uuid.UUID)
	Snapshot(dashboard string) (*model.Frame, error)
	Since(dashboard string, after uint64) ([]*model.Frame, error)
	Dashboards() []model.DashboardInfo
}

type DeliveryService struct {
	hub        registry.Hubber
	catalog    *Catalog
	history    *History
	metrics    *metrics.Metrics
	bufferSize int
}

// NewDeliveryService returns a production-ready instance of the service.
func NewDeliveryService(hub registry.Hubber, catalog *Catalog, history *History, m *metrics.Metrics, bufferSize int) *DeliveryService {
	return &DeliveryService{
		hub:        hub,
		catalog:    catalog,
		history:    history,
		metrics:    m,
		bufferSize: bufferSize,
	}
}

// [SUBSCRIBE] HANDLES CONNECTION LIFECYCLE INITIATION
func (s *DeliveryService) Subscribe(ctx context.Context, dashboard string) (registry.Connector, error) {
	if _, err := s.catalog.Get(dashboard); err != nil {
		return nil, err
	}

	// 1. Create a connector bound to the request lifetime.
	conn := registry.NewConnector(ctx, dashboard, s.bufferSize)

	// 2. Attach to the dashboard cell.
	if err := s.hub.Register(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe %s: %w", dashboard, err)
	}
	s.metrics.Subscribers.WithLabelValues(dashboard).Set(float64(s.hub.Subscribers(dashboard)))

	// 3. Return the connector for the transport handler to start streaming.
	return conn, nil
}

// [UNSUBSCRIBE] TRIGGERS CLEANUP; the Hub closes the connector.
func (s *DeliveryService) Unsubscribe(dashboard string, connID uuid.UUID) {
	s.hub.Unregister(dashboard, connID)
	s.metrics.Subscribers.WithLabelValues(dashboard).Set(float64(s.hub.Subscribers(dashboard)))
}

// Snapshot returns the latest frame of the dashboard (empty frame before the first tick).
func (s *DeliveryService) Snapshot(dashboard string) (*model.Frame, error) {
	d, err := s.catalog.Get(dashboard)
	if err != nil {
		return nil, err
	}
	return d.Snapshot(), nil
}

// Since returns retained frames newer than the given tick.
func (s *DeliveryService) Since(dashboard string, after uint64) ([]*model.Frame, error) {
	if _, err := s.catalog.Get(dashboard); err != nil {
		return nil, err
	}
	return s.history.After(dashboard, after), nil
}

func (s *DeliveryService) Dashboards() []model.DashboardInfo {
	return s.catalog.Infos()
}
