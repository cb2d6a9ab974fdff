package service

import (
	"errors"
	"fmt"

	"github.com/webitel/social-dashboard/config"
	"github.com/webitel/social-dashboard/internal/domain/feed"
	"github.com/webitel/social-dashboard/internal/domain/model"
	"github.com/webitel/social-dashboard/internal/domain/present"
	"go.opentelemetry.io/otel/trace"
)

// ErrUnknownDashboard is returned for names the service does not host.
var ErrUnknownDashboard = errors.New("service: unknown dashboard")

// Catalog is the ordered set of dashboards hosted by the process. Each dashboard keeps
// its own isolated state.
type Catalog struct {
	order []string
	items map[string]*Dashboard
}

func NewCatalog(dashboards ...*Dashboard) *Catalog {
	c := &Catalog{items: make(map[string]*Dashboard, len(dashboards))}
	for _, d := range dashboards {
		if _, dup := c.items[d.Name()]; dup {
			continue
		}
		c.order = append(c.order, d.Name())
		c.items[d.Name()] = d
	}
	return c
}

// NewCatalogFromConfig builds one dashboard per configured variant.
// Every dashboard gets its own random source, derived from the configured seed.
func NewCatalogFromConfig(cfg *config.Config, tracer trace.Tracer) (*Catalog, error) {
	dashboards := make([]*Dashboard, 0, len(cfg.Feed.Dashboards))
	for i, name := range cfg.Feed.Dashboards {
		variant, err := feed.Lookup(name)
		if err != nil {
			return nil, err
		}
		layout, err := present.LayoutFor(name)
		if err != nil {
			return nil, err
		}

		seed := cfg.Feed.Seed
		if seed != 0 {
			seed += int64(i)
		}
		gen := feed.NewGenerator(variant,
			feed.WithSource(feed.NewFakerSource(seed)),
			feed.WithMaxAttempts(cfg.Feed.MaxAttempts),
		)
		dashboards = append(dashboards, NewDashboard(gen, layout, WithTracer(tracer)))
	}
	return NewCatalog(dashboards...), nil
}

// Get resolves a hosted dashboard.
func (c *Catalog) Get(name string) (*Dashboard, error) {
	d, ok := c.items[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDashboard, name)
	}
	return d, nil
}

// All returns the dashboards in configuration order.
func (c *Catalog) All() []*Dashboard {
	out := make([]*Dashboard, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.items[name])
	}
	return out
}

// Infos lists hosted dashboards.
func (c *Catalog) Infos() []model.DashboardInfo {
	out := make([]model.DashboardInfo, 0, len(c.order))
	for _, d := range c.All() {
		out = append(out, d.Info())
	}
	return out
}
