package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/webitel/social-dashboard/internal/domain/feed"
	"github.com/webitel/social-dashboard/internal/domain/model"
	"github.com/webitel/social-dashboard/internal/domain/present"
	"github.com/webitel/social-dashboard/internal/domain/window"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Ticker runs one generate→append→aggregate→present cycle.
type Ticker interface {
	Name() string
	Tick(ctx context.Context, tick uint64) (*model.Frame, error)
	// Size reports how many records the rolling window currently holds.
	Size() int
}

// Dashboard owns the complete state of one simulated feed: generator (with its identifier
// set), rolling window and latest frame. Ticks are serialized; Snapshot never observes a
// half-applied tick.
type Dashboard struct {
	variant   feed.Variant
	layout    present.Layout
	generator *feed.Generator
	tracer    trace.Tracer
	now       func() time.Time

	mu     sync.RWMutex
	window *window.Window[model.Record]
	last   *model.Frame
}

// DashboardOption configures a Dashboard.
type DashboardOption func(*Dashboard)

// WithTracer records every tick as a span.
func WithTracer(t trace.Tracer) DashboardOption {
	return func(d *Dashboard) { d.tracer = t }
}

// WithFrameClock sets the clock stamping Frame.GeneratedAt.
func WithFrameClock(now func() time.Time) DashboardOption {
	return func(d *Dashboard) { d.now = now }
}

func NewDashboard(gen *feed.Generator, layout present.Layout, opts ...DashboardOption) *Dashboard {
	v := gen.Variant()
	d := &Dashboard{
		variant:   v,
		layout:    layout,
		generator: gen,
		tracer:    noop.NewTracerProvider().Tracer(""),
		now:       time.Now,
		window:    window.New[model.Record](v.Capacity),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dashboard) Name() string { return d.variant.Name }

// Info describes the dashboard for listings.
func (d *Dashboard) Info() model.DashboardInfo {
	return model.DashboardInfo{
		Name:     d.variant.Name,
		Title:    d.variant.Title,
		Capacity: d.window.Cap(),
		Charts:   d.layout.ChartIDs(),
	}
}

// Tick generates one record for the given counter and renders the new frame.
// On generation failure the window is left untouched and no frame is produced.
func (d *Dashboard) Tick(ctx context.Context, tick uint64) (*model.Frame, error) {
	_, span := d.tracer.Start(ctx, "dashboard.tick", trace.WithAttributes(
		attribute.String("dashboard", d.variant.Name),
		attribute.Int64("tick", int64(tick)),
	))
	defer span.End()

	d.mu.Lock()
	defer d.mu.Unlock()

	rec, err := d.generator.Next(tick)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return nil, fmt.Errorf("dashboard %s: tick %d: %w", d.variant.Name, tick, err)
	}
	d.window.Append(rec)

	frame, err := d.render(tick, d.window.All(), &rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, fmt.Errorf("dashboard %s: tick %d: %w", d.variant.Name, tick, err)
	}
	d.last = frame

	span.SetAttributes(attribute.Int("records", d.window.Len()))
	return frame, nil
}

// Snapshot returns the latest frame, or the empty frame before the first tick.
func (d *Dashboard) Snapshot() *model.Frame {
	d.mu.RLock()
	last := d.last
	d.mu.RUnlock()

	if last != nil {
		return last
	}
	frame, _ := d.render(0, nil, nil)
	return frame
}

func (d *Dashboard) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.window.Len()
}

// Records returns a copy of the current window, oldest first.
func (d *Dashboard) Records() []model.Record {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.window.All()
}

func (d *Dashboard) render(tick uint64, records []model.Record, newest *model.Record) (*model.Frame, error) {
	preview, err := present.Preview(newest)
	if err != nil {
		return nil, err
	}
	return &model.Frame{
		Dashboard:   d.variant.Name,
		Tick:        tick,
		GeneratedAt: d.now().UnixMilli(),
		Charts:      d.layout.Render(records),
		Preview:     preview,
	}, nil
}
