package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "social_dashboard"

// Tick and export outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeExhausted = "exhausted"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
)

// Metrics holds all Prometheus metrics for the dashboard service
type Metrics struct {
	Registry *prometheus.Registry

	// Tick driver metrics
	Ticks         *prometheus.CounterVec
	TickDuration  *prometheus.HistogramVec
	WindowRecords *prometheus.GaugeVec

	// Delivery metrics
	Subscribers    *prometheus.GaugeVec
	FramesDropped  *prometheus.CounterVec
	FramesExported *prometheus.CounterVec
}

// New creates the metrics and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Tick cycles by dashboard and outcome.",
		}, []string{"dashboard", "outcome"}),
		TickDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Latency of one generate, aggregate and present cycle.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"dashboard"}),
		WindowRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "window_records",
			Help:      "Records currently retained in the rolling window.",
		}, []string{"dashboard"}),
		Subscribers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscribers",
			Help:      "Active display sessions per dashboard.",
		}, []string{"dashboard"}),
		FramesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Frames not accepted by the dashboard mailbox.",
		}, []string{"dashboard"}),
		FramesExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_exported_total",
			Help:      "Frames exported to the broker by outcome.",
		}, []string{"outcome"}),
	}

	m.Registry.MustRegister(
		m.Ticks,
		m.TickDuration,
		m.WindowRecords,
		m.Subscribers,
		m.FramesDropped,
		m.FramesExported,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

var Module = fx.Module("metrics",
	fx.Provide(New),
)
