package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/webitel/social-dashboard/internal/domain/event"
	"github.com/webitel/social-dashboard/internal/domain/feed"
	"github.com/webitel/social-dashboard/internal/domain/model"
	"github.com/webitel/social-dashboard/internal/metrics"
)

// FramePublisher hands rendered frames to the delivery pipeline.
type FramePublisher interface {
	Publish(ctx context.Context, ev event.Eventer) error
}

// Driver fires one tick per interval for every dashboard. A dashboard whose previous
// cycle is still running skips the tick instead of overlapping it.
type Driver struct {
	cron      *cron.Cron
	interval  time.Duration
	tickers   []Ticker
	counters  map[string]*atomic.Uint64
	publisher FramePublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	started sync.Once
}

func NewDriver(interval time.Duration, tickers []Ticker, publisher FramePublisher, m *metrics.Metrics, logger *slog.Logger) *Driver {
	ctx, cancel := context.WithCancel(context.Background())
	cl := cronLogger{logger: logger}

	d := &Driver{
		cron:      cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		interval:  interval,
		tickers:   tickers,
		counters:  make(map[string]*atomic.Uint64, len(tickers)),
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, t := range tickers {
		d.counters[t.Name()] = new(atomic.Uint64)
	}
	return d
}

// Start schedules every dashboard. Calling it twice is a no-op.
func (d *Driver) Start() {
	d.started.Do(func() {
		cl := cronLogger{logger: d.logger}
		for _, t := range d.tickers {
			job := cron.NewChain(cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(func() {
				_, _ = d.cycle(d.ctx, t)
			}))
			d.cron.Schedule(cron.Every(d.interval), job)
		}
		d.cron.Start()
		d.logger.Info("TICK_DRIVER_STARTED", "interval", d.interval.String(), "dashboards", len(d.tickers))
	})
}

// Stop cancels in-flight cycles and waits for running jobs until ctx expires.
func (d *Driver) Stop(ctx context.Context) error {
	d.cancel()
	select {
	case <-d.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce runs a single cycle of the named dashboard synchronously.
func (d *Driver) RunOnce(ctx context.Context, name string) (*model.Frame, error) {
	for _, t := range d.tickers {
		if t.Name() == name {
			return d.cycle(ctx, t)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDashboard, name)
}

// cycle advances the dashboard counter, renders and publishes the frame. The counter moves
// forward even when the tick fails.
func (d *Driver) cycle(ctx context.Context, t Ticker) (*model.Frame, error) {
	name := t.Name()
	tick := d.counters[name].Add(1) - 1

	start := time.Now()
	frame, err := t.Tick(ctx, tick)
	d.metrics.TickDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, feed.ErrGenerationExhausted) {
			outcome = metrics.OutcomeExhausted
		}
		d.metrics.Ticks.WithLabelValues(name, outcome).Inc()
		return nil, err
	}
	d.metrics.Ticks.WithLabelValues(name, metrics.OutcomeOK).Inc()
	d.metrics.WindowRecords.WithLabelValues(name).Set(float64(t.Size()))

	if d.publisher == nil {
		return frame, nil
	}
	if err := d.publisher.Publish(ctx, event.NewFrameEvent(frame)); err != nil {
		d.logger.Error("FRAME_PUBLISH_FAILED", "dashboard", name, "tick", tick, "err", err)
		return frame, fmt.Errorf("publish %s tick %d: %w", name, tick, err)
	}
	return frame, nil
}

// cronLogger adapts slog to cron.Logger. Scheduler chatter goes to debug.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("CRON: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("CRON: "+msg, append(keysAndValues, "err", err)...)
}
