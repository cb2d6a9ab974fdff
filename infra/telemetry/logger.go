package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// ParseLevel maps a config level name to slog; unknown names fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger. format is json, text or otel; otel writes JSON to w and
// also hands every record to the globally registered OpenTelemetry LoggerProvider.
func NewLogger(w io.Writer, format string, level *slog.LevelVar, service ServiceInfo) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch format {
	case "text":
		h = slog.NewTextHandler(w, opts)
	case "otel":
		h = &teeHandler{
			level:    level,
			handlers: []slog.Handler{slog.NewJSONHandler(w, opts), otelslog.NewHandler(service.Name)},
		}
	default:
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h).With(
		slog.String("service", service.Name),
		slog.String("version", service.Version),
	)
}

// teeHandler writes every record to all handlers.
type teeHandler struct {
	level    slog.Leveler
	handlers []slog.Handler
}

func (t *teeHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= t.level.Level()
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range t.handlers {
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{level: t.level, handlers: next}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithGroup(name)
	}
	return &teeHandler{level: t.level, handlers: next}
}
