package telemetry

import (
	"io"
	"log/slog"

	"github.com/webitel/social-dashboard/config"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// Output is where process logs are written; nil means stdout.
type Output struct {
	io.Writer
}

var Module = fx.Module("telemetry",
	fx.Provide(
		func(cfg *config.Config) *slog.LevelVar {
			level := new(slog.LevelVar)
			level.Set(ParseLevel(cfg.Log.Level))
			return level
		},
		func(cfg *config.Config, level *slog.LevelVar, service ServiceInfo, out Output) *slog.Logger {
			logger := NewLogger(out.Writer, cfg.Log.Format, level, service)
			slog.SetDefault(logger)
			return logger
		},
		func(lc fx.Lifecycle, service ServiceInfo) *sdktrace.TracerProvider {
			tp := NewTracerProvider(service)
			lc.Append(fx.StopHook(tp.Shutdown))
			return tp
		},
		func(tp *sdktrace.TracerProvider) trace.TracerProvider { return tp },
	),

	// [HOT_RELOAD] Log level follows the config file.
	fx.Invoke(func(cfg *config.Config, level *slog.LevelVar, logger *slog.Logger) {
		cfg.OnChange(func(next *config.Config) {
			lvl := ParseLevel(next.Log.Level)
			if lvl == level.Level() {
				return
			}
			level.Set(lvl)
			logger.Info("LOG_LEVEL_CHANGED", "level", lvl.String())
		})
	}),
)

