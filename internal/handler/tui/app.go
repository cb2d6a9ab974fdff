package tui

import (
	"context"
	"fmt"
	"log/slog"

	ui "github.com/gizak/termui/v3"
	"github.com/webitel/social-dashboard/internal/domain/model"
	"github.com/webitel/social-dashboard/internal/service"
)

// App renders one dashboard in the terminal until the user quits or ctx ends.
type App struct {
	deliverer service.Deliverer
	logger    *slog.Logger
}

func NewApp(deliverer service.Deliverer, logger *slog.Logger) *App {
	return &App{deliverer: deliverer, logger: logger}
}

// Run takes over the terminal. q or Ctrl-C quits.
func (a *App) Run(ctx context.Context, dashboard string) error {
	snapshot, err := a.deliverer.Snapshot(dashboard)
	if err != nil {
		return err
	}

	conn, err := a.deliverer.Subscribe(ctx, dashboard)
	if err != nil {
		return err
	}
	defer a.deliverer.Unsubscribe(dashboard, conn.GetID())

	if err := ui.Init(); err != nil {
		return fmt.Errorf("tui: init terminal: %w", err)
	}
	defer ui.Close()

	current := snapshot
	draw := func(f *model.Frame) {
		w, h := ui.TerminalDimensions()
		ui.Render(Grid(Widgets(f), w, h))
	}
	draw(current)

	events := ui.PollEvents()
	for {
		select {
		case <-ctx.Done():
			return nil

		case e := <-events:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			case "<Resize>":
				ui.Clear()
				draw(current)
			}

		case ev, ok := <-conn.Recv():
			if !ok {
				return fmt.Errorf("tui: session for %s closed by server", dashboard)
			}
			if f, ok := ev.GetPayload().(*model.Frame); ok {
				current = f
				draw(current)
			}
		}
	}
}
