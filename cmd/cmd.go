package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/webitel/social-dashboard/config"
	"github.com/webitel/social-dashboard/internal/domain/model"
	"github.com/webitel/social-dashboard/internal/handler/tui"
	"github.com/webitel/social-dashboard/internal/service"
)

const (
	ServiceName      = "social-dashboard"
	ServiceNamespace = "webitel"
)

var (
	version        = "0.0.0"
	commit         = "hash"
	commitDate     = time.Now().String()
	branch         = "branch"
	buildTimestamp = ""
)

func Run() error {
	model.ServerVersion = version

	app := &cli.App{
		Name:    ServiceName,
		Usage:   "Simulated social media analytics dashboards",
		Version: fmt.Sprintf("%s (%s, %s@%s) %s", version, commit, branch, commitDate, buildTimestamp),
		Commands: []*cli.Command{
			serverCmd(),
			tuiCmd(),
			tickCmd(),
		},
	}

	return app.Run(os.Args)
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config_file",
		Usage:   "Path to the configuration file",
		EnvVars: []string{config.EnvPrefix + "_CONFIG_FILE"},
	}
}

// loadConfig resolves config for a command; arguments after "--" are config flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	return config.LoadConfig(c.String("config_file"), c.Args().Slice())
}

func serverCmd() *cli.Command {
	return &cli.Command{
		Name:      "server",
		Aliases:   []string{"s"},
		Usage:     "Run the dashboards with HTTP and gRPC surfaces",
		ArgsUsage: "[-- config flag overrides]",
		Flags:     []cli.Flag{configFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			app := NewApp(cfg)

			if err := app.Start(c.Context); err != nil {
				return err
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			slog.Info("Shutting down...")
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return app.Stop(ctx)
		},
	}
}

func tuiCmd() *cli.Command {
	return &cli.Command{
		Name:      "tui",
		Usage:     "Render one dashboard in the terminal",
		ArgsUsage: "[-- config flag overrides]",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "dashboard", Aliases: []string{"d"}, Value: "facebook", Usage: "dashboard to show"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			var deliverer service.Deliverer
			app := NewTUIApp(cfg, &deliverer)
			if err := app.Start(c.Context); err != nil {
				return err
			}
			defer app.Stop(context.Background())

			ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return tui.NewApp(deliverer, slog.Default()).Run(ctx, c.String("dashboard"))
		},
	}
}

func tickCmd() *cli.Command {
	return &cli.Command{
		Name:      "tick",
		Usage:     "Run a number of ticks by hand and print each preview",
		ArgsUsage: "[-- config flag overrides]",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "dashboard", Aliases: []string{"d"}, Value: "facebook", Usage: "dashboard to tick"},
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1, Usage: "number of ticks"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			var driver *service.Driver
			app := NewTickApp(cfg, &driver)
			if err := app.Start(c.Context); err != nil {
				return err
			}
			defer app.Stop(context.Background())

			var errs []error
			for range c.Int("count") {
				frame, err := driver.RunOnce(c.Context, c.String("dashboard"))
				if errors.Is(err, service.ErrUnknownDashboard) {
					return err
				}
				if err != nil {
					errs = append(errs, err)
				}
				if frame != nil {
					fmt.Fprintf(c.App.Writer, "# %s tick %d\n%s\n", frame.Dashboard, frame.Tick, frame.Preview)
				}
			}
			return errors.Join(errs...)
		},
	}
}
