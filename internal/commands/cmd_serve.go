package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tada/internal/metrics"
	"github.com/colonyops/tada/internal/profiler"
	"github.com/colonyops/tada/internal/server"
	"github.com/colonyops/tada/internal/tada"
)

type ServeCmd struct {
	flags *Flags
	app   *tada.App

	addr      string
	namespace string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags, app *tada.App) *ServeCmd {
	return &ServeCmd{flags: flags, app: app}
}

// Register adds the serve command to the application.
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API, toast stream and metrics over HTTP",
		Description: `Starts the HTTP server. Stops cleanly on SIGINT or SIGTERM.

Endpoints:
  /api/todos        todo CRUD
  /api/toasts       current toasts, POST to enqueue
  /api/toasts/ws    websocket stream of toast snapshots
  /api/routes       page routes known to the UI
  /metrics          prometheus metrics

Examples:
  tada serve
  tada serve --addr 0.0.0.0:9000`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (overrides server.addr)",
				Sources:     cli.EnvVars("TADA_ADDR"),
				Destination: &cmd.addr,
			},
			&cli.StringFlag{
				Name:        "metrics-namespace",
				Usage:       "prefix for metric names",
				Value:       "tada",
				Destination: &cmd.namespace,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	addr := cmd.addr
	if addr == "" {
		addr = cmd.app.Config.Server.Addr
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopProfiler, err := profiler.StartIfEnabled(ctx, cmd.flags.ProfilerPort)
	if err != nil {
		return err
	}
	defer stopProfiler()

	m := metrics.New(metrics.WithNamespace(cmd.namespace))
	unwatch := m.Watch(cmd.app.Toasts)
	defer unwatch()

	log.Info().Str("addr", addr).Msg("starting server")
	return server.New(cmd.app, m).ListenAndServe(ctx, addr, cmd.app.Config.Server.ShutdownTimeout)
}
