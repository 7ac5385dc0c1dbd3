package commands

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/tada/internal/profiler"
	"github.com/colonyops/tada/internal/tada"
	"github.com/colonyops/tada/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *tada.App

	path string
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *tada.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Register adds the tui command to the application.
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "tui",
		Usage:  "Open the interactive todo list",
		Flags:  cmd.Flags(),
		Action: cmd.Run,
	})
	return app
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "path",
			Usage:       "page to open, e.g. /todos or /todos/3",
			Value:       "/",
			Destination: &cmd.path,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the interactive UI needs a terminal; use 'tada todo' for scripting")
	}

	stopProfiler, err := profiler.StartIfEnabled(ctx, cmd.flags.ProfilerPort)
	if err != nil {
		return err
	}
	defer stopProfiler()

	return tui.Run(ctx, cmd.app, cmd.path)
}
