package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tada/internal/data/db"
	"github.com/colonyops/tada/internal/tada"
)

type DBCmd struct {
	flags *Flags
	app   *tada.App

	steps int
}

// NewDBCmd creates a new db command
func NewDBCmd(flags *Flags, app *tada.App) *DBCmd {
	return &DBCmd{flags: flags, app: app}
}

// Register adds the db command to the application.
func (cmd *DBCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "db",
		Usage: "Inspect and roll back database migrations",
		Description: `Maintenance commands for the todo database.

Every tada invocation applies pending migrations on startup, so a rollback
only lasts until the next run. Use it to test a down migration or to hand
the file to an older build.`,
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "List migrations and whether each is applied",
				Action: cmd.runStatus,
			},
			{
				Name:      "rollback",
				Usage:     "Revert the most recently applied migrations",
				UsageText: "tada db rollback [--steps <n>]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "steps",
						Aliases:     []string{"n"},
						Usage:       "number of migrations to revert",
						Value:       1,
						Destination: &cmd.steps,
					},
				},
				Action: cmd.runRollback,
			},
		},
	})
	return app
}

func (cmd *DBCmd) runStatus(ctx context.Context, c *cli.Command) error {
	states, err := db.MigrationStatus(ctx, cmd.app.DB.Conn())
	if err != nil {
		return err
	}

	w := c.Root().Writer
	for _, s := range states {
		mark := "pending"
		if s.Applied {
			mark = "applied"
		}
		if _, err := fmt.Fprintf(w, "%04d %-8s %s\n", s.Version, mark, s.Name); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *DBCmd) runRollback(ctx context.Context, c *cli.Command) error {
	if err := db.MigrateDown(ctx, cmd.app.DB.Conn(), cmd.steps); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}

	log.Info().Int("steps", cmd.steps).Msg("migrations reverted")
	_, err := fmt.Fprintf(c.Root().Writer, "reverted %d migration(s)\n", cmd.steps)
	return err
}
