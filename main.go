package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tada/internal/commands"
	"github.com/colonyops/tada/internal/core/config"
	"github.com/colonyops/tada/internal/core/styles"
	"github.com/colonyops/tada/internal/data/db"
	"github.com/colonyops/tada/internal/data/stores"
	"github.com/colonyops/tada/internal/tada"
	"github.com/colonyops/tada/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() falls back
	// to runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

// openDatabase opens the store, moving a corrupted file aside once and
// starting fresh.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil || !stores.IsCorruptionError(err) {
		return database, err
	}

	log.Error().Err(err).Msg("database is corrupted, backing it up and starting fresh")
	if rerr := stores.RecoverFromCorruption(cfg.DataDir); rerr != nil {
		return nil, fmt.Errorf("recover corrupted database: %w", rerr)
	}
	return db.Open(cfg.DataDir, opts)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		tadaApp   = &tada.App{}
		database  *db.DB
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "tada",
		Usage:     "A small todo list with toast notifications",
		UsageText: "tada [global options] command [command options]",
		Description: `Tada keeps a todo list in a local SQLite database.

Run 'tada' with no arguments to open the interactive list.
Run 'tada serve' to expose the same list over HTTP.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TADA_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/tada.log)",
				Sources:     cli.EnvVars("TADA_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TADA_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TADA_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.IntFlag{
				Name:        "profiler-port",
				Usage:       "serve pprof on localhost at this port (0 disables)",
				Sources:     cli.EnvVars("TADA_PROFILER_PORT"),
				Destination: &flags.ProfilerPort,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// The TUI owns the terminal, so logs always go to a file.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "tada.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			// Validation ensures the name is known.
			styles.UseTheme(cfg.TUI.Theme)

			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}

			database, err = openDatabase(cfg)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			toasts := tada.NewNotifier(cfg.Toast, nil)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*tadaApp = *tada.NewApp(cfg, database, stores.NewTodoStore(database), toasts)

			log.Debug().
				Str("data_dir", cfg.DataDir).
				Str("toast_mode", string(cfg.Toast.Mode)).
				Msg("tada started")

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if tadaApp.Toasts != nil {
				tadaApp.Close()
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, tadaApp)

	app = tuiCmd.Register(app)
	app = commands.NewTodoCmd(flags, tadaApp).Register(app)
	app = commands.NewToastCmd(flags, tadaApp).Register(app)
	app = commands.NewServeCmd(flags, tadaApp).Register(app)
	app = commands.NewDBCmd(flags, tadaApp).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'tada --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
