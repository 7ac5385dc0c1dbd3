package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tada/internal/core/styles"
	"github.com/colonyops/tada/internal/core/toast"
	"github.com/colonyops/tada/internal/core/todo"
	"github.com/colonyops/tada/internal/tada"
	"github.com/colonyops/tada/internal/tui"
	"github.com/colonyops/tada/pkg/iojson"
)

// TodoCmd implements the tada todo command group.
type TodoCmd struct {
	flags *Flags
	app   *tada.App

	// add flags
	addBody string

	// ls flags
	lsMatch string
	lsDone  bool
	lsOpen  bool
	lsJSON  bool

	// done flags
	doneUndo bool

	// show flags
	showRaw bool

	importReader iojson.FileReader[[]importItem]
}

type importItem struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewTodoCmd creates a new todo command.
func NewTodoCmd(flags *Flags, app *tada.App) *TodoCmd {
	return &TodoCmd{flags: flags, app: app}
}

// Register adds the todo command to the application.
func (cmd *TodoCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "todo",
		Usage: "Manage todos from the command line",
		Description: `Todo commands for scripting and quick edits.

Every change prints the notification it produced.

Examples:
  tada todo add "buy milk"                  # create a todo
  tada todo ls --open                       # list open todos
  tada todo ls --match "release/*" --json   # JSON lines for scripts
  tada todo done 3                          # mark a todo completed
  tada todo rm 3                            # delete a todo`,
		Commands: []*cli.Command{
			cmd.addCmd(),
			cmd.lsCmd(),
			cmd.showCmd(),
			cmd.doneCmd(),
			cmd.rmCmd(),
			cmd.importCmd(),
		},
	})

	return app
}

func (cmd *TodoCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a todo",
		UsageText: "tada todo add [--body <markdown>] <subject...>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "body",
				Aliases:     []string{"b"},
				Usage:       "markdown body",
				Destination: &cmd.addBody,
			},
		},
		Action: cmd.runAdd,
	}
}

func (cmd *TodoCmd) runAdd(ctx context.Context, c *cli.Command) error {
	subject := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(subject) == "" {
		return errors.New("subject is required")
	}

	created, err := cmd.app.Todos.Create(ctx, subject, cmd.addBody)
	cmd.printToasts(c.Root().Writer)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.Root().Writer, "%d\n", created.ID)
	return err
}

func (cmd *TodoCmd) lsCmd() *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Aliases:   []string{"list"},
		Usage:     "List todos",
		UsageText: "tada todo ls [--match <glob>] [--done | --open] [--json]",
		Description: `Lists todos oldest first.

--match takes a glob matched against the subject; ** crosses "/".

Examples:
  tada todo ls
  tada todo ls --done
  tada todo ls --match "work/**" --json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "match",
				Aliases:     []string{"m"},
				Usage:       "glob pattern for subjects",
				Destination: &cmd.lsMatch,
			},
			&cli.BoolFlag{
				Name:        "done",
				Usage:       "only completed todos",
				Destination: &cmd.lsDone,
			},
			&cli.BoolFlag{
				Name:        "open",
				Usage:       "only open todos",
				Destination: &cmd.lsOpen,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print JSON lines",
				Destination: &cmd.lsJSON,
			},
		},
		Action: cmd.runLs,
	}
}

func (cmd *TodoCmd) runLs(ctx context.Context, c *cli.Command) error {
	if cmd.lsDone && cmd.lsOpen {
		return errors.New("--done and --open are mutually exclusive")
	}

	filter := todo.Filter{Pattern: cmd.lsMatch}
	switch {
	case cmd.lsDone:
		filter.Completed = new(bool)
		*filter.Completed = true
	case cmd.lsOpen:
		filter.Completed = new(bool)
	}

	todos, err := cmd.app.Todos.List(ctx, filter)
	if err != nil {
		return err
	}

	w := c.Root().Writer
	for _, t := range todos {
		if cmd.lsJSON {
			if err := iojson.WriteLine(w, t); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(w, formatTodoLine(t)); err != nil {
			return err
		}
	}

	return nil
}

func formatTodoLine(t todo.Todo) string {
	icon := styles.IconTodoOpen
	subject := t.Subject
	if t.Completed {
		icon = styles.IconTodoDone
		subject = styles.DoneStyle.Render(subject)
	}
	return fmt.Sprintf("%4d %s %s", t.ID, icon, subject)
}

func (cmd *TodoCmd) showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a todo with its rendered body",
		UsageText: "tada todo show [--raw] <id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print the body without markdown rendering",
				Destination: &cmd.showRaw,
			},
		},
		Action: cmd.runShow,
	}
}

func (cmd *TodoCmd) runShow(ctx context.Context, c *cli.Command) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}

	t, err := cmd.app.Todos.Get(ctx, id)
	if err != nil {
		return err
	}

	w := c.Root().Writer
	if _, err := fmt.Fprintln(w, styles.TitleStyle.Render(formatTodoLine(t))); err != nil {
		return err
	}
	if t.Body == "" {
		return nil
	}

	body := t.Body
	if !cmd.showRaw {
		rendered, err := tui.RenderMarkdown(t.Body, 80)
		if err != nil {
			log.Debug().Err(err).Msg("markdown render failed, printing raw body")
		} else {
			body = rendered
		}
	}

	_, err = fmt.Fprintln(w, body)
	return err
}

func (cmd *TodoCmd) doneCmd() *cli.Command {
	return &cli.Command{
		Name:      "done",
		Usage:     "Mark a todo completed",
		UsageText: "tada todo done [--undo] <id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "undo",
				Usage:       "reopen the todo instead",
				Destination: &cmd.doneUndo,
			},
		},
		Action: cmd.runDone,
	}
}

func (cmd *TodoCmd) runDone(ctx context.Context, c *cli.Command) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}

	_, err = cmd.app.Todos.SetCompleted(ctx, id, !cmd.doneUndo)
	cmd.printToasts(c.Root().Writer)
	return err
}

func (cmd *TodoCmd) rmCmd() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Aliases:   []string{"delete"},
		Usage:     "Delete a todo",
		UsageText: "tada todo rm <id>",
		Action:    cmd.runRm,
	}
}

func (cmd *TodoCmd) runRm(ctx context.Context, c *cli.Command) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}

	err = cmd.app.Todos.Delete(ctx, id)
	cmd.printToasts(c.Root().Writer)
	return err
}

func (cmd *TodoCmd) importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Create todos from a JSON array",
		UsageText: "tada todo import [-f <file>]",
		Description: `Reads a JSON array of {"subject", "body"} objects from a file or stdin.

Examples:
  tada todo import -f todos.json
  echo '[{"subject":"a"},{"subject":"b"}]' | tada todo import`,
		Flags:  []cli.Flag{cmd.importReader.Flag()},
		Action: cmd.runImport,
	}
}

func (cmd *TodoCmd) runImport(ctx context.Context, c *cli.Command) error {
	items, err := cmd.importReader.Read()
	if err != nil {
		return err
	}

	w := c.Root().Writer
	var failed int
	for i, item := range items {
		created, err := cmd.app.Todos.Create(ctx, item.Subject, item.Body)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("skipping todo")
			failed++
			continue
		}
		if _, err := fmt.Fprintf(w, "%d\n", created.ID); err != nil {
			return err
		}
	}
	cmd.printToasts(w)

	if failed > 0 {
		return fmt.Errorf("%d of %d todos failed to import", failed, len(items))
	}
	return nil
}

// printToasts writes the notifications currently on display, one per line.
func (cmd *TodoCmd) printToasts(w io.Writer) {
	for _, n := range cmd.app.Toasts.Snapshot() {
		_, _ = fmt.Fprintln(w, formatToast(n))
	}
}

func formatToast(n toast.Notification) string {
	return styles.ToastStyle(n.Kind).Render(styles.ToastIcon(n.Kind) + " " + n.Message)
}

func idArg(c *cli.Command) (int64, error) {
	if c.NArg() != 1 {
		return 0, errors.New("exactly one todo id is required")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid todo id %q", c.Args().First())
	}
	return id, nil
}
