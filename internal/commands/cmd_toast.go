package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/tada/internal/core/toast"
	"github.com/colonyops/tada/internal/tada"
)

type ToastCmd struct {
	flags *Flags
	app   *tada.App

	kind  string
	watch bool
}

// NewToastCmd creates a new toast command
func NewToastCmd(flags *Flags, app *tada.App) *ToastCmd {
	return &ToastCmd{flags: flags, app: app}
}

// Register adds the toast command to the application.
func (cmd *ToastCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "toast",
		Usage:     "Show notifications and watch them expire",
		UsageText: "tada toast [--kind <kind>] [--watch] <message...>",
		Description: `Enqueues each argument as a toast on the configured holder.

With --watch the command stays in the foreground, printing every change
until all toasts have expired. Useful for checking toast.mode and
toast.delay settings.

Examples:
  tada toast "saved"
  tada toast --kind error --watch "disk full" "retrying"`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "kind",
				Aliases:     []string{"k"},
				Usage:       "toast kind: success, info, warning or error",
				Value:       string(toast.DefaultKind),
				Destination: &cmd.kind,
			},
			&cli.BoolFlag{
				Name:        "watch",
				Aliases:     []string{"w"},
				Usage:       "print changes until every toast expires",
				Destination: &cmd.watch,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ToastCmd) run(ctx context.Context, c *cli.Command) error {
	messages := c.Args().Slice()
	if len(messages) == 0 {
		return errors.New("at least one message is required")
	}

	w := c.Root().Writer
	n := cmd.app.Toasts

	var drained <-chan struct{}
	if cmd.watch {
		var unsubscribe func()
		drained, unsubscribe = watchToasts(w, n)
		defer unsubscribe()
	}

	for _, msg := range messages {
		n.Enqueue(msg, toast.Kind(cmd.kind))
	}

	if !cmd.watch {
		for _, t := range n.Snapshot() {
			_, _ = fmt.Fprintln(w, formatToast(t))
		}
		return nil
	}

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// watchToasts prints one line per change to n. The returned channel is
// closed the first time n becomes empty after having shown a toast.
func watchToasts(w io.Writer, n toast.Notifier) (<-chan struct{}, func()) {
	done := make(chan struct{})
	var (
		once sync.Once
		seen bool
		mu   sync.Mutex
	)

	markEmpty := func(empty bool) {
		if !empty {
			seen = true
			return
		}
		if seen {
			once.Do(func() { close(done) })
		}
	}

	if q, ok := n.(*toast.Queue); ok {
		unsubscribe := q.Subscribe(func(ch toast.Change) {
			mu.Lock()
			defer mu.Unlock()
			switch ch.Op {
			case toast.OpAdded:
				_, _ = fmt.Fprintf(w, "+ %s\n", formatToast(ch.Notification))
			case toast.OpRemoved:
				_, _ = fmt.Fprintf(w, "- %s\n", formatToast(ch.Notification))
			case toast.OpCleared:
				_, _ = fmt.Fprintln(w, "- (cleared)")
			}
			markEmpty(len(ch.Items) == 0)
		})
		return done, unsubscribe
	}

	unsubscribe := n.OnChange(func() {
		mu.Lock()
		defer mu.Unlock()
		items := n.Snapshot()
		if len(items) == 0 {
			_, _ = fmt.Fprintln(w, "- (empty)")
		}
		for _, t := range items {
			_, _ = fmt.Fprintf(w, "= %s\n", formatToast(t))
		}
		markEmpty(len(items) == 0)
	})
	return done, unsubscribe
}
