package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tada/internal/core/config"
	"github.com/colonyops/tada/internal/core/schedule/scheduletest"
	"github.com/colonyops/tada/internal/core/todo"
	"github.com/colonyops/tada/internal/data/db"
	"github.com/colonyops/tada/internal/data/stores"
	"github.com/colonyops/tada/internal/tada"
)

type fixture struct {
	app   *tada.App
	sched *scheduletest.Manual
	out   *bytes.Buffer
}

func newFixture(t *testing.T, mode config.ToastMode) *fixture {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	cfg := config.DefaultConfig()
	cfg.Toast.Mode = mode
	cfg.Toast.Delay = time.Second

	sched := scheduletest.NewManual()
	app := tada.NewApp(&cfg, database, stores.NewTodoStore(database), tada.NewNotifier(cfg.Toast, sched))
	t.Cleanup(app.Close)

	return &fixture{app: app, sched: sched, out: &bytes.Buffer{}}
}

func (f *fixture) run(t *testing.T, args ...string) error {
	t.Helper()
	f.out.Reset()

	flags := &Flags{}
	root := &cli.Command{Name: "tada", Writer: f.out, ErrWriter: f.out}
	root = NewTodoCmd(flags, f.app).Register(root)
	root = NewToastCmd(flags, f.app).Register(root)
	root = NewDBCmd(flags, f.app).Register(root)

	return root.Run(context.Background(), append([]string{"tada"}, args...))
}

func TestTodo_add_and_ls(t *testing.T) {
	f := newFixture(t, config.ToastModeQueue)

	require.NoError(t, f.run(t, "todo", "add", "buy", "milk"))
	assert.Contains(t, f.out.String(), "Todo created")
	assert.Contains(t, f.out.String(), "1\n")

	require.NoError(t, f.run(t, "todo", "add", "--body", "# notes", "release/v1"))

	require.NoError(t, f.run(t, "todo", "ls"))
	lines := strings.Split(strings.TrimSpace(f.out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "buy milk")
	assert.Contains(t, lines[1], "release/v1")
}

func TestTodo_ls_json_and_filters(t *testing.T) {
	f := newFixture(t, config.ToastModeQueue)
	require.NoError(t, f.run(t, "todo", "add", "release/v1"))
	require.NoError(t, f.run(t, "todo", "add", "groceries"))
	require.NoError(t, f.run(t, "todo", "done", "2"))

	require.NoError(t, f.run(t, "todo", "ls", "--match", "release/*", "--json"))
	var got todo.Todo
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(f.out.Bytes()), &got))
	assert.Equal(t, "release/v1", got.Subject)

	require.NoError(t, f.run(t, "todo", "ls", "--done"))
	assert.Contains(t, f.out.String(), "groceries")
	assert.NotContains(t, f.out.String(), "release/v1")

	require.NoError(t, f.run(t, "todo", "ls", "--open"))
	assert.Contains(t, f.out.String(), "release/v1")
	assert.NotContains(t, f.out.String(), "groceries")

	assert.Error(t, f.run(t, "todo", "ls", "--open", "--done"))
	assert.Error(t, f.run(t, "todo", "ls", "--match", "[unclosed"))
}

func TestTodo_add_requires_subject(t *testing.T) {
	f := newFixture(t, config.ToastModeQueue)
	assert.Error(t, f.run(t, "todo", "add"))
	assert.Empty(t, f.app.Toasts.Snapshot())
}

func TestTodo_done_undo_and_rm(t *testing.T) {
	f := newFixture(t, config.ToastModeSlot)
	require.NoError(t, f.run(t, "todo", "add", "write tests"))

	require.NoError(t, f.run(t, "todo", "done", "1"))
	assert.Contains(t, f.out.String(), "Todo completed")

	require.NoError(t, f.run(t, "todo", "done", "--undo", "1"))
	assert.Contains(t, f.out.String(), "Todo reopened")

	require.NoError(t, f.run(t, "todo", "rm", "1"))
	assert.Contains(t, f.out.String(), "Todo deleted")

	err := f.run(t, "todo", "rm", "1")
	require.ErrorIs(t, err, todo.ErrNotFound)
	assert.Contains(t, f.out.String(), "Todo not found")
}

func TestTodo_bad_id(t *testing.T) {
	f := newFixture(t, config.ToastModeQueue)
	assert.Error(t, f.run(t, "todo", "done", "abc"))
	assert.Error(t, f.run(t, "todo", "done", "0"))
	assert.Error(t, f.run(t, "todo", "rm"))
}

func TestTodo_show_raw(t *testing.T) {
	f := newFixture(t, config.ToastModeQueue)
	require.NoError(t, f.run(t, "todo", "add", "--body", "some *body*", "subject"))

	require.NoError(t, f.run(t, "todo", "show", "--raw", "1"))
	assert.Contains(t, f.out.String(), "subject")
	assert.Contains(t, f.out.String(), "some *body*")
}

func TestTodo_import(t *testing.T) {
	f := newFixture(t, config.ToastModeQueue)
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"subject":"a"},{"subject":""},{"subject":"c","body":"x"}]`), 0o644))

	err := f.run(t, "todo", "import", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3")

	todos, err := f.app.Todos.List(context.Background(), todo.Filter{})
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "c", todos[1].Subject)
}

func TestToast_prints_snapshot(t *testing.T) {
	f := newFixture(t, config.ToastModeQueue)

	require.NoError(t, f.run(t, "toast", "--kind", "warning", "one", "two"))
	assert.Contains(t, f.out.String(), "one")
	assert.Contains(t, f.out.String(), "two")
	assert.Len(t, f.app.Toasts.Snapshot(), 2)

	assert.Error(t, f.run(t, "toast"))
}

func TestToast_watch_until_drained(t *testing.T) {
	f := newFixture(t, config.ToastModeQueue)

	errc := make(chan error, 1)
	go func() { errc <- f.run(t, "toast", "--watch", "one", "two") }()

	require.Eventually(t, func() bool { return f.sched.Pending() == 2 }, time.Second, time.Millisecond)
	f.sched.Advance(time.Second)

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not return after the queue drained")
	}

	out := f.out.String()
	assert.Equal(t, 2, strings.Count(out, "+ "))
	assert.Equal(t, 2, strings.Count(out, "- "))
}

func TestDB_status_and_rollback(t *testing.T) {
	f := newFixture(t, config.ToastModeQueue)

	require.NoError(t, f.run(t, "db", "status"))
	assert.Equal(t,
		"0001 applied  todos\n0002 applied  todos_created_at_index\n",
		f.out.String())

	require.NoError(t, f.run(t, "db", "rollback"))
	assert.Contains(t, f.out.String(), "reverted 1 migration(s)")

	require.NoError(t, f.run(t, "db", "status"))
	assert.Contains(t, f.out.String(), "0002 pending  todos_created_at_index")

	// Todos survive an index rollback.
	require.NoError(t, f.run(t, "todo", "add", "still works"))
}

func TestDB_rollback_too_many(t *testing.T) {
	f := newFixture(t, config.ToastModeQueue)

	err := f.run(t, "db", "rollback", "--steps", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only 2 are applied")
}
