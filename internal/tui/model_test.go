package tui

import (
	"context"
	"strconv"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tada/internal/core/config"
	"github.com/colonyops/tada/internal/core/route"
	"github.com/colonyops/tada/internal/core/schedule/scheduletest"
	"github.com/colonyops/tada/internal/core/todo"
	"github.com/colonyops/tada/internal/data/db"
	"github.com/colonyops/tada/internal/data/stores"
	"github.com/colonyops/tada/internal/tada"
	"github.com/colonyops/tada/pkg/tuitest"
)

func newTestModel(t *testing.T) (Model, *tada.App) {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	cfg := config.DefaultConfig()
	app := tada.NewApp(&cfg, database, stores.NewTodoStore(database), tada.NewNotifier(cfg.Toast, scheduletest.NewManual()))
	t.Cleanup(app.Close)

	m := New(app, "")
	t.Cleanup(m.signal.Stop)
	return m, app
}

// send runs one Update and then feeds the resulting command's message back
// in, once. Commands that would block are never produced by key or load
// messages.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()

	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}

	out := cmd()
	if _, ok := out.(tea.BatchMsg); ok {
		return m
	}
	if out == nil {
		return m
	}
	next, _ = m.Update(out)
	return next.(Model)
}

func TestModel_navigate_resolves_routes(t *testing.T) {
	m, _ := newTestModel(t)

	tests := []struct {
		path string
		want string
	}{
		{"/", route.Home},
		{"/todos", route.Todos},
		{"/todos/create", route.TodoCreate},
		{"/todos/7", route.Todo},
		{"/nowhere/at/all", route.Home},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			next, _ := m.Update(navigateMsg{path: tt.path})
			got := next.(Model)
			assert.Equal(t, tt.want, got.match.Route.Name)
		})
	}
}

func TestModel_home_menu(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, navigateMsg{path: "/"})

	m = send(t, m, tuitest.Key("down"))
	assert.Equal(t, 1, m.homeCursor)
	m = send(t, m, tuitest.Key("down"))
	assert.Equal(t, 1, m.homeCursor)

	next, _ := m.Update(tuitest.Key("enter"))
	assert.Equal(t, "/todos/create", next.(Model).Path())
}

func TestModel_todos_list_toggle_delete(t *testing.T) {
	m, app := newTestModel(t)
	ctx := context.Background()

	_, err := app.Todos.Create(ctx, "first", "")
	require.NoError(t, err)
	_, err = app.Todos.Create(ctx, "second", "")
	require.NoError(t, err)

	m = send(t, m, navigateMsg{path: "/todos"})
	require.Len(t, m.todos, 2)
	assert.Contains(t, m.View(), "second")

	m = send(t, m, tuitest.Key("down"))
	assert.Equal(t, 1, m.todoCursor)

	// toggle -> saved -> reload command is returned but not run
	m = send(t, m, tuitest.Key("x"))
	got, err := app.Todos.Get(ctx, m.todos[1].ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	snap := app.Toasts.Snapshot()
	assert.Equal(t, "Todo completed", snap[len(snap)-1].Message)

	m = send(t, m, tuitest.Key("d"))
	m = send(t, m, tuitest.Key("r"))
	assert.Len(t, m.todos, 1)
	assert.Equal(t, "first", m.todos[0].Subject)
	assert.Equal(t, 0, m.todoCursor)
}

func TestModel_todo_detail(t *testing.T) {
	m, app := newTestModel(t)

	created, err := app.Todos.Create(context.Background(), "read book", "# Chapter one")
	require.NoError(t, err)

	m = send(t, m, navigateMsg{path: "/todos"})
	m = send(t, m, tuitest.Key("enter"))
	assert.Equal(t, route.Todo, m.match.Route.Name)
	assert.Equal(t, created.ID, m.detail.ID)
	assert.Contains(t, m.View(), "read book")

	m = send(t, m, tuitest.Key("esc"))
	assert.Equal(t, "/todos", m.Path())
	assert.Len(t, m.todos, 1)
}

func TestModel_todo_detail_delete_returns_to_list(t *testing.T) {
	m, app := newTestModel(t)

	created, err := app.Todos.Create(context.Background(), "gone soon", "")
	require.NoError(t, err)

	m = send(t, m, navigateMsg{path: "/todos/" + itoa(created.ID)})
	require.Equal(t, created.ID, m.detail.ID)

	m = send(t, m, tuitest.Key("d"))
	assert.Equal(t, "/todos", m.Path())
}

func TestModel_todo_detail_missing(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(t, m, navigateMsg{path: "/todos/999"})
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "error:")
}

func TestModel_create_page(t *testing.T) {
	m, app := newTestModel(t)

	next, _ := m.Update(navigateMsg{path: "/todos/create"})
	m = next.(Model)
	require.NotNil(t, m.create)

	assert.Contains(t, m.View(), "New todo")

	m = send(t, m, todoSavedMsg{})
	assert.Equal(t, "/todos", m.Path())

	m = send(t, m, m.createTodo("from form", "")())
	list, err := app.Todos.List(context.Background(), todo.Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestModel_create_page_esc(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(navigateMsg{path: "/todos/create"})
	m = send(t, next.(Model), tuitest.Key("esc"))
	assert.Equal(t, "/todos", m.Path())
	assert.Nil(t, m.create)
}

func TestModel_toasts_in_view(t *testing.T) {
	m, app := newTestModel(t)
	m = send(t, m, tuitest.WindowSize(100, 30))

	app.Toasts.Enqueue("hello there", "")

	next, cmd := m.Update(toastsChangedMsg{})
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "hello there")

	m = send(t, m, tuitest.Key("c"))
	assert.Empty(t, app.Toasts.Snapshot())
	assert.NotContains(t, m.View(), "hello there")
}

func TestModel_quit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(tuitest.Key("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
