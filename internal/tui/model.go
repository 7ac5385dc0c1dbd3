// Package tui implements the terminal interface. The visible page is chosen
// by matching the current path against the route table.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"

	"github.com/colonyops/tada/internal/core/logging"
	"github.com/colonyops/tada/internal/core/route"
	"github.com/colonyops/tada/internal/core/todo"
	"github.com/colonyops/tada/internal/tada"
)

type (
	todosLoadedMsg struct{ todos []todo.Todo }
	todoLoadedMsg  struct{ todo todo.Todo }
	todoSavedMsg   struct{ todo todo.Todo }
	todoDeletedMsg struct{ id int64 }
	errMsg         struct{ err error }
	navigateMsg    struct{ path string }
)

type menuItem struct {
	label string
	path  string
}

var homeMenu = []menuItem{
	{label: "Todos", path: "/todos"},
	{label: "New todo", path: "/todos/create"},
}

// createForm holds the huh form and the values it writes to. The values are
// pointers so copies of Model share them with the form.
type createForm struct {
	form    *huh.Form
	subject *string
	body    *string
}

// Model is the root bubbletea model.
type Model struct {
	app    *tada.App
	signal *ChangeSignal
	toasts *ToastView
	log    zerolog.Logger

	keys     keyMap
	help     help.Model
	showHelp bool

	start string
	path  string
	match route.Match

	width  int
	height int

	homeCursor int
	todos      []todo.Todo
	todoCursor int
	create     *createForm
	detail     todo.Todo
	viewport   viewport.Model

	err error
}

// New builds the model starting at path.
func New(app *tada.App, path string) Model {
	m := Model{
		app:      app,
		signal:   NewChangeSignal(app.Toasts),
		toasts:   NewToastView(app.Toasts),
		log:      logging.Component("tui"),
		keys:     defaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(80, 20),
	}
	m.path = "/"
	m.match, _ = app.Routes.Match("/")
	m.start = path
	if m.start == "" {
		m.start = "/"
	}
	return m
}

// Path returns the path of the visible page.
func (m Model) Path() string {
	return m.path
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.signal.Wait(), navigate(m.start))
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-6, 1)
		if m.match.Route.Name == route.Todo && m.detail.ID != 0 {
			m.viewport.SetContent(m.renderMarkdown(m.detail.Body))
		}
		return m, nil

	case toastsChangedMsg:
		// The view reads the snapshot; only keep listening.
		return m, m.signal.Wait()

	case navigateMsg:
		return m.goTo(msg.path)

	case todosLoadedMsg:
		m.todos = msg.todos
		m.todoCursor = min(m.todoCursor, max(len(m.todos)-1, 0))
		m.err = nil
		return m, nil

	case todoLoadedMsg:
		m.detail = msg.todo
		m.viewport.SetContent(m.renderMarkdown(msg.todo.Body))
		m.viewport.GotoTop()
		m.err = nil
		return m, nil

	case todoSavedMsg:
		switch m.match.Route.Name {
		case route.TodoCreate:
			return m.goTo("/todos")
		case route.Todo:
			m.detail = msg.todo
			return m, nil
		default:
			return m, m.loadTodos()
		}

	case todoDeletedMsg:
		if m.match.Route.Name == route.Todo {
			return m.goTo("/todos")
		}
		return m, m.loadTodos()

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.create != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

// goTo resolves path and prepares the page it names. Unknown paths fall
// back to Home.
func (m Model) goTo(path string) (Model, tea.Cmd) {
	match, ok := m.app.Routes.Match(path)
	if !ok {
		m.log.Debug().Str("path", path).Msg("no route, going home")
		path = "/"
		match, _ = m.app.Routes.Match(path)
	}

	m.path = path
	m.match = match
	m.create = nil
	m.err = nil
	m.showHelp = false

	switch match.Route.Name {
	case route.Todos:
		return m, m.loadTodos()
	case route.TodoCreate:
		m.create = newCreateForm()
		return m, m.create.form.Init()
	case route.Todo:
		id, err := strconv.ParseInt(match.Param("id"), 10, 64)
		if err != nil {
			m.err = fmt.Errorf("invalid todo id %q", match.Param("id"))
			return m, nil
		}
		m.detail = todo.Todo{}
		return m, m.loadTodo(id)
	}
	return m, nil
}

func (m Model) back() (Model, tea.Cmd) {
	if m.path == "/" {
		return m, nil
	}
	return m.goTo(route.Parent(m.path))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// The form owns every key except esc.
	if m.create != nil {
		if msg.String() == "esc" {
			return m.back()
		}
		return m.updateForm(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		if d, ok := m.app.Toasts.(interface{ DismissAll() }); ok {
			d.DismissAll()
		}
		return m, nil
	case key.Matches(msg, m.keys.New):
		return m.goTo("/todos/create")
	}

	switch m.match.Route.Name {
	case route.Home:
		return m.handleHomeKey(msg)
	case route.Todos:
		return m.handleTodosKey(msg)
	case route.Todo:
		return m.handleTodoKey(msg)
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.homeCursor = max(m.homeCursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.homeCursor = min(m.homeCursor+1, len(homeMenu)-1)
	case key.Matches(msg, m.keys.Open):
		return m.goTo(homeMenu[m.homeCursor].path)
	}
	return m, nil
}

func (m Model) handleTodosKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.todoCursor = max(m.todoCursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.todoCursor = min(m.todoCursor+1, max(len(m.todos)-1, 0))
	case key.Matches(msg, m.keys.Reload):
		return m, m.loadTodos()
	}

	sel, ok := m.selected()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		path, err := m.app.Routes.Path(route.Todo, map[string]string{"id": strconv.FormatInt(sel.ID, 10)})
		if err != nil {
			m.err = err
			return m, nil
		}
		return m.goTo(path)
	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggleTodo(sel.ID)
	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteTodo(sel.ID)
	}
	return m, nil
}

func (m Model) handleTodoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail.ID == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggleTodo(m.detail.ID)
	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteTodo(m.detail.ID)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) selected() (todo.Todo, bool) {
	if m.todoCursor < 0 || m.todoCursor >= len(m.todos) {
		return todo.Todo{}, false
	}
	return m.todos[m.todoCursor], true
}

func newCreateForm() *createForm {
	f := &createForm{subject: new(string), body: new(string)}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("subject").
				Title("Subject").
				CharLimit(todo.MaxSubjectLength).
				Value(f.subject).
				Validate(func(s string) error {
					return todo.Todo{Subject: s}.Validate()
				}),
			huh.NewText().
				Key("body").
				Title("Notes").
				Description("Markdown").
				Value(f.body),
		),
	).WithShowHelp(true)
	return f
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.create.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		m.create.form = form
	}

	switch m.create.form.State {
	case huh.StateCompleted:
		subject, body := *m.create.subject, *m.create.body
		m.create = nil
		return m, tea.Batch(cmd, m.createTodo(subject, body))
	case huh.StateAborted:
		return m.back()
	}
	return m, cmd
}

func (m Model) loadTodos() tea.Cmd {
	svc := m.app.Todos
	return func() tea.Msg {
		todos, err := svc.List(context.Background(), todo.Filter{})
		if err != nil {
			return errMsg{err: err}
		}
		return todosLoadedMsg{todos: todos}
	}
}

func (m Model) loadTodo(id int64) tea.Cmd {
	svc := m.app.Todos
	return func() tea.Msg {
		t, err := svc.Get(context.Background(), id)
		if err != nil {
			return errMsg{err: err}
		}
		return todoLoadedMsg{todo: t}
	}
}

func (m Model) createTodo(subject, body string) tea.Cmd {
	svc := m.app.Todos
	return func() tea.Msg {
		t, err := svc.Create(context.Background(), subject, body)
		if err != nil {
			return errMsg{err: err}
		}
		return todoSavedMsg{todo: t}
	}
}

func (m Model) toggleTodo(id int64) tea.Cmd {
	svc := m.app.Todos
	return func() tea.Msg {
		t, err := svc.Toggle(context.Background(), id)
		if err != nil {
			return errMsg{err: err}
		}
		return todoSavedMsg{todo: t}
	}
}

func (m Model) deleteTodo(id int64) tea.Cmd {
	svc := m.app.Todos
	return func() tea.Msg {
		if err := svc.Delete(context.Background(), id); err != nil {
			return errMsg{err: err}
		}
		return todoDeletedMsg{id: id}
	}
}

// Run starts the program at path and blocks until it exits. Pending toast
// dismissals are cancelled on the way out.
func Run(ctx context.Context, app *tada.App, path string) error {
	m := New(app, path)
	defer app.Close()
	defer m.signal.Stop()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func trimTitle(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
