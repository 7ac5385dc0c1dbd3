package stores

import (
	"context"
	"errors"
	"time"

	"github.com/colonyops/tada/internal/core/todo"
	"github.com/colonyops/tada/internal/data/db"
)

// TodoStore implements todo.Store using SQLite.
type TodoStore struct {
	db  *db.DB
	now func() time.Time
}

var _ todo.Store = (*TodoStore)(nil)

// NewTodoStore creates a new SQLite-backed todo store.
func NewTodoStore(db *db.DB) *TodoStore {
	return &TodoStore{db: db, now: time.Now}
}

// Create persists a new todo and returns it with its ID and timestamps set.
func (s *TodoStore) Create(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	now := s.now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	id, err := s.db.Queries().InsertTodo(ctx, db.InsertTodoParams{
		Subject:   t.Subject,
		Body:      t.Body,
		Completed: boolToInt(t.Completed),
		CreatedAt: t.CreatedAt.UnixNano(),
		UpdatedAt: t.UpdatedAt.UnixNano(),
	})
	if err != nil {
		return todo.Todo{}, wrapErr("insert todo", err)
	}

	t.ID = id
	return t, nil
}

// Get returns a todo by ID. Returns todo.ErrNotFound if it does not exist.
func (s *TodoStore) Get(ctx context.Context, id int64) (todo.Todo, error) {
	row, err := s.db.Queries().GetTodo(ctx, id)
	if IsNotFoundError(err) {
		return todo.Todo{}, todo.ErrNotFound
	}
	if err != nil {
		return todo.Todo{}, wrapErr("get todo", err)
	}

	return rowToTodo(row), nil
}

// List returns all todos, oldest first.
func (s *TodoStore) List(ctx context.Context) ([]todo.Todo, error) {
	rows, err := s.db.Queries().ListTodos(ctx)
	if err != nil {
		return nil, wrapErr("list todos", err)
	}

	result := make([]todo.Todo, 0, len(rows))
	for _, row := range rows {
		result = append(result, rowToTodo(row))
	}

	return result, nil
}

// Update overwrites the editable fields of an existing todo. The write and
// the read-back share one transaction so the result is the row as written.
func (s *TodoStore) Update(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	t.UpdatedAt = s.now()

	var row db.TodoRow
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		n, err := q.UpdateTodo(ctx, db.UpdateTodoParams{
			Subject:   t.Subject,
			Body:      t.Body,
			Completed: boolToInt(t.Completed),
			UpdatedAt: t.UpdatedAt.UnixNano(),
			ID:        t.ID,
		})
		if err != nil {
			return err
		}
		if n == 0 {
			return todo.ErrNotFound
		}

		row, err = q.GetTodo(ctx, t.ID)
		return err
	})
	switch {
	case errors.Is(err, todo.ErrNotFound):
		return todo.Todo{}, todo.ErrNotFound
	case err != nil:
		return todo.Todo{}, wrapErr("update todo", err)
	}

	return rowToTodo(row), nil
}

// Delete removes a todo. Returns todo.ErrNotFound if it does not exist.
func (s *TodoStore) Delete(ctx context.Context, id int64) error {
	n, err := s.db.Queries().DeleteTodo(ctx, id)
	if err != nil {
		return wrapErr("delete todo", err)
	}
	if n == 0 {
		return todo.ErrNotFound
	}
	return nil
}

func rowToTodo(row db.TodoRow) todo.Todo {
	return todo.Todo{
		ID:        row.ID,
		Subject:   row.Subject,
		Body:      row.Body,
		Completed: row.Completed != 0,
		CreatedAt: time.Unix(0, row.CreatedAt),
		UpdatedAt: time.Unix(0, row.UpdatedAt),
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
