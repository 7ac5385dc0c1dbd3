package tada

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/colonyops/tada/internal/core/logging"
	"github.com/colonyops/tada/internal/core/toast"
	"github.com/colonyops/tada/internal/core/todo"
)

// TodoService wraps todo.Store with validation and user feedback. Every
// mutation reports its outcome as a toast: success on the happy path, error
// when it fails. Reads stay silent.
type TodoService struct {
	store  todo.Store
	toasts toast.Notifier
	log    zerolog.Logger
}

// NewTodoService creates a new TodoService.
func NewTodoService(store todo.Store, toasts toast.Notifier) *TodoService {
	return &TodoService{
		store:  store,
		toasts: toasts,
		log:    logging.Component("todo-service"),
	}
}

// Create validates and stores a new todo.
func (s *TodoService) Create(ctx context.Context, subject, body string) (todo.Todo, error) {
	t := todo.Todo{
		Subject: strings.TrimSpace(subject),
		Body:    body,
	}
	if err := t.Validate(); err != nil {
		return todo.Todo{}, s.fail("create", err)
	}

	created, err := s.store.Create(ctx, t)
	if err != nil {
		return todo.Todo{}, s.fail("create", err)
	}

	s.log.Debug().Int64("id", created.ID).Msg("todo created")
	toast.Successf(s.toasts, "Todo created")
	return created, nil
}

// Get returns a single todo by ID.
func (s *TodoService) Get(ctx context.Context, id int64) (todo.Todo, error) {
	return s.store.Get(ctx, id)
}

// List returns the todos that pass filter, oldest first.
func (s *TodoService) List(ctx context.Context, filter todo.Filter) ([]todo.Todo, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return filter.Apply(all), nil
}

// Update replaces subject, body and completion state of an existing todo.
func (s *TodoService) Update(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	t.Subject = strings.TrimSpace(t.Subject)
	if err := t.Validate(); err != nil {
		return todo.Todo{}, s.fail("update", err)
	}

	updated, err := s.store.Update(ctx, t)
	if err != nil {
		return todo.Todo{}, s.fail("update", err)
	}

	toast.Successf(s.toasts, "Todo updated")
	return updated, nil
}

// SetCompleted marks a todo done or open.
func (s *TodoService) SetCompleted(ctx context.Context, id int64, done bool) (todo.Todo, error) {
	action := "complete"
	if !done {
		action = "reopen"
	}

	t, err := s.store.Get(ctx, id)
	if err != nil {
		return todo.Todo{}, s.fail(action, err)
	}
	if t.Completed == done {
		return t, nil
	}

	t.Completed = done
	updated, err := s.store.Update(ctx, t)
	if err != nil {
		return todo.Todo{}, s.fail(action, err)
	}

	if done {
		toast.Successf(s.toasts, "Todo completed")
	} else {
		toast.Successf(s.toasts, "Todo reopened")
	}
	return updated, nil
}

// Toggle flips the completion state of a todo.
func (s *TodoService) Toggle(ctx context.Context, id int64) (todo.Todo, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return todo.Todo{}, s.fail("update", err)
	}
	return s.SetCompleted(ctx, id, !t.Completed)
}

// Delete removes a todo.
func (s *TodoService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.fail("delete", err)
	}

	s.log.Debug().Int64("id", id).Msg("todo deleted")
	toast.Successf(s.toasts, "Todo deleted")
	return nil
}

// fail reports err to the user as an error toast and returns it wrapped.
func (s *TodoService) fail(action string, err error) error {
	if errors.Is(err, todo.ErrNotFound) {
		toast.Errorf(s.toasts, "Todo not found")
	} else {
		toast.Errorf(s.toasts, "Could not %s todo: %v", action, err)
	}

	s.log.Warn().Err(err).Str("action", action).Msg("todo operation failed")
	return fmt.Errorf("%s todo: %w", action, err)
}
