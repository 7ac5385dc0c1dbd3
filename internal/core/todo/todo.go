// Package todo defines the todo item domain and its storage contract.
package todo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
)

// MaxSubjectLength is the longest subject accepted, in characters.
const MaxSubjectLength = 200

// ErrNotFound is returned when a todo does not exist.
var ErrNotFound = errors.New("todo not found")

// Todo is a single item on the list. Body is markdown.
type Todo struct {
	ID        int64     `json:"id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists todos.
type Store interface {
	Create(ctx context.Context, t Todo) (Todo, error)
	Get(ctx context.Context, id int64) (Todo, error)
	List(ctx context.Context) ([]Todo, error)
	Update(ctx context.Context, t Todo) (Todo, error)
	Delete(ctx context.Context, id int64) error
}

// Validate checks the user-editable fields.
func (t Todo) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("subject", t.Subject, validSubject),
	)
}

func validSubject(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("is required")
	}
	if n := utf8.RuneCountInString(s); n > MaxSubjectLength {
		return fmt.Errorf("must be at most %d characters, got %d", MaxSubjectLength, n)
	}
	return nil
}

// Filter selects todos from a list.
type Filter struct {
	// Pattern is a doublestar glob matched against the subject. Empty
	// matches everything.
	Pattern string
	// Completed, when set, keeps only todos with that completion state.
	Completed *bool
}

// Validate reports a malformed pattern.
func (f Filter) Validate() error {
	if f.Pattern != "" && !doublestar.ValidatePattern(f.Pattern) {
		return criterio.NewFieldErrors("pattern", fmt.Errorf("invalid glob %q", f.Pattern))
	}
	return nil
}

// Apply returns the todos that pass the filter, in their original order.
func (f Filter) Apply(todos []Todo) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		if f.Pattern != "" {
			ok, err := doublestar.Match(f.Pattern, t.Subject)
			if err != nil || !ok {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
