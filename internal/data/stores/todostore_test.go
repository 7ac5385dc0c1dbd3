package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tada/internal/core/todo"
	"github.com/colonyops/tada/internal/data/db"
)

func newTestTodoStore(t *testing.T) *TodoStore {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewTodoStore(database)
}

func TestTodoStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		store := newTestTodoStore(t)

		created, err := store.Create(ctx, todo.Todo{Subject: "buy milk", Body: "*two* liters"})
		require.NoError(t, err)
		assert.Positive(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		got, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "buy milk", got.Subject)
		assert.Equal(t, "*two* liters", got.Body)
		assert.False(t, got.Completed)
		assert.Equal(t, created.CreatedAt.UnixNano(), got.CreatedAt.UnixNano())
	})

	t.Run("get missing", func(t *testing.T) {
		store := newTestTodoStore(t)

		_, err := store.Get(ctx, 99)
		assert.ErrorIs(t, err, todo.ErrNotFound)
	})

	t.Run("list returns oldest first", func(t *testing.T) {
		store := newTestTodoStore(t)

		base := time.Now()
		for i, subject := range []string{"first", "second", "third"} {
			_, err := store.Create(ctx, todo.Todo{
				Subject:   subject,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			})
			require.NoError(t, err)
		}

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "first", items[0].Subject)
		assert.Equal(t, "second", items[1].Subject)
		assert.Equal(t, "third", items[2].Subject)
	})

	t.Run("list empty", func(t *testing.T) {
		store := newTestTodoStore(t)

		items, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("update", func(t *testing.T) {
		store := newTestTodoStore(t)

		created, err := store.Create(ctx, todo.Todo{Subject: "draft"})
		require.NoError(t, err)

		created.Subject = "final"
		created.Completed = true
		updated, err := store.Update(ctx, created)
		require.NoError(t, err)
		assert.Equal(t, "final", updated.Subject)
		assert.True(t, updated.Completed)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("update missing", func(t *testing.T) {
		store := newTestTodoStore(t)

		_, err := store.Update(ctx, todo.Todo{ID: 5, Subject: "ghost"})
		assert.ErrorIs(t, err, todo.ErrNotFound)
	})

	t.Run("update reads back the stored row", func(t *testing.T) {
		store := newTestTodoStore(t)

		created, err := store.Create(ctx, todo.Todo{Subject: "keep", Body: "original"})
		require.NoError(t, err)

		// Only ID and the editable fields matter; CreatedAt comes from storage.
		updated, err := store.Update(ctx, todo.Todo{ID: created.ID, Subject: "keep", Body: "edited"})
		require.NoError(t, err)
		assert.Equal(t, "edited", updated.Body)
		assert.Equal(t, created.CreatedAt.UnixNano(), updated.CreatedAt.UnixNano())

		got, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("delete", func(t *testing.T) {
		store := newTestTodoStore(t)

		created, err := store.Create(ctx, todo.Todo{Subject: "temp"})
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, created.ID))
		assert.ErrorIs(t, store.Delete(ctx, created.ID), todo.ErrNotFound)

		_, err = store.Get(ctx, created.ID)
		assert.ErrorIs(t, err, todo.ErrNotFound)
	})
}
