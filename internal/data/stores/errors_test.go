package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tada/internal/core/todo"
	"github.com/colonyops/tada/internal/data/db"
)

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(sql.ErrNoRows))
	assert.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", sql.ErrNoRows)))
	assert.False(t, IsNotFoundError(errors.New("other")))
	assert.False(t, IsNotFoundError(nil))
}

func TestIsBusyError(t *testing.T) {
	assert.True(t, IsBusyError(ErrBusy))
	assert.True(t, IsBusyError(fmt.Errorf("wrapped: %w", ErrBusy)))
	assert.False(t, IsBusyError(errors.New("database is locked by me")))
	assert.False(t, IsBusyError(nil))
}

func TestWrapErr(t *testing.T) {
	err := wrapErr("get todo", sql.ErrConnDone)
	assert.EqualError(t, err, "get todo: "+sql.ErrConnDone.Error())
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NotErrorIs(t, err, ErrBusy)
}

func TestTodoStore_write_while_locked_is_busy(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(t.TempDir(), db.OpenOptions{BusyTimeout: 20})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	holder, err := database.Conn().Conn(ctx)
	require.NoError(t, err)
	_, err = holder.ExecContext(ctx, "BEGIN IMMEDIATE")
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = holder.ExecContext(ctx, "ROLLBACK")
		_ = holder.Close()
	})

	store := NewTodoStore(database)
	_, err = store.Create(ctx, todo.Todo{Subject: "blocked"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBusy)
	assert.True(t, IsBusyError(err))
}

func TestIsCorruptionError_message(t *testing.T) {
	assert.True(t, IsCorruptionError(errors.New("database disk image is malformed")))
	assert.False(t, IsCorruptionError(errors.New("no such table")))
	assert.False(t, IsCorruptionError(nil))
}

func TestRecoverFromCorruption_moves_files(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, db.FileName)

	require.NoError(t, os.WriteFile(dbPath, []byte("corrupted data"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-shm", []byte("shm"), 0o644))

	require.NoError(t, RecoverFromCorruption(dir))

	backups, err := filepath.Glob(filepath.Join(dir, db.FileName+".corrupt.*"))
	require.NoError(t, err)

	var main, wal, shm int
	for _, f := range backups {
		switch {
		case strings.HasSuffix(f, "-wal"):
			wal++
		case strings.HasSuffix(f, "-shm"):
			shm++
		default:
			main++
		}
	}
	assert.Equal(t, 1, main)
	assert.Equal(t, 1, wal)
	assert.Equal(t, 1, shm)

	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "%s should be gone", p)
	}

	// A fresh database opens in the same directory.
	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	_ = database.Close()
}

func TestRecoverFromCorruption_missing_file(t *testing.T) {
	assert.NoError(t, RecoverFromCorruption(t.TempDir()))
}
