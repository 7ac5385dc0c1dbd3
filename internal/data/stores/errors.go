package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/colonyops/tada/internal/data/db"
)

// ErrBusy marks a store error caused by another writer holding the database
// lock past the busy timeout. Callers may retry.
var ErrBusy = errors.New("database is busy")

var corruptionMessages = []string{
	"database disk image is malformed",
	"file is not a database",
	"database corruption",
}

// sqliteCode returns the primary result code of a driver error, or -1.
func sqliteCode(err error) int {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return -1
	}
	return sqliteErr.Code() & 0xff
}

// IsBusyError reports whether err is, or wraps, SQLITE_BUSY.
func IsBusyError(err error) bool {
	return errors.Is(err, ErrBusy) || sqliteCode(err) == sqlite3.SQLITE_BUSY
}

// IsCorruptionError reports whether err means the database file is unusable.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	switch sqliteCode(err) {
	case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CANTOPEN:
		return true
	}

	msg := err.Error()
	for _, m := range corruptionMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// IsNotFoundError returns true if the error is a "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// wrapErr annotates a query failure with op. Busy failures also match ErrBusy.
func wrapErr(op string, err error) error {
	if IsBusyError(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrBusy, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// RecoverFromCorruption moves the database file and its WAL/SHM companions
// aside so the next Open starts from an empty database.
func RecoverFromCorruption(dataDir string) error {
	dbPath := filepath.Join(dataDir, db.FileName)
	backupPath := filepath.Join(dataDir,
		fmt.Sprintf("%s.corrupt.%s", db.FileName, time.Now().Format("20060102-150405")))

	// Stale WAL/SHM files left next to a fresh database would be replayed
	// into it, so they have to go even when the rename fails.
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := moveAside(dbPath+suffix, backupPath+suffix, suffix != ""); err != nil {
			return err
		}
	}
	return nil
}

func moveAside(src, dst string, removeOnFail bool) error {
	err := os.Rename(src, dst)
	switch {
	case err == nil, os.IsNotExist(err):
		return nil
	case removeOnFail && os.Remove(src) == nil:
		return nil
	default:
		return fmt.Errorf("move %s aside: %w", filepath.Base(src), err)
	}
}
