package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrLockContention marks a transient busy/locked condition reported by the store.
var ErrLockContention = errors.New("lock contention")

// Postgres SQLSTATEs that mean another transaction holds what we need.
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqLockNotAvailable     = "55P03"
)

// IsLockContention reports whether err is a busy/locked condition worth retrying
func IsLockContention(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrLockContention) {
		return true
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqSerializationFailure, pqDeadlockDetected, pqLockNotAvailable:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}

// Classify tags contention errors with ErrLockContention and leaves others untouched
func Classify(err error) error {
	if err == nil || errors.Is(err, ErrLockContention) || !IsLockContention(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrLockContention, err)
}
