// Package lite opens an embedded SQLite database through modernc.org/sqlite
package lite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Config configures the SQLite handle
type Config struct {
	// Path is a file path or ":memory:"
	Path string
	// BusyTimeoutMs bounds how long a writer waits on a locked database
	BusyTimeoutMs int
}

// DSN renders the modernc connection string with WAL and a busy timeout
func DSN(cfg Config) (string, error) {
	p := strings.TrimSpace(cfg.Path)
	if p == "" {
		return "", errors.New("lite: path is required")
	}
	busy := cfg.BusyTimeoutMs
	if busy <= 0 {
		busy = 5000
	}
	if p == ":memory:" {
		return fmt.Sprintf("file::memory:?_pragma=busy_timeout(%d)", busy), nil
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		filepath.Clean(p), busy), nil
}

// Open opens and pings the database
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("lite: open: %w", err)
	}
	// one writer at a time; an in-memory database is per connection
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("lite: ping: %w", err)
	}
	return db, nil
}

// IsBusy reports whether err is a lock contention error worth retrying
func IsBusy(err error) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
		return true
	}
	return false
}
