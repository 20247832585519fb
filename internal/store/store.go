// Package store provides a SQLite-backed memory of where each file was left:
// cursor line, column and page size, keyed by absolute path.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS positions (
	path      TEXT PRIMARY KEY,
	line      INTEGER NOT NULL,
	col       INTEGER NOT NULL,
	page_size INTEGER NOT NULL,
	updated   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_positions_updated ON positions(updated);
`

// DefaultTTL is how long an untouched file's position is remembered.
const DefaultTTL = 90 * 24 * time.Hour

// Position is a saved cursor position. Line and Column are 0-based.
type Position struct {
	Line     int
	Column   int
	PageSize int
	Updated  time.Time
}

// Store is a SQLite-backed position store.
type Store struct {
	mu  sync.Mutex
	db  *sql.DB
	ttl time.Duration
}

// Open creates or opens a store database at the given path.
// ttl controls how long positions are kept.
func Open(dbPath string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{db: db, ttl: ttl}
	s.purgeStale()
	return s, nil
}

// Close closes the database. Safe on a nil receiver.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// GetPosition returns the saved position for path.
// Safe to call on a nil receiver (returns miss).
func (s *Store) GetPosition(path string) (Position, bool) {
	if s == nil {
		return Position{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var p Position
	var updated int64
	err := s.db.QueryRow(
		"SELECT line, col, page_size, updated FROM positions WHERE path = ? AND updated > ?",
		path, time.Now().Add(-s.ttl).Unix(),
	).Scan(&p.Line, &p.Column, &p.PageSize, &updated)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Warn().Err(err).Str("file", path).Msg("failed to read position")
		}
		return Position{}, false
	}
	p.Updated = time.Unix(updated, 0)
	return p, true
}

// SetPosition records the position for path. No-op on nil receiver.
func (s *Store) SetPosition(path string, p Position) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO positions (path, line, col, page_size, updated) VALUES (?, ?, ?, ?, ?)",
		path, p.Line, p.Column, p.PageSize, time.Now().Unix(),
	)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("failed to save position")
	}
}

// purgeStale removes positions older than the TTL.
func (s *Store) purgeStale() {
	cutoff := time.Now().Add(-s.ttl).Unix()
	res, err := s.db.Exec("DELETE FROM positions WHERE updated <= ?", cutoff)
	if err != nil {
		log.Warn().Err(err).Msg("failed to purge stale positions")
		return
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Info().Int64("deleted", n).Msg("purged stale positions")
	}
}
