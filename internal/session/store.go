// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session persists serialized beam state between strokes. Each
// network round-trip delivers only the newest stroke, so the serving layer
// loads the beam by session key, advances it, and stores it back; this
// package owns only that load-by-key / store-by-key contract.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ink-engine/pkg/types"
)

// ErrNotFound is returned when no beam state exists for a session key.
var ErrNotFound = errors.New("session: not found")

// Store manages the beam-state SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the session database at cfg.DBPath, creating the
// schema if it does not exist.
func Open(cfg types.SessionConfig) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS beams (
		key        TEXT PRIMARY KEY,
		state      BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Save stores serialized beam state under the session key, replacing any
// previous state.
func (s *Store) Save(ctx context.Context, key string, state []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO beams (key, state, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		key, state, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving session %s: %w", key, err)
	}
	return nil
}

// Load returns the serialized beam state for the session key, or
// ErrNotFound if the session does not exist.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var state []byte
	err := s.db.QueryRowContext(ctx, `SELECT state FROM beams WHERE key = ?`, key).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", key, err)
	}
	return state, nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM beams WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting session %s: %w", key, err)
	}
	return nil
}

// SweepOlderThan removes sessions untouched for at least the given age and
// returns how many were removed.
func (s *Store) SweepOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM beams WHERE updated_at < ?`, time.Now().UTC().Add(-age))
	if err != nil {
		return 0, fmt.Errorf("sweeping sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sweeping sessions: %w", err)
	}
	return n, nil
}
