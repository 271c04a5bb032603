package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/docnav/internal/db"
)

// StateStore persists tree states per session.
type StateStore struct {
	db *db.DB
}

// NewStateStore creates a new tree state store.
func NewStateStore(d *db.DB) *StateStore {
	return &StateStore{db: d}
}

// Touch creates the session row or bumps its last_seen time.
func (s *StateStore) Touch(ctx context.Context, sessionID string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO nav_sessions (id, created_at, last_seen) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET last_seen = excluded.last_seen`,
		sessionID, now, now,
	)
	if err != nil {
		return fmt.Errorf("touching session: %w", err)
	}
	return nil
}

// Exists reports whether the session has been stored.
func (s *StateStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM nav_sessions WHERE id = ?`, sessionID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up session: %w", err)
	}
	return true, nil
}

// Save upserts the expanded state of one route.
func (s *StateStore) Save(ctx context.Context, sessionID, route string, expanded bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tree_state (session_id, route, expanded, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, route) DO UPDATE SET expanded = excluded.expanded, updated_at = excluded.updated_at`,
		sessionID, route, expanded, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving tree state: %w", err)
	}
	return nil
}

// Load returns every stored route state of a session.
func (s *StateStore) Load(ctx context.Context, sessionID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT route, expanded FROM tree_state WHERE session_id = ? ORDER BY route`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading tree state: %w", err)
	}
	defer rows.Close()

	states := make(map[string]bool)
	for rows.Next() {
		var route string
		var expanded bool
		if err := rows.Scan(&route, &expanded); err != nil {
			return nil, fmt.Errorf("scanning tree state: %w", err)
		}
		states[route] = expanded
	}
	return states, rows.Err()
}

// Delete removes a session and its states.
func (s *StateStore) Delete(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM nav_sessions WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("deleting session %s: %w", sessionID, sql.ErrNoRows)
	}
	return nil
}

// Prune deletes sessions not seen since before.
func (s *StateStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM nav_sessions WHERE last_seen < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning sessions: %w", err)
	}
	return res.RowsAffected()
}
