package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ReadSessions returns all sessions ordered by creation.
// Returns an empty slice (not nil) if the journal is empty.
func (s *Store) ReadSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_seq
		FROM sessions
		ORDER BY created_seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Name, &sess.CreatedSeq); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// ReadSession retrieves a single session by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadSession(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_seq
		FROM sessions
		WHERE id = ?
	`, id).Scan(&sess.ID, &sess.Name, &sess.CreatedSeq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("read session %s: %w", id, err)
	}
	return sess, nil
}

// ReadChanges returns a session's changes in journal order: seq ASC, id ASC.
// Returns an empty slice (not nil) if the session has no changes.
func (s *Store) ReadChanges(ctx context.Context, sessionID string) ([]Change, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, seq, action, event_kind, description, event_count, undo_count, redo_count
		FROM changes
		WHERE session_id = ?
		ORDER BY seq ASC, id ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()

	changes := []Change{}
	for rows.Next() {
		var c Change
		if err := rows.Scan(
			&c.ID,
			&c.SessionID,
			&c.Seq,
			&c.Action,
			&c.EventKind,
			&c.Description,
			&c.EventCount,
			&c.UndoCount,
			&c.RedoCount,
		); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changes: %w", err)
	}

	return changes, nil
}

// NextSessionSeq returns the created_seq for the next session.
func (s *Store) NextSessionSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(created_seq), 0) + 1 FROM sessions
	`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next session seq: %w", err)
	}
	return seq, nil
}

// CountChanges returns the number of changes per action for a session.
func (s *Store) CountChanges(ctx context.Context, sessionID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT action, COUNT(*)
		FROM changes
		WHERE session_id = ?
		GROUP BY action
		ORDER BY action ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("count changes: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			return nil, fmt.Errorf("scan change count: %w", err)
		}
		counts[action] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate change counts: %w", err)
	}
	return counts, nil
}
