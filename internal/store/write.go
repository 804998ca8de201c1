package store

import (
	"context"
	"fmt"
)

// WriteSession inserts a session record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteSession(ctx context.Context, session Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, created_seq)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		session.ID,
		session.Name,
		session.CreatedSeq,
	)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WriteChange appends a change record and returns whether a row was inserted.
// A second write with the same (session_id, seq) is silently ignored.
//
// Note: The session referenced by SessionID must exist (foreign key constraint).
func (s *Store) WriteChange(ctx context.Context, change Change) (inserted bool, err error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO changes
		(session_id, seq, action, event_kind, description, event_count, undo_count, redo_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		change.SessionID,
		change.Seq,
		change.Action,
		change.EventKind,
		change.Description,
		change.EventCount,
		change.UndoCount,
		change.RedoCount,
	)
	if err != nil {
		return false, fmt.Errorf("write change: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write change: rows affected: %w", err)
	}
	return rows > 0, nil
}
