package store

// Session is one journaled Mementor lifetime, typically one scenario run.
type Session struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CreatedSeq int64  `json:"created_seq"`
}

// Change is one journaled change notification.
type Change struct {
	ID          int64  `json:"id"`
	SessionID   string `json:"session_id"`
	Seq         int64  `json:"seq"`
	Action      string `json:"action"`
	EventKind   string `json:"event_kind,omitempty"`
	Description string `json:"description,omitempty"`

	// EventCount is the number of leaf events the change covers:
	// the batch size for batches, 1 for other events, 0 for reset.
	EventCount int `json:"event_count"`

	UndoCount int `json:"undo_count"`
	RedoCount int `json:"redo_count"`
}
