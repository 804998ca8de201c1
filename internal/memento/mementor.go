package memento

import (
	"fmt"
	"log/slog"
)

// Mementor provides undo and redo services.
//
// State machine:
//   - Idle: no batch active; marks go straight onto the undo stack
//   - Batching: marks collect in the current batch until EndBatch
//
// INVARIANTS:
//   - at most one batch is active
//   - stored batches hold at least two events
//   - every mark outside a batch clears the redo stack
type Mementor struct {
	undo    eventStack
	redo    eventStack
	current *Batch

	tracking bool
	maxUndo  int
	logger   *slog.Logger

	subs      []subscription
	nextSubID uint64
}

// New creates a Mementor. Tracking is enabled unless WithTrackingEnabled
// says otherwise.
func New(opts ...Option) *Mementor {
	m := &Mementor{
		tracking: true,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MarkEvent records e. Inside a batch it joins the current batch; otherwise
// it goes onto the undo stack, the redo stack is cleared and subscribers are
// notified.
//
// MarkEvent is a no-op while tracking is disabled. A Batch marked outside a
// batch is normalized first (empty batches are dropped, single events
// unwrapped). Batches do not nest: marking a Batch inside a batch, or a
// Batch holding another Batch, is an invalid argument.
func (m *Mementor) MarkEvent(e Event) error {
	if !m.tracking {
		return nil
	}
	if e == nil {
		return newNilArgumentError("event")
	}

	if b, ok := e.(*Batch); ok {
		if m.current != nil {
			return newArgumentError("event", "a batch cannot be marked inside another batch")
		}
		for _, child := range b.events {
			if isBatch(child) {
				return newArgumentError("event", "a batch cannot contain another batch")
			}
		}
		e = collapse(b.Clone())
		if e == nil {
			return nil
		}
	}

	if m.current != nil {
		m.current.push(e)
		m.logger.Debug("event batched",
			"kind", Kind(e),
			"batch_size", m.current.Len(),
		)
		return nil
	}

	m.commit(e)
	return nil
}

// BeginBatch starts collecting marks into a single undo unit.
// No-op while tracking is disabled.
func (m *Mementor) BeginBatch() error {
	if !m.tracking {
		return nil
	}
	if m.current != nil {
		return ErrNestedBatch
	}
	m.current = &Batch{}
	m.logger.Debug("batch started")
	return nil
}

// EndBatch closes the current batch. An empty batch is discarded, a single
// event is stored on its own, and anything larger is stored as one Batch.
// No-op while tracking is disabled.
func (m *Mementor) EndBatch() error {
	if !m.tracking {
		return nil
	}
	if m.current == nil {
		return ErrNoActiveBatch
	}
	m.finishBatch()
	return nil
}

// Batch runs fn inside a batch. The batch is closed on every exit path,
// including fn returning an error or panicking; marks made before the
// failure are kept.
//
// While tracking is disabled fn still runs; only the grouping is skipped,
// so fn's side effects happen whatever the tracking state.
func (m *Mementor) Batch(fn func() error) error {
	if fn == nil {
		return newNilArgumentError("fn")
	}
	if !m.tracking {
		return fn()
	}
	if err := m.BeginBatch(); err != nil {
		return err
	}
	defer func() {
		if m.current != nil {
			m.finishBatch()
		}
	}()
	return fn()
}

// ExecuteNoTrack runs fn with tracking disabled and restores the previous
// tracking state afterwards, whatever fn does to it. Calls nest.
func (m *Mementor) ExecuteNoTrack(fn func() error) error {
	if fn == nil {
		return newNilArgumentError("fn")
	}
	previous := m.tracking
	m.tracking = false
	defer func() {
		m.tracking = previous
	}()
	return fn()
}

// Undo rolls back the most recent undo entry and pushes its reverse onto the
// redo stack.
func (m *Mementor) Undo() error {
	return m.rollback(ActionUndo, &m.undo, &m.redo, ErrNothingToUndo)
}

// Redo rolls back the most recent redo entry and pushes its reverse onto the
// undo stack.
func (m *Mementor) Redo() error {
	return m.rollback(ActionRedo, &m.redo, &m.undo, ErrNothingToRedo)
}

// rollback pops from, rolls the event back with tracking suspended and
// pushes the normalized reverse onto to. On failure the popped event goes
// back onto from and no notification fires.
func (m *Mementor) rollback(action Action, from, to *eventStack, empty *Error) error {
	if from.len() == 0 {
		return empty
	}
	if m.current != nil {
		return ErrBatchActive
	}

	e := from.pop()

	// A batch is consumed by its own rollback; work on a copy so the popped
	// instance stays intact for the notification.
	target := e
	if b, ok := e.(*Batch); ok {
		target = b.Clone()
	}

	var reverse Event
	err := m.ExecuteNoTrack(func() error {
		var err error
		reverse, err = target.Rollback()
		if err != nil {
			return err
		}
		if b, ok := reverse.(*Batch); ok {
			if !isBatch(e) {
				// Re-apply the leaf before putting it back.
				b.restore()
				return newProtocolError(string(action))
			}
			reverse = collapse(b)
		}
		return nil
	})
	if err != nil {
		from.push(e)
		m.logger.Warn("rollback failed",
			"action", string(action),
			"kind", Kind(e),
			"error", err,
		)
		return fmt.Errorf("%s %s: %w", action, Kind(e), err)
	}

	if reverse != nil {
		to.push(reverse)
		if to == &m.undo {
			m.trimUndo()
		}
	}

	m.logger.Debug("event rolled back",
		"action", string(action),
		"kind", Kind(e),
		"undo_count", m.undo.len(),
		"redo_count", m.redo.len(),
	)
	m.notify(action, e)
	return nil
}

// CanUndo returns true if undo is available.
func (m *Mementor) CanUndo() bool {
	return m.undo.len() > 0
}

// CanRedo returns true if redo is available.
func (m *Mementor) CanRedo() bool {
	return m.redo.len() > 0
}

// UndoCount returns the number of undo entries.
func (m *Mementor) UndoCount() int {
	return m.undo.len()
}

// RedoCount returns the number of redo entries.
func (m *Mementor) RedoCount() int {
	return m.redo.len()
}

// PeekUndo returns the next event Undo would roll back.
func (m *Mementor) PeekUndo() (Event, bool) {
	return m.undo.peek()
}

// PeekRedo returns the next event Redo would roll back.
func (m *Mementor) PeekRedo() (Event, bool) {
	return m.redo.peek()
}

// TrackingEnabled reports whether marks are being recorded.
func (m *Mementor) TrackingEnabled() bool {
	return m.tracking
}

// SetTrackingEnabled turns recording of marks on or off.
func (m *Mementor) SetTrackingEnabled(enabled bool) {
	m.tracking = enabled
}

// InBatch returns true if a batch has begun but not ended.
func (m *Mementor) InBatch() bool {
	return m.current != nil
}

// Reset clears both stacks and any active batch and re-enables tracking.
// Subscribers are notified only if a stack was non-empty.
func (m *Mementor) Reset() {
	changed := m.undo.len() > 0 || m.redo.len() > 0
	m.undo.clear()
	m.redo.clear()
	m.current = nil
	m.tracking = true
	m.logger.Debug("history reset", "changed", changed)
	if changed {
		m.notify(ActionReset, nil)
	}
}

// Dispose clears both stacks, drops any active batch and detaches all
// subscribers. No notification fires.
func (m *Mementor) Dispose() {
	m.subs = nil
	m.undo.clear()
	m.redo.clear()
	m.current = nil
}

// finishBatch closes the current batch and commits its net effect.
func (m *Mementor) finishBatch() {
	batch := m.current
	m.current = nil

	e := collapse(batch)
	if e == nil {
		m.logger.Debug("empty batch discarded")
		return
	}
	m.commit(e)
}

// commit pushes e onto the undo stack, clears redo and notifies.
func (m *Mementor) commit(e Event) {
	m.undo.push(e)
	m.trimUndo()
	m.redo.clear()
	m.logger.Debug("event marked",
		"kind", Kind(e),
		"undo_count", m.undo.len(),
	)
	m.notify(ActionMark, e)
}

func (m *Mementor) trimUndo() {
	if dropped := m.undo.trim(m.maxUndo); dropped > 0 {
		m.logger.Debug("undo history trimmed", "dropped", dropped, "max", m.maxUndo)
	}
}
