package testutil

import (
	"sync"

	"github.com/roach88/memento/internal/memento"
)

// ChangeLog records the change notifications of a Mementor for assertions.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ChangeLog struct {
	mu      sync.Mutex
	changes []memento.Change
}

// NewChangeLog creates a ChangeLog subscribed to m and returns it with the
// subscription's cancel function.
func NewChangeLog(m *memento.Mementor) (*ChangeLog, func()) {
	l := &ChangeLog{}
	cancel := m.OnChanged(l.Record)
	return l, cancel
}

// Record appends c. It is a memento.ChangeHandler.
func (l *ChangeLog) Record(c memento.Change) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = append(l.changes, c)
}

// Changes returns a copy of the recorded changes in order.
func (l *ChangeLog) Changes() []memento.Change {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]memento.Change, len(l.changes))
	copy(out, l.changes)
	return out
}

// Actions returns the recorded actions in order.
func (l *ChangeLog) Actions() []memento.Action {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]memento.Action, len(l.changes))
	for i, c := range l.changes {
		out[i] = c.Action
	}
	return out
}

// Len returns the number of recorded changes.
func (l *ChangeLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.changes)
}

// Reset discards all recorded changes.
//
// Used for test reuse.
func (l *ChangeLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = nil
}
