package memento

import "fmt"

// Batch is a composite event whose children undo and redo as one unit.
//
// Children are kept in push order. Rollback consumes them last-in first-out,
// so undoing a batch reverts its children in reverse application order and
// the resulting reverse batch replays them in the original order.
type Batch struct {
	events []Event
}

// NewBatch creates a batch holding events in push order.
func NewBatch(events ...Event) *Batch {
	b := &Batch{}
	for _, e := range events {
		if e != nil {
			b.events = append(b.events, e)
		}
	}
	return b
}

// Len returns the number of child events.
func (b *Batch) Len() int {
	return len(b.events)
}

// Events returns the child events in push order, oldest first.
// The returned slice is a copy.
func (b *Batch) Events() []Event {
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

// Clone returns a shallow copy of the batch; the children are shared.
func (b *Batch) Clone() *Batch {
	return &Batch{events: b.Events()}
}

// Rollback pops and rolls back every child, collecting the non-nil reverses
// into a new batch. The receiver is empty afterwards.
//
// A child whose rollback yields a Batch is a protocol violation. Rollback
// stops at the first failing child and re-applies the children already
// rolled back, so a failed batch leaves the state as it found it.
func (b *Batch) Rollback() (Event, error) {
	reverse := &Batch{}
	for b.Len() > 0 {
		child := b.pop()
		rev, err := child.Rollback()
		if err != nil {
			reverse.restore()
			return nil, fmt.Errorf("rollback batch child %s: %w", Kind(child), err)
		}
		if rev == nil {
			continue
		}
		reverse.push(rev)
		if isBatch(rev) {
			reverse.restore()
			return nil, newProtocolError("rollback_batch")
		}
	}
	return reverse, nil
}

// restore rolls back the collected reverses newest first, re-applying the
// children of a partially rolled back batch in their original order.
// Errors are ignored; the caller already reports the first failure.
func (b *Batch) restore() {
	for b.Len() > 0 {
		_, _ = b.pop().Rollback()
	}
}

// String describes the batch by its size.
func (b *Batch) String() string {
	return fmt.Sprintf("batch of %d events", b.Len())
}

func (b *Batch) kind() string { return KindBatch }

func (b *Batch) push(e Event) {
	b.events = append(b.events, e)
}

func (b *Batch) pop() Event {
	last := len(b.events) - 1
	e := b.events[last]
	b.events[last] = nil
	b.events = b.events[:last]
	return e
}

// collapse normalizes a batch before it is stored: empty batches vanish and
// a single child is unwrapped.
func collapse(b *Batch) Event {
	switch b.Len() {
	case 0:
		return nil
	case 1:
		return b.pop()
	default:
		return b
	}
}
