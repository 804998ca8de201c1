// Package memento implements an in-process undo/redo engine.
//
// Application code reports each mutation it performs by marking an Event on a
// Mementor. The Mementor keeps two stacks: marked events go onto the undo
// stack, and every undo rolls the top event back and pushes the event's
// symmetric reverse onto the redo stack. Redo does the opposite.
//
// # Events
//
// An Event exposes a single operation, Rollback, which restores external state
// and returns the exact inverse record:
//
//	type Event interface {
//	    Rollback() (Event, error)
//	}
//
// Built-in events cover property changes and ordered collections:
//   - PropertyChangeEvent: restores a named property through a PropertyAccessor
//   - ElementAdditionEvent: removes an element that was added
//   - ElementRemovalEvent: re-inserts a removed element at its old index
//   - ElementIndexChangeEvent: moves an element back to its old index
//
// Custom events implement Event directly and are recorded with MarkEvent.
// A leaf event must never return a Batch from Rollback; doing so is reported
// as a protocol violation.
//
// # Batches
//
// Several marks can be combined into one undo unit:
//
//	err := m.Batch(func() error {
//	    if err := m.MarkPropertyChange(props, circle, "radius"); err != nil {
//	        return err
//	    }
//	    circle.Radius = 5
//	    return memento.MarkElementAdd(m, shapes, circle)
//	})
//
// Empty batches are discarded and single-event batches are unwrapped, so a
// Batch is never stored with fewer than two children. Batches cannot nest.
//
// # Tracking
//
// Rollback runs with tracking suspended, so setters that mark their own
// changes do not record anything while history is being replayed. Callers can
// suspend tracking themselves with SetTrackingEnabled or ExecuteNoTrack.
//
// # Threading
//
// A Mementor has a single owner. It does no locking; callers that share one
// across goroutines must serialize access themselves.
package memento
