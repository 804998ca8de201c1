package memento

import "fmt"

// Event is one reversible mutation.
type Event interface {
	// Rollback restores the external state recorded by the event and returns
	// the symmetric reverse event. A nil Event with a nil error means no
	// reverse is meaningful.
	//
	// The Mementor invokes Rollback with tracking suspended. Leaf events
	// must not return a *Batch.
	Rollback() (Event, error)
}

// Event kinds reported by Kind.
const (
	KindPropertyChange     = "property_change"
	KindElementAddition    = "element_addition"
	KindElementRemoval     = "element_removal"
	KindElementIndexChange = "element_index_change"
	KindBatch              = "batch"
	KindCustom             = "custom"
)

// kinded is implemented by the built-in events.
type kinded interface {
	kind() string
}

// Kind returns a stable name for the event's variant.
// Events other than the built-in ones report KindCustom.
func Kind(e Event) string {
	if k, ok := e.(kinded); ok {
		return k.kind()
	}
	return KindCustom
}

// Describe returns a short human-readable description of an event.
// Events implementing fmt.Stringer describe themselves.
func Describe(e Event) string {
	if e == nil {
		return ""
	}
	if s, ok := e.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%s %T", Kind(e), e)
}

// isBatch reports whether e is a composite event.
func isBatch(e Event) bool {
	_, ok := e.(*Batch)
	return ok
}
