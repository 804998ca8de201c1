package harness

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/roach88/memento/internal/memento"
)

// object is a named property bag. Setters mark a property change only when
// the value actually differs.
type object struct {
	name  string
	props map[string]any
}

func (o *object) String() string { return o.name }

// sandbox holds the application state a scenario mutates.
type sandbox struct {
	m       *memento.Mementor
	objects map[string]*object
	lists   map[string]*memento.List[string]
	props   memento.PropertyAccessor
}

func newSandbox(m *memento.Mementor, s *Scenario) *sandbox {
	sb := &sandbox{
		m:       m,
		objects: make(map[string]*object, len(s.Objects)),
		lists:   make(map[string]*memento.List[string], len(s.Lists)),
	}
	sb.props = memento.PropertyFuncs{
		GetFunc: sb.getProperty,
		SetFunc: func(target any, name string, value any) error {
			o, err := asObject(target)
			if err != nil {
				return err
			}
			return sb.setProperty(o, name, value)
		},
	}

	for name, props := range s.Objects {
		o := &object{name: name, props: make(map[string]any, len(props))}
		for k, v := range props {
			o.props[k] = v
		}
		sb.objects[name] = o
	}
	for name, items := range s.Lists {
		sb.lists[name] = memento.NewList(items...)
	}
	return sb
}

func asObject(target any) (*object, error) {
	o, ok := target.(*object)
	if !ok {
		return nil, fmt.Errorf("target %T is not a sandbox object", target)
	}
	return o, nil
}

func (sb *sandbox) getProperty(target any, name string) (any, error) {
	o, err := asObject(target)
	if err != nil {
		return nil, err
	}
	return o.props[name], nil
}

// object returns the named object, creating it on first use.
func (sb *sandbox) object(name string) *object {
	o, ok := sb.objects[name]
	if !ok {
		o = &object{name: name, props: map[string]any{}}
		sb.objects[name] = o
	}
	return o
}

func (sb *sandbox) list(name string) (*memento.List[string], error) {
	l, ok := sb.lists[name]
	if !ok {
		return nil, fmt.Errorf("unknown list %q", name)
	}
	return l, nil
}

// setProperty assigns value, marking the previous one first. A nil value
// removes the property.
func (sb *sandbox) setProperty(o *object, name string, value any) error {
	if reflect.DeepEqual(o.props[name], value) {
		return nil
	}
	if err := sb.m.MarkPropertyChange(sb.props, o, name); err != nil {
		return err
	}
	if value == nil {
		delete(o.props, name)
		return nil
	}
	o.props[name] = value
	return nil
}

// add inserts element at index, or appends when index is nil.
func (sb *sandbox) add(listName, element string, index *int) error {
	l, err := sb.list(listName)
	if err != nil {
		return err
	}
	at := l.Len()
	if index != nil {
		at = *index
	}
	if at > l.Len() {
		return fmt.Errorf("list %q: index %d out of range [0,%d]", listName, at, l.Len())
	}
	if err := memento.MarkElementAdd[string](sb.m, l, element); err != nil {
		return err
	}
	return l.Insert(at, element)
}

func (sb *sandbox) remove(listName, element string) error {
	l, err := sb.list(listName)
	if err != nil {
		return err
	}
	if err := memento.MarkElementRemove[string](sb.m, l, element); err != nil {
		return err
	}
	return l.Remove(element)
}

// move relocates element to index, or to the front when index is nil.
func (sb *sandbox) move(listName, element string, index *int) error {
	l, err := sb.list(listName)
	if err != nil {
		return err
	}
	to := 0
	if index != nil {
		to = *index
	}
	if l.Len() > 0 && to >= l.Len() {
		return fmt.Errorf("list %q: index %d out of range [0,%d)", listName, to, l.Len())
	}
	if err := memento.MarkElementIndexChange[string](sb.m, l, element); err != nil {
		return err
	}
	if err := l.Remove(element); err != nil {
		return err
	}
	return l.Insert(to, element)
}

// snapshot copies the sandbox and engine state.
func (sb *sandbox) snapshot() *State {
	st := &State{
		Objects:   make(map[string]map[string]any, len(sb.objects)),
		Lists:     make(map[string][]string, len(sb.lists)),
		UndoCount: sb.m.UndoCount(),
		RedoCount: sb.m.RedoCount(),
		InBatch:   sb.m.InBatch(),
		Tracking:  sb.m.TrackingEnabled(),
	}
	for name, o := range sb.objects {
		props := make(map[string]any, len(o.props))
		for k, v := range o.props {
			props[k] = v
		}
		st.Objects[name] = props
	}
	for name, l := range sb.lists {
		st.Lists[name] = l.Items()
	}
	return st
}

// customEvent is a reversible event with no external effect.
type customEvent struct{}

func (customEvent) Rollback() (memento.Event, error) { return customEvent{}, nil }
func (customEvent) String() string                  { return "custom event" }

// batchReturningEvent breaks the rollback contract by yielding a Batch.
type batchReturningEvent struct{}

func (batchReturningEvent) Rollback() (memento.Event, error) {
	return memento.NewBatch(customEvent{}, customEvent{}), nil
}
func (batchReturningEvent) String() string { return "custom event returning a batch" }

var errCustomRollback = errors.New("custom event rollback failed")

// failingEvent always fails its rollback.
type failingEvent struct{}

func (failingEvent) Rollback() (memento.Event, error) { return nil, errCustomRollback }
func (failingEvent) String() string                  { return "custom event failing rollback" }

func newCustomEvent(behavior string) memento.Event {
	switch behavior {
	case BehaviorReturnsBatch:
		return batchReturningEvent{}
	case BehaviorFails:
		return failingEvent{}
	}
	return customEvent{}
}
