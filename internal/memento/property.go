package memento

import "fmt"

// PropertyAccessor reads and writes a named property on a target object.
type PropertyAccessor interface {
	Get(target any, name string) (any, error)
	Set(target any, name string, value any) error
}

// PropertyFuncs adapts a pair of functions to PropertyAccessor.
type PropertyFuncs struct {
	GetFunc func(target any, name string) (any, error)
	SetFunc func(target any, name string, value any) error
}

// Get calls GetFunc.
func (f PropertyFuncs) Get(target any, name string) (any, error) {
	if f.GetFunc == nil {
		return nil, fmt.Errorf("property %q: no getter", name)
	}
	return f.GetFunc(target, name)
}

// Set calls SetFunc.
func (f PropertyFuncs) Set(target any, name string, value any) error {
	if f.SetFunc == nil {
		return fmt.Errorf("property %q: no setter", name)
	}
	return f.SetFunc(target, name, value)
}

// PropertyChangeEvent records that a property changed; Value is the value to
// restore on rollback.
type PropertyChangeEvent struct {
	accessor PropertyAccessor
	target   any
	name     string
	value    any
}

// NewPropertyChange creates a property change event holding the property's
// current value, read through acc. Call it before mutating the property.
func NewPropertyChange(acc PropertyAccessor, target any, name string) (*PropertyChangeEvent, error) {
	if err := checkPropertyArgs(acc, target, name); err != nil {
		return nil, err
	}
	value, err := acc.Get(target, name)
	if err != nil {
		return nil, fmt.Errorf("read property %q: %w", name, err)
	}
	return &PropertyChangeEvent{accessor: acc, target: target, name: name, value: value}, nil
}

// NewPropertyChangeWithValue creates a property change event that restores
// value on rollback instead of the property's current value.
func NewPropertyChangeWithValue(acc PropertyAccessor, target any, name string, value any) (*PropertyChangeEvent, error) {
	if err := checkPropertyArgs(acc, target, name); err != nil {
		return nil, err
	}
	return &PropertyChangeEvent{accessor: acc, target: target, name: name, value: value}, nil
}

func checkPropertyArgs(acc PropertyAccessor, target any, name string) error {
	if acc == nil {
		return newNilArgumentError("accessor")
	}
	if target == nil {
		return newNilArgumentError("target")
	}
	if name == "" {
		return newArgumentError("name", "property name must not be empty")
	}
	return nil
}

// Target returns the object whose property changed.
func (e *PropertyChangeEvent) Target() any { return e.target }

// Name returns the property name.
func (e *PropertyChangeEvent) Name() string { return e.name }

// Value returns the value restored on rollback.
func (e *PropertyChangeEvent) Value() any { return e.value }

// Rollback sets the property back to Value and returns an event holding the
// value it had just before.
func (e *PropertyChangeEvent) Rollback() (Event, error) {
	reverse, err := NewPropertyChange(e.accessor, e.target, e.name)
	if err != nil {
		return nil, err
	}
	if err := e.accessor.Set(e.target, e.name, e.value); err != nil {
		return nil, fmt.Errorf("restore property %q: %w", e.name, err)
	}
	return reverse, nil
}

// String describes the change.
func (e *PropertyChangeEvent) String() string {
	return fmt.Sprintf("property %s restores %v", e.name, e.value)
}

func (e *PropertyChangeEvent) kind() string { return KindPropertyChange }
