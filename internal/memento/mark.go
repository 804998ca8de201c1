package memento

// The helpers below build a built-in event and mark it. When tracking is
// disabled they return immediately, before any argument validation.

// MarkPropertyChange marks a change of target's property name, restoring the
// value the property holds right now. Call it before assigning the new value.
func (m *Mementor) MarkPropertyChange(acc PropertyAccessor, target any, name string) error {
	if !m.tracking {
		return nil
	}
	e, err := NewPropertyChange(acc, target, name)
	if err != nil {
		return err
	}
	return m.MarkEvent(e)
}

// MarkPropertyChangeWithValue marks a change of target's property name that
// restores previous on undo.
func (m *Mementor) MarkPropertyChangeWithValue(acc PropertyAccessor, target any, name string, previous any) error {
	if !m.tracking {
		return nil
	}
	e, err := NewPropertyChangeWithValue(acc, target, name, previous)
	if err != nil {
		return err
	}
	return m.MarkEvent(e)
}

// MarkElementAdd marks element being added to c.
func MarkElementAdd[T any](m *Mementor, c Collection[T], element T) error {
	if !m.tracking {
		return nil
	}
	e, err := NewElementAddition(c, element)
	if err != nil {
		return err
	}
	return m.MarkEvent(e)
}

// MarkElementRemove marks element being removed from c. Call it while the
// element is still in c so its index can be resolved.
func MarkElementRemove[T any](m *Mementor, c Collection[T], element T) error {
	if !m.tracking {
		return nil
	}
	e, err := NewElementRemoval(c, element)
	if err != nil {
		return err
	}
	return m.MarkEvent(e)
}

// MarkElementRemoveAt marks element being removed from index of c.
func MarkElementRemoveAt[T any](m *Mementor, c Collection[T], element T, index int) error {
	if !m.tracking {
		return nil
	}
	e, err := NewElementRemovalAt(c, element, index)
	if err != nil {
		return err
	}
	return m.MarkEvent(e)
}

// MarkElementIndexChange marks element being moved within c. Call it before
// the move so the current index can be resolved.
func MarkElementIndexChange[T any](m *Mementor, c Collection[T], element T) error {
	if !m.tracking {
		return nil
	}
	e, err := NewElementIndexChange(c, element)
	if err != nil {
		return err
	}
	return m.MarkEvent(e)
}

// MarkElementIndexChangeAt marks element being moved away from index of c.
func MarkElementIndexChangeAt[T any](m *Mementor, c Collection[T], element T, index int) error {
	if !m.tracking {
		return nil
	}
	e, err := NewElementIndexChangeAt(c, element, index)
	if err != nil {
		return err
	}
	return m.MarkEvent(e)
}
