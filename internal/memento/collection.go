package memento

import "fmt"

// Collection is an ordered collection the element events can restore.
type Collection[T any] interface {
	// IndexOf returns the position of element, or -1 if it is absent.
	IndexOf(element T) int

	// Insert places element at index, shifting later elements.
	Insert(index int, element T) error

	// Remove deletes the first occurrence of element.
	Remove(element T) error
}

// ElementAdditionEvent records that an element was added to a collection.
type ElementAdditionEvent[T any] struct {
	collection Collection[T]
	element    T
}

// NewElementAddition creates an event for element having been added to c.
func NewElementAddition[T any](c Collection[T], element T) (*ElementAdditionEvent[T], error) {
	if c == nil {
		return nil, newNilArgumentError("collection")
	}
	return &ElementAdditionEvent[T]{collection: c, element: element}, nil
}

// Collection returns the collection the element was added to.
func (e *ElementAdditionEvent[T]) Collection() Collection[T] { return e.collection }

// Element returns the added element.
func (e *ElementAdditionEvent[T]) Element() T { return e.element }

// Rollback removes the element and returns a removal event holding the index
// it occupied.
func (e *ElementAdditionEvent[T]) Rollback() (Event, error) {
	reverse, err := NewElementRemoval(e.collection, e.element)
	if err != nil {
		return nil, err
	}
	if err := e.collection.Remove(e.element); err != nil {
		return nil, fmt.Errorf("remove element: %w", err)
	}
	return reverse, nil
}

// String describes the addition.
func (e *ElementAdditionEvent[T]) String() string {
	return fmt.Sprintf("element %v added", e.element)
}

func (e *ElementAdditionEvent[T]) kind() string { return KindElementAddition }

// ElementRemovalEvent records that an element was removed from a position.
type ElementRemovalEvent[T any] struct {
	collection Collection[T]
	element    T
	index      int
}

// NewElementRemoval creates a removal event using the element's current
// index in c. Call it before removing the element.
func NewElementRemoval[T any](c Collection[T], element T) (*ElementRemovalEvent[T], error) {
	index, err := resolveIndex(c, element)
	if err != nil {
		return nil, err
	}
	return &ElementRemovalEvent[T]{collection: c, element: element, index: index}, nil
}

// NewElementRemovalAt creates a removal event restoring element at index.
func NewElementRemovalAt[T any](c Collection[T], element T, index int) (*ElementRemovalEvent[T], error) {
	if err := checkIndex(c, index); err != nil {
		return nil, err
	}
	return &ElementRemovalEvent[T]{collection: c, element: element, index: index}, nil
}

// Collection returns the collection the element was removed from.
func (e *ElementRemovalEvent[T]) Collection() Collection[T] { return e.collection }

// Element returns the removed element.
func (e *ElementRemovalEvent[T]) Element() T { return e.element }

// Index returns the position the element is restored to.
func (e *ElementRemovalEvent[T]) Index() int { return e.index }

// Rollback re-inserts the element and returns an addition event.
func (e *ElementRemovalEvent[T]) Rollback() (Event, error) {
	reverse, err := NewElementAddition(e.collection, e.element)
	if err != nil {
		return nil, err
	}
	if err := e.collection.Insert(e.index, e.element); err != nil {
		return nil, fmt.Errorf("insert element at %d: %w", e.index, err)
	}
	return reverse, nil
}

// String describes the removal.
func (e *ElementRemovalEvent[T]) String() string {
	return fmt.Sprintf("element %v removed from %d", e.element, e.index)
}

func (e *ElementRemovalEvent[T]) kind() string { return KindElementRemoval }

// ElementIndexChangeEvent records that an element moved; Index is the
// position to restore it to.
type ElementIndexChangeEvent[T any] struct {
	collection Collection[T]
	element    T
	index      int
}

// NewElementIndexChange creates an index change event using the element's
// current index in c. Call it before moving the element.
func NewElementIndexChange[T any](c Collection[T], element T) (*ElementIndexChangeEvent[T], error) {
	index, err := resolveIndex(c, element)
	if err != nil {
		return nil, err
	}
	return &ElementIndexChangeEvent[T]{collection: c, element: element, index: index}, nil
}

// NewElementIndexChangeAt creates an index change event restoring element
// to index.
func NewElementIndexChangeAt[T any](c Collection[T], element T, index int) (*ElementIndexChangeEvent[T], error) {
	if err := checkIndex(c, index); err != nil {
		return nil, err
	}
	return &ElementIndexChangeEvent[T]{collection: c, element: element, index: index}, nil
}

// Collection returns the collection holding the element.
func (e *ElementIndexChangeEvent[T]) Collection() Collection[T] { return e.collection }

// Element returns the moved element.
func (e *ElementIndexChangeEvent[T]) Element() T { return e.element }

// Index returns the position the element is restored to.
func (e *ElementIndexChangeEvent[T]) Index() int { return e.index }

// Rollback moves the element back to Index and returns an event holding the
// index it just left.
func (e *ElementIndexChangeEvent[T]) Rollback() (Event, error) {
	reverse, err := NewElementIndexChange(e.collection, e.element)
	if err != nil {
		return nil, err
	}
	if err := e.collection.Remove(e.element); err != nil {
		return nil, fmt.Errorf("remove element: %w", err)
	}
	if err := e.collection.Insert(e.index, e.element); err != nil {
		return nil, fmt.Errorf("insert element at %d: %w", e.index, err)
	}
	return reverse, nil
}

// String describes the move.
func (e *ElementIndexChangeEvent[T]) String() string {
	return fmt.Sprintf("element %v restores index %d", e.element, e.index)
}

func (e *ElementIndexChangeEvent[T]) kind() string { return KindElementIndexChange }

func resolveIndex[T any](c Collection[T], element T) (int, error) {
	if c == nil {
		return 0, newNilArgumentError("collection")
	}
	index := c.IndexOf(element)
	if index == -1 {
		return 0, newArgumentError("element", "must provide a valid index if element does not exist in the collection")
	}
	return index, nil
}

func checkIndex[T any](c Collection[T], index int) error {
	if c == nil {
		return newNilArgumentError("collection")
	}
	if index < 0 {
		return newArgumentError("index", fmt.Sprintf("index %d is negative", index))
	}
	return nil
}
