package memento

import "fmt"

// List is a slice-backed Collection.
type List[T comparable] struct {
	items []T
}

// NewList creates a list holding items.
func NewList[T comparable](items ...T) *List[T] {
	l := &List[T]{}
	l.items = append(l.items, items...)
	return l
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return len(l.items)
}

// At returns the element at index.
func (l *List[T]) At(index int) T {
	return l.items[index]
}

// Items returns a copy of the elements in order.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Add appends element.
func (l *List[T]) Add(element T) {
	l.items = append(l.items, element)
}

// IndexOf returns the position of the first occurrence of element, or -1.
func (l *List[T]) IndexOf(element T) int {
	for i, item := range l.items {
		if item == element {
			return i
		}
	}
	return -1
}

// Insert places element at index. Index may equal Len to append.
func (l *List[T]) Insert(index int, element T) error {
	if index < 0 || index > len(l.items) {
		return fmt.Errorf("index %d out of range [0,%d]", index, len(l.items))
	}
	var zero T
	l.items = append(l.items, zero)
	copy(l.items[index+1:], l.items[index:])
	l.items[index] = element
	return nil
}

// Remove deletes the first occurrence of element.
func (l *List[T]) Remove(element T) error {
	i := l.IndexOf(element)
	if i == -1 {
		return fmt.Errorf("element %v not found", element)
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return nil
}
