package memento

import (
	"errors"
	"fmt"
)

type point struct {
	X, Y int
}

// circle is a model object whose setters mark their own changes.
type circle struct {
	m      *Mementor
	radius int
	center point
}

// circleProps is assigned in init: its setter calls back into the circle
// setters, which mark through circleProps.
var circleProps PropertyFuncs

func init() {
	circleProps = PropertyFuncs{
		GetFunc: func(target any, name string) (any, error) {
			c := target.(*circle)
			switch name {
			case "radius":
				return c.radius, nil
			case "center":
				return c.center, nil
			}
			return nil, fmt.Errorf("unknown property %q", name)
		},
		SetFunc: func(target any, name string, value any) error {
			c := target.(*circle)
			switch name {
			case "radius":
				return c.SetRadius(value.(int))
			case "center":
				return c.SetCenter(value.(point))
			}
			return fmt.Errorf("unknown property %q", name)
		},
	}
}

func newCircle(m *Mementor) *circle {
	return &circle{m: m}
}

func (c *circle) SetRadius(r int) error {
	if c.radius == r {
		return nil
	}
	if err := c.m.MarkPropertyChange(circleProps, c, "radius"); err != nil {
		return err
	}
	c.radius = r
	return nil
}

func (c *circle) SetCenter(p point) error {
	if c.center == p {
		return nil
	}
	if err := c.m.MarkPropertyChange(circleProps, c, "center"); err != nil {
		return err
	}
	c.center = p
	return nil
}

// screen holds circles and marks every structural change before applying it.
type screen struct {
	m       *Mementor
	circles *List[*circle]
}

func newScreen(m *Mementor) *screen {
	return &screen{m: m, circles: NewList[*circle]()}
}

func (s *screen) Add(c *circle) error {
	if err := MarkElementAdd[*circle](s.m, s.circles, c); err != nil {
		return err
	}
	s.circles.Add(c)
	return nil
}

func (s *screen) Remove(c *circle) error {
	if err := MarkElementRemove[*circle](s.m, s.circles, c); err != nil {
		return err
	}
	return s.circles.Remove(c)
}

func (s *screen) MoveToFront(c *circle) error {
	if err := MarkElementIndexChange[*circle](s.m, s.circles, c); err != nil {
		return err
	}
	if err := s.circles.Remove(c); err != nil {
		return err
	}
	return s.circles.Insert(0, c)
}

// counterEvent is a custom event flipping a shared counter.
type counterEvent struct {
	value *int
	delta int
}

func (e *counterEvent) Rollback() (Event, error) {
	*e.value -= e.delta
	return &counterEvent{value: e.value, delta: -e.delta}, nil
}

// batchReturningEvent breaks the rollback contract.
type batchReturningEvent struct{}

func (batchReturningEvent) Rollback() (Event, error) {
	return NewBatch(&counterEvent{value: new(int), delta: 1}), nil
}

// revertingBatchEvent reverts its change and then breaks the rollback
// contract by wrapping the reverse in a Batch.
type revertingBatchEvent struct {
	value *int
}

func (e *revertingBatchEvent) Rollback() (Event, error) {
	*e.value--
	return NewBatch(&counterEvent{value: e.value, delta: -1}), nil
}

var errBoom = errors.New("boom")

// failingEvent fails its rollback.
type failingEvent struct {
	calls int
}

func (e *failingEvent) Rollback() (Event, error) {
	e.calls++
	return nil, errBoom
}

// nilReverseEvent has no meaningful reverse.
type nilReverseEvent struct {
	rolledBack bool
}

func (e *nilReverseEvent) Rollback() (Event, error) {
	e.rolledBack = true
	return nil, nil
}

// recorder captures change notifications.
type recorder struct {
	changes []Change
}

func (r *recorder) handle(c Change) {
	r.changes = append(r.changes, c)
}

func (r *recorder) actions() []Action {
	out := make([]Action, 0, len(r.changes))
	for _, c := range r.changes {
		out = append(out, c.Action)
	}
	return out
}
