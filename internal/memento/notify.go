package memento

// Action identifies what caused a change notification.
type Action string

const (
	ActionMark  Action = "mark"
	ActionUndo  Action = "undo"
	ActionRedo  Action = "redo"
	ActionReset Action = "reset"
)

// Change is delivered to OnChanged handlers after every stack-affecting
// operation.
type Change struct {
	Action Action

	// Event is the event that was marked, or the event popped by undo/redo
	// (not its reverse). Nil for reset.
	Event Event

	// UndoCount and RedoCount are the stack sizes after the operation.
	UndoCount int
	RedoCount int
}

// ChangeHandler receives change notifications.
type ChangeHandler func(Change)

type subscription struct {
	id      uint64
	handler ChangeHandler
}

// OnChanged subscribes handler to change notifications and returns a function
// that cancels the subscription. Handlers run synchronously, in subscription
// order, before the triggering call returns.
//
// A handler must not begin a batch or undo/redo on the same Mementor.
func (m *Mementor) OnChanged(handler ChangeHandler) (cancel func()) {
	if handler == nil {
		return func() {}
	}
	m.nextSubID++
	id := m.nextSubID
	m.subs = append(m.subs, subscription{id: id, handler: handler})
	return func() {
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// notify delivers a change to a snapshot of the current subscribers, so a
// handler may cancel itself during dispatch.
func (m *Mementor) notify(action Action, e Event) {
	if len(m.subs) == 0 {
		return
	}
	change := Change{
		Action:    action,
		Event:     e,
		UndoCount: m.undo.len(),
		RedoCount: m.redo.len(),
	}
	subs := make([]subscription, len(m.subs))
	copy(subs, m.subs)
	for _, s := range subs {
		s.handler(change)
	}
}
