package memento

// eventStack is the LIFO container behind the undo and redo stacks.
type eventStack struct {
	events []Event
}

func (s *eventStack) push(e Event) {
	s.events = append(s.events, e)
}

func (s *eventStack) pop() Event {
	last := len(s.events) - 1
	e := s.events[last]
	s.events[last] = nil
	s.events = s.events[:last]
	return e
}

func (s *eventStack) peek() (Event, bool) {
	if len(s.events) == 0 {
		return nil, false
	}
	return s.events[len(s.events)-1], true
}

func (s *eventStack) len() int {
	return len(s.events)
}

func (s *eventStack) clear() {
	s.events = nil
}

// trim drops the oldest entries so at most max remain.
func (s *eventStack) trim(max int) int {
	if max <= 0 || len(s.events) <= max {
		return 0
	}
	excess := len(s.events) - max
	s.events = append([]Event(nil), s.events[excess:]...)
	return excess
}
