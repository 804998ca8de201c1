package harness

import "github.com/roach88/memento/internal/store"

// TraceEvent is one change notification as recorded in the journal.
type TraceEvent struct {
	Seq         int64  `json:"seq"`
	Action      string `json:"action"`
	Kind        string `json:"kind,omitempty"`
	Description string `json:"description,omitempty"`
	EventCount  int    `json:"event_count"`
	UndoCount   int    `json:"undo_count"`
	RedoCount   int    `json:"redo_count"`
}

// State is the sandbox and engine state after the last step.
type State struct {
	Objects   map[string]map[string]any `json:"objects"`
	Lists     map[string][]string       `json:"lists"`
	UndoCount int                       `json:"undo_count"`
	RedoCount int                       `json:"redo_count"`
	InBatch   bool                      `json:"in_batch"`
	Tracking  bool                      `json:"tracking"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step behaved as expected and all assertions hold.
	Pass bool `json:"pass"`

	// Session is the journal session the run was recorded under.
	Session string `json:"session"`

	// Trace contains all change notifications in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the final state used by assertions.
	State *State `json:"state,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddChangeTrace appends a journaled change to the trace.
func (r *Result) AddChangeTrace(c store.Change) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:         c.Seq,
		Action:      c.Action,
		Kind:        c.EventKind,
		Description: c.Description,
		EventCount:  c.EventCount,
		UndoCount:   c.UndoCount,
		RedoCount:   c.RedoCount,
	})
}

// Actions returns the notification actions of the trace in order.
func (r *Result) Actions() []string {
	actions := make([]string, len(r.Trace))
	for i, ev := range r.Trace {
		actions[i] = ev.Action
	}
	return actions
}
