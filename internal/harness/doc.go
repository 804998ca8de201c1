// Package harness runs YAML scenarios against a Mementor.
//
// A scenario seeds a sandbox of named objects (property bags) and string
// lists, drives a fresh Mementor through a sequence of steps and asserts on
// the final state and the journaled change trace.
//
// # Scenario Format
//
//	name: circle_radius
//	description: "Radius changes undo and redo one at a time"
//	session: session-circle
//	objects:
//	  circle: { radius: 0 }
//	lists:
//	  shapes: [a, b]
//	steps:
//	  - op: set
//	    object: circle
//	    property: radius
//	    value: 5
//	  - op: batch
//	    steps:
//	      - { op: add, list: shapes, element: c }
//	      - { op: move, list: shapes, element: c }
//	  - op: undo
//	    times: 2
//	  - op: begin_batch
//	  - op: begin_batch
//	    expect_error: illegal_state
//	assertions:
//	  - { type: property, object: circle, property: radius, value: 0 }
//	  - { type: list, list: shapes, items: [a, b] }
//	  - { type: undo_count, count: 0 }
//	  - { type: notifications, actions: [mark, mark, undo, undo] }
//	  - { type: expr, expr: "redo_count == 2 && in_batch" }
//
// Setters behave like typical model code: set marks a property change only
// when the value differs; add, remove and move mark the element event first
// and then mutate the list.
//
// # Step Operations
//
//   - set, add, remove, move: sandbox mutations
//   - undo, redo: with optional times
//   - begin_batch, end_batch, batch (nested steps), no_track (nested steps)
//   - track: enabled true|false
//   - reset
//   - custom: marks a custom event; behavior returns_batch or fails breaks
//     its rollback
//
// Any step may carry expect_error (illegal_state, invalid_argument,
// protocol_violation, rollback_failed); the step must then fail with that
// category.
//
// # Assertion Types
//
//   - property: final value of object.property (null means unset)
//   - list: final list contents in order
//   - undo_count, redo_count: final stack sizes
//   - notifications: exact sequence of change notification actions
//   - expr: boolean expr-lang expression over objects, lists, undo_count,
//     redo_count, in_batch, tracking and notifications
//
// # Deterministic Testing
//
// Every change notification is written to a store journal and the trace is
// read back from it. Runs use a fixed session ID (scenario.session) and an
// in-memory SQLite database unless a store is supplied, so traces are
// byte-identical across runs for golden file comparison.
//
// Scenario files can be checked against the embedded CUE schema with
// ValidateFile before they are run.
package harness
