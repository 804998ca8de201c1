package harness

import (
	"fmt"
	"reflect"
	"strings"

	exprlang "github.com/expr-lang/expr"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s (undo=%d redo=%d)\n",
			ev.Seq, ev.Action, ev.Kind, ev.UndoCount, ev.RedoCount)
	}

	return buf.String()
}

// assertProperty checks a property's final value. A nil expected value
// asserts the property is unset.
func assertProperty(result *Result, a Assertion) error {
	var actual any
	if props, ok := result.State.Objects[a.Object]; ok {
		actual = props[a.Property]
	}

	if !valuesEqual(actual, a.Value) {
		return &AssertionError{
			Type:     AssertProperty,
			Expected: fmt.Sprintf("%s.%s = %v", a.Object, a.Property, a.Value),
			Actual:   fmt.Sprintf("%s.%s = %v", a.Object, a.Property, actual),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertList checks a list's final contents and order.
func assertList(result *Result, a Assertion) error {
	actual, ok := result.State.Lists[a.List]
	if !ok {
		return &AssertionError{
			Type:     AssertList,
			Expected: fmt.Sprintf("list %s = %v", a.List, a.Items),
			Actual:   "list not found",
			Trace:    result.Trace,
		}
	}

	if len(actual) != len(a.Items) || (len(actual) > 0 && !reflect.DeepEqual(actual, a.Items)) {
		return &AssertionError{
			Type:     AssertList,
			Expected: fmt.Sprintf("list %s = %v", a.List, a.Items),
			Actual:   fmt.Sprintf("list %s = %v", a.List, actual),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertCount checks the final undo or redo stack size.
func assertCount(result *Result, a Assertion) error {
	actual := result.State.UndoCount
	if a.Type == AssertRedoCount {
		actual = result.State.RedoCount
	}

	if actual != *a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d entries", *a.Count),
			Actual:   fmt.Sprintf("%d entries", actual),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertNotifications checks the exact sequence of notification actions.
func assertNotifications(result *Result, a Assertion) error {
	actual := result.Actions()
	expected := a.Actions
	if expected == nil {
		expected = []string{}
	}

	if !reflect.DeepEqual(actual, expected) {
		return &AssertionError{
			Type:     AssertNotifications,
			Expected: fmt.Sprintf("%v", expected),
			Actual:   fmt.Sprintf("%v", actual),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertExpr evaluates a boolean expr-lang expression over the final state.
//
// The environment exposes:
//   - objects: map of object name to property map
//   - lists: map of list name to items
//   - undo_count, redo_count: final stack sizes
//   - in_batch, tracking: final engine flags
//   - notifications: notification actions in order
func assertExpr(result *Result, a Assertion) error {
	env := exprEnv(result)

	program, err := exprlang.Compile(a.Expr, exprlang.Env(env), exprlang.AsBool())
	if err != nil {
		return &AssertionError{
			Type:     AssertExpr,
			Expected: a.Expr,
			Actual:   fmt.Sprintf("compile error: %v", err),
			Trace:    result.Trace,
		}
	}

	out, err := exprlang.Run(program, env)
	if err != nil {
		return &AssertionError{
			Type:     AssertExpr,
			Expected: a.Expr,
			Actual:   fmt.Sprintf("evaluation error: %v", err),
			Trace:    result.Trace,
		}
	}

	if ok, _ := out.(bool); !ok {
		return &AssertionError{
			Type:     AssertExpr,
			Expected: a.Expr,
			Actual:   "false",
			Trace:    result.Trace,
		}
	}
	return nil
}

func exprEnv(result *Result) map[string]any {
	lists := make(map[string]any, len(result.State.Lists))
	for name, items := range result.State.Lists {
		list := make([]any, len(items))
		for i, item := range items {
			list[i] = item
		}
		lists[name] = list
	}

	objects := make(map[string]any, len(result.State.Objects))
	for name, props := range result.State.Objects {
		objects[name] = props
	}

	return map[string]any{
		"objects":       objects,
		"lists":         lists,
		"undo_count":    result.State.UndoCount,
		"redo_count":    result.State.RedoCount,
		"in_batch":      result.State.InBatch,
		"tracking":      result.State.Tracking,
		"notifications": result.Actions(),
	}
}

// valuesEqual compares YAML-decoded values, treating numbers of different
// Go types as equal when they hold the same value.
func valuesEqual(actual, expected any) bool {
	if reflect.DeepEqual(actual, expected) {
		return true
	}
	an, aok := toFloat(actual)
	en, eok := toFloat(expected)
	return aok && eok && an == en
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// EvaluateAssertions checks all assertions against the result's final state
// and trace. Returns error messages for failed assertions (empty if all pass).
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	if result.State == nil {
		return []string{"no final state recorded"}
	}

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertProperty:
			err = assertProperty(result, a)
		case AssertList:
			err = assertList(result, a)
		case AssertUndoCount, AssertRedoCount:
			if a.Count == nil {
				err = fmt.Errorf("count is required for %s", a.Type)
			} else {
				err = assertCount(result, a)
			}
		case AssertNotifications:
			err = assertNotifications(result, a)
		case AssertExpr:
			err = assertExpr(result, a)
		default:
			err = fmt.Errorf("unknown assertion type: %s", a.Type)
		}

		if err != nil {
			errors = append(errors, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}

	return errors
}
