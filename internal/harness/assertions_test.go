package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testResult builds a result with a small final state and trace.
func testResult() *Result {
	return &Result{
		Pass: true,
		Trace: []TraceEvent{
			{Seq: 1, Action: "mark", Kind: "property_change", EventCount: 1, UndoCount: 1},
			{Seq: 2, Action: "mark", Kind: "batch", EventCount: 2, UndoCount: 2},
			{Seq: 3, Action: "undo", Kind: "batch", EventCount: 2, UndoCount: 1, RedoCount: 1},
		},
		State: &State{
			Objects: map[string]map[string]any{
				"circle": {"radius": 5, "color": "red"},
			},
			Lists: map[string][]string{
				"shapes": {"a", "b"},
				"empty":  {},
			},
			UndoCount: 1,
			RedoCount: 1,
			Tracking:  true,
		},
	}
}

func TestAssertProperty(t *testing.T) {
	tests := []struct {
		name    string
		a       Assertion
		wantErr bool
	}{
		{"int match", Assertion{Object: "circle", Property: "radius", Value: 5}, false},
		{"float matches int", Assertion{Object: "circle", Property: "radius", Value: 5.0}, false},
		{"string match", Assertion{Object: "circle", Property: "color", Value: "red"}, false},
		{"mismatch", Assertion{Object: "circle", Property: "radius", Value: 6}, true},
		{"unset property", Assertion{Object: "circle", Property: "label", Value: nil}, false},
		{"unknown object is unset", Assertion{Object: "square", Property: "side", Value: nil}, false},
		{"unset but expected", Assertion{Object: "circle", Property: "label", Value: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.a.Type = AssertProperty
			err := assertProperty(testResult(), tt.a)
			if tt.wantErr {
				require.Error(t, err)
				var ae *AssertionError
				require.ErrorAs(t, err, &ae)
				assert.Equal(t, AssertProperty, ae.Type)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssertList(t *testing.T) {
	tests := []struct {
		name    string
		list    string
		items   []string
		wantErr string
	}{
		{"exact", "shapes", []string{"a", "b"}, ""},
		{"wrong order", "shapes", []string{"b", "a"}, "list shapes = [b a]"},
		{"too short", "shapes", []string{"a"}, "list shapes = [a]"},
		{"empty list nil items", "empty", nil, ""},
		{"empty list empty items", "empty", []string{}, ""},
		{"missing list", "circles", nil, "list not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertList(testResult(), Assertion{Type: AssertList, List: tt.list, Items: tt.items})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAssertCount(t *testing.T) {
	result := testResult()

	assert.NoError(t, assertCount(result, Assertion{Type: AssertUndoCount, Count: intPtr(1)}))
	assert.NoError(t, assertCount(result, Assertion{Type: AssertRedoCount, Count: intPtr(1)}))

	err := assertCount(result, Assertion{Type: AssertUndoCount, Count: intPtr(3)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected: 3 entries")
	assert.Contains(t, err.Error(), "Actual: 1 entries")
}

func TestAssertNotifications(t *testing.T) {
	result := testResult()

	assert.NoError(t, assertNotifications(result, Assertion{Actions: []string{"mark", "mark", "undo"}}))

	err := assertNotifications(result, Assertion{Actions: []string{"mark", "undo"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[mark mark undo]")

	// Nil actions expect no notifications at all.
	assert.Error(t, assertNotifications(result, Assertion{}))
	assert.NoError(t, assertNotifications(&Result{State: &State{}}, Assertion{}))
}

func TestAssertExpr(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr string
	}{
		{"counts", "undo_count == 1 && redo_count == 1", ""},
		{"flags", "tracking && !in_batch", ""},
		{"object property", "objects.circle.radius == 5", ""},
		{"list membership", `"a" in lists.shapes && len(lists.empty) == 0`, ""},
		{"notifications", `notifications[2] == "undo" && len(notifications) == 3`, ""},
		{"false", "undo_count > 1", "Actual: false"},
		{"not boolean", "undo_count + 1", "compile error"},
		{"unknown variable", "nope == 1", "compile error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertExpr(testResult(), Assertion{Type: AssertExpr, Expr: tt.expr})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		name     string
		actual   any
		expected any
		want     bool
	}{
		{"same int", 1, 1, true},
		{"int and int64", 1, int64(1), true},
		{"int and float", 2, 2.0, true},
		{"uint64 and int", uint64(3), 3, true},
		{"different ints", 1, 2, false},
		{"strings", "a", "a", true},
		{"string and int", "1", 1, false},
		{"nil and nil", nil, nil, true},
		{"nil and zero", nil, 0, false},
		{"bools", true, true, true},
		{"slices", []any{1, "a"}, []any{1, "a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valuesEqual(tt.actual, tt.expected))
		})
	}
}

func TestEvaluateAssertions_AllPass(t *testing.T) {
	errs := EvaluateAssertions(testResult(), []Assertion{
		{Type: AssertProperty, Object: "circle", Property: "radius", Value: 5},
		{Type: AssertList, List: "shapes", Items: []string{"a", "b"}},
		{Type: AssertUndoCount, Count: intPtr(1)},
		{Type: AssertRedoCount, Count: intPtr(1)},
		{Type: AssertNotifications, Actions: []string{"mark", "mark", "undo"}},
		{Type: AssertExpr, Expr: "tracking"},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_SomeFail(t *testing.T) {
	errs := EvaluateAssertions(testResult(), []Assertion{
		{Type: AssertUndoCount, Count: intPtr(1)},
		{Type: AssertRedoCount, Count: intPtr(0)},
		{Type: AssertExpr, Expr: "in_batch"},
	})
	require.Len(t, errs, 2)
	assert.True(t, strings.HasPrefix(errs[0], "assertion 1 (redo_count):"))
	assert.True(t, strings.HasPrefix(errs[1], "assertion 2 (expr):"))
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	errs := EvaluateAssertions(testResult(), []Assertion{{Type: "vibes"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unknown assertion type: vibes")
}

func TestEvaluateAssertions_MissingCount(t *testing.T) {
	errs := EvaluateAssertions(testResult(), []Assertion{{Type: AssertUndoCount}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "count is required for undo_count")
}

func TestEvaluateAssertions_NoState(t *testing.T) {
	errs := EvaluateAssertions(&Result{}, []Assertion{{Type: AssertExpr, Expr: "true"}})
	assert.Equal(t, []string{"no final state recorded"}, errs)
}

func TestAssertionError_ErrorFormat(t *testing.T) {
	err := &AssertionError{
		Type:     AssertUndoCount,
		Expected: "2 entries",
		Actual:   "1 entries",
		Trace: []TraceEvent{
			{Seq: 1, Action: "mark", Kind: "custom", UndoCount: 1},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: undo_count")
	assert.Contains(t, msg, "Expected: 2 entries")
	assert.Contains(t, msg, "Actual: 1 entries")
	assert.Contains(t, msg, "Full trace:")
	assert.Contains(t, msg, "[1] mark custom (undo=1 redo=0)")
}
