package harness

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Scenario drives a Mementor against a sandbox of named objects and lists,
// then asserts on the resulting state and change trace.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Session is an optional fixed journal session ID for deterministic runs.
	// If empty, defaults to "session-default".
	Session string `yaml:"session,omitempty"`

	// MaxUndo caps the undo stack. Zero means unbounded.
	MaxUndo int `yaml:"max_undo,omitempty"`

	// Objects are property bags keyed by object name.
	Objects map[string]map[string]any `yaml:"objects,omitempty"`

	// Lists are ordered string collections keyed by list name.
	Lists map[string][]string `yaml:"lists,omitempty"`

	// Steps run in order against the Mementor.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state and trace.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one operation against the Mementor or the sandbox.
type Step struct {
	// Op selects the operation; see the Op* constants.
	Op string `yaml:"op"`

	// Object and Property address a property (set).
	Object   string `yaml:"object,omitempty"`
	Property string `yaml:"property,omitempty"`

	// Value is the new property value (set).
	Value any `yaml:"value,omitempty"`

	// List and Element address a list element (add, remove, move).
	List    string `yaml:"list,omitempty"`
	Element string `yaml:"element,omitempty"`

	// Index is the insert position for add (default: append) and the
	// destination for move (default: 0, the front).
	Index *int `yaml:"index,omitempty"`

	// Times repeats undo or redo. Default 1.
	Times int `yaml:"times,omitempty"`

	// Enabled is the tracking flag for track.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Behavior selects the custom event flavor: "" (reversible no-op),
	// "returns_batch" or "fails".
	Behavior string `yaml:"behavior,omitempty"`

	// Steps are the nested steps of batch and no_track.
	Steps []Step `yaml:"steps,omitempty"`

	// ExpectError names the error category the step must fail with:
	// illegal_state, invalid_argument, protocol_violation or rollback_failed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Step operations.
const (
	OpSet        = "set"
	OpAdd        = "add"
	OpRemove     = "remove"
	OpMove       = "move"
	OpUndo       = "undo"
	OpRedo       = "redo"
	OpBeginBatch = "begin_batch"
	OpEndBatch   = "end_batch"
	OpBatch      = "batch"
	OpNoTrack    = "no_track"
	OpTrack      = "track"
	OpReset      = "reset"
	OpCustom     = "custom"
)

// Expected error categories.
const (
	ErrorIllegalState      = "illegal_state"
	ErrorInvalidArgument   = "invalid_argument"
	ErrorProtocolViolation = "protocol_violation"

	// ErrorRollbackFailed matches a custom event whose rollback fails.
	ErrorRollbackFailed = "rollback_failed"
)

// Custom event behaviors.
const (
	BehaviorReturnsBatch = "returns_batch"
	BehaviorFails        = "fails"
)

// Assertion validates final state or the change trace.
type Assertion struct {
	// Type specifies the assertion type; see the Assert* constants.
	Type string `yaml:"type"`

	// Object and Property address the property (property).
	Object   string `yaml:"object,omitempty"`
	Property string `yaml:"property,omitempty"`

	// Value is the expected property value (property). Null means unset.
	Value any `yaml:"value,omitempty"`

	// List and Items give the expected list contents (list).
	List  string   `yaml:"list,omitempty"`
	Items []string `yaml:"items,omitempty"`

	// Count is the expected stack size (undo_count, redo_count).
	Count *int `yaml:"count,omitempty"`

	// Actions is the exact expected notification sequence (notifications).
	Actions []string `yaml:"actions,omitempty"`

	// Expr is a boolean expr-lang expression over the final state (expr).
	Expr string `yaml:"expr,omitempty"`
}

// Assertion type constants.
const (
	AssertProperty      = "property"
	AssertList          = "list"
	AssertUndoCount     = "undo_count"
	AssertRedoCount     = "redo_count"
	AssertNotifications = "notifications"
	AssertExpr          = "expr"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
// Names are normalized to NFC so visually identical names match.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	normalizeScenario(&scenario)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// normalizeScenario rewrites every name in s to NFC.
func normalizeScenario(s *Scenario) {
	if s.Objects != nil {
		objects := make(map[string]map[string]any, len(s.Objects))
		for name, props := range s.Objects {
			normalized := make(map[string]any, len(props))
			for prop, v := range props {
				normalized[norm.NFC.String(prop)] = v
			}
			objects[norm.NFC.String(name)] = normalized
		}
		s.Objects = objects
	}

	if s.Lists != nil {
		lists := make(map[string][]string, len(s.Lists))
		for name, items := range s.Lists {
			normalized := make([]string, len(items))
			for i, item := range items {
				normalized[i] = norm.NFC.String(item)
			}
			lists[norm.NFC.String(name)] = normalized
		}
		s.Lists = lists
	}

	normalizeSteps(s.Steps)

	for i := range s.Assertions {
		a := &s.Assertions[i]
		a.Object = norm.NFC.String(a.Object)
		a.Property = norm.NFC.String(a.Property)
		a.List = norm.NFC.String(a.List)
		for j, item := range a.Items {
			a.Items[j] = norm.NFC.String(item)
		}
	}
}

func normalizeSteps(steps []Step) {
	for i := range steps {
		st := &steps[i]
		st.Object = norm.NFC.String(st.Object)
		st.Property = norm.NFC.String(st.Property)
		st.List = norm.NFC.String(st.List)
		st.Element = norm.NFC.String(st.Element)
		normalizeSteps(st.Steps)
	}
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.MaxUndo < 0 {
		return fmt.Errorf("max_undo must be non-negative")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if err := validateSteps("steps", s.Steps); err != nil {
		return err
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateSteps validates steps recursively; path locates them in errors.
func validateSteps(path string, steps []Step) error {
	for i, st := range steps {
		at := fmt.Sprintf("%s[%d]", path, i)
		if err := validateStep(at, &st); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(at string, st *Step) error {
	switch st.ExpectError {
	case "", ErrorIllegalState, ErrorInvalidArgument, ErrorProtocolViolation, ErrorRollbackFailed:
	default:
		return fmt.Errorf("%s: unknown expect_error %q", at, st.ExpectError)
	}

	if st.Times < 0 {
		return fmt.Errorf("%s: times must be non-negative", at)
	}

	switch st.Op {
	case "":
		return fmt.Errorf("%s: op is required", at)
	case OpSet:
		if st.Object == "" || st.Property == "" {
			return fmt.Errorf("%s: object and property are required for set", at)
		}
	case OpAdd, OpRemove, OpMove:
		if st.List == "" || st.Element == "" {
			return fmt.Errorf("%s: list and element are required for %s", at, st.Op)
		}
		if st.Index != nil && *st.Index < 0 {
			return fmt.Errorf("%s: index must be non-negative", at)
		}
	case OpUndo, OpRedo, OpBeginBatch, OpEndBatch, OpReset:
	case OpBatch, OpNoTrack:
		if len(st.Steps) == 0 {
			return fmt.Errorf("%s: steps are required for %s", at, st.Op)
		}
		return validateSteps(at+".steps", st.Steps)
	case OpTrack:
		if st.Enabled == nil {
			return fmt.Errorf("%s: enabled is required for track", at)
		}
	case OpCustom:
		switch st.Behavior {
		case "", BehaviorReturnsBatch, BehaviorFails:
		default:
			return fmt.Errorf("%s: unknown behavior %q", at, st.Behavior)
		}
	default:
		return fmt.Errorf("%s: unknown op %q", at, st.Op)
	}

	if len(st.Steps) > 0 {
		return fmt.Errorf("%s: steps are only allowed for batch and no_track", at)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertProperty:
		if a.Object == "" || a.Property == "" {
			return fmt.Errorf("assertions[%d]: object and property are required for property", index)
		}
	case AssertList:
		if a.List == "" {
			return fmt.Errorf("assertions[%d]: list is required for list", index)
		}
	case AssertUndoCount, AssertRedoCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertNotifications:
		for _, action := range a.Actions {
			switch action {
			case "mark", "undo", "redo", "reset":
			default:
				return fmt.Errorf("assertions[%d]: unknown notification action %q", index, action)
			}
		}
	case AssertExpr:
		if a.Expr == "" {
			return fmt.Errorf("assertions[%d]: expr is required for expr", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
