package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/memento/internal/memento"
	"github.com/roach88/memento/internal/store"
	"github.com/roach88/memento/internal/testutil"
)

// Option configures a scenario run.
type Option func(*config)

type config struct {
	store   *store.Store
	ids     store.SessionIDGenerator
	logger  *slog.Logger
	maxUndo int
}

// WithStore journals the run into st instead of a private in-memory store.
// The caller keeps ownership of st.
func WithStore(st *store.Store) Option {
	return func(c *config) {
		c.store = st
	}
}

// WithSessionIDs sets the journal session ID generator.
// Default: a fixed generator returning the scenario's session.
func WithSessionIDs(gen store.SessionIDGenerator) Option {
	return func(c *config) {
		c.ids = gen
	}
}

// WithLogger sets the logger for the run and its Mementor.
// Default: logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDefaultMaxUndo caps the undo stack for scenarios that don't set
// max_undo. Default: unbounded.
func WithDefaultMaxUndo(n int) Option {
	return func(c *config) {
		c.maxUndo = n
	}
}

// Harness executes one scenario against a fresh Mementor and sandbox.
type Harness struct {
	m       *memento.Mementor
	sandbox *sandbox
	logger  *slog.Logger
	result  *Result
}

// Run executes a scenario and returns the result.
//
// Each run gets a fresh Mementor whose change notifications are journaled;
// the trace is read back from the journal so it reflects exactly what was
// recorded. Without WithStore the journal is a private in-memory database.
//
// Execution flow:
// 1. Open the journal and start a session
// 2. Build the sandbox from the scenario's objects and lists
// 3. Execute steps, checking expect_error on each
// 4. Read the trace back and evaluate assertions
//
// Step and assertion failures are reported in the Result; the returned
// error is reserved for infrastructure failures.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	st := cfg.store
	if st == nil {
		var err error
		st, err = store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()
	}

	ids := cfg.ids
	if ids == nil {
		ids = testutil.NewFixedSessionGenerator(scenario.Session)
	}

	ctx := context.Background()

	maxUndo := scenario.MaxUndo
	if maxUndo == 0 {
		maxUndo = cfg.maxUndo
	}

	m := memento.New(
		memento.WithLogger(cfg.logger),
		memento.WithMaxUndo(maxUndo),
	)
	defer m.Dispose()

	rec, err := store.NewRecorder(ctx, st, ids, scenario.Name, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start journal session: %w", err)
	}
	rec.Attach(m)

	h := &Harness{
		m:       m,
		sandbox: newSandbox(m, scenario),
		logger:  cfg.logger,
		result:  NewResult(),
	}

	h.runSteps("steps", scenario.Steps)
	rec.Detach()

	if err := rec.Err(); err != nil {
		return nil, fmt.Errorf("failed to journal changes: %w", err)
	}

	session := rec.Session().ID
	changes, err := st.ReadChanges(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	result := h.result
	result.Session = session
	for _, c := range changes {
		result.AddChangeTrace(c)
	}
	result.State = h.sandbox.snapshot()

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"session", session,
		"pass", result.Pass,
		"changes", len(result.Trace),
	)

	return result, nil
}

// runSteps executes steps in order; path locates them in error messages.
func (h *Harness) runSteps(path string, steps []Step) {
	for i, st := range steps {
		at := fmt.Sprintf("%s[%d]", path, i)
		err := h.execute(at, st)
		h.check(at, st, err)
	}
}

// execute performs a single step.
func (h *Harness) execute(at string, st Step) error {
	switch st.Op {
	case OpSet:
		return h.sandbox.setProperty(h.sandbox.object(st.Object), st.Property, st.Value)
	case OpAdd:
		return h.sandbox.add(st.List, st.Element, st.Index)
	case OpRemove:
		return h.sandbox.remove(st.List, st.Element)
	case OpMove:
		return h.sandbox.move(st.List, st.Element, st.Index)
	case OpUndo:
		return repeat(st.Times, h.m.Undo)
	case OpRedo:
		return repeat(st.Times, h.m.Redo)
	case OpBeginBatch:
		return h.m.BeginBatch()
	case OpEndBatch:
		return h.m.EndBatch()
	case OpBatch:
		return h.m.Batch(func() error {
			h.runSteps(at+".steps", st.Steps)
			return nil
		})
	case OpNoTrack:
		return h.m.ExecuteNoTrack(func() error {
			h.runSteps(at+".steps", st.Steps)
			return nil
		})
	case OpTrack:
		h.m.SetTrackingEnabled(*st.Enabled)
		return nil
	case OpReset:
		h.m.Reset()
		return nil
	case OpCustom:
		return h.m.MarkEvent(newCustomEvent(st.Behavior))
	}
	return fmt.Errorf("unknown op %q", st.Op)
}

// check compares a step's outcome with its expect_error.
func (h *Harness) check(at string, st Step, err error) {
	got := errorCategory(err)

	switch {
	case st.ExpectError == "" && err != nil:
		h.result.AddError(fmt.Sprintf("%s (%s): unexpected error: %v", at, st.Op, err))
	case st.ExpectError != "" && err == nil:
		h.result.AddError(fmt.Sprintf("%s (%s): expected %s error, got none", at, st.Op, st.ExpectError))
	case st.ExpectError != "" && got != st.ExpectError:
		h.result.AddError(fmt.Sprintf("%s (%s): expected %s error, got %v", at, st.Op, st.ExpectError, err))
	}

	h.logger.Debug("step completed",
		"step", at,
		"op", st.Op,
		"error", err,
		"undo_count", h.m.UndoCount(),
		"redo_count", h.m.RedoCount(),
	)
}

// errorCategory maps an engine error to its expect_error name.
func errorCategory(err error) string {
	switch {
	case err == nil:
		return ""
	case memento.IsProtocolViolation(err):
		return ErrorProtocolViolation
	case memento.IsIllegalState(err):
		return ErrorIllegalState
	case memento.IsInvalidArgument(err):
		return ErrorInvalidArgument
	case errors.Is(err, errCustomRollback):
		return ErrorRollbackFailed
	}
	return ""
}

// repeat calls fn times times (at least once), stopping at the first error.
func repeat(times int, fn func() error) error {
	if times < 1 {
		times = 1
	}
	for i := 0; i < times; i++ {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
