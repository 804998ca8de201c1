package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/memento/internal/harness"
	"github.com/roach88/memento/internal/store"
	"github.com/roach88/memento/internal/testutil"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string // journal path; overrides journal.path from the config
	Filter   string // scenario filter (glob pattern)
	Update   bool   // regenerate golden files

	// SessionIDs allows overriding the journal session ID generator (for testing).
	// If nil, defaults to UUIDv7Generator when journaling.
	SessionIDs store.SessionIDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario|dir>",
		Short: "Run undo/redo scenarios",
		Long: `Run scenario files against a fresh Mementor each.

A directory is searched recursively for .yaml and .yml files. Each
scenario's steps are executed and its assertions checked. When a golden
file exists next to the scenario (golden/<name>.golden) the trace and
final state must match it byte for byte.

With --db (or journal.path in the config file) every run is journaled
as its own session in a SQLite database, viewable with 'memento trace'.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, journal errors, etc.)

Examples:
  memento run ./scenarios
  memento run ./scenarios --filter "radius*"
  memento run ./scenarios/radius.yaml --db ./memento.db
  memento run ./scenarios --update
  memento run ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "journal runs into this SQLite database")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")

	return cmd
}

func runScenarios(opts *RunOptions, path string, cmd *cobra.Command) error {
	logger := opts.logger()
	cfg := opts.config()

	files, err := harness.FindScenarios(path, opts.Filter)
	if err != nil {
		var notFound *harness.ScenarioNotFoundError
		if errors.As(err, &notFound) {
			return NewExitError(ExitCommandError, fmt.Sprintf("scenario path not found: %s", path))
		}
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	if len(files) == 0 {
		if opts.Format == "json" {
			return outputRunJSON(cmd, &harness.SuiteResult{Scenarios: []harness.ScenarioOutcome{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	runOpts := []harness.Option{
		harness.WithLogger(logger),
		harness.WithDefaultMaxUndo(cfg.Engine.MaxUndo),
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = cfg.Journal.Path
	}
	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer st.Close()

		var ids store.SessionIDGenerator = store.UUIDv7Generator{}
		if opts.SessionIDs != nil {
			ids = opts.SessionIDs
		}
		runOpts = append(runOpts, harness.WithStore(st), harness.WithSessionIDs(ids))
		logger.Info("journaling runs", "db", dbPath)
	}

	logger.Debug("running scenarios", "count", len(files), "path", path)
	suite := harness.RunSuite(files, runOpts...)

	for i := range suite.Scenarios {
		checkGolden(&suite.Scenarios[i], opts.Update)
	}
	suite.Passed, suite.Failed = 0, 0
	for _, s := range suite.Scenarios {
		if s.Pass {
			suite.Passed++
		} else {
			suite.Failed++
		}
	}

	if opts.Format == "json" {
		return outputRunJSON(cmd, suite)
	}
	return outputRunText(cmd.OutOrStdout(), suite, opts.Update)
}

// checkGolden compares a run against golden/<name>.golden next to its
// scenario file, or rewrites the file when update is set. Scenarios
// without a golden file are judged on their assertions alone.
func checkGolden(outcome *harness.ScenarioOutcome, update bool) {
	if outcome.Result == nil {
		return
	}

	// Journaled runs get unique session IDs; goldens hold the fixed one.
	snapshotResult := *outcome.Result
	snapshotResult.Session = testutil.NewFixedSessionGenerator(outcome.Scenario.Session).Generate()

	data, err := harness.Snapshot(outcome.Scenario.Name, &snapshotResult)
	if err != nil {
		fail(outcome, fmt.Sprintf("failed to render snapshot: %v", err))
		return
	}

	goldenPath := goldenFilePath(outcome.Path)

	if update {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
			fail(outcome, fmt.Sprintf("failed to create golden directory: %v", err))
			return
		}
		if err := os.WriteFile(goldenPath, data, 0644); err != nil {
			fail(outcome, fmt.Sprintf("failed to write golden file: %v", err))
		}
		return
	}

	golden, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		fail(outcome, fmt.Sprintf("failed to read golden file: %v", err))
		return
	}
	if string(golden) != string(data) {
		fail(outcome, "trace does not match golden file (run with --update to regenerate)")
	}
}

func fail(outcome *harness.ScenarioOutcome, msg string) {
	outcome.Pass = false
	outcome.Errors = append(outcome.Errors, msg)
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// outputRunJSON outputs the suite result as JSON.
func outputRunJSON(cmd *cobra.Command, suite *harness.SuiteResult) error {
	formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
	if suite.Failed == 0 {
		return formatter.Success(suite)
	}

	err := failedScenarios(suite.Failed)
	if werr := formatter.Failure(ErrCodeRunFailed, err.Message, suite); werr != nil {
		return werr
	}
	return err
}

// outputRunText outputs one line per scenario and a summary.
func outputRunText(w io.Writer, suite *harness.SuiteResult, updated bool) error {
	for _, s := range suite.Scenarios {
		if s.Pass && updated {
			fmt.Fprintf(w, "%s %s (golden updated)\n", mark(true), s.Name)
		} else {
			fmt.Fprintf(w, "%s %s\n", mark(s.Pass), s.Name)
		}
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run Summary: %d passed, %d failed, %d total\n", suite.Passed, suite.Failed, suite.Total)

	if suite.Failed > 0 {
		return failedScenarios(suite.Failed)
	}

	fmt.Fprintf(w, "%s All scenarios passed\n", mark(true))
	return nil
}
