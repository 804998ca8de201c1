package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/memento/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string // optional - show one session's changes
	Action   string // optional - filter changes to one action
}

// SessionSummary is one journal session in the session listing.
type SessionSummary struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	CreatedSeq int64          `json:"created_seq"`
	Changes    int            `json:"changes"`
	Actions    map[string]int `json:"actions"`
}

// SessionsResult holds the session listing.
type SessionsResult struct {
	Sessions []SessionSummary `json:"sessions"`
}

// TraceResult holds one session's change timeline.
type TraceResult struct {
	Session  store.Session  `json:"session"`
	Timeline []store.Change `json:"timeline"`
	Stats    TraceStats     `json:"stats"`
}

// TraceStats holds summary statistics for a session.
type TraceStats struct {
	TotalChanges int `json:"total_changes"`
	Marks        int `json:"marks"`
	Undos        int `json:"undos"`
	Redos        int `json:"redos"`
	Resets       int `json:"resets"`
	FinalUndo    int `json:"final_undo_count"`
	FinalRedo    int `json:"final_redo_count"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect the change journal",
		Long: `Inspect sessions journaled by 'memento run --db'.

Without --session, lists every session with its change counts.
With --session, shows that session's change notifications in order:
what was marked, undone, redone or reset, and the stack sizes after
each change.

Examples:
  memento trace --db ./memento.db
  memento trace --db ./memento.db --session 0192f0c4-...
  memento trace --db ./memento.db --session 0192f0c4-... --action undo
  memento trace --db ./memento.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (defaults to journal.path from the config)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session ID to trace")
	cmd.Flags().StringVar(&opts.Action, "action", "", "filter to one action (mark|undo|redo|reset)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = opts.config().Journal.Path
	}
	if dbPath == "" {
		return NewExitError(ExitCommandError, "no journal: pass --db or set journal.path in the config")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}

	switch opts.Action {
	case "", "mark", "undo", "redo", "reset":
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid action %q: must be one of mark, undo, redo, reset", opts.Action))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.Session == "" {
		return listSessions(ctx, st, opts, cmd.OutOrStdout())
	}
	return traceSession(ctx, st, opts, cmd.OutOrStdout())
}

func listSessions(ctx context.Context, st *store.Store, opts *TraceOptions, w io.Writer) error {
	sessions, err := st.ReadSessions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read sessions", err)
	}

	result := SessionsResult{Sessions: make([]SessionSummary, 0, len(sessions))}
	for _, s := range sessions {
		counts, err := st.CountChanges(ctx, s.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to count changes", err)
		}
		total := 0
		for _, n := range counts {
			total += n
		}
		result.Sessions = append(result.Sessions, SessionSummary{
			ID:         s.ID,
			Name:       s.Name,
			CreatedSeq: s.CreatedSeq,
			Changes:    total,
			Actions:    counts,
		})
	}

	if opts.Format == "json" {
		return writeJSON(w, CLIResponse{Status: "ok", Data: result})
	}

	if len(result.Sessions) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return nil
	}

	fmt.Fprintln(w, "=== Sessions ===")
	for _, s := range result.Sessions {
		fmt.Fprintf(w, "  [%d] %s  %s  (%d changes: %d mark, %d undo, %d redo, %d reset)\n",
			s.CreatedSeq, truncateID(s.ID), s.Name, s.Changes,
			s.Actions["mark"], s.Actions["undo"], s.Actions["redo"], s.Actions["reset"])
	}
	return nil
}

func traceSession(ctx context.Context, st *store.Store, opts *TraceOptions, w io.Writer) error {
	session, err := st.ReadSession(ctx, opts.Session)
	if errors.Is(err, sql.ErrNoRows) {
		if opts.Format == "json" {
			return writeJSON(w, CLIResponse{
				Status: "ok",
				Data: TraceResult{
					Session:  store.Session{ID: opts.Session},
					Timeline: []store.Change{},
				},
			})
		}
		fmt.Fprintf(w, "No changes found for session: %s\n", opts.Session)
		return nil
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	changes, err := st.ReadChanges(ctx, session.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read changes", err)
	}

	result := TraceResult{
		Session:  session,
		Timeline: buildTimeline(changes, opts.Action),
		Stats:    buildStats(changes),
	}

	if opts.Format == "json" {
		return writeJSON(w, CLIResponse{Status: "ok", Data: result})
	}
	return outputTraceText(w, result, opts.Verbose)
}

// buildTimeline returns the changes, keeping only actionFilter when set.
func buildTimeline(changes []store.Change, actionFilter string) []store.Change {
	timeline := make([]store.Change, 0, len(changes))
	for _, c := range changes {
		if actionFilter != "" && c.Action != actionFilter {
			continue
		}
		timeline = append(timeline, c)
	}
	return timeline
}

// buildStats summarizes all changes of a session, ignoring any filter.
func buildStats(changes []store.Change) TraceStats {
	stats := TraceStats{TotalChanges: len(changes)}
	for _, c := range changes {
		switch c.Action {
		case "mark":
			stats.Marks++
		case "undo":
			stats.Undos++
		case "redo":
			stats.Redos++
		case "reset":
			stats.Resets++
		}
	}
	if n := len(changes); n > 0 {
		stats.FinalUndo = changes[n-1].UndoCount
		stats.FinalRedo = changes[n-1].RedoCount
	}
	return stats
}

// outputTraceText outputs the trace result as text.
func outputTraceText(w io.Writer, result TraceResult, verbose bool) error {
	fmt.Fprintf(w, "Trace for Session: %s\n", result.Session.ID)
	fmt.Fprintf(w, "Scenario: %s\n", result.Session.Name)
	fmt.Fprintln(w)

	// Timeline section
	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no changes)")
	} else {
		for _, c := range result.Timeline {
			formatChange(w, c, verbose)
		}
	}
	fmt.Fprintln(w)

	// Stats section
	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Total Changes: %d\n", result.Stats.TotalChanges)
	fmt.Fprintf(w, "  Marks:  %d\n", result.Stats.Marks)
	fmt.Fprintf(w, "  Undos:  %d\n", result.Stats.Undos)
	fmt.Fprintf(w, "  Redos:  %d\n", result.Stats.Redos)
	fmt.Fprintf(w, "  Resets: %d\n", result.Stats.Resets)
	fmt.Fprintf(w, "  Final Stacks: undo=%d redo=%d\n", result.Stats.FinalUndo, result.Stats.FinalRedo)

	return nil
}

// formatChange formats a single change for text output.
func formatChange(w io.Writer, c store.Change, verbose bool) {
	switch c.Action {
	case "reset":
		fmt.Fprintf(w, "  [%d] RESET\n", c.Seq)
	default:
		fmt.Fprintf(w, "  [%d] %-4s %s\n", c.Seq, actionLabel(c.Action), c.Description)
		if verbose {
			fmt.Fprintf(w, "       Kind: %s (%d event(s))\n", c.EventKind, c.EventCount)
		}
	}
	if verbose {
		fmt.Fprintf(w, "       Stacks: undo=%d redo=%d\n", c.UndoCount, c.RedoCount)
	}
}

func actionLabel(action string) string {
	switch action {
	case "mark":
		return "MARK"
	case "undo":
		return "UNDO"
	case "redo":
		return "REDO"
	}
	return action
}

// truncateID truncates a long ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
