package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Every scenario passed or validated
	ExitFailure      = 1 // A scenario, assertion or golden comparison failed
	ExitCommandError = 2 // Unusable input: bad paths, unreadable config, journal errors
)

// Command-level error codes reported in the JSON envelope. Scenario
// validation codes (E200-E203) come from the harness.
const (
	ErrCodeNoFiles   = "E003"         // No scenario files found
	ErrCodeNotFound  = "E005"         // Scenario path not found
	ErrCodeRunFailed = "E_RUN_FAILED" // One or more scenarios failed
)

// ExitError carries the process exit code for a command failure.
type ExitError struct {
	Code    int    // ExitFailure or ExitCommandError
	Message string
	Err     error // optional cause
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error: 0 for nil, the
// ExitError code when one is in the chain, ExitFailure otherwise.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// failedScenarios is the ExitFailure error shared by run output paths.
func failedScenarios(n int) *ExitError {
	return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", n))
}

// CLIResponse is the JSON envelope every command writes in json format.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // run, validate or trace payload
	Error  *CLIError `json:"error,omitempty"` // set when Status is "error"
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`    // E003, E005, E200-E203, E_RUN_FAILED
	Message string `json:"message"` // human-readable message
	Details any    `json:"details,omitempty"`
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose diagnostics; defaults to Writer
	Verbose   bool
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return writeJSON(f.Writer, CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs a command-level error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return writeJSON(f.Writer, CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Failure writes a JSON envelope that carries both the partial result and
// the error describing why it failed. Text output is left to the caller.
func (f *OutputFormatter) Failure(code, message string, data any) error {
	return writeJSON(f.Writer, CLIResponse{
		Status: "error",
		Data:   data,
		Error:  &CLIError{Code: code, Message: message},
	})
}

// VerboseLog writes a diagnostic line when verbose mode is enabled. It goes
// to ErrWriter when set so JSON on Writer stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.errWriter(), format+"\n", args...)
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// mark renders the pass/fail glyph used at the start of text result lines.
func mark(pass bool) string {
	if pass {
		return "✓"
	}
	return "✗"
}

// writeJSON writes an indented CLIResponse.
func writeJSON(w io.Writer, resp CLIResponse) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}
