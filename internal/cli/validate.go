package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/memento/internal/harness"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool        `json:"valid"`
	Files  int         `json:"files"`
	Errors []FileError `json:"errors,omitempty"`
}

// FileError is a validation error located in a scenario file.
type FileError struct {
	File string `json:"file"`
	harness.ValidationError
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario|dir>",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario files against the scenario schema.

Each file is checked against the embedded CUE schema and then parsed
with the same structural rules 'memento run' applies. Faster than run
for authoring feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	files, err := harness.FindScenarios(path, "")
	if err != nil {
		var notFound *harness.ScenarioNotFoundError
		if errors.As(err, &notFound) {
			return outputValidateError(formatter, ErrCodeNotFound, fmt.Sprintf("scenario path not found: %s", path), nil)
		}
		return outputValidateError(formatter, ErrCodeNotFound, err.Error(), nil)
	}
	if len(files) == 0 {
		return outputValidateError(formatter, ErrCodeNoFiles, fmt.Sprintf("no scenario files found in %s", path), nil)
	}

	formatter.VerboseLog("Found %d scenario file(s) in %s", len(files), path)

	var errs []FileError
	for _, f := range files {
		formatter.VerboseLog("Validating scenario: %s", f)
		for _, ve := range harness.ValidateFile(f) {
			errs = append(errs, FileError{File: f, ValidationError: ve})
		}
	}

	if len(errs) > 0 {
		return outputValidationErrors(formatter, len(files), errs)
	}

	return outputValidateSuccess(formatter, len(files))
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, files int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Files: files})
	}

	fmt.Fprintf(formatter.Writer, "%s All scenarios valid (%d file(s))\n", mark(true), files)
	return nil
}

// outputValidateError outputs a single command-level error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Unusable input is a command-level error (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
// Validation failures exit with ExitFailure.
func outputValidationErrors(formatter *OutputFormatter, files int, errs []FileError) error {
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.Format == "json" {
		result := ValidationResult{Valid: false, Files: files, Errors: errs}
		if err := formatter.Failure(errs[0].Code, errs[0].Message, result); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintf(formatter.Writer, "%s Validation failed\n", mark(false))
	fmt.Fprintln(formatter.Writer)

	for _, e := range errs {
		fmt.Fprintln(formatter.Writer, e.File)
		fmt.Fprintf(formatter.Writer, "  %s\n\n", e.ValidationError.Error())
	}
	return exitErr
}
