package harness

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Validation error codes (E200-E299)
const (
	ErrCodeUnreadable = "E200" // file cannot be read
	ErrCodeSyntax     = "E201" // YAML does not parse
	ErrCodeSchema     = "E202" // document violates the CUE schema
	ErrCodeStructure  = "E203" // document fails structural validation
)

// ValidationError is one problem found in a scenario file.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateFile checks a scenario file against the CUE schema and the
// structural rules LoadScenario enforces. Returns all errors found.
func ValidateFile(path string) []ValidationError {
	data, err := os.ReadFile(path)
	if err != nil {
		return []ValidationError{{Code: ErrCodeUnreadable, Message: err.Error()}}
	}

	errs := ValidateSchema(data)
	if len(errs) > 0 {
		return errs
	}

	if _, err := ParseScenario(data); err != nil {
		return []ValidationError{{Code: ErrCodeStructure, Message: err.Error()}}
	}
	return nil
}

// ValidateSchema checks scenario YAML against the embedded CUE schema.
//
// The YAML is decoded generically, encoded as a CUE value and unified with
// #Scenario; every concrete-value error is reported.
func ValidateSchema(data []byte) []ValidationError {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []ValidationError{{Code: ErrCodeSyntax, Message: err.Error()}}
	}
	if doc == nil {
		return []ValidationError{{Code: ErrCodeSyntax, Message: "empty document"}}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return []ValidationError{{Code: ErrCodeSchema, Message: fmt.Sprintf("compile schema: %v", err)}}
	}

	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return []ValidationError{{Code: ErrCodeSchema, Message: fmt.Sprintf("encode document: %v", err)}}
	}

	err := def.Unify(value).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs []ValidationError
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		errs = append(errs, ValidationError{
			Field:   strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
			Code:    ErrCodeSchema,
		})
	}
	return errs
}
