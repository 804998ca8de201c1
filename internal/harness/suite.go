package harness

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScenarioNotFoundError is returned when a scenario path doesn't exist.
type ScenarioNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *ScenarioNotFoundError) Error() string {
	return fmt.Sprintf("scenario path %q does not exist", e.Path)
}

// FindScenarios returns the scenario files at path: the file itself, or every
// .yaml/.yml file below a directory in lexical order. A non-empty filter is a
// glob matched against the file name without its extension.
func FindScenarios(path, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &ScenarioNotFoundError{Path: path}
	}
	if err != nil {
		return nil, err
	}

	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	if !info.IsDir() {
		if !matchesFilter(path, filter) {
			return []string{}, nil
		}
		return []string{path}, nil
	}

	files := []string{}
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(p)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if matchesFilter(p, filter) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func matchesFilter(path, filter string) bool {
	if filter == "" {
		return true
	}
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	matched, _ := filepath.Match(filter, name)
	return matched
}

// SuiteResult summarizes a run over several scenario files.
type SuiteResult struct {
	Total     int               `json:"total"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Scenarios []ScenarioOutcome `json:"scenarios"`
}

// ScenarioOutcome is the result of one scenario file.
type ScenarioOutcome struct {
	Path    string   `json:"path"`
	Name    string   `json:"name"`
	Pass    bool     `json:"pass"`
	Session string   `json:"session,omitempty"`
	Changes int      `json:"changes"`
	Errors  []string `json:"errors,omitempty"`

	// Scenario is the loaded scenario; nil if it could not be loaded.
	Scenario *Scenario `json:"-"`

	// Result is the full result; nil if the scenario could not be loaded or run.
	Result *Result `json:"-"`
}

// RunSuite loads and runs every scenario file, collecting load, execution
// and assertion failures without stopping.
func RunSuite(paths []string, opts ...Option) *SuiteResult {
	suite := &SuiteResult{
		Total:     len(paths),
		Scenarios: make([]ScenarioOutcome, 0, len(paths)),
	}

	for _, path := range paths {
		outcome := runScenarioFile(path, opts)
		if outcome.Pass {
			suite.Passed++
		} else {
			suite.Failed++
		}
		suite.Scenarios = append(suite.Scenarios, outcome)
	}

	return suite
}

func runScenarioFile(path string, opts []Option) ScenarioOutcome {
	outcome := ScenarioOutcome{
		Path: path,
		Name: filepath.Base(path),
	}

	scenario, err := LoadScenario(path)
	if err != nil {
		outcome.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return outcome
	}
	outcome.Name = scenario.Name
	outcome.Scenario = scenario

	result, err := Run(scenario, opts...)
	if err != nil {
		outcome.Errors = []string{fmt.Sprintf("scenario execution failed: %v", err)}
		return outcome
	}

	outcome.Pass = result.Pass
	outcome.Session = result.Session
	outcome.Changes = len(result.Trace)
	outcome.Errors = result.Errors
	outcome.Result = result
	return outcome
}
