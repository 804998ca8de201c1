package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScenarios_Directory(t *testing.T) {
	files, err := FindScenarios(filepath.Join("testdata", "scenarios"), "")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join("testdata", "scenarios", "circle_radius.yaml"),
		filepath.Join("testdata", "scenarios", "error_contracts.yaml"),
		filepath.Join("testdata", "scenarios", "untracked_setup.yml"),
	}, files)
}

func TestFindScenarios_Filter(t *testing.T) {
	files, err := FindScenarios(filepath.Join("testdata", "scenarios"), "*_contracts")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("testdata", "scenarios", "error_contracts.yaml")}, files)

	files, err = FindScenarios(filepath.Join("testdata", "scenarios"), "nothing*")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindScenarios_SingleFile(t *testing.T) {
	path := filepath.Join("testdata", "scenarios", "circle_radius.yaml")

	files, err := FindScenarios(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)

	files, err = FindScenarios(path, "other")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindScenarios_SkipsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.yaml"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte("x"), 0644))

	files, err := FindScenarios(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "nested", "b.yaml"),
	}, files)
}

func TestFindScenarios_NotFound(t *testing.T) {
	_, err := FindScenarios("/nonexistent/scenarios", "")
	require.Error(t, err)

	var notFound *ScenarioNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "/nonexistent/scenarios", notFound.Path)
}

func TestFindScenarios_InvalidFilter(t *testing.T) {
	_, err := FindScenarios(filepath.Join("testdata", "scenarios"), "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestRunSuite_AllPass(t *testing.T) {
	files, err := FindScenarios(filepath.Join("testdata", "scenarios"), "")
	require.NoError(t, err)

	suite := RunSuite(files)
	for _, s := range suite.Scenarios {
		assert.True(t, s.Pass, "%s: %v", s.Name, s.Errors)
	}
	assert.Equal(t, 3, suite.Total)
	assert.Equal(t, 3, suite.Passed)
	assert.Equal(t, 0, suite.Failed)

	assert.Equal(t, "circle_radius", suite.Scenarios[0].Name)
	assert.Equal(t, "session-circle-radius", suite.Scenarios[0].Session)
	assert.Equal(t, 3, suite.Scenarios[0].Changes)
	assert.NotNil(t, suite.Scenarios[0].Result)
}

func TestRunSuite_CollectsFailures(t *testing.T) {
	dir := t.TempDir()
	broken := writeScenarioFile(t, dir, "broken.yaml", "name: [")
	failing := writeScenarioFile(t, dir, "failing.yaml", `
name: failing
description: "Asserts the wrong count"
steps:
  - op: custom
assertions:
  - type: undo_count
    count: 5
`)
	passing := filepath.Join("testdata", "scenarios", "circle_radius.yaml")

	suite := RunSuite([]string{broken, failing, passing})

	assert.Equal(t, 3, suite.Total)
	assert.Equal(t, 1, suite.Passed)
	assert.Equal(t, 2, suite.Failed)

	assert.Equal(t, "broken.yaml", suite.Scenarios[0].Name)
	require.Len(t, suite.Scenarios[0].Errors, 1)
	assert.Contains(t, suite.Scenarios[0].Errors[0], "failed to load scenario")
	assert.Nil(t, suite.Scenarios[0].Result)

	assert.Equal(t, "failing", suite.Scenarios[1].Name)
	assert.False(t, suite.Scenarios[1].Pass)
	require.Len(t, suite.Scenarios[1].Errors, 1)
	assert.Contains(t, suite.Scenarios[1].Errors[0], "assertion 0 (undo_count)")

	assert.True(t, suite.Scenarios[2].Pass)
}
