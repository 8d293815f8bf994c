package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: adults
description: "Age filter with an interest keyword"
input:
  filters:
    age: ">40"
  keywords: [books]
assertions:
  - type: contains
    text: "d.p_age_2023 > $p0"
  - type: keywords
    include: true
`

const failingScenario = `name: wrong_operator
description: "Asserts the wrong comparison operator"
input:
  filters:
    age: ">40"
assertions:
  - type: contains
    text: "d.p_age_2023 < $p0"
`

func writeScenarios(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func runTestCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTestCommand_AllPass(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"adults.yaml": passingScenario})

	out, err := runTestCmd(t, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ adults")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_FailureExitCode(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"adults.yaml": passingScenario,
		"wrong.yaml":  failingScenario,
	})

	out, err := runTestCmd(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_operator")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommand_JSON(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"adults.yaml": passingScenario,
		"wrong.yaml":  failingScenario,
	})

	out, err := runTestCmd(t, "json", dir)
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Scenarios, 2)
	assert.Equal(t, "adults", resp.Data.Scenarios[0].Name)
	assert.True(t, resp.Data.Scenarios[0].Pass)
	assert.NotEmpty(t, resp.Data.Scenarios[1].Errors)
}

func TestTestCommand_Filter(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"adults.yaml": passingScenario,
		"wrong.yaml":  failingScenario,
	})

	out, err := runTestCmd(t, "text", dir, "--filter", "adu*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
	assert.NotContains(t, out, "wrong_operator")
}

func TestTestCommand_GoldenUpdateThenCompare(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"adults.yaml": passingScenario})
	golden := filepath.Join(t.TempDir(), "golden")

	_, err := runTestCmd(t, "text", dir, "--golden", golden, "--update")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(golden, "adults.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario": "adults"`)

	_, err = runTestCmd(t, "text", dir, "--golden", golden)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(golden, "adults.golden"), []byte("{}\n"), 0644))
	out, err := runTestCmd(t, "text", dir, "--golden", golden)
	require.Error(t, err)
	assert.Contains(t, out, "snapshot differs")
}

func TestTestCommand_UpdateNeedsGolden(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"adults.yaml": passingScenario})

	_, err := runTestCmd(t, "text", dir, "--update")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_MissingDir(t *testing.T) {
	_, err := runTestCmd(t, "text", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_RepositoryScenarios(t *testing.T) {
	dir := filepath.Join("..", "harness", "testdata", "scenarios")
	golden := filepath.Join("..", "harness", "testdata", "golden")

	out, err := runTestCmd(t, "text", dir, "--golden", golden)
	require.NoError(t, err, out)
	assert.Contains(t, out, "0 failed")
}
