package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/doublesearch/internal/compiler"
)

func TestRun_AllScenariosPass(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
		})
	}
}

func TestRunAll(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	results, err := RunAll(scenarios)
	require.NoError(t, err)
	assert.Len(t, results, len(scenarios))
	for name, r := range results {
		assert.True(t, r.Pass, name)
	}
}

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"age_backstop", "german_keywords"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(filepath.Join("testdata/scenarios", name+".yaml"))
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass)
		})
	}
}

func TestRun_FailingAssertionsAreCollected(t *testing.T) {
	s := &Scenario{
		Name:        "failing",
		Description: "every assertion fails",
		Input: compiler.ParsedQuery{
			Filters: map[string]string{"age": ">40"},
		},
		Assertions: []Assertion{
			{Type: AssertContains, Text: "Property"},
			{Type: AssertNotContains, Text: "p_age_2023"},
			{Type: AssertParam, Name: "p0", Value: 41},
			{Type: AssertParam, Name: "p9", Value: 1},
			{Type: AssertMatchCount, Count: 2},
			{Type: AssertParamCount, Count: 3},
			{Type: AssertDiagnostic, Code: "D006"},
			{Type: AssertKeywords, Reason: "included"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 8)
	assert.Contains(t, result.Errors[0], "Assertion failed: contains")
	assert.Contains(t, result.Errors[2], "int64 40")
	assert.Contains(t, result.Errors[3], "unbound (have [p0])")
	assert.Contains(t, result.Errors[0], "Compiled query:\n  MATCH (d:Double)")
}

func TestRun_CustomVocabulary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vocab.cue"), []byte(`
priority: ["Property", "InvestmentAccount", "BankAccount", "PrivatePension", "OccuPension", "Insurance"]
`), 0o644))
	s := &Scenario{
		Name:        "private_first",
		Description: "priority from the vocabulary document",
		Vocabulary:  filepath.Join(dir, "vocab.cue"),
		Input:       compiler.ParsedQuery{Filters: map[string]string{"pension": ">1000"}},
		Assertions:  []Assertion{{Type: AssertContains, Text: "(p_privatepension:PrivatePension)"}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
}

func TestRun_BrokenVocabulary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vocab.cue"), []byte(`priority: ["Car"]`), 0o644))

	_, err := Run(&Scenario{Name: "broken", Vocabulary: filepath.Join(dir, "vocab.cue")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load vocabulary")
	assert.Contains(t, err.Error(), "E105")
}

func TestValuesEqual(t *testing.T) {
	assert.True(t, valuesEqual(int64(40), 40))
	assert.True(t, valuesEqual(0.5, 0.5))
	assert.True(t, valuesEqual(int64(2), 2.0))
	assert.True(t, valuesEqual("x", "x"))
	assert.True(t, valuesEqual(true, true))
	assert.False(t, valuesEqual(int64(1), true))
	assert.False(t, valuesEqual("1", 1))
}

func TestEvaluate_NoLiterals(t *testing.T) {
	cq := &compiler.CompiledQuery{
		Text:   "MATCH (d:Double)\nWHERE d.tags_en CONTAINS 'books'\nRETURN DISTINCT d",
		Params: map[string]any{"p0": "books"},
	}
	errs := EvaluateAssertions(cq, []Assertion{{Type: AssertNoLiterals}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `$p0 value "books" appears in text`)
}
