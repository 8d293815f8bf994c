package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/doublesearch/internal/compiler"
	"github.com/roach88/doublesearch/internal/filter"
)

// Snapshot captures the compiled form of a scenario for golden comparison.
type Snapshot struct {
	Scenario    string                   `json:"scenario"`
	Cypher      string                   `json:"cypher"`
	Params      map[string]any           `json:"params"`
	Keywords    compiler.KeywordDecision `json:"keywords"`
	Diagnostics []filter.Diagnostic      `json:"diagnostics"`
}

// MarshalSnapshot renders the snapshot of cq as indented JSON with sorted
// parameter names and no HTML escaping, so ">" stays readable.
func MarshalSnapshot(name string, cq *compiler.CompiledQuery) ([]byte, error) {
	snap := Snapshot{
		Scenario:    name,
		Cypher:      cq.Text,
		Params:      cq.Params,
		Keywords:    cq.Keywords,
		Diagnostics: cq.Diagnostics,
	}
	if snap.Params == nil {
		snap.Params = map[string]any{}
	}
	if snap.Diagnostics == nil {
		snap.Diagnostics = []filter.Diagnostic{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := MarshalSnapshot(scenario.Name, result.Compiled)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}
