package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/doublesearch/internal/compiler"
	"github.com/roach88/doublesearch/internal/vocab"
)

// Run compiles a scenario's input and evaluates its assertions.
//
// An error means the scenario could not be executed (vocabulary failed to
// load, compilation failed); assertion failures are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	v, err := loadVocabulary(scenario.Vocabulary)
	if err != nil {
		return nil, err
	}

	cq, err := compiler.New(v).Compile(scenario.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to compile scenario %s: %w", scenario.Name, err)
	}

	result := NewResult(cq)
	for _, errMsg := range EvaluateAssertions(cq, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}

// RunAll runs every scenario. The returned map is keyed by scenario name.
func RunAll(scenarios []*Scenario) (map[string]*Result, error) {
	results := make(map[string]*Result, len(scenarios))
	for _, s := range scenarios {
		r, err := Run(s)
		if err != nil {
			return nil, err
		}
		results[s.Name] = r
	}
	return results, nil
}

func loadVocabulary(path string) (*vocab.Vocabulary, error) {
	if path == "" {
		return vocab.Default(), nil
	}
	v, errs := vocab.LoadFile(path)
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return nil, fmt.Errorf("failed to load vocabulary %s: %s", path, strings.Join(msgs, "; "))
	}
	return v, nil
}
