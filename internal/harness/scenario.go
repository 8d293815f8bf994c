package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/doublesearch/internal/compiler"
)

// Scenario defines a conformance test scenario: one parsed query and the
// properties its compiled form must have.
type Scenario struct {
	// Name uniquely identifies this scenario. Also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Vocabulary is an optional CUE vocabulary document.
	// Relative paths resolve against the scenario file location.
	Vocabulary string `yaml:"vocabulary,omitempty"`

	// Input is the parsed query to compile.
	Input compiler.ParsedQuery `yaml:"input"`

	// Assertions validate the compiled query.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of the compiled query.
type Assertion struct {
	// Type selects the check, see the Assert* constants.
	Type string `yaml:"type"`

	// Text is the substring for contains / not_contains.
	Text string `yaml:"text,omitempty"`

	// Name and Value are the parameter for param.
	Name  string `yaml:"name,omitempty"`
	Value any    `yaml:"value,omitempty"`

	// Count is the expected number for match_count / param_count.
	Count int `yaml:"count,omitempty"`

	// Include and Reason are the expected keyword decision.
	Include *bool  `yaml:"include,omitempty"`
	Reason  string `yaml:"reason,omitempty"`

	// Code and Field select the expected diagnostic.
	Code  string `yaml:"code,omitempty"`
	Field string `yaml:"field,omitempty"`
}

// Assertion type constants.
const (
	AssertContains      = "contains"
	AssertNotContains   = "not_contains"
	AssertMatchCount    = "match_count"
	AssertParam         = "param"
	AssertParamCount    = "param_count"
	AssertKeywords      = "keywords"
	AssertDiagnostic    = "diagnostic"
	AssertNoDiagnostics = "no_diagnostics"
	AssertNoLiterals    = "no_literals"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Vocabulary != "" && !filepath.IsAbs(scenario.Vocabulary) {
		scenario.Vocabulary = filepath.Join(filepath.Dir(path), scenario.Vocabulary)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string)
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%s: duplicate scenario name %q (also in %s)", path, s.Name, prev)
		}
		seen[s.Name] = path
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Vocabulary != "" {
		if _, err := os.Stat(s.Vocabulary); os.IsNotExist(err) {
			return fmt.Errorf("vocabulary file not found: %s", s.Vocabulary)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertContains, AssertNotContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for %s", index, a.Type)
		}
	case AssertMatchCount, AssertParamCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertParam:
		if a.Name == "" {
			return fmt.Errorf("assertions[%d]: name is required for param", index)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for param", index)
		}
	case AssertKeywords:
		if a.Include == nil && a.Reason == "" {
			return fmt.Errorf("assertions[%d]: include or reason is required for keywords", index)
		}
	case AssertDiagnostic:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for diagnostic", index)
		}
	case AssertNoDiagnostics, AssertNoLiterals:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
