package harness

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/doublesearch/internal/compiler"
)

// AssertionError is returned when an assertion fails.
// It includes the compiled query to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Cypher   string // Compiled text for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nCompiled query:\n")
	for _, line := range strings.Split(e.Cypher, "\n") {
		fmt.Fprintf(&buf, "  %s\n", line)
	}

	return buf.String()
}

// EvaluateAssertions runs all assertions against cq and returns the
// failure messages. Evaluation does not stop at the first failure.
func EvaluateAssertions(cq *compiler.CompiledQuery, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(cq, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(cq *compiler.CompiledQuery, a Assertion) error {
	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Expected: expected, Actual: actual, Cypher: cq.Text}
	}

	switch a.Type {
	case AssertContains:
		if !strings.Contains(cq.Text, a.Text) {
			return fail(fmt.Sprintf("text containing %q", a.Text), "not found")
		}
	case AssertNotContains:
		if strings.Contains(cq.Text, a.Text) {
			return fail(fmt.Sprintf("text without %q", a.Text), "found")
		}
	case AssertMatchCount:
		if got := countMatches(cq.Text); got != a.Count {
			return fail(fmt.Sprintf("%d MATCH clauses", a.Count), fmt.Sprintf("%d", got))
		}
	case AssertParamCount:
		if got := len(cq.Params); got != a.Count {
			return fail(fmt.Sprintf("%d parameters", a.Count), fmt.Sprintf("%d: %v", got, paramNames(cq.Params)))
		}
	case AssertParam:
		got, ok := cq.Params[a.Name]
		if !ok {
			return fail(fmt.Sprintf("$%s = %v", a.Name, a.Value), fmt.Sprintf("unbound (have %v)", paramNames(cq.Params)))
		}
		if !valuesEqual(got, a.Value) {
			return fail(fmt.Sprintf("$%s = %v", a.Name, a.Value), fmt.Sprintf("%T %v", got, got))
		}
	case AssertKeywords:
		d := cq.Keywords
		if a.Include != nil && d.Include != *a.Include {
			return fail(fmt.Sprintf("include=%t", *a.Include), fmt.Sprintf("include=%t (%s)", d.Include, d.Reason))
		}
		if a.Reason != "" && string(d.Reason) != a.Reason {
			return fail(fmt.Sprintf("reason %q", a.Reason), fmt.Sprintf("reason %q", d.Reason))
		}
	case AssertDiagnostic:
		for _, d := range cq.Diagnostics {
			if string(d.Code) == a.Code && (a.Field == "" || d.Field == a.Field) {
				return nil
			}
		}
		want := a.Code
		if a.Field != "" {
			want += " on " + a.Field
		}
		return fail("diagnostic "+want, fmt.Sprintf("%v", cq.Diagnostics))
	case AssertNoDiagnostics:
		if len(cq.Diagnostics) > 0 {
			return fail("no diagnostics", fmt.Sprintf("%v", cq.Diagnostics))
		}
	case AssertNoLiterals:
		for _, name := range paramNames(cq.Params) {
			if s, ok := cq.Params[name].(string); ok && s != "" && strings.Contains(cq.Text, s) {
				return fail("no parameter values in text", fmt.Sprintf("$%s value %q appears in text", name, s))
			}
		}
	default:
		return fail("known assertion type", a.Type)
	}
	return nil
}

func countMatches(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "MATCH ") {
			n++
		}
	}
	return n
}

func paramNames(params map[string]any) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// valuesEqual compares a bound parameter with a YAML value. YAML decodes
// numbers as int or float64, so numbers compare by value.
func valuesEqual(got, want any) bool {
	g, gok := toFloat(got)
	w, wok := toFloat(want)
	if gok && wok {
		return g == w
	}
	return reflect.DeepEqual(got, want)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
