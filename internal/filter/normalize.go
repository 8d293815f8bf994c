package filter

import (
	"strconv"
	"strings"

	"github.com/roach88/doublesearch/internal/vocab"
)

// Normalizer cleans a canonical filter set and backstops a missing age
// filter from the raw query text.
type Normalizer struct {
	vocab *vocab.Vocabulary
}

// NewNormalizer returns a Normalizer backed by v.
func NewNormalizer(v *vocab.Vocabulary) *Normalizer {
	return &Normalizer{vocab: v}
}

// Normalize runs Clean and then BackstopAge, so an age filter that arrived
// as null is recovered from text like any other missing one.
func (n *Normalizer) Normalize(text string, f Filters) (Filters, []Diagnostic) {
	cleaned, diags := n.Clean(f)
	out, more := n.BackstopAge(text, cleaned)
	return out, append(diags, more...)
}

// Clean drops blank field names and conditions that are empty, "none" or
// "null" (case-insensitive). The input is not modified.
func (n *Normalizer) Clean(f Filters) (Filters, []Diagnostic) {
	out := make(Filters, len(f))
	var diags []Diagnostic
	for _, field := range f.Fields() {
		if strings.TrimSpace(field) == "" {
			continue
		}
		cond := f[field]
		if isEmptyCondition(cond) {
			diags = append(diags, diag(CodeEmptyCondition, field, "condition %q dropped", cond))
			continue
		}
		out[field] = cond
	}
	return out, diags
}

func isEmptyCondition(cond string) bool {
	switch strings.ToLower(strings.TrimSpace(cond)) {
	case "", "none", "null":
		return true
	}
	return false
}

// BackstopAge adds an age filter when f has none and text carries an age
// expression such as "older than 30" or "unter 40". Patterns are tried in
// vocabulary order and the first one that matches wins. An age filter that
// is already present is never replaced. The input is not modified.
func (n *Normalizer) BackstopAge(text string, f Filters) (Filters, []Diagnostic) {
	ageField := n.vocab.AgeField()
	if _, ok := f[ageField]; ok {
		return f, nil
	}

	for _, p := range n.vocab.AgePatterns() {
		m := p.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		age, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out := f.Clone()
		if out == nil {
			out = make(Filters, 1)
		}
		cond := string(p.Op) + strconv.Itoa(age)
		out[ageField] = cond
		return out, []Diagnostic{diag(CodeAgeInjected, ageField, "%q recovered from %q", cond, strings.TrimSpace(m[0]))}
	}
	return f, nil
}
