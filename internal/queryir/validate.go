package queryir

import (
	"fmt"
)

// ValidationResult contains the structural analysis of a query.
type ValidationResult struct {
	// IsValid is true when the query can be rendered as written.
	IsValid bool

	// Warnings lists every structural problem found.
	// Empty when IsValid is true.
	Warnings []string
}

// Validate checks a query for structural problems:
//  1. At least one MATCH clause
//  2. Every alias used in WHERE or RETURN is bound by a MATCH
//  3. An alias is not bound to two different labels
//  4. No empty And/Or, no nil predicates or values
//  5. Comparison operators are known
//  6. Limit is not negative
//
// Validate is a pure function with no side effects.
func Validate(q Query) ValidationResult {
	v := &validator{
		warnings: []string{},
		labels:   make(map[string]string),
	}
	v.validateQuery(q)

	return ValidationResult{
		IsValid:  len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
	labels   map[string]string // alias → label
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	if len(q.Matches) == 0 {
		v.addWarning("query has no MATCH clause")
	}
	for _, p := range q.Matches {
		v.validatePattern(p)
	}

	if q.Where != nil {
		v.validatePredicate(q.Where)
	}

	if q.Return.Alias == "" {
		v.addWarning("RETURN has no alias")
	} else {
		v.checkBound(q.Return.Alias, "RETURN")
	}

	if q.Limit < 0 {
		v.addWarning("negative LIMIT %d", q.Limit)
	}
}

func (v *validator) validatePattern(p Pattern) {
	switch pat := p.(type) {
	case Node:
		v.bind(pat)
	case Path:
		v.bind(pat.From)
		v.bind(pat.To)
		if pat.Rel == "" {
			v.addWarning("path from %q to %q has no relationship type", pat.From.Alias, pat.To.Alias)
		}
	case nil:
		v.addWarning("nil MATCH pattern")
	default:
		v.addWarning("unknown pattern type: %T", p)
	}
}

func (v *validator) bind(n Node) {
	if n.Alias == "" || n.Label == "" {
		v.addWarning("node pattern needs alias and label, got (%s:%s)", n.Alias, n.Label)
		return
	}
	if prev, ok := v.labels[n.Alias]; ok && prev != n.Label {
		v.addWarning("alias %q bound to both %s and %s", n.Alias, prev, n.Label)
		return
	}
	v.labels[n.Alias] = n.Label
}

func (v *validator) checkBound(alias, where string) {
	if _, ok := v.labels[alias]; !ok {
		v.addWarning("%s references unbound alias %q", where, alias)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case Compare:
		v.checkBound(pred.Alias, "WHERE")
		if !pred.Op.Valid() {
			v.addWarning("unknown operator %q on %s.%s", pred.Op, pred.Alias, pred.Field)
		}
		if pred.Value == nil {
			v.addWarning("nil value compared to %s.%s", pred.Alias, pred.Field)
		}
	case NotNull:
		v.checkBound(pred.Alias, "WHERE")
	case ContainsFold:
		v.checkBound(pred.Alias, "WHERE")
	case And:
		if len(pred.Predicates) == 0 {
			v.addWarning("empty AND")
		}
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	case Or:
		if len(pred.Predicates) == 0 {
			v.addWarning("empty OR")
		}
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	case nil:
		v.addWarning("nil predicate")
	default:
		v.addWarning("unknown predicate type: %T", p)
	}
}
