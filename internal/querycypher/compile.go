// Package querycypher renders queryir queries as parameterized Cypher.
package querycypher

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/doublesearch/internal/queryir"
)

// Compiler renders queryir.Query values as Cypher text plus a parameter map.
//
// CRITICAL: Values are NEVER interpolated into the text. Every literal becomes
// a $pN placeholder with its value in the returned map, numbered in emission
// order. Identifiers that are not plain names are backtick-quoted.
type Compiler struct{}

// NewCompiler creates a new Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile converts a query to Cypher. Clauses are separated by newlines:
//
//	MATCH (d:Double)-[:OWNS]->(p_property:Property)
//	WHERE p_property.p_prop_total_value IS NOT NULL AND p_property.p_prop_total_value >= $p0
//	RETURN DISTINCT d
func (c *Compiler) Compile(q queryir.Query) (string, map[string]any, error) {
	if len(q.Matches) == 0 {
		return "", nil, fmt.Errorf("cannot compile query without MATCH")
	}

	r := &renderer{params: make(map[string]any)}
	var lines []string

	for _, p := range q.Matches {
		pat, err := r.pattern(p)
		if err != nil {
			return "", nil, fmt.Errorf("compile match: %w", err)
		}
		lines = append(lines, "MATCH "+pat)
	}

	if q.Where != nil {
		where, err := r.where(q.Where)
		if err != nil {
			return "", nil, fmt.Errorf("compile where: %w", err)
		}
		if where != "" {
			lines = append(lines, "WHERE "+where)
		}
	}

	ret, err := r.ret(q.Return)
	if err != nil {
		return "", nil, fmt.Errorf("compile return: %w", err)
	}
	lines = append(lines, "RETURN "+ret)

	if q.Limit < 0 {
		return "", nil, fmt.Errorf("negative limit %d", q.Limit)
	}
	if q.Limit > 0 {
		lines = append(lines, "LIMIT "+strconv.Itoa(q.Limit))
	}

	return strings.Join(lines, "\n"), r.params, nil
}

// renderer holds the parameters collected while rendering one query.
type renderer struct {
	params map[string]any
}

// bind stores v under the next parameter name and returns its placeholder.
func (r *renderer) bind(v queryir.Value) (string, error) {
	if v == nil {
		return "", fmt.Errorf("nil value")
	}
	name := "p" + strconv.Itoa(len(r.params))
	r.params[name] = queryir.Native(v)
	return "$" + name, nil
}

func (r *renderer) pattern(p queryir.Pattern) (string, error) {
	switch pat := p.(type) {
	case queryir.Node:
		return node(pat), nil
	case queryir.Path:
		return fmt.Sprintf("%s-[:%s]->%s", node(pat.From), Quote(pat.Rel), node(pat.To)), nil
	default:
		return "", fmt.Errorf("unsupported pattern type: %T", p)
	}
}

func node(n queryir.Node) string {
	return "(" + Quote(n.Alias) + ":" + Quote(n.Label) + ")"
}

func property(alias, field string) string {
	return Quote(alias) + "." + Quote(field)
}

// where renders the top-level predicate. A top-level And is written without
// parentheses; nested And and Or groups are parenthesized.
func (r *renderer) where(p queryir.Predicate) (string, error) {
	if and, ok := p.(queryir.And); ok {
		return r.join(and.Predicates, " AND ", false)
	}
	return r.predicate(p)
}

func (r *renderer) predicate(p queryir.Predicate) (string, error) {
	switch pred := p.(type) {
	case queryir.Compare:
		if !pred.Op.Valid() {
			return "", fmt.Errorf("unsupported operator %q", pred.Op)
		}
		ph, err := r.bind(pred.Value)
		if err != nil {
			return "", fmt.Errorf("compare %s.%s: %w", pred.Alias, pred.Field, err)
		}
		return fmt.Sprintf("%s %s %s", property(pred.Alias, pred.Field), pred.Op, ph), nil
	case queryir.NotNull:
		return property(pred.Alias, pred.Field) + " IS NOT NULL", nil
	case queryir.ContainsFold:
		ph, err := r.bind(pred.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("toLower(%s) CONTAINS toLower(%s)", property(pred.Alias, pred.Field), ph), nil
	case queryir.And:
		return r.join(pred.Predicates, " AND ", true)
	case queryir.Or:
		return r.join(pred.Predicates, " OR ", true)
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (r *renderer) join(preds []queryir.Predicate, sep string, paren bool) (string, error) {
	if len(preds) == 0 {
		return "", fmt.Errorf("empty%s group", strings.TrimRight(sep, " "))
	}
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		s, err := r.predicate(p)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	out := strings.Join(parts, sep)
	if paren {
		out = "(" + out + ")"
	}
	return out, nil
}

func (r *renderer) ret(ret queryir.Return) (string, error) {
	if ret.Alias == "" {
		return "", fmt.Errorf("missing alias")
	}
	expr := Quote(ret.Alias)
	if ret.Distinct {
		expr = "DISTINCT " + expr
	}
	if ret.Count {
		expr = "count(" + expr + ")"
	}
	if ret.As != "" {
		expr += " AS " + Quote(ret.As)
	}
	return expr, nil
}

var plainIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Quote returns name as a Cypher identifier: unchanged when it is a plain
// name, otherwise wrapped in backticks with embedded backticks doubled.
func Quote(name string) string {
	if plainIdent.MatchString(name) {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
