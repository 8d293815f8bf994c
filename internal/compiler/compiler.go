// Package compiler turns a parsed search request into a parameterized Cypher
// query over the profile graph.
package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/doublesearch/internal/filter"
	"github.com/roach88/doublesearch/internal/querycypher"
	"github.com/roach88/doublesearch/internal/queryir"
	"github.com/roach88/doublesearch/internal/vocab"
)

// CountColumn is the result column of a count query.
const CountColumn = "total_matches"

// ParsedQuery is the output of the extraction step for one user query.
type ParsedQuery struct {
	Text     string            `json:"text,omitempty" yaml:"text,omitempty"`
	Filters  map[string]string `json:"filters,omitempty" yaml:"filters,omitempty"`
	Keywords []string          `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Language vocab.Language    `json:"language,omitempty" yaml:"language,omitempty"`
}

// CompiledQuery is a ready-to-run Cypher query. Text always ends in a
// distinct projection of the person alias.
type CompiledQuery struct {
	Text        string              `json:"cypher"`
	Params      map[string]any      `json:"params"`
	Language    vocab.Language      `json:"language"`
	Keywords    KeywordDecision     `json:"keywords"`
	Diagnostics []filter.Diagnostic `json:"diagnostics,omitempty"`

	query  queryir.Query
	cypher *querycypher.Compiler
}

// IR returns the query the text was rendered from.
func (cq *CompiledQuery) IR() queryir.Query {
	return cq.query
}

// Count renders the same query returning the number of distinct persons in
// a column named CountColumn.
func (cq *CompiledQuery) Count() (string, map[string]any, error) {
	q := cq.query
	q.Return = queryir.Return{Alias: q.Return.Alias, Distinct: true, Count: true, As: CountColumn}
	q.Limit = 0
	return cq.cypher.Compile(q)
}

// Limit renders the same query returning at most n persons.
func (cq *CompiledQuery) Limit(n int) (string, map[string]any, error) {
	if n < 0 {
		return "", nil, fmt.Errorf("negative limit %d", n)
	}
	q := cq.query
	q.Limit = n
	return cq.cypher.Compile(q)
}

// Compiler runs the filter pipeline and builds the query. It holds no
// mutable state and is safe for concurrent use.
type Compiler struct {
	vocab      *vocab.Vocabulary
	resolver   *filter.Resolver
	normalizer *filter.Normalizer
	classifier *filter.Classifier
	keywords   *KeywordPolicy
	cypher     *querycypher.Compiler
}

// New creates a Compiler backed by v.
func New(v *vocab.Vocabulary) *Compiler {
	return &Compiler{
		vocab:      v,
		resolver:   filter.NewResolver(v),
		normalizer: filter.NewNormalizer(v),
		classifier: filter.NewClassifier(v),
		keywords:   NewKeywordPolicy(v),
		cypher:     querycypher.NewCompiler(),
	}
}

// Compile resolves, normalizes and classifies pq.Filters and builds the
// query. Malformed input never fails; it is reported in Diagnostics and
// the affected predicate is omitted. An error means the built query was
// internally inconsistent.
func (c *Compiler) Compile(pq ParsedQuery) (*CompiledQuery, error) {
	resolved, diags := c.resolver.ResolveFilters(pq.Filters)
	normalized, more := c.normalizer.Normalize(pq.Text, resolved)
	diags = append(diags, more...)

	cls := c.classifier.Classify(normalized)
	cls.Diagnostics = append(diags, cls.Diagnostics...)

	return c.Build(cls, pq.Keywords, pq.Language)
}

// Build assembles the query from already classified filters:
//  1. one ownership MATCH per product category, or a bare person MATCH
//  2. per category: value IS NOT NULL, >= min, <= max
//  3. per entity filter: boolean literal or parsed comparison
//  4. the keyword OR group, when KeywordPolicy includes it
//
// Predicates are AND-joined; the WHERE clause is omitted when there are none.
func (c *Compiler) Build(cls filter.Classification, keywords []string, lang vocab.Language) (*CompiledQuery, error) {
	lang = vocab.ParseLanguage(string(lang))
	diags := append([]filter.Diagnostic(nil), cls.Diagnostics...)

	alias := c.vocab.PersonAlias()
	person := queryir.Node{Alias: alias, Label: c.vocab.PersonLabel()}

	var matches []queryir.Pattern
	var preds []queryir.Predicate

	if cls.HasProducts() {
		for _, pf := range cls.Products {
			pa := pf.Category.Alias()
			matches = append(matches, queryir.Path{
				From: person,
				Rel:  c.vocab.OwnsRelation(),
				To:   queryir.Node{Alias: pa, Label: string(pf.Category)},
			})
			preds = append(preds, queryir.NotNull{Alias: pa, Field: pf.Field})
			if pf.Min != nil {
				preds = append(preds, queryir.Compare{Alias: pa, Field: pf.Field, Op: queryir.OpGte, Value: numeric(*pf.Min)})
			}
			if pf.Max != nil {
				preds = append(preds, queryir.Compare{Alias: pa, Field: pf.Field, Op: queryir.OpLte, Value: numeric(*pf.Max)})
			}
		}
	} else {
		matches = append(matches, person)
	}

	for _, ef := range cls.Entities {
		pred, ok := c.entityPredicate(alias, ef)
		if !ok {
			diags = append(diags, filter.Diagnostic{
				Code:    filter.CodeUnparsedCondition,
				Field:   ef.Field,
				Message: fmt.Sprintf("condition %q has no operator and number, predicate omitted", ef.Raw),
			})
			continue
		}
		preds = append(preds, pred)
	}

	decision := c.keywords.Decide(keywords, cls.HasEntities(), cls.HasProducts())
	if kw := c.keywords.Predicate(decision, lang); kw != nil {
		preds = append(preds, kw)
	}

	q := queryir.Query{
		Matches: matches,
		Return:  queryir.Return{Alias: alias, Distinct: true},
	}
	if len(preds) > 0 {
		q.Where = queryir.And{Predicates: preds}
	}

	if result := queryir.Validate(q); !result.IsValid {
		return nil, fmt.Errorf("invalid query: %s", strings.Join(result.Warnings, "; "))
	}
	text, params, err := c.cypher.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("render query: %w", err)
	}

	return &CompiledQuery{
		Text:        text,
		Params:      params,
		Language:    lang,
		Keywords:    decision,
		Diagnostics: diags,
		query:       q,
		cypher:      c.cypher,
	}, nil
}

// entityPredicate translates one entity filter. "true" and "false" compare
// for equality, as the mapped integer when the field is stored as 0/1.
// Anything else must be exactly one operator and a number.
func (c *Compiler) entityPredicate(alias string, ef filter.EntityFilter) (queryir.Predicate, bool) {
	switch cond := strings.ToLower(strings.TrimSpace(ef.Raw)); cond {
	case "true", "false":
		b := cond == "true"
		var value queryir.Value = queryir.Bool(b)
		if m, ok := c.vocab.BoolInt(ef.Field); ok {
			value = queryir.Int(m.Value(b))
		}
		return queryir.Compare{Alias: alias, Field: ef.Field, Op: queryir.OpEq, Value: value}, true
	}

	cond, ok := filter.ParseExactCondition(ef.Raw)
	if !ok {
		return nil, false
	}
	return queryir.Compare{
		Alias: alias,
		Field: ef.Field,
		Op:    queryir.Op(cond.Op),
		Value: numeric(filter.Bound{Value: cond.Value, Integral: cond.Integral}),
	}, true
}

func numeric(b filter.Bound) queryir.Value {
	if b.Integral {
		return queryir.Int(int64(b.Value))
	}
	return queryir.Float(b.Value)
}
