package compiler

import (
	"strings"

	"github.com/roach88/doublesearch/internal/queryir"
	"github.com/roach88/doublesearch/internal/vocab"
)

// KeywordReason explains a KeywordDecision.
type KeywordReason string

const (
	KeywordsIncluded    KeywordReason = "included"
	KeywordsNone        KeywordReason = "no keywords"
	KeywordsStructural  KeywordReason = "only structural terms"
	KeywordsProductOnly KeywordReason = "product-only query"
)

// KeywordDecision is the outcome of KeywordPolicy.Decide.
type KeywordDecision struct {
	Include  bool          `json:"include"`
	Keywords []string      `json:"keywords,omitempty"` // surviving keywords, input order
	Reason   KeywordReason `json:"reason"`
}

// KeywordPolicy decides whether free-text keywords become a tag predicate.
type KeywordPolicy struct {
	vocab *vocab.Vocabulary
}

// NewKeywordPolicy returns a KeywordPolicy backed by v.
func NewKeywordPolicy(v *vocab.Vocabulary) *KeywordPolicy {
	return &KeywordPolicy{vocab: v}
}

// Filter drops blank keywords and structural terms. Order and duplicates
// are kept.
func (p *KeywordPolicy) Filter(keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		if strings.TrimSpace(kw) == "" || p.vocab.IsStructural(kw) {
			continue
		}
		out = append(out, kw)
	}
	return out
}

// Decide applies the keyword rules. A query with product filters and no
// entity filters never gets a keyword predicate: pairing strict ownership
// with interest matching over-constrains the result.
func (p *KeywordPolicy) Decide(keywords []string, hasEntities, hasProducts bool) KeywordDecision {
	if len(keywords) == 0 {
		return KeywordDecision{Reason: KeywordsNone}
	}
	if hasProducts && !hasEntities {
		return KeywordDecision{Reason: KeywordsProductOnly}
	}
	kept := p.Filter(keywords)
	if len(kept) == 0 {
		return KeywordDecision{Reason: KeywordsStructural}
	}
	return KeywordDecision{Include: true, Keywords: kept, Reason: KeywordsIncluded}
}

// Predicate builds the OR group of case-insensitive containment tests on the
// tag field for lang. Returns nil when the decision excludes keywords.
func (p *KeywordPolicy) Predicate(d KeywordDecision, lang vocab.Language) queryir.Predicate {
	if !d.Include || len(d.Keywords) == 0 {
		return nil
	}
	alias := p.vocab.PersonAlias()
	field := p.vocab.TagField(lang)

	preds := make([]queryir.Predicate, len(d.Keywords))
	for i, kw := range d.Keywords {
		preds[i] = queryir.ContainsFold{Alias: alias, Field: field, Value: queryir.String(kw)}
	}
	return queryir.Or{Predicates: preds}
}
