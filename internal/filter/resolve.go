package filter

import (
	"slices"
	"strings"

	"github.com/roach88/doublesearch/internal/vocab"
)

// Resolver maps natural-language phrases to canonical field names.
type Resolver struct {
	vocab *vocab.Vocabulary
}

// NewResolver returns a Resolver backed by v.
func NewResolver(v *vocab.Vocabulary) *Resolver {
	return &Resolver{vocab: v}
}

// Resolve returns the canonical field for phrase. Lookup is case-insensitive;
// phrases missing from the synonym table, canonical names included, are
// returned unchanged.
func (r *Resolver) Resolve(phrase string) string {
	if field, ok := r.vocab.Synonym(phrase); ok {
		return field
	}
	return phrase
}

// ResolveFilters resolves every key of raw. Keys that are blank are skipped.
//
// When several raw keys resolve to the same field only one survives: a key
// that was already canonical wins, otherwise the lexically first key. Each
// losing key is reported with CodeSynonymCollision.
func (r *Resolver) ResolveFilters(raw map[string]string) (Filters, []Diagnostic) {
	out := make(Filters, len(raw))
	source := make(map[string]string, len(raw))
	var diags []Diagnostic

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			continue
		}
		field := r.Resolve(key)
		prev, taken := source[field]
		if !taken {
			out[field] = raw[key]
			source[field] = key
			continue
		}
		winner, loser := prev, key
		if key == field && prev != field {
			winner, loser = key, prev
			out[field] = raw[key]
			source[field] = key
		}
		diags = append(diags, diag(CodeSynonymCollision, field,
			"%q and %q both resolve here; kept %q", winner, loser, winner))
	}
	return out, diags
}
