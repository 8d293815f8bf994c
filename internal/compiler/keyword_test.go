package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/doublesearch/internal/queryir"
	"github.com/roach88/doublesearch/internal/vocab"
)

func TestKeywordPolicy_Decide(t *testing.T) {
	p := NewKeywordPolicy(vocab.Default())

	testCases := []struct {
		name        string
		keywords    []string
		hasEntities bool
		hasProducts bool
		want        KeywordDecision
	}{
		{
			name: "no keywords",
			want: KeywordDecision{Reason: KeywordsNone},
		},
		{
			name:     "no filters at all",
			keywords: []string{"books"},
			want:     KeywordDecision{Include: true, Keywords: []string{"books"}, Reason: KeywordsIncluded},
		},
		{
			name:        "entity only",
			keywords:    []string{"books", "income"},
			hasEntities: true,
			want:        KeywordDecision{Include: true, Keywords: []string{"books"}, Reason: KeywordsIncluded},
		},
		{
			name:        "product only",
			keywords:    []string{"sports"},
			hasProducts: true,
			want:        KeywordDecision{Reason: KeywordsProductOnly},
		},
		{
			name:        "product and entity",
			keywords:    []string{"sports"},
			hasEntities: true,
			hasProducts: true,
			want:        KeywordDecision{Include: true, Keywords: []string{"sports"}, Reason: KeywordsIncluded},
		},
		{
			name:        "structural only",
			keywords:    []string{"Property", "MONEY", " "},
			hasEntities: true,
			want:        KeywordDecision{Reason: KeywordsStructural},
		},
		{
			name:     "german structural terms",
			keywords: []string{"Versicherung", "Wandern"},
			want:     KeywordDecision{Include: true, Keywords: []string{"Wandern"}, Reason: KeywordsIncluded},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.Decide(tc.keywords, tc.hasEntities, tc.hasProducts))
		})
	}
}

func TestKeywordPolicy_Predicate(t *testing.T) {
	p := NewKeywordPolicy(vocab.Default())

	assert.Nil(t, p.Predicate(KeywordDecision{Reason: KeywordsProductOnly}, vocab.English))

	pred := p.Predicate(KeywordDecision{Include: true, Keywords: []string{"books", "chess"}}, vocab.German)
	or, ok := pred.(queryir.Or)
	require.True(t, ok)
	assert.Equal(t, []queryir.Predicate{
		queryir.ContainsFold{Alias: "d", Field: "tags_de", Value: "books"},
		queryir.ContainsFold{Alias: "d", Field: "tags_de", Value: "chess"},
	}, or.Predicates)
}
