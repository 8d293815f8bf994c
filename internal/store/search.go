package store

import (
	"time"

	"github.com/roach88/doublesearch/internal/filter"
)

// Search is one row of the search history.
type Search struct {
	ID           string              `json:"id"`
	CreatedAt    time.Time           `json:"created_at"`
	Query        string              `json:"query"`
	Language     string              `json:"language"`
	Cypher       string              `json:"cypher"`
	Params       map[string]any      `json:"params"`
	Total        int64               `json:"total"`
	SemanticHits int                 `json:"semantic_hits"`
	Diagnostics  []filter.Diagnostic `json:"diagnostics"`
}
