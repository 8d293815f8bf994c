package store

import (
	"path/filepath"
	"testing"
	"time"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSearch creates a search record with minimal required fields.
func createTestSearch(id, query string) Search {
	return Search{
		ID:        id,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Query:     query,
		Language:  "en",
		Cypher:    "MATCH (d:Double)\nRETURN DISTINCT d",
		Params:    map[string]any{},
	}
}
