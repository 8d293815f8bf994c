package store

import (
	"context"
	"fmt"
	"time"
)

// WriteSearch appends a search to the history.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
// Other constraint violations (e.g., the language CHECK) still return errors.
//
// CreatedAt is stored as RFC 3339 in UTC with nanosecond precision.
func (s *Store) WriteSearch(ctx context.Context, rec Search) error {
	paramsJSON, err := marshalParams(rec.Params)
	if err != nil {
		return fmt.Errorf("write search: %w", err)
	}

	diagsJSON, err := marshalDiagnostics(rec.Diagnostics)
	if err != nil {
		return fmt.Errorf("write search: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO searches
		(id, created_at, query_text, language, cypher, params, total, semantic_hits, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		rec.Query,
		rec.Language,
		rec.Cypher,
		paramsJSON,
		rec.Total,
		rec.SemanticHits,
		diagsJSON,
	)
	if err != nil {
		return fmt.Errorf("write search: %w", err)
	}

	return nil
}
