package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no search exists for the requested id.
var ErrNotFound = errors.New("search not found")

const searchColumns = `id, created_at, query_text, language, cypher, params, total, semantic_hits, diagnostics`

// ReadSearch returns the search with the given id.
// Returns ErrNotFound if it does not exist.
func (s *Store) ReadSearch(ctx context.Context, id string) (Search, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+searchColumns+`
		FROM searches
		WHERE id = ?
	`, id)

	rec, err := scanSearch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Search{}, fmt.Errorf("read search %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Search{}, fmt.Errorf("read search %s: %w", id, err)
	}
	return rec, nil
}

// ListSearches returns up to limit searches, newest first.
// Ordering is by seq, not by created_at. A limit <= 0 returns every row.
//
// Returns an empty slice (not nil) if the history is empty.
func (s *Store) ListSearches(ctx context.Context, limit int) ([]Search, error) {
	if limit <= 0 {
		limit = -1 // SQLite: negative LIMIT means no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+searchColumns+`
		FROM searches
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query searches: %w", err)
	}
	defer rows.Close()

	searches := []Search{}
	for rows.Next() {
		rec, err := scanSearch(rows)
		if err != nil {
			return nil, err
		}
		searches = append(searches, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate searches: %w", err)
	}

	return searches, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSearch(sc scanner) (Search, error) {
	var (
		rec        Search
		createdAt  string
		paramsJSON string
		diagsJSON  string
	)
	err := sc.Scan(
		&rec.ID,
		&createdAt,
		&rec.Query,
		&rec.Language,
		&rec.Cypher,
		&paramsJSON,
		&rec.Total,
		&rec.SemanticHits,
		&diagsJSON,
	)
	if err != nil {
		return Search{}, err
	}

	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Search{}, fmt.Errorf("parse created_at: %w", err)
	}

	rec.Params, err = unmarshalParams(paramsJSON)
	if err != nil {
		return Search{}, err
	}

	rec.Diagnostics, err = unmarshalDiagnostics(diagsJSON)
	if err != nil {
		return Search{}, err
	}

	return rec, nil
}
