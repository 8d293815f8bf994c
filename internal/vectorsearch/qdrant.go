package vectorsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/roach88/doublesearch/internal/vocab"
)

// Default collection names of the profile description embeddings.
const (
	DefaultCollectionEN = "doubles_semantic"
	DefaultCollectionDE = "doubles_semantic_de"
)

// Hit is one semantic match.
type Hit struct {
	ID      any            `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload,omitempty"`
}

// QdrantConfig holds the Qdrant connection settings.
type QdrantConfig struct {
	URL          string
	APIKey       string
	CollectionEN string
	CollectionDE string
	Timeout      time.Duration
}

// Qdrant is a minimal REST client for searching the profile collections.
type Qdrant struct {
	url         string
	apiKey      string
	collections map[vocab.Language]string
	client      *http.Client
}

// NewQdrant creates a Qdrant client, filling in defaults.
func NewQdrant(cfg QdrantConfig) *Qdrant {
	if cfg.CollectionEN == "" {
		cfg.CollectionEN = DefaultCollectionEN
	}
	if cfg.CollectionDE == "" {
		cfg.CollectionDE = DefaultCollectionDE
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Qdrant{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		collections: map[vocab.Language]string{
			vocab.English: cfg.CollectionEN,
			vocab.German:  cfg.CollectionDE,
		},
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Collection returns the collection searched for lang.
func (q *Qdrant) Collection(lang vocab.Language) string {
	if c, ok := q.collections[lang]; ok {
		return c
	}
	return q.collections[vocab.English]
}

// Search returns the limit nearest points to vector in the collection for
// lang, payloads included.
func (q *Qdrant) Search(ctx context.Context, lang vocab.Language, vector []float64, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 5
	}
	body, err := json.Marshal(map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", q.url, q.Collection(lang))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}

	var out struct {
		Result []Hit `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode qdrant response: %w", err)
	}
	return out.Result, nil
}

// Searcher embeds text and searches the matching collection.
type Searcher struct {
	embedder Embedder
	qdrant   *Qdrant
}

// NewSearcher combines an embedder and a Qdrant client.
func NewSearcher(e Embedder, q *Qdrant) *Searcher {
	return &Searcher{embedder: e, qdrant: q}
}

// Search embeds text and returns the nearest profiles for lang.
func (s *Searcher) Search(ctx context.Context, text string, lang vocab.Language, limit int) ([]Hit, error) {
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return s.qdrant.Search(ctx, lang, vector, limit)
}
