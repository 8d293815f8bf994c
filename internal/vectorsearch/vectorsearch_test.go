package vectorsearch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/doublesearch/internal/vocab"
)

func TestOpenAIEmbedder_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "likes hiking", body["input"])
		assert.Equal(t, "test-model", body["model"])

		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder(OpenAIConfig{BaseURL: srv.URL, APIKey: "secret", Model: "test-model"})
	v, err := e.Embed(context.Background(), "likes hiking")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, v)
}

func TestOpenAIEmbedder_OllamaShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":[1,2]}`))
	}))
	defer srv.Close()

	v, err := NewOpenAIEmbedder(OpenAIConfig{BaseURL: srv.URL}).Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, v)
}

func TestOpenAIEmbedder_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.5]}]}`))
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder(OpenAIConfig{BaseURL: srv.URL, MaxRetries: 2})
	v, err := e.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAIEmbedder_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		payload string
	}{
		{"client error", http.StatusBadRequest, `{}`},
		{"server error without retries", http.StatusInternalServerError, `{}`},
		{"empty embedding", http.StatusOK, `{"data":[]}`},
		{"bad json", http.StatusOK, `not json`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.payload))
			}))
			defer srv.Close()

			_, err := NewOpenAIEmbedder(OpenAIConfig{BaseURL: srv.URL}).Embed(context.Background(), "x")
			assert.Error(t, err)
		})
	}
}

func TestQdrant_SearchUsesLanguageCollection(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("api-key"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(3), body["limit"])
		assert.Equal(t, true, body["with_payload"])

		_, _ = w.Write([]byte(`{"result":[{"id":7,"score":0.91,"payload":{"tags_en":"hiking"}}]}`))
	}))
	defer srv.Close()

	q := NewQdrant(QdrantConfig{URL: srv.URL, APIKey: "key"})

	hits, err := q.Search(context.Background(), vocab.English, []float64{0.1}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, float64(7), hits[0].ID)
	assert.Equal(t, 0.91, hits[0].Score)
	assert.Equal(t, "hiking", hits[0].Payload["tags_en"])

	_, err = q.Search(context.Background(), vocab.German, []float64{0.1}, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/collections/doubles_semantic/points/search",
		"/collections/doubles_semantic_de/points/search",
	}, paths)
}

func TestQdrant_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewQdrant(QdrantConfig{URL: srv.URL}).Search(context.Background(), vocab.English, nil, 0)
	assert.Error(t, err)
}

type fakeEmbedder struct {
	vector []float64
	err    error
}

func (f fakeEmbedder) Embed(context.Context, string) ([]float64, error) {
	return f.vector, f.err
}

func TestSearcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Vector []float64 `json:"vector"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []float64{0.25, 0.75}, body.Vector)
		_, _ = w.Write([]byte(`{"result":[]}`))
	}))
	defer srv.Close()

	s := NewSearcher(fakeEmbedder{vector: []float64{0.25, 0.75}}, NewQdrant(QdrantConfig{URL: srv.URL}))
	hits, err := s.Search(context.Background(), "quiet readers", vocab.English, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	failing := NewSearcher(fakeEmbedder{err: errors.New("boom")}, NewQdrant(QdrantConfig{URL: srv.URL}))
	_, err = failing.Search(context.Background(), "x", vocab.English, 5)
	assert.ErrorContains(t, err, "boom")
}
