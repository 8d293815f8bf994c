// Package config loads the doublesearch application configuration from a
// YAML file, with connection secrets overridable from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/doublesearch/internal/graph"
	"github.com/roach88/doublesearch/internal/search"
	"github.com/roach88/doublesearch/internal/vectorsearch"
)

// Environment variables that override file values.
const (
	EnvNeo4jURI      = "NEO4J_URI"
	EnvNeo4jUser     = "NEO4J_USER"
	EnvNeo4jPassword = "NEO4J_PASSWORD"
	EnvQdrantURL     = "QDRANT_URL"
	EnvQdrantAPIKey  = "QDRANT_API_KEY"
)

// Neo4jConfig contains connection details for the profile graph.
type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	User     string `yaml:"user"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
}

// QdrantConfig contains connection details for the semantic collections.
// An empty URL disables semantic search.
type QdrantConfig struct {
	URL          string `yaml:"url,omitempty"`
	APIKey       string `yaml:"api_key,omitempty"`
	CollectionEN string `yaml:"collection_en"`
	CollectionDE string `yaml:"collection_de"`
	TimeoutSecs  int    `yaml:"timeout_secs"`
}

// EmbedderConfig holds configuration for the OpenAI-compatible embedder.
type EmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// HistoryConfig locates the search history database. An empty path
// disables history.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig tunes search execution.
type SearchConfig struct {
	Limit int `yaml:"limit"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Neo4j    Neo4jConfig    `yaml:"neo4j"`
	Qdrant   QdrantConfig   `yaml:"qdrant"`
	Embedder EmbedderConfig `yaml:"embedder"`
	History  HistoryConfig  `yaml:"history"`
	Search   SearchConfig   `yaml:"search"`

	// Vocabulary is a CUE vocabulary document. Empty uses the built-in one.
	Vocabulary string `yaml:"vocabulary,omitempty"`
}

// Load reads a config from path and applies environment overrides.
// If the file does not exist, returns defaults (with overrides).
// Relative vocabulary and history paths resolve against the file's directory.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		cfg = &AppConfig{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		applyDefaults(cfg)
		dir := filepath.Dir(path)
		cfg.Vocabulary = resolve(dir, cfg.Vocabulary)
		cfg.History.Path = resolve(dir, cfg.History.Path)
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the built-in configuration: a local Neo4j, no semantic
// search and history in ./doublesearch.db.
func Default() *AppConfig {
	cfg := &AppConfig{
		Neo4j:   Neo4jConfig{URI: "neo4j://localhost:7687", User: "neo4j"},
		History: HistoryConfig{Path: "doublesearch.db"},
	}
	applyDefaults(cfg)
	return cfg
}

// Validate reports settings that cannot work.
func (c *AppConfig) Validate() error {
	if c.Search.Limit < 0 {
		return fmt.Errorf("search.limit must not be negative, got %d", c.Search.Limit)
	}
	if c.Qdrant.TimeoutSecs < 0 || c.Embedder.TimeoutSecs < 0 {
		return errors.New("timeout_secs must not be negative")
	}
	if c.Embedder.MaxRetries < 0 {
		return fmt.Errorf("embedder.max_retries must not be negative, got %d", c.Embedder.MaxRetries)
	}
	return nil
}

// SemanticEnabled reports whether a Qdrant URL is configured.
func (c *AppConfig) SemanticEnabled() bool {
	return c.Qdrant.URL != ""
}

// GraphConfig converts the Neo4j section for graph.Open.
func (c *AppConfig) GraphConfig() graph.Config {
	return graph.Config{
		URI:      c.Neo4j.URI,
		User:     c.Neo4j.User,
		Password: c.Neo4j.Password,
		Database: c.Neo4j.Database,
	}
}

// QdrantClientConfig converts the Qdrant section for vectorsearch.NewQdrant.
func (c *AppConfig) QdrantClientConfig() vectorsearch.QdrantConfig {
	return vectorsearch.QdrantConfig{
		URL:          c.Qdrant.URL,
		APIKey:       c.Qdrant.APIKey,
		CollectionEN: c.Qdrant.CollectionEN,
		CollectionDE: c.Qdrant.CollectionDE,
		Timeout:      time.Duration(c.Qdrant.TimeoutSecs) * time.Second,
	}
}

// EmbedderClientConfig converts the embedder section for
// vectorsearch.NewOpenAIEmbedder, reading the API key from APIKeyEnv.
func (c *AppConfig) EmbedderClientConfig() vectorsearch.OpenAIConfig {
	return vectorsearch.OpenAIConfig{
		BaseURL:    c.Embedder.BaseURL,
		APIKey:     os.Getenv(c.Embedder.APIKeyEnv),
		Model:      c.Embedder.Model,
		Timeout:    time.Duration(c.Embedder.TimeoutSecs) * time.Second,
		MaxRetries: c.Embedder.MaxRetries,
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Qdrant.CollectionEN == "" {
		cfg.Qdrant.CollectionEN = vectorsearch.DefaultCollectionEN
	}
	if cfg.Qdrant.CollectionDE == "" {
		cfg.Qdrant.CollectionDE = vectorsearch.DefaultCollectionDE
	}
	if cfg.Qdrant.TimeoutSecs == 0 {
		cfg.Qdrant.TimeoutSecs = 10
	}
	if cfg.Embedder.BaseURL == "" {
		cfg.Embedder.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embedder.APIKeyEnv == "" {
		cfg.Embedder.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = "text-embedding-3-small"
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = 30
	}
	if cfg.Embedder.MaxRetries == 0 {
		cfg.Embedder.MaxRetries = 3
	}
	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = search.DefaultLimit
	}
}

func applyEnv(cfg *AppConfig) {
	overrides := []struct {
		env string
		dst *string
	}{
		{EnvNeo4jURI, &cfg.Neo4j.URI},
		{EnvNeo4jUser, &cfg.Neo4j.User},
		{EnvNeo4jPassword, &cfg.Neo4j.Password},
		{EnvQdrantURL, &cfg.Qdrant.URL},
		{EnvQdrantAPIKey, &cfg.Qdrant.APIKey},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok && v != "" {
			*o.dst = v
		}
	}
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
