package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/doublesearch/internal/compiler"
	"github.com/roach88/doublesearch/internal/graph"
	"github.com/roach88/doublesearch/internal/metrics"
	"github.com/roach88/doublesearch/internal/store"
	"github.com/roach88/doublesearch/internal/vectorsearch"
	"github.com/roach88/doublesearch/internal/vocab"
)

// DefaultLimit is the number of profiles returned when a request sets none.
const DefaultLimit = 5

// SemanticSearcher finds profiles similar to a free-text description.
// Implemented by vectorsearch.Searcher.
type SemanticSearcher interface {
	Search(ctx context.Context, text string, lang vocab.Language, limit int) ([]vectorsearch.Hit, error)
}

// History records executed searches. Implemented by store.Store.
type History interface {
	WriteSearch(ctx context.Context, rec store.Search) error
}

// Request is one search.
type Request struct {
	Query compiler.ParsedQuery `json:"query" yaml:"query"`

	// Similar is the text for the semantic search. Empty falls back to
	// Query.Text.
	Similar string `json:"similar,omitempty" yaml:"similar,omitempty"`

	// Limit caps Rows and Semantic. Zero means DefaultLimit.
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// Result is the outcome of a search.
type Result struct {
	ID       string                  `json:"id"`
	Compiled *compiler.CompiledQuery `json:"compiled"`
	Total    int64                   `json:"total"`
	Rows     []graph.Row             `json:"rows"`
	Semantic []vectorsearch.Hit      `json:"semantic,omitempty"`
}

// Service executes searches against the profile graph.
type Service struct {
	compiler *compiler.Compiler
	graph    graph.Executor
	semantic SemanticSearcher
	history  History
	ids      IDGenerator
	now      Clock
	limit    int
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithSemantic enables the semantic similarity search.
func WithSemantic(s SemanticSearcher) Option {
	return func(svc *Service) { svc.semantic = s }
}

// WithHistory records every search in h.
func WithHistory(h History) Option {
	return func(svc *Service) { svc.history = h }
}

// WithIDGenerator replaces the UUIDv7 search ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(svc *Service) { svc.ids = g }
}

// WithClock replaces time.Now for history timestamps.
func WithClock(c Clock) Option {
	return func(svc *Service) { svc.now = c }
}

// WithDefaultLimit sets the page size used when a request has no limit.
// Values <= 0 are ignored.
func WithDefaultLimit(n int) Option {
	return func(svc *Service) {
		if n > 0 {
			svc.limit = n
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(svc *Service) { svc.logger = l }
}

// WithMetrics records search metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(svc *Service) { svc.metrics = m }
}

// New creates a Service compiling with c and executing on g.
func New(c *compiler.Compiler, g graph.Executor, opts ...Option) *Service {
	svc := &Service{
		compiler: c,
		graph:    g,
		ids:      UUIDv7Generator{},
		now:      time.Now,
		limit:    DefaultLimit,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Search compiles req.Query, counts all matches and fetches the first page.
// Compilation or graph errors fail the search; semantic and history errors
// are logged.
func (s *Service) Search(ctx context.Context, req Request) (*Result, error) {
	if req.Limit < 0 {
		return nil, fmt.Errorf("search: negative limit %d", req.Limit)
	}
	limit := req.Limit
	if limit == 0 {
		limit = s.limit
	}

	start := time.Now()
	cq, err := s.compiler.Compile(req.Query)
	if err != nil {
		s.metrics.ObserveSearch(string(vocab.ParseLanguage(string(req.Query.Language))), metrics.OutcomeError, 0)
		return nil, fmt.Errorf("search: compile: %w", err)
	}
	s.metrics.ObserveStage(metrics.StageCompile, start)
	lang := string(cq.Language)

	id := s.ids.Generate()
	log := s.logger.With("search_id", id)
	for _, d := range cq.Diagnostics {
		s.metrics.ObserveDiagnostic(string(d.Code))
		log.Warn("filter diagnostic",
			"code", d.Code,
			"field", d.Field,
			"message", d.Message,
		)
	}

	countText, countParams, err := cq.Count()
	if err != nil {
		return nil, fmt.Errorf("search: render count: %w", err)
	}
	pageText, pageParams, err := cq.Limit(limit)
	if err != nil {
		return nil, fmt.Errorf("search: render page: %w", err)
	}

	// Count, page and semantic search are independent reads.
	var (
		total    int64
		rows     []graph.Row
		semantic []vectorsearch.Hit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer s.metrics.ObserveStage(metrics.StageCount, time.Now())
		n, err := s.graph.Count(gctx, countText, countParams, compiler.CountColumn)
		if err != nil {
			return fmt.Errorf("search: count: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		defer s.metrics.ObserveStage(metrics.StagePage, time.Now())
		r, err := s.graph.Execute(gctx, pageText, pageParams)
		if err != nil {
			return fmt.Errorf("search: execute: %w", err)
		}
		rows = r
		return nil
	})
	g.Go(func() error {
		semantic = s.similar(gctx, log, req, cq.Language, limit)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.metrics.ObserveSearch(lang, metrics.OutcomeError, 0)
		return nil, err
	}
	if rows == nil {
		rows = []graph.Row{}
	}

	res := &Result{
		ID:       id,
		Compiled: cq,
		Total:    total,
		Rows:     rows,
		Semantic: semantic,
	}
	s.metrics.ObserveSearch(lang, metrics.OutcomeOK, total)

	log.Info("search executed",
		"total", total,
		"rows", len(rows),
		"semantic_hits", len(res.Semantic),
		"elapsed", time.Since(start),
	)

	s.record(ctx, log, req, res)
	return res, nil
}

func (s *Service) similar(ctx context.Context, log *slog.Logger, req Request, lang vocab.Language, limit int) []vectorsearch.Hit {
	if s.semantic == nil {
		return nil
	}
	text := req.Similar
	if text == "" {
		text = req.Query.Text
	}
	if text == "" {
		return nil
	}

	defer s.metrics.ObserveStage(metrics.StageSemantic, time.Now())
	hits, err := s.semantic.Search(ctx, text, lang, limit)
	if err != nil {
		s.metrics.SemanticFailed()
		log.Warn("semantic search failed", "error", err)
		return nil
	}
	return hits
}

func (s *Service) record(ctx context.Context, log *slog.Logger, req Request, res *Result) {
	if s.history == nil {
		return
	}
	rec := store.Search{
		ID:           res.ID,
		CreatedAt:    s.now(),
		Query:        req.Query.Text,
		Language:     string(res.Compiled.Language),
		Cypher:       res.Compiled.Text,
		Params:       res.Compiled.Params,
		Total:        res.Total,
		SemanticHits: len(res.Semantic),
		Diagnostics:  res.Compiled.Diagnostics,
	}
	if err := s.history.WriteSearch(ctx, rec); err != nil {
		s.metrics.HistoryFailed()
		log.Error("failed to record search", "error", err)
	}
}
