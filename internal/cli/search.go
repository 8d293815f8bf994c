package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/doublesearch/internal/compiler"
	"github.com/roach88/doublesearch/internal/graph"
	"github.com/roach88/doublesearch/internal/metrics"
	"github.com/roach88/doublesearch/internal/search"
	"github.com/roach88/doublesearch/internal/store"
	"github.com/roach88/doublesearch/internal/vectorsearch"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Query     QueryFlags
	Similar   string
	Limit     int
	NoHistory bool

	// MetricsFile receives the run's metrics in the Prometheus text format.
	MetricsFile string

	// Executor overrides the Neo4j connection (for testing).
	Executor graph.Executor
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return newSearchCommand(&SearchOptions{RootOptions: rootOpts})
}

func newSearchCommand(opts *SearchOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query-file]",
		Short: "Run a parsed query against the profile graph",
		Long: `Compile a parsed query, count all matching profiles and print the first
page. When Qdrant is configured, a semantic similarity search runs on the
same language. Every search is recorded in the history database.

Connection settings come from the config file and the NEO4J_URI,
NEO4J_USER, NEO4J_PASSWORD, QDRANT_URL and QDRANT_API_KEY variables.

Examples:
  doublesearch search --text "people over 60 who like hiking" --keyword hiking
  doublesearch search query.yaml --limit 20 --format json
  doublesearch search query.yaml --metrics-textfile /var/lib/node_exporter/doublesearch.prom`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runSearch(opts, path, cmd)
		},
	}

	addQueryFlags(cmd, &opts.Query)
	cmd.Flags().StringVar(&opts.Similar, "similar", "", "text for the semantic search (default: --text)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "number of profiles to show (default from config)")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "do not record this search")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-textfile", "", "write metrics for the node_exporter textfile collector")

	return cmd
}

func runSearch(opts *SearchOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())

	pq, err := readParsedQuery(path, cmd.InOrStdin(), opts.Query)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid query input", err)
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	v, err := loadVocabulary(cfg.Vocabulary)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeVocabulary, "failed to load vocabulary", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	exec := opts.Executor
	if exec == nil {
		logger.Debug("connecting to neo4j", "uri", cfg.Neo4j.URI)
		db, err := graph.Open(ctx, cfg.GraphConfig(), logger)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGraph, "failed to connect to graph", err)
		}
		defer func() {
			if closeErr := db.Close(context.Background()); closeErr != nil {
				logger.Error("error closing graph driver", "error", closeErr)
			}
		}()
		exec = db
	}

	svcOpts := []search.Option{
		search.WithLogger(logger),
		search.WithDefaultLimit(cfg.Search.Limit),
	}
	if cfg.SemanticEnabled() {
		embedder := vectorsearch.NewOpenAIEmbedder(cfg.EmbedderClientConfig())
		qdrant := vectorsearch.NewQdrant(cfg.QdrantClientConfig())
		svcOpts = append(svcOpts, search.WithSemantic(vectorsearch.NewSearcher(embedder, qdrant)))
	}
	if !opts.NoHistory && cfg.History.Path != "" {
		st, err := store.Open(cfg.History.Path)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to open history", err)
		}
		defer st.Close()
		svcOpts = append(svcOpts, search.WithHistory(st))
	}

	reg := prometheus.NewRegistry()
	if opts.MetricsFile != "" {
		svcOpts = append(svcOpts, search.WithMetrics(metrics.New(reg)))
	}

	svc := search.New(compiler.New(v), exec, svcOpts...)
	res, err := svc.Search(ctx, search.Request{Query: pq, Similar: opts.Similar, Limit: opts.Limit})
	if opts.MetricsFile != "" {
		if werr := metrics.WriteTextfile(opts.MetricsFile, reg); werr != nil {
			logger.Error("failed to write metrics", "path", opts.MetricsFile, "error", werr)
		}
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGraph, "search failed", err)
	}

	if formatter.Format == "json" {
		return formatter.encode(CLIResponse{Status: "ok", Data: res, SearchID: res.ID})
	}
	writeSearchResult(formatter.Writer, res)
	return nil
}

func writeSearchResult(w io.Writer, res *search.Result) {
	fmt.Fprintf(w, "Search %s: %d matching profile(s), showing %d\n", res.ID, res.Total, len(res.Rows))

	for i, row := range res.Rows {
		fmt.Fprintf(w, "\n[%d]\n", i+1)
		aliases := make([]string, 0, len(row))
		for alias := range row {
			aliases = append(aliases, alias)
		}
		sort.Strings(aliases)
		for _, alias := range aliases {
			props := row[alias]
			keys := make([]string, 0, len(props))
			for k := range props {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "  %s.%s: %v\n", alias, k, props[k])
			}
		}
	}

	if len(res.Semantic) > 0 {
		fmt.Fprintln(w, "\nSimilar profiles:")
		for _, hit := range res.Semantic {
			fmt.Fprintf(w, "  %v (score %.3f)\n", hit.ID, hit.Score)
		}
	}

	for _, d := range res.Compiled.Diagnostics {
		fmt.Fprintf(w, "note: %s\n", d)
	}
}
