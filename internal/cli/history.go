package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/doublesearch/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
	DB    string // overrides history.path from the config file
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [search-id]",
		Short: "List recorded searches",
		Long: `List recorded searches, newest first, or show one search with its
compiled Cypher and parameters.

Examples:
  doublesearch history --limit 20
  doublesearch history 0192f8a4-7c1e-7d3a-9b2f-4e5d6c7b8a90 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runHistory(opts, id, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "number of searches to list (0 for all)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "path to the history database (default from config)")

	return cmd
}

func runHistory(opts *HistoryOptions, id string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	path := opts.DB
	if path == "" {
		cfg, err := opts.loadConfig()
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
		}
		path = cfg.History.Path
	}
	if path == "" {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, "history is disabled (history.path is empty)", nil)
	}

	st, err := store.Open(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to open history", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if id != "" {
		rec, err := st.ReadSearch(ctx, id)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, "search not found", err)
		}
		if formatter.Format == "json" {
			return formatter.Success(rec)
		}
		writeSearchRecord(formatter, rec)
		return nil
	}

	recs, err := st.ListSearches(ctx, opts.Limit)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to read history", err)
	}
	if formatter.Format == "json" {
		return formatter.Success(recs)
	}
	if len(recs) == 0 {
		fmt.Fprintln(formatter.Writer, "No searches recorded.")
		return nil
	}
	for _, rec := range recs {
		fmt.Fprintf(formatter.Writer, "%s  %s  %s  %6d  %q\n",
			rec.ID, rec.CreatedAt.Format(time.DateTime), rec.Language, rec.Total, rec.Query)
	}
	return nil
}

func writeSearchRecord(formatter *OutputFormatter, rec store.Search) {
	w := formatter.Writer
	fmt.Fprintf(w, "ID:       %s\n", rec.ID)
	fmt.Fprintf(w, "Time:     %s\n", rec.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Query:    %s\n", rec.Query)
	fmt.Fprintf(w, "Language: %s\n", rec.Language)
	fmt.Fprintf(w, "Matches:  %d (semantic hits: %d)\n", rec.Total, rec.SemanticHits)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rec.Cypher)
	writeParams(w, rec.Params)
	if len(rec.Diagnostics) > 0 {
		notes := make([]string, len(rec.Diagnostics))
		for i, d := range rec.Diagnostics {
			notes[i] = d.String()
		}
		fmt.Fprintf(w, "\nDiagnostics:\n  %s\n", strings.Join(notes, "\n  "))
	}
}
