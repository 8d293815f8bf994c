package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/doublesearch/internal/compiler"
	"github.com/roach88/doublesearch/internal/filter"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Query QueryFlags
	Count bool // render the count variant
	Limit int  // append LIMIT n
}

// CompileOutput is the JSON payload of the compile command.
type CompileOutput struct {
	Cypher      string                   `json:"cypher"`
	Params      map[string]any           `json:"params"`
	Language    string                   `json:"language"`
	Keywords    compiler.KeywordDecision `json:"keywords"`
	Diagnostics []filter.Diagnostic      `json:"diagnostics,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [query-file]",
		Short: "Compile a parsed query to Cypher",
		Long: `Compile a parsed search query to parameterized Cypher without running it.

The query comes from a JSON or YAML file ("-" for stdin) with the fields
text, filters, keywords and language, from flags, or both.

Examples:
  doublesearch compile query.yaml
  doublesearch compile --filter "age=>40" --filter "property value=>200000" --keyword books
  echo '{"text": "people over 60"}' | doublesearch compile - --count`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runCompile(opts, path, cmd)
		},
	}

	addQueryFlags(cmd, &opts.Query)
	cmd.Flags().BoolVar(&opts.Count, "count", false, "render the count query")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "limit the number of returned profiles")

	return cmd
}

func addQueryFlags(cmd *cobra.Command, q *QueryFlags) {
	cmd.Flags().StringVar(&q.Text, "text", "", "original query text")
	cmd.Flags().StringArrayVar(&q.Filters, "filter", nil, `filter as "field=condition" (repeatable)`)
	cmd.Flags().StringSliceVar(&q.Keywords, "keyword", nil, "interest keyword (repeatable)")
	cmd.Flags().StringVar(&q.Language, "lang", "", "query language (en|de)")
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	pq, err := readParsedQuery(path, cmd.InOrStdin(), opts.Query)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid query input", err)
	}

	vocabPath := opts.Vocab
	if vocabPath == "" {
		// The config file is optional for compile; only its vocabulary matters.
		if cfg, err := opts.loadConfig(); err == nil {
			vocabPath = cfg.Vocabulary
		}
	}
	v, err := loadVocabulary(vocabPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeVocabulary, "failed to load vocabulary", err)
	}
	formatter.VerboseLog("Compiling %d filter(s), %d keyword(s)", len(pq.Filters), len(pq.Keywords))

	cq, err := compiler.New(v).Compile(pq)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeCompile, "failed to compile query", err)
	}

	text, params := cq.Text, cq.Params
	switch {
	case opts.Count:
		text, params, err = cq.Count()
	case opts.Limit != 0:
		text, params, err = cq.Limit(opts.Limit)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "failed to render query", err)
	}

	out := CompileOutput{
		Cypher:      text,
		Params:      params,
		Language:    string(cq.Language),
		Keywords:    cq.Keywords,
		Diagnostics: cq.Diagnostics,
	}
	if formatter.Format == "json" {
		return formatter.Success(out)
	}
	writeCompiled(formatter.Writer, out)
	return nil
}

func writeCompiled(w io.Writer, out CompileOutput) {
	fmt.Fprintln(w, out.Cypher)
	writeParams(w, out.Params)

	fmt.Fprintln(w)
	if out.Keywords.Include {
		fmt.Fprintf(w, "Keywords: %s %v\n", out.Keywords.Reason, out.Keywords.Keywords)
	} else {
		fmt.Fprintf(w, "Keywords: dropped (%s)\n", out.Keywords.Reason)
	}

	if len(out.Diagnostics) > 0 {
		fmt.Fprintln(w, "Diagnostics:")
		for _, d := range out.Diagnostics {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
}

func writeParams(w io.Writer, params map[string]any) {
	if len(params) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Parameters:")
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  $%s = %v (%T)\n", name, params[name], params[name])
	}
}
