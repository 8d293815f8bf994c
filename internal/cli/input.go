package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/doublesearch/internal/compiler"
	"github.com/roach88/doublesearch/internal/vocab"
)

// QueryFlags are the command-line form of a parsed query.
type QueryFlags struct {
	Text     string
	Filters  []string // "field=condition", split at the first "="
	Keywords []string
	Language string
}

// readParsedQuery builds the query from an optional input file and the
// flags. The file is JSON or YAML ("-" reads stdin); flags are merged on
// top of it.
func readParsedQuery(path string, stdin io.Reader, flags QueryFlags) (compiler.ParsedQuery, error) {
	var pq compiler.ParsedQuery

	if path != "" {
		var (
			data []byte
			err  error
		)
		if path == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return pq, fmt.Errorf("read query input: %w", err)
		}
		// YAML is a superset of JSON, one decoder covers both.
		if err := yaml.Unmarshal(data, &pq); err != nil {
			return pq, fmt.Errorf("parse query input: %w", err)
		}
	}

	if flags.Text != "" {
		pq.Text = flags.Text
	}
	for _, f := range flags.Filters {
		field, cond, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(field) == "" {
			return pq, fmt.Errorf("filter %q must be field=condition", f)
		}
		if pq.Filters == nil {
			pq.Filters = make(map[string]string)
		}
		pq.Filters[strings.TrimSpace(field)] = cond
	}
	pq.Keywords = append(pq.Keywords, flags.Keywords...)
	if flags.Language != "" {
		pq.Language = vocab.Language(flags.Language)
	}

	if pq.Text == "" && len(pq.Filters) == 0 && len(pq.Keywords) == 0 {
		return pq, fmt.Errorf("empty query: give an input file or --text, --filter, --keyword")
	}
	return pq, nil
}
