package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/doublesearch/internal/graph"
	"github.com/roach88/doublesearch/internal/store"
)

type fakeExecutor struct {
	mu     sync.Mutex
	total  int64
	rows   []graph.Row
	err    error
	counts []string
	pages  []string
}

func (f *fakeExecutor) Execute(_ context.Context, cypher string, _ map[string]any) ([]graph.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, cypher)
	return f.rows, f.err
}

func (f *fakeExecutor) Count(_ context.Context, cypher string, _ map[string]any, _ string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = append(f.counts, cypher)
	return f.total, f.err
}

func runSearchCmd(t *testing.T, format, configPath string, exec graph.Executor, args ...string) (string, error) {
	t.Helper()
	t.Setenv("QDRANT_URL", "")
	buf := &bytes.Buffer{}
	opts := &SearchOptions{
		RootOptions: &RootOptions{Format: format, Config: configPath},
		Executor:    exec,
	}
	cmd := newSearchCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestSearch_TextOutput(t *testing.T) {
	exec := &fakeExecutor{
		total: 12,
		rows: []graph.Row{
			{"d": {"name": "Anna", "p_age_2023": int64(64)}},
		},
	}
	cfg := writeConfig(t, "history:\n  path: \"\"\n")

	out, err := runSearchCmd(t, "text", cfg, exec, "--filter", "age=>60", "--keyword", "hiking")
	require.NoError(t, err)

	assert.Contains(t, out, "12 matching profile(s), showing 1")
	assert.Contains(t, out, "d.name: Anna")
	assert.Contains(t, out, "d.p_age_2023: 64")
	require.Len(t, exec.counts, 1)
	assert.Contains(t, exec.counts[0], "count(DISTINCT d)")
	require.Len(t, exec.pages, 1)
	assert.Contains(t, exec.pages[0], "LIMIT 5")
}

func TestSearch_JSONCarriesSearchID(t *testing.T) {
	exec := &fakeExecutor{total: 0}
	cfg := writeConfig(t, "history:\n  path: \"\"\n")

	out, err := runSearchCmd(t, "json", cfg, exec, "--text", "people over 60", "--limit", "3")
	require.NoError(t, err)

	var resp struct {
		Status   string `json:"status"`
		SearchID string `json:"search_id"`
		Data     struct {
			ID    string      `json:"id"`
			Total int64       `json:"total"`
			Rows  []graph.Row `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.SearchID)
	assert.Equal(t, resp.SearchID, resp.Data.ID)
	assert.NotNil(t, resp.Data.Rows)
	require.Len(t, exec.pages, 1)
	assert.Contains(t, exec.pages[0], "LIMIT 3")
}

func TestSearch_LimitFromConfig(t *testing.T) {
	exec := &fakeExecutor{}
	cfg := writeConfig(t, "history:\n  path: \"\"\nsearch:\n  limit: 9\n")

	_, err := runSearchCmd(t, "text", cfg, exec, "--filter", "age=>60")
	require.NoError(t, err)
	require.Len(t, exec.pages, 1)
	assert.Contains(t, exec.pages[0], "LIMIT 9")
}

func TestSearch_RecordsHistory(t *testing.T) {
	exec := &fakeExecutor{total: 4}
	cfg := writeConfig(t, "history:\n  path: history.db\n")

	out, err := runSearchCmd(t, "json", cfg, exec, "--text", "people under 30 who like books", "--keyword", "books")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	st, err := store.Open(filepath.Join(filepath.Dir(cfg), "history.db"))
	require.NoError(t, err)
	defer st.Close()

	rec, err := st.ReadSearch(context.Background(), resp.SearchID)
	require.NoError(t, err)
	assert.Equal(t, "people under 30 who like books", rec.Query)
	assert.Equal(t, int64(4), rec.Total)
	assert.Contains(t, rec.Cypher, "d.p_age_2023 < $p0")
}

func TestSearch_NoHistory(t *testing.T) {
	exec := &fakeExecutor{}
	cfg := writeConfig(t, "history:\n  path: history.db\n")

	_, err := runSearchCmd(t, "text", cfg, exec, "--text", "people over 60", "--no-history")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(cfg), "history.db"))
}

func TestSearch_GraphFailure(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("connection refused")}
	cfg := writeConfig(t, "history:\n  path: \"\"\n")

	out, err := runSearchCmd(t, "json", cfg, exec, "--text", "people over 60")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeGraph, resp.Error.Code)
}

func TestSearch_InvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "search:\n  limit: -2\n")

	_, err := runSearchCmd(t, "text", cfg, &fakeExecutor{}, "--text", "people over 60")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeConfig)
}

func TestSearch_MetricsTextfile(t *testing.T) {
	cfg := writeConfig(t, "history:\n  path: \"\"\n")
	promPath := filepath.Join(t.TempDir(), "doublesearch.prom")

	_, err := runSearchCmd(t, "text", cfg, &fakeExecutor{total: 2}, "--text", "people over 60", "--metrics-textfile", promPath)
	require.NoError(t, err)

	data, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `doublesearch_search_total{language="en",outcome="ok"} 1`)
	assert.Contains(t, string(data), `doublesearch_filter_diagnostics_total{code="D006"} 1`)
}
