package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/doublesearch/internal/store"
	"github.com/roach88/doublesearch/internal/testutil"
)

// seedHistory writes n searches to a fresh database and returns its path.
func seedHistory(t *testing.T, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	clock := testutil.NewStepClock(testutil.Epoch, time.Minute)
	ids := testutil.NewFixedIDGenerator()
	for i := 0; i < n; i++ {
		require.NoError(t, st.WriteSearch(context.Background(), store.Search{
			ID:        ids.Generate(),
			CreatedAt: clock.Now(),
			Query:     "people over 60",
			Language:  "en",
			Cypher:    "MATCH (d:Double)\nWHERE d.p_age_2023 > $p0\nRETURN DISTINCT d",
			Params:    map[string]any{"p0": int64(60)},
			Total:     int64(10 + i),
		}))
	}
	return path
}

func runHistoryCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestHistory_ListNewestFirst(t *testing.T) {
	db := seedHistory(t, 3)

	out, err := runHistoryCmd(t, "json", "--db", db, "--limit", "2")
	require.NoError(t, err)

	var resp struct {
		Data []store.Search `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "search-3", resp.Data[0].ID)
	assert.Equal(t, "search-2", resp.Data[1].ID)
}

func TestHistory_ListText(t *testing.T) {
	db := seedHistory(t, 2)

	out, err := runHistoryCmd(t, "text", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "search-1")
	assert.Contains(t, out, "search-2")
	assert.Contains(t, out, `"people over 60"`)
}

func TestHistory_Empty(t *testing.T) {
	db := seedHistory(t, 0)

	out, err := runHistoryCmd(t, "text", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No searches recorded.")
}

func TestHistory_ShowOne(t *testing.T) {
	db := seedHistory(t, 2)

	out, err := runHistoryCmd(t, "text", "--db", db, "search-1")
	require.NoError(t, err)
	assert.Contains(t, out, "ID:       search-1")
	assert.Contains(t, out, "d.p_age_2023 > $p0")
	assert.Contains(t, out, "$p0 = 60 (int64)")
}

func TestHistory_NotFound(t *testing.T) {
	db := seedHistory(t, 1)

	_, err := runHistoryCmd(t, "text", "--db", db, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistory_PathFromConfig(t *testing.T) {
	db := seedHistory(t, 1)
	cfg := writeConfig(t, "history:\n  path: "+db+"\n")

	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(&RootOptions{Format: "text", Config: cfg})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "search-1")
}
