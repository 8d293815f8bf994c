package graph

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordToRow_Node(t *testing.T) {
	rec := &neo4j.Record{
		Keys: []string{"d"},
		Values: []any{neo4j.Node{
			ElementId: "4:abc:17",
			Labels:    []string{"Double"},
			Props: map[string]any{
				"id":            int64(17),
				"p_age_2023":    int64(42),
				"p_i_homeowner": int64(1),
				"tags_en":       "books, chess",
			},
		}},
	}

	row := RecordToRow(rec)

	require.Contains(t, row, "d")
	assert.Equal(t, map[string]any{
		"id":            int64(17),
		"p_age_2023":    int64(42),
		"p_i_homeowner": int64(1),
		"tags_en":       "books, chess",
		KeyLabels:       []string{"Double"},
		KeyElementID:    "4:abc:17",
	}, row["d"])
}

func TestRecordToRow_RelationshipAndScalar(t *testing.T) {
	rec := &neo4j.Record{
		Keys: []string{"r", "total_matches"},
		Values: []any{
			neo4j.Relationship{ElementId: "5:abc:1", Type: "OWNS", Props: map[string]any{"since": int64(2020)}},
			int64(3),
		},
	}

	row := RecordToRow(rec)

	assert.Equal(t, map[string]any{"since": int64(2020), KeyType: "OWNS", KeyElementID: "5:abc:1"}, row["r"])
	assert.Equal(t, map[string]any{KeyValue: int64(3)}, row["total_matches"])
}

func TestConvertValue_Nested(t *testing.T) {
	in := []any{
		neo4j.Node{ElementId: "1", Labels: []string{"Property"}, Props: map[string]any{"p_prop_total_value": 250000.0}},
		map[string]any{"n": neo4j.Node{ElementId: "2", Labels: []string{"Insurance"}}},
		"plain",
	}

	out := ConvertValue(in).([]any)

	require.Len(t, out, 3)
	assert.Equal(t, map[string]any{
		"p_prop_total_value": 250000.0,
		KeyLabels:            []string{"Property"},
		KeyElementID:         "1",
	}, out[0])
	assert.Equal(t, map[string]any{
		"n": map[string]any{KeyLabels: []string{"Insurance"}, KeyElementID: "2"},
	}, out[1])
	assert.Equal(t, "plain", out[2])
}

func TestRecordCount(t *testing.T) {
	rec := &neo4j.Record{Keys: []string{"total_matches"}, Values: []any{int64(12)}}

	n, err := RecordCount(rec, "total_matches")
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	_, err = RecordCount(rec, "missing")
	assert.Error(t, err)

	bad := &neo4j.Record{Keys: []string{"total_matches"}, Values: []any{"12"}}
	_, err = RecordCount(bad, "total_matches")
	assert.Error(t, err)
}

func TestOpen_RequiresURI(t *testing.T) {
	_, err := Open(t.Context(), Config{}, nil)
	assert.Error(t, err)
}
