package graph

import (
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Reserved keys added to converted nodes and relationships.
const (
	KeyLabels    = "_labels"
	KeyElementID = "_element_id"
	KeyType      = "_type"
	KeyValue     = "value" // scalar result columns
)

// RecordToRow converts one result record. Node and relationship columns
// become their property maps plus metadata; any other column is stored
// under KeyValue.
func RecordToRow(rec *neo4j.Record) Row {
	row := make(Row, len(rec.Keys))
	for i, key := range rec.Keys {
		var v any
		if i < len(rec.Values) {
			v = rec.Values[i]
		}
		if m, ok := ConvertValue(v).(map[string]any); ok {
			row[key] = m
			continue
		}
		row[key] = map[string]any{KeyValue: ConvertValue(v)}
	}
	return row
}

// ConvertValue turns driver graph types into plain maps and slices,
// recursing through lists and maps. Other values are returned as is.
func ConvertValue(v any) any {
	switch val := v.(type) {
	case neo4j.Node:
		out := make(map[string]any, len(val.Props)+2)
		for k, p := range val.Props {
			out[k] = ConvertValue(p)
		}
		out[KeyLabels] = append([]string(nil), val.Labels...)
		out[KeyElementID] = val.ElementId
		return out
	case neo4j.Relationship:
		out := make(map[string]any, len(val.Props)+2)
		for k, p := range val.Props {
			out[k] = ConvertValue(p)
		}
		out[KeyType] = val.Type
		out[KeyElementID] = val.ElementId
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = ConvertValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = ConvertValue(item)
		}
		return out
	default:
		return v
	}
}

// RecordCount reads an integer column from a count record.
func RecordCount(rec *neo4j.Record, column string) (int64, error) {
	v, ok := rec.Get(column)
	if !ok {
		return 0, fmt.Errorf("count column %q missing", column)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("count column %q has type %T", column, v)
	}
}
