package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/doublesearch/internal/filter"
)

// marshalParams converts query parameters to JSON TEXT for storage.
// Map keys come out sorted, so equal parameter sets store identically.
func marshalParams(params map[string]any) (string, error) {
	if len(params) == 0 {
		return "{}", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(params); err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalParams parses stored parameters. Numbers go through json.Number
// so integral values come back as int64 rather than float64.
func unmarshalParams(data string) (map[string]any, error) {
	params := map[string]any{}
	if data == "" || data == "{}" {
		return params, nil
	}

	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		return nil, fmt.Errorf("unmarshal params: %w", err)
	}
	for k, v := range params {
		params[k] = restoreNumber(v)
	}
	return params, nil
}

func restoreNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func marshalDiagnostics(diags []filter.Diagnostic) (string, error) {
	if len(diags) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(diags)
	if err != nil {
		return "", fmt.Errorf("marshal diagnostics: %w", err)
	}
	return string(data), nil
}

func unmarshalDiagnostics(data string) ([]filter.Diagnostic, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var diags []filter.Diagnostic
	if err := json.Unmarshal([]byte(data), &diags); err != nil {
		return nil, fmt.Errorf("unmarshal diagnostics: %w", err)
	}
	return diags, nil
}
