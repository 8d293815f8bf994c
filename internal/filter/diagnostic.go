package filter

import "fmt"

// Code identifies the kind of a Diagnostic.
type Code string

// Diagnostic codes (D001-D099)
const (
	CodeEmptyCondition    Code = "D001" // null/empty condition dropped
	CodeUnboundedProduct  Code = "D002" // product condition has no bound, existence check only
	CodeSynonymCollision  Code = "D003" // two raw keys resolved to the same field
	CodeUnparsedCondition Code = "D004" // entity condition unparseable, predicate omitted
	CodeUnapprovedField   Code = "D005" // field outside the vocabulary passed through
	CodeAgeInjected       Code = "D006" // age filter recovered from the query text
)

// Diagnostic is a non-fatal note about a filter that was dropped, degraded
// or synthesized. Callers that do not care can ignore them.
type Diagnostic struct {
	Code    Code   `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Code, d.Field, d.Message)
}

func diag(code Code, field, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}
