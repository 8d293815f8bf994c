// Package filter canonicalizes the loosely structured filter map produced by
// the extraction step: phrases are resolved to canonical field names, empty
// conditions are dropped, a missing age filter is recovered from the query
// text, and the result is split into entity-level and product-level filters.
//
// Every step is a pure function of its inputs and the injected
// vocab.Vocabulary. Nothing here fails; anomalies are reported as
// Diagnostics and the affected predicate is omitted.
package filter
