// Package graph executes compiled queries against the profile graph.
//
// Executor is the collaborator interface the search service depends on;
// Neo4j implements it with the official driver. Results come back as Rows,
// one flat attribute map per returned alias, with node labels and element
// ids folded in under reserved keys (see RecordToRow).
package graph
