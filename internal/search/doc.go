// Package search runs a parsed query end to end: compile, count, fetch the
// first page of profiles, optionally run a semantic similarity search, and
// record the search in the history store.
//
// The graph executor is required. The semantic searcher and the history
// store are optional collaborators; failures in either are logged and do
// not fail the search.
package search
