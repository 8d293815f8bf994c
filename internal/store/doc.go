// Package store provides SQLite-backed storage for the search history.
//
// Every executed search is appended as one row: the query text, language,
// the compiled Cypher and its parameters, the match count, semantic hit
// count and the diagnostics raised while compiling.
//
// # Ordering
//
// Rows are ordered by seq INTEGER (insertion order), never by timestamp,
// so listings are stable regardless of clock skew.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Writes are idempotent on the search id.
package store
