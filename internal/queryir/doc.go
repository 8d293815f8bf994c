// Package queryir provides the intermediate representation of a profile
// search query, between filter compilation and Cypher text.
//
// ARCHITECTURE:
//
//	[classified filters] → [Query IR] → [Cypher renderer] → text + params
//
// The compiler builds a Query from filters and keywords; package
// querycypher renders it. Keeping the two apart lets the same IR be
// rendered as a row query, a count query or a limited page without
// rebuilding it, and lets tests assert on structure instead of text.
//
// SEALED INTERFACES:
//
// Pattern, Predicate and Value are sealed with marker methods. Only types
// in this package implement them, so renderers can switch exhaustively:
//
//	switch p := pred.(type) {
//	case Compare:
//	case NotNull:
//	case ContainsFold:
//	case And:
//	case Or:
//	}
//
// VALUES:
//
// Every literal a predicate compares against is a Value. Renderers must
// emit values as bind parameters, never as query text. Field and alias
// names are identifiers, not values; renderers quote them.
package queryir
