package filter

import (
	"maps"
	"slices"
)

// Filters maps a canonical field name to its raw condition string,
// e.g. "p_age_2023" -> ">40" or "p_i_homeowner" -> "true".
type Filters map[string]string

// Clone returns a shallow copy; nil stays nil.
func (f Filters) Clone() Filters {
	return maps.Clone(f)
}

// Fields returns the field names in lexical order.
func (f Filters) Fields() []string {
	return slices.Sorted(maps.Keys(f))
}
