// Package vocab holds the closed vocabularies the query pipeline depends on.
//
// A Vocabulary is built once, either from DefaultSpec or from a CUE document
// loaded with LoadFile, and is then passed explicitly to every component
// that needs it. It is never written after construction, so a single
// *Vocabulary may be shared by any number of goroutines without locking.
//
// The vocabulary contains:
//   - the synonym table mapping natural-language phrases to canonical fields
//   - the approved entity fields of the Double (person) node
//   - the closed category → value-field table and its priority order
//   - the structural-term stoplist applied to keywords
//   - the ordered age patterns used to recover a missing age filter
//   - the boolean-to-integer field mappings (e.g. p_i_homeowner)
//   - the tag field per language and the graph labels
//
// CATEGORY PRIORITY:
//
// More than one category may share a value field (both pension categories
// store p_pens_sav). Reverse lookup from field to category walks Priority
// in order and takes the first match, so the same field always classifies
// to the same category.
package vocab
