package filter

import (
	"sort"

	"github.com/roach88/doublesearch/internal/vocab"
)

// ProductFilter is a filter on a product category's value field.
// Min and Max are nil when the condition sets no bound on that side; a
// filter with neither still requires the category's value to exist.
type ProductFilter struct {
	Category vocab.Category
	Field    string
	Raw      string
	Min      *Bound
	Max      *Bound
}

// EntityFilter is a filter on the person node itself.
type EntityFilter struct {
	Field string
	Raw   string
}

// Classification is the partition of a canonical filter set.
// Products are in category priority order, Entities in field order.
type Classification struct {
	Products    []ProductFilter
	Entities    []EntityFilter
	Diagnostics []Diagnostic
}

func (c Classification) HasProducts() bool { return len(c.Products) > 0 }

func (c Classification) HasEntities() bool { return len(c.Entities) > 0 }

// Classifier partitions filters into entity and product buckets.
type Classifier struct {
	vocab *vocab.Vocabulary
}

// NewClassifier returns a Classifier backed by v.
func NewClassifier(v *vocab.Vocabulary) *Classifier {
	return &Classifier{vocab: v}
}

// Classify splits f. A field that is the value field of a category becomes
// a ProductFilter for that category; a value field shared by several
// categories goes to the one ranked first in the vocabulary priority.
// Everything else, including unknown fields, becomes an EntityFilter.
func (c *Classifier) Classify(f Filters) Classification {
	var out Classification

	for _, field := range f.Fields() {
		raw := f[field]
		cat, ok := c.vocab.CategoryForField(field)
		if !ok {
			if !c.vocab.IsApproved(field) {
				out.Diagnostics = append(out.Diagnostics, diag(CodeUnapprovedField, field,
					"not in the vocabulary, passed through"))
			}
			out.Entities = append(out.Entities, EntityFilter{Field: field, Raw: raw})
			continue
		}

		pf := ProductFilter{Category: cat, Field: field, Raw: raw}
		if cond, ok := ParseCondition(raw); ok {
			pf.Min, pf.Max = cond.Bounds()
		} else {
			out.Diagnostics = append(out.Diagnostics, diag(CodeUnboundedProduct, field,
				"condition %q has no bound, existence check only", raw))
		}
		out.Products = append(out.Products, pf)
	}

	sort.SliceStable(out.Products, func(i, j int) bool {
		return c.vocab.Rank(out.Products[i].Category) < c.vocab.Rank(out.Products[j].Category)
	})
	return out
}
