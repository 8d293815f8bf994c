package vocab

import (
	"regexp"
	"slices"
	"strings"
)

// Category is a product node label. The set is closed; see Categories.
type Category string

const (
	Property          Category = "Property"
	InvestmentAccount Category = "InvestmentAccount"
	BankAccount       Category = "BankAccount"
	OccuPension       Category = "OccuPension"
	PrivatePension    Category = "PrivatePension"
	Insurance         Category = "Insurance"
)

// Categories lists every known category in default priority order.
var Categories = []Category{
	Property,
	InvestmentAccount,
	BankAccount,
	OccuPension,
	PrivatePension,
	Insurance,
}

// IsKnown reports whether c is one of the closed set of categories.
func (c Category) IsKnown() bool {
	return slices.Contains(Categories, c)
}

// Alias returns the query alias bound to this category's product node,
// e.g. "p_property" for Property.
func (c Category) Alias() string {
	return "p_" + strings.ToLower(string(c))
}

// Language is the two-valued language tag of a query.
type Language string

const (
	English Language = "en"
	German  Language = "de"
)

// ParseLanguage maps a detected language code to a Language.
// Anything other than "de" is treated as English.
func ParseLanguage(s string) Language {
	if strings.EqualFold(strings.TrimSpace(s), string(German)) {
		return German
	}
	return English
}

// Comparison is the direction of an age pattern.
type Comparison string

const (
	GreaterThan Comparison = ">"
	LessThan    Comparison = "<"
)

// AgePattern is one entry of the ordered age backstop list.
// Pattern must capture the age as its first submatch.
type AgePattern struct {
	Pattern *regexp.Regexp
	Op      Comparison
}

// BoolInt is the integer storage representation of a boolean field.
type BoolInt struct {
	True  int64 `json:"true" yaml:"true"`
	False int64 `json:"false" yaml:"false"`
}

// Value returns the stored integer for b.
func (m BoolInt) Value(b bool) int64 {
	if b {
		return m.True
	}
	return m.False
}

// Vocabulary is the immutable lookup configuration shared by the pipeline.
// Construct it with New, Default or LoadFile.
type Vocabulary struct {
	synonyms       map[string]string
	approved       map[string]bool
	entityFields   []string
	categoryFields map[Category]string
	fieldCategory  map[string]Category
	priority       []Category
	stoplist       map[string]bool
	ageField       string
	agePatterns    []AgePattern
	boolInts       map[string]BoolInt
	tagFields      map[Language]string
	personLabel    string
	personAlias    string
	ownsRelation   string
	spec           Spec
}

// Synonym looks up a phrase in the synonym table.
// The lookup is case-insensitive and ignores surrounding whitespace.
func (v *Vocabulary) Synonym(phrase string) (string, bool) {
	field, ok := v.synonyms[Fold(phrase)]
	return field, ok
}

// IsApproved reports whether field is an approved entity or value field.
func (v *Vocabulary) IsApproved(field string) bool {
	return v.approved[field]
}

// EntityFields returns the approved Double-level fields, sorted.
func (v *Vocabulary) EntityFields() []string {
	return slices.Clone(v.entityFields)
}

// CategoryField returns the value field of a category.
func (v *Vocabulary) CategoryField(c Category) (string, bool) {
	field, ok := v.categoryFields[c]
	return field, ok
}

// CategoryForField returns the category whose value field is field.
// Shared fields resolve to the category that comes first in Priority.
func (v *Vocabulary) CategoryForField(field string) (Category, bool) {
	c, ok := v.fieldCategory[field]
	return c, ok
}

// Priority returns the categories in classification and emission order.
func (v *Vocabulary) Priority() []Category {
	return slices.Clone(v.priority)
}

// Rank returns the position of c in Priority, or len(Priority) if absent.
func (v *Vocabulary) Rank(c Category) int {
	if i := slices.Index(v.priority, c); i >= 0 {
		return i
	}
	return len(v.priority)
}

// IsStructural reports whether term is on the structural-term stoplist.
func (v *Vocabulary) IsStructural(term string) bool {
	return v.stoplist[Fold(term)]
}

// AgeField is the canonical field holding a person's age.
func (v *Vocabulary) AgeField() string {
	return v.ageField
}

// AgePatterns returns the ordered age backstop patterns.
func (v *Vocabulary) AgePatterns() []AgePattern {
	return slices.Clone(v.agePatterns)
}

// BoolInt returns the integer mapping for a boolean field stored as 0/1.
func (v *Vocabulary) BoolInt(field string) (BoolInt, bool) {
	m, ok := v.boolInts[field]
	return m, ok
}

// TagField returns the tag attribute searched for the given language.
func (v *Vocabulary) TagField(lang Language) string {
	if f, ok := v.tagFields[lang]; ok {
		return f
	}
	return v.tagFields[English]
}

// PersonLabel is the node label of the person entity ("Double").
func (v *Vocabulary) PersonLabel() string { return v.personLabel }

// PersonAlias is the alias bound to the person node ("d").
func (v *Vocabulary) PersonAlias() string { return v.personAlias }

// OwnsRelation is the relationship type from person to product ("OWNS").
func (v *Vocabulary) OwnsRelation() string { return v.ownsRelation }

// Spec returns a copy of the document this vocabulary was built from.
func (v *Vocabulary) Spec() Spec {
	return v.spec.clone()
}
