package vocab

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
)

// Validation error codes (E100-E199)
const (
	// Table errors (E101-E104)
	ErrEmptySynonym     = "E101" // synonym phrase or target is empty
	ErrEmptyEntityField = "E102" // entity field name is empty
	ErrUnknownCategory  = "E103" // category outside the closed set
	ErrEmptyValueField  = "E104" // category has no value field

	// Priority errors (E105-E106)
	ErrInvalidPriority = "E105" // unknown or duplicate priority entry
	ErrMissingPriority = "E106" // category in table but absent from priority

	// Age backstop errors (E107-E109)
	ErrEmptyAgeField     = "E107" // age field is empty
	ErrInvalidAgePattern = "E108" // pattern does not compile or has no capture group
	ErrInvalidAgeOp      = "E109" // op is neither ">" nor "<"

	// Remaining tables (E110-E113)
	ErrEmptyBoolField  = "E110" // bool_int entry without field name
	ErrInvalidTagField = "E111" // tag field missing or for an unknown language
	ErrInvalidGraph    = "E112" // graph label, alias or relation invalid
	ErrEmptyStopTerm   = "E113" // stoplist contains an empty term
)

// ValidationError represents a vocabulary validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// New validates spec and builds a Vocabulary from it.
// Returns all errors found (does not fail-fast); the vocabulary is nil
// whenever errors are returned.
func New(spec Spec) (*Vocabulary, []ValidationError) {
	var errs []ValidationError
	add := func(code, field, format string, args ...any) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    code,
		})
	}

	v := &Vocabulary{
		synonyms:       make(map[string]string, len(spec.Synonyms)),
		approved:       make(map[string]bool),
		categoryFields: make(map[Category]string, len(spec.Categories)),
		fieldCategory:  make(map[string]Category),
		stoplist:       make(map[string]bool, len(spec.Stoplist)),
		boolInts:       make(map[string]BoolInt, len(spec.BoolInt)),
		tagFields:      make(map[Language]string, len(spec.TagFields)),
		ageField:       spec.AgeField,
		personLabel:    spec.Graph.PersonLabel,
		personAlias:    spec.Graph.PersonAlias,
		ownsRelation:   spec.Graph.OwnsRelation,
		spec:           spec.clone(),
	}

	for phrase, field := range spec.Synonyms {
		key := Fold(phrase)
		if key == "" || strings.TrimSpace(field) == "" {
			add(ErrEmptySynonym, "synonyms."+phrase, "synonym phrase and target field must be non-empty")
			continue
		}
		v.synonyms[key] = field
	}

	for i, field := range spec.EntityFields {
		if strings.TrimSpace(field) == "" {
			add(ErrEmptyEntityField, fmt.Sprintf("entity_fields[%d]", i), "entity field must be non-empty")
			continue
		}
		if !v.approved[field] {
			v.entityFields = append(v.entityFields, field)
		}
		v.approved[field] = true
	}
	sort.Strings(v.entityFields)

	for name, field := range spec.Categories {
		c := Category(name)
		if !c.IsKnown() {
			add(ErrUnknownCategory, "categories."+name, "unknown category %q (known: %v)", name, Categories)
			continue
		}
		if strings.TrimSpace(field) == "" {
			add(ErrEmptyValueField, "categories."+name, "category %q has no value field", name)
			continue
		}
		v.categoryFields[c] = field
		v.approved[field] = true
	}

	for i, name := range spec.Priority {
		c := Category(name)
		switch {
		case !c.IsKnown():
			add(ErrInvalidPriority, fmt.Sprintf("priority[%d]", i), "unknown category %q", name)
		case slices.Contains(v.priority, c):
			add(ErrInvalidPriority, fmt.Sprintf("priority[%d]", i), "duplicate category %q", name)
		default:
			v.priority = append(v.priority, c)
		}
	}
	for _, c := range Categories {
		if _, ok := v.categoryFields[c]; ok && !slices.Contains(v.priority, c) {
			add(ErrMissingPriority, "priority", "category %q has a value field but no priority", c)
		}
	}
	for _, c := range v.priority {
		field, ok := v.categoryFields[c]
		if !ok {
			continue
		}
		if _, taken := v.fieldCategory[field]; !taken {
			v.fieldCategory[field] = c
		}
	}

	for i, term := range spec.Stoplist {
		key := Fold(term)
		if key == "" {
			add(ErrEmptyStopTerm, fmt.Sprintf("stoplist[%d]", i), "stoplist term must be non-empty")
			continue
		}
		v.stoplist[key] = true
	}

	if strings.TrimSpace(spec.AgeField) == "" {
		add(ErrEmptyAgeField, "age_field", "age field must be non-empty")
	}
	for i, p := range spec.AgePatterns {
		field := fmt.Sprintf("age_patterns[%d]", i)
		re, err := regexp.Compile("(?i)" + p.Pattern)
		if err != nil {
			add(ErrInvalidAgePattern, field, "pattern %q does not compile: %v", p.Pattern, err)
			continue
		}
		if re.NumSubexp() < 1 {
			add(ErrInvalidAgePattern, field, "pattern %q must capture the age", p.Pattern)
			continue
		}
		op := Comparison(p.Op)
		if op != GreaterThan && op != LessThan {
			add(ErrInvalidAgeOp, field, "op %q must be %q or %q", p.Op, GreaterThan, LessThan)
			continue
		}
		v.agePatterns = append(v.agePatterns, AgePattern{Pattern: re, Op: op})
	}

	for field, m := range spec.BoolInt {
		if strings.TrimSpace(field) == "" {
			add(ErrEmptyBoolField, "bool_int", "bool_int entry needs a field name")
			continue
		}
		v.boolInts[field] = m
	}

	for lang, field := range spec.TagFields {
		l := Language(lang)
		if l != English && l != German {
			add(ErrInvalidTagField, "tag_fields."+lang, "unknown language %q", lang)
			continue
		}
		if strings.TrimSpace(field) == "" {
			add(ErrInvalidTagField, "tag_fields."+lang, "tag field must be non-empty")
			continue
		}
		v.tagFields[l] = field
	}
	for _, l := range []Language{English, German} {
		if _, ok := v.tagFields[l]; !ok {
			add(ErrInvalidTagField, "tag_fields", "missing tag field for language %q", l)
		}
	}

	graph := map[string]string{
		"graph.person_label":  spec.Graph.PersonLabel,
		"graph.person_alias":  spec.Graph.PersonAlias,
		"graph.owns_relation": spec.Graph.OwnsRelation,
	}
	for _, field := range []string{"graph.person_label", "graph.person_alias", "graph.owns_relation"} {
		if !identPattern.MatchString(graph[field]) {
			add(ErrInvalidGraph, field, "%q is not a plain identifier", graph[field])
		}
	}

	if len(errs) > 0 {
		sort.SliceStable(errs, func(i, j int) bool {
			if errs[i].Code != errs[j].Code {
				return errs[i].Code < errs[j].Code
			}
			return errs[i].Field < errs[j].Field
		})
		return nil, errs
	}
	return v, nil
}
