package vocab

import (
	"maps"
	"slices"
)

// Spec is the serializable form of a Vocabulary. It is what a CUE
// vocabulary document decodes into and what `vocab dump` prints.
type Spec struct {
	Synonyms     map[string]string  `json:"synonyms" yaml:"synonyms"`
	EntityFields []string           `json:"entity_fields" yaml:"entity_fields"`
	Categories   map[string]string  `json:"categories" yaml:"categories"`
	Priority     []string           `json:"priority" yaml:"priority"`
	Stoplist     []string           `json:"stoplist" yaml:"stoplist"`
	AgeField     string             `json:"age_field" yaml:"age_field"`
	AgePatterns  []AgePatternSpec   `json:"age_patterns" yaml:"age_patterns"`
	BoolInt      map[string]BoolInt `json:"bool_int" yaml:"bool_int"`
	TagFields    map[string]string  `json:"tag_fields" yaml:"tag_fields"`
	Graph        GraphSpec          `json:"graph" yaml:"graph"`
}

// AgePatternSpec is an uncompiled age pattern. Patterns are matched
// case-insensitively against the raw query text.
type AgePatternSpec struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Op      string `json:"op" yaml:"op"`
}

// GraphSpec names the person node and the ownership relation.
type GraphSpec struct {
	PersonLabel  string `json:"person_label" yaml:"person_label"`
	PersonAlias  string `json:"person_alias" yaml:"person_alias"`
	OwnsRelation string `json:"owns_relation" yaml:"owns_relation"`
}

func (s Spec) clone() Spec {
	out := s
	out.Synonyms = maps.Clone(s.Synonyms)
	out.EntityFields = slices.Clone(s.EntityFields)
	out.Categories = maps.Clone(s.Categories)
	out.Priority = slices.Clone(s.Priority)
	out.Stoplist = slices.Clone(s.Stoplist)
	out.AgePatterns = slices.Clone(s.AgePatterns)
	out.BoolInt = maps.Clone(s.BoolInt)
	out.TagFields = maps.Clone(s.TagFields)
	return out
}

// DefaultSpec returns the vocabulary of the Doubles profile graph.
func DefaultSpec() Spec {
	return Spec{
		Synonyms: map[string]string{
			"age":                  "p_age_2023",
			"income":               "p_gross_income",
			"gross income":         "p_gross_income",
			"expenses":             "p_expenses",
			"leisure spending":     "p_leis_exp",
			"savings":              "p_bank_sav",
			"bank balance":         "p_bank_sav",
			"account balance":      "p_bank_sav",
			"homeowner":            "p_i_homeowner",
			"property owner":       "p_i_homeowner",
			"own property":         "p_i_homeowner",
			"owns property":        "p_i_homeowner",
			"property ownership":   "p_i_homeowner",
			"home ownership":       "p_i_homeowner",
			"investment":           "p_val_investment",
			"investment value":     "p_val_investment",
			"pension":              "p_pens_sav",
			"pension savings":      "p_pens_sav",
			"occupational pension": "p_pens_sav",
			"insurance":            "p_insur_exp",
			"insurance cost":       "p_insur_exp",
			"property value":       "p_prop_total_value",
			"property savings":     "p_prop_total_value",
			"bank deposits":        "p_holding_bank_deposits_2023",
		},
		EntityFields: []string{
			"p_age_2023",
			"p_bank_sav",
			"p_expenses",
			"p_gross_income",
			"p_holding_bank_deposits_2023",
			"p_i_homeowner",
			"p_i_male",
			"p_leis_exp",
		},
		Categories: map[string]string{
			string(Property):          "p_prop_total_value",
			string(InvestmentAccount): "p_val_investment",
			string(BankAccount):       "p_holding_bank_deposits_2023",
			string(OccuPension):       "p_pens_sav",
			string(PrivatePension):    "p_pens_sav",
			string(Insurance):         "p_insur_exp",
		},
		Priority: []string{
			string(Property),
			string(InvestmentAccount),
			string(BankAccount),
			string(OccuPension),
			string(PrivatePension),
			string(Insurance),
		},
		Stoplist: []string{
			"property", "investment", "pension", "insurance", "income",
			"age", "savings", "expenses", "value", "worth", "money",
			"homeowner", "euros", "euro",
			"eigentum", "investition", "versicherung", "einkommen", "geld",
			"ersparnisse", "ausgaben", "alter", "hausbesitzer", "rente",
		},
		AgeField: "p_age_2023",
		AgePatterns: []AgePatternSpec{
			{Pattern: `\bover\s+(\d+)`, Op: ">"},
			{Pattern: `\babove\s+(\d+)`, Op: ">"},
			{Pattern: `\bolder\s+than\s+(\d+)`, Op: ">"},
			{Pattern: `\bmore\s+than\s+(\d+)\s+years?\s+old`, Op: ">"},
			{Pattern: `\bunder\s+(\d+)`, Op: "<"},
			{Pattern: `\bbelow\s+(\d+)`, Op: "<"},
			{Pattern: `\byounger\s+than\s+(\d+)`, Op: "<"},
			{Pattern: `\bless\s+than\s+(\d+)\s+years?\s+old`, Op: "<"},
			{Pattern: `(?:^|\s)über\s+(\d+)`, Op: ">"},
			{Pattern: `älter\s+als\s+(\d+)`, Op: ">"},
			{Pattern: `(?:^|\s)unter\s+(\d+)`, Op: "<"},
			{Pattern: `jünger\s+als\s+(\d+)`, Op: "<"},
		},
		BoolInt: map[string]BoolInt{
			"p_i_homeowner": {True: 1, False: 0},
		},
		TagFields: map[string]string{
			string(English): "tags_en",
			string(German):  "tags_de",
		},
		Graph: GraphSpec{
			PersonLabel:  "Double",
			PersonAlias:  "d",
			OwnsRelation: "OWNS",
		},
	}
}

// Default returns the vocabulary built from DefaultSpec.
// It panics if the built-in spec fails validation.
func Default() *Vocabulary {
	v, errs := New(DefaultSpec())
	if len(errs) > 0 {
		panic("vocab: default spec invalid: " + errs[0].Error())
	}
	return v
}
