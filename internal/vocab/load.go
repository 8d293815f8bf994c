package vocab

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// LoadError represents a failure to read or decode a vocabulary document,
// with the CUE source position when one is known.
type LoadError struct {
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// LoadFile reads a CUE vocabulary document from path.
// See Compile for the document layout.
func LoadFile(path string) (*Vocabulary, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{fmt.Errorf("read vocabulary: %w", err)}
	}
	return Compile(data, path)
}

// Compile parses a CUE vocabulary document and builds a Vocabulary.
//
// The document may define any subset of the Spec fields at the top level;
// fields it leaves out keep their DefaultSpec values. Example:
//
//	priority: ["Property", "InvestmentAccount", "BankAccount",
//		"PrivatePension", "OccuPension", "Insurance"]
//	synonyms: {
//		"net worth": "p_bank_sav"
//	}
//
// Maps given in the document replace the default map wholesale.
// Returns load errors (as *LoadError) or validation errors (as
// ValidationError), never both.
func Compile(src []byte, filename string) (*Vocabulary, []error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, []error{formatCUEError(err)}
	}

	var doc Spec
	if err := value.Decode(&doc); err != nil {
		return nil, []error{formatCUEError(err)}
	}
	spec := overlay(DefaultSpec(), doc)

	v, verrs := New(spec)
	if len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, verr := range verrs {
			verr.Line = lineOf(value, verr.Field)
			errs[i] = verr
		}
		return nil, errs
	}
	return v, nil
}

// overlay replaces every field of base that doc sets.
func overlay(base, doc Spec) Spec {
	if doc.Synonyms != nil {
		base.Synonyms = doc.Synonyms
	}
	if doc.EntityFields != nil {
		base.EntityFields = doc.EntityFields
	}
	if doc.Categories != nil {
		base.Categories = doc.Categories
	}
	if doc.Priority != nil {
		base.Priority = doc.Priority
	}
	if doc.Stoplist != nil {
		base.Stoplist = doc.Stoplist
	}
	if doc.AgeField != "" {
		base.AgeField = doc.AgeField
	}
	if doc.AgePatterns != nil {
		base.AgePatterns = doc.AgePatterns
	}
	if doc.BoolInt != nil {
		base.BoolInt = doc.BoolInt
	}
	if doc.TagFields != nil {
		base.TagFields = doc.TagFields
	}
	if doc.Graph.PersonLabel != "" {
		base.Graph.PersonLabel = doc.Graph.PersonLabel
	}
	if doc.Graph.PersonAlias != "" {
		base.Graph.PersonAlias = doc.Graph.PersonAlias
	}
	if doc.Graph.OwnsRelation != "" {
		base.Graph.OwnsRelation = doc.Graph.OwnsRelation
	}
	return base
}

// lineOf returns the source line of the top-level field a validation
// error refers to, or 0 when it cannot be located.
func lineOf(v cue.Value, field string) int {
	top := field
	for i, r := range field {
		if r == '.' || r == '[' {
			top = field[:i]
			break
		}
	}
	fv := v.LookupPath(cue.ParsePath(top))
	if !fv.Exists() {
		return 0
	}
	if pos := fv.Pos(); pos.IsValid() {
		return pos.Line()
	}
	return 0
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Message: err.Error()}
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &LoadError{
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return &LoadError{Message: first.Error()}
}
