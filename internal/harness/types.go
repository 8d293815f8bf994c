package harness

import "github.com/roach88/doublesearch/internal/compiler"

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all assertions hold.
	Pass bool `json:"pass"`

	// Compiled is the query the assertions ran against.
	Compiled *compiler.CompiledQuery `json:"compiled"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(cq *compiler.CompiledQuery) *Result {
	return &Result{
		Pass:     true,
		Compiled: cq,
		Errors:   []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
