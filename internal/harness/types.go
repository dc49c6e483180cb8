package harness

import (
	"github.com/roach88/assertrun/internal/engine"
)

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Errors holds one message per assertion that did not hold.
	Errors []string `json:"errors,omitempty"`

	// Run is the engine's result. Nil when the source did not parse.
	Run *engine.Result `json:"run,omitempty"`

	// Output is the report text the run wrote for recovered failures.
	Output string `json:"output"`

	// Stdout is what the program itself printed.
	Stdout string `json:"stdout"`

	// Fatal is the error that ended the run, if any.
	Fatal error `json:"-"`

	// Bindings maps each name left in the environment to its repr.
	Bindings map[string]string `json:"bindings,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Errors:   []string{},
		Bindings: make(map[string]string),
	}
}

// AddError records an assertion that did not hold and marks the result failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Failures returns the recovered failures, or nil when the run never started.
func (r *Result) Failures() []engine.Failure {
	if r.Run == nil {
		return nil
	}
	return r.Run.Failures
}
