package engine

import (
	"errors"
	"fmt"
)

// DefaultMaxSteps is the default loop-iteration budget per top-level
// statement. It keeps a runaway for-loop from hanging the run.
const DefaultMaxSteps = 1_000_000

// QuotaEnforcer counts loop iterations for one top-level statement and
// enforces the step limit. A fresh enforcer is used for every statement.
type QuotaEnforcer struct {
	maxSteps int
	current  int
}

// NewQuotaEnforcer creates an enforcer with the given limit.
// A limit of zero or less disables the check.
func NewQuotaEnforcer(maxSteps int) *QuotaEnforcer {
	return &QuotaEnforcer{maxSteps: maxSteps}
}

// Check counts one step and returns *StepsExceededError once the limit is
// passed.
func (q *QuotaEnforcer) Check() error {
	q.current++
	if q.maxSteps > 0 && q.current > q.maxSteps {
		return &StepsExceededError{Steps: q.current, Limit: q.maxSteps}
	}
	return nil
}

// Current returns the number of steps counted so far.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// MaxSteps returns the limit.
func (q *QuotaEnforcer) MaxSteps() int {
	return q.maxSteps
}

// StepsExceededError ends the run when a statement loops past its budget.
// Like any non-assertion error it is fatal.
type StepsExceededError struct {
	Line  int
	Steps int
	Limit int
}

// Error implements the error interface.
func (e *StepsExceededError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: exceeded max steps quota: %d steps > %d limit", e.Line, e.Steps, e.Limit)
	}
	return fmt.Sprintf("exceeded max steps quota: %d steps > %d limit", e.Steps, e.Limit)
}

// IsStepsExceededError returns true if err is or wraps a *StepsExceededError.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
