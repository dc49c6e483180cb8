package engine

import (
	"errors"
	"fmt"
)

// AssertionFailure is raised when an assert condition is falsy or
// assert_equal sees two unequal values. It is the only error the Executor
// recovers from; the run continues with the next statement.
type AssertionFailure struct {
	// Message is the failure text. Only meaningful when HasMessage is set.
	Message string

	// HasMessage distinguishes `assert x` (no message) from `assert x, ""`.
	HasMessage bool
}

// Error implements the error interface.
func (e *AssertionFailure) Error() string {
	if !e.HasMessage {
		return "AssertionError"
	}
	return "AssertionError: " + e.Message
}

// RuntimeError is any failure other than an assertion: undefined names, bad
// operand types, division by zero and the like. It ends the run.
type RuntimeError struct {
	// Kind names the error category, e.g. "NameError".
	Kind RuntimeErrorKind

	// Message is a human-readable description.
	Message string

	// Line is the top-level statement line the error escaped from.
	// Zero until the Executor fills it in.
	Line int
}

// RuntimeErrorKind categorizes runtime errors. Values are the names printed
// in fatal traces.
type RuntimeErrorKind string

const (
	KindNameError         RuntimeErrorKind = "NameError"
	KindTypeError         RuntimeErrorKind = "TypeError"
	KindValueError        RuntimeErrorKind = "ValueError"
	KindZeroDivisionError RuntimeErrorKind = "ZeroDivisionError"
	KindIndexError        RuntimeErrorKind = "IndexError"
	KindKeyError          RuntimeErrorKind = "KeyError"
	KindAttributeError    RuntimeErrorKind = "AttributeError"
	KindImportError       RuntimeErrorKind = "ModuleNotFoundError"
	KindOverflowError     RuntimeErrorKind = "OverflowError"

	// KindInternal marks a panic recovered at a statement boundary.
	KindInternal RuntimeErrorKind = "InternalError"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newRuntimeError(kind RuntimeErrorKind, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsAssertionFailure returns true if err is or wraps an *AssertionFailure.
func IsAssertionFailure(err error) bool {
	var af *AssertionFailure
	return errors.As(err, &af)
}

// IsRuntimeError returns true if err is or wraps a *RuntimeError.
func IsRuntimeError(err error) bool {
	var re *RuntimeError
	return errors.As(err, &re)
}

// IsKind returns true if err is a *RuntimeError of the given kind.
func IsKind(err error, kind RuntimeErrorKind) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Kind == kind
	}
	return false
}

// loopControl carries break/continue out of a loop body. The parser rejects
// both outside loops, so it never reaches the Executor.
type loopControl struct {
	brk bool
}

func (c *loopControl) Error() string {
	if c.brk {
		return "break outside loop"
	}
	return "continue outside loop"
}

var (
	errBreak    = &loopControl{brk: true}
	errContinue = &loopControl{}
)
