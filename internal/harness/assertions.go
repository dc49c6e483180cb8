package harness

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/assertrun/internal/engine"
	"github.com/roach88/assertrun/internal/parser"
)

// AssertionError describes a scenario assertion that did not hold.
type AssertionError struct {
	Type     string           // assertion type
	Expected string           // what the scenario asked for
	Actual   string           // what the run produced
	Failures []engine.Failure // every failure the run reported
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Failures) > 0 {
		fmt.Fprintf(&buf, "\nReported failures:\n")
		for _, f := range e.Failures {
			fmt.Fprintf(&buf, "  line %d: %s\n", f.Line, f.Message)
		}
	}
	return buf.String()
}

func assertFailureAt(result *Result, a Assertion) error {
	failures := result.Failures()
	for _, f := range failures {
		if f.Line != a.Line {
			continue
		}
		switch {
		case a.NoMessage && f.HasMessage:
			return &AssertionError{
				Type:     AssertFailureAt,
				Expected: fmt.Sprintf("failure on line %d without a message", a.Line),
				Actual:   fmt.Sprintf("message %q", f.Message),
				Failures: failures,
			}
		case a.Message != nil && (!f.HasMessage || f.Message != *a.Message):
			return &AssertionError{
				Type:     AssertFailureAt,
				Expected: fmt.Sprintf("failure on line %d with message %q", a.Line, *a.Message),
				Actual:   describeMessage(f),
				Failures: failures,
			}
		}
		return nil
	}
	return &AssertionError{
		Type:     AssertFailureAt,
		Expected: fmt.Sprintf("failure on line %d", a.Line),
		Actual:   "no failure reported for that line",
		Failures: failures,
	}
}

func describeMessage(f engine.Failure) string {
	if !f.HasMessage {
		return "no message"
	}
	return fmt.Sprintf("message %q", f.Message)
}

func assertFailureCount(result *Result, a Assertion) error {
	failures := result.Failures()
	if len(failures) != *a.Count {
		return &AssertionError{
			Type:     AssertFailureCount,
			Expected: fmt.Sprintf("%d failures", *a.Count),
			Actual:   fmt.Sprintf("%d failures", len(failures)),
			Failures: failures,
		}
	}
	return nil
}

func assertExecuted(result *Result, a Assertion) error {
	executed := 0
	if result.Run != nil {
		executed = result.Run.Executed
	}
	if executed != *a.Count {
		return &AssertionError{
			Type:     AssertExecuted,
			Expected: fmt.Sprintf("%d statements executed", *a.Count),
			Actual:   fmt.Sprintf("%d statements executed", executed),
		}
	}
	return nil
}

// fatalKind names the kind and line of the error that ended a run.
func fatalKind(err error) (string, int) {
	var se *parser.SyntaxError
	if errors.As(err, &se) {
		return "SyntaxError", se.Line
	}
	if engine.IsStepsExceededError(err) {
		return "StepsExceeded", engine.ErrorLine(err)
	}
	var re *engine.RuntimeError
	if errors.As(err, &re) {
		return string(re.Kind), re.Line
	}
	return "Error", 0
}

func assertFatal(result *Result, a Assertion) error {
	if result.Fatal == nil {
		return &AssertionError{
			Type:     AssertFatal,
			Expected: fmt.Sprintf("fatal %s", a.Kind),
			Actual:   "run completed",
			Failures: result.Failures(),
		}
	}
	kind, line := fatalKind(result.Fatal)
	if kind != a.Kind || (a.Line > 0 && line != a.Line) {
		expected := "fatal " + a.Kind
		if a.Line > 0 {
			expected += fmt.Sprintf(" on line %d", a.Line)
		}
		return &AssertionError{
			Type:     AssertFatal,
			Expected: expected,
			Actual:   fmt.Sprintf("fatal %s on line %d: %v", kind, line, result.Fatal),
			Failures: result.Failures(),
		}
	}
	return nil
}

func assertBinding(result *Result, a Assertion) error {
	got, ok := result.Bindings[a.Name]
	if !ok {
		return &AssertionError{
			Type:     AssertBinding,
			Expected: fmt.Sprintf("%s = %s", a.Name, a.Repr),
			Actual:   fmt.Sprintf("%s is not bound", a.Name),
		}
	}
	if got != a.Repr {
		return &AssertionError{
			Type:     AssertBinding,
			Expected: fmt.Sprintf("%s = %s", a.Name, a.Repr),
			Actual:   fmt.Sprintf("%s = %s", a.Name, got),
		}
	}
	return nil
}

func assertOutput(result *Result, a Assertion) error {
	if result.Output != *a.Text {
		return &AssertionError{
			Type:     AssertOutput,
			Expected: fmt.Sprintf("%q", *a.Text),
			Actual:   fmt.Sprintf("%q", result.Output),
			Failures: result.Failures(),
		}
	}
	return nil
}

// EvaluateAssertions checks every assertion against result and returns one
// message per assertion that did not hold. A fatal error with no fatal
// assertion expecting it is reported as well.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	expectsFatal := false

	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertFailureAt:
			err = assertFailureAt(result, a)
		case AssertFailureCount:
			err = assertFailureCount(result, a)
		case AssertExecuted:
			err = assertExecuted(result, a)
		case AssertFatal:
			expectsFatal = true
			err = assertFatal(result, a)
		case AssertBinding:
			err = assertBinding(result, a)
		case AssertOutput:
			err = assertOutput(result, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	if result.Fatal != nil && !expectsFatal {
		errs = append(errs, fmt.Sprintf("unexpected fatal error: %v", result.Fatal))
	}
	return errs
}
