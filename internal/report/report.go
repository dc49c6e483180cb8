// Package report renders run outcomes for people: one block per recovered
// assertion failure on stdout, and a short trace for the error that ended a
// run on stderr.
package report

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/roach88/assertrun/internal/engine"
	"github.com/roach88/assertrun/internal/parser"
	"github.com/roach88/assertrun/internal/source"
)

// Options configures a Reporter.
type Options struct {
	// Out receives failure blocks. Default: os.Stdout.
	Out io.Writer

	// Err receives fatal traces. Default: os.Stderr.
	Err io.Writer

	// Color highlights headers with ANSI escapes. Off unless set.
	Color bool

	// Logger records write errors at debug level. Default: slog.Default().
	Logger *slog.Logger
}

// Reporter writes failure blocks. It implements engine.Reporter.
type Reporter struct {
	out    io.Writer
	err    io.Writer
	header *color.Color
	fatal  *color.Color
	logger *slog.Logger
}

var _ engine.Reporter = (*Reporter)(nil)

// New creates a Reporter from opts.
func New(opts Options) *Reporter {
	r := &Reporter{
		out:    opts.Out,
		err:    opts.Err,
		header: color.New(color.FgRed, color.Bold),
		fatal:  color.New(color.FgRed),
		logger: opts.Logger,
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.err == nil {
		r.err = os.Stderr
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	// Decided per reporter so the global color.NoColor never leaks in.
	if opts.Color {
		r.header.EnableColor()
		r.fatal.EnableColor()
	} else {
		r.header.DisableColor()
		r.fatal.DisableColor()
	}
	return r
}

// Report writes one failure block:
//
//	Assertion failed on line <n> :
//	<source text of line n>
//	<message, only when present>
//	<blank line>
//
// lines is 1-indexed; a line outside the table prints as empty. Write
// errors are logged and otherwise ignored so later failures still report.
func (r *Reporter) Report(line int, lines []string, message string, hasMessage bool) {
	text := ""
	if line > 0 && line < len(lines) {
		text = lines[line]
	}

	w := &errWriter{w: r.out}
	w.printf("%s\n", r.header.Sprintf("Assertion failed on line %d :", line))
	w.printf("%s\n", text)
	if hasMessage {
		w.printf("%s\n", message)
	}
	w.printf("\n")

	if w.err != nil {
		r.logger.Debug("failed to write failure report", "line", line, "error", w.err)
	}
}

// Fatal writes the trace for the error that ended a run:
//
//	File "<name>", line <n>
//	<source text of line n>
//	<Kind>: <message>
//
// Syntax errors also get a caret under the offending column. Errors that
// carry no line print only their description.
func (r *Reporter) Fatal(err error, file *source.File) {
	if err == nil {
		return
	}
	w := &errWriter{w: r.err}
	name := "<unknown>"
	if file != nil {
		name = file.Name
	}

	var (
		synErr   *parser.SyntaxError
		rtErr    *engine.RuntimeError
		stepsErr *engine.StepsExceededError
	)
	switch {
	case errors.As(err, &synErr):
		w.printf("File \"%s\", line %d\n", name, synErr.Line)
		if file != nil && synErr.Line > 0 {
			w.printf("    %s\n", file.Line(synErr.Line))
			if synErr.Col > 0 {
				w.printf("    %*s^\n", synErr.Col-1, "")
			}
		}
		w.printf("%s\n", r.fatal.Sprintf("SyntaxError: %s", synErr.Msg))

	case errors.As(err, &rtErr):
		r.location(w, name, file, rtErr.Line)
		w.printf("%s\n", r.fatal.Sprintf("%s: %s", rtErr.Kind, rtErr.Message))

	case errors.As(err, &stepsErr):
		r.location(w, name, file, stepsErr.Line)
		w.printf("%s\n", r.fatal.Sprintf("StepsExceeded: %d steps > %d limit", stepsErr.Steps, stepsErr.Limit))

	default:
		w.printf("%s\n", r.fatal.Sprintf("Error: %v", err))
	}

	if w.err != nil {
		r.logger.Debug("failed to write fatal trace", "error", w.err)
	}
}

func (r *Reporter) location(w *errWriter, name string, file *source.File, line int) {
	if line <= 0 {
		return
	}
	w.printf("File \"%s\", line %d\n", name, line)
	if file != nil {
		w.printf("    %s\n", file.Line(line))
	}
}

// errWriter keeps the first write error and skips writes after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
