package engine

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/assertrun/internal/parser"
	"github.com/roach88/assertrun/internal/rewrite"
	"github.com/roach88/assertrun/internal/source"
	"github.com/roach88/assertrun/internal/value"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// reportCall captures one Reporter.Report invocation.
type reportCall struct {
	Line       int
	Source     string
	Message    string
	HasMessage bool
}

type recordingReporter struct {
	calls []reportCall
}

func (r *recordingReporter) Report(line int, lines []string, message string, hasMessage bool) {
	src := ""
	if line > 0 && line < len(lines) {
		src = lines[line]
	}
	r.calls = append(r.calls, reportCall{Line: line, Source: src, Message: message, HasMessage: hasMessage})
}

type runOutput struct {
	executor *Executor
	result   *Result
	err      error
	reports  *recordingReporter
	stdout   *strings.Builder
}

// runSource parses, rewrites and runs src with deterministic settings.
func runSource(t *testing.T, src string, opts ...Option) runOutput {
	t.Helper()
	file := source.New("test.py", src)
	prog, err := parser.Parse(file)
	require.NoError(t, err)

	out := runOutput{reports: &recordingReporter{}, stdout: &strings.Builder{}}
	base := []Option{
		WithLogger(discardLogger()),
		WithRunIDGenerator(NewFixedGenerator("run-1")),
		WithReporter(out.reports),
		WithStdout(out.stdout),
		WithSeed(7),
	}
	out.executor = New(file, append(base, opts...)...)
	out.result, out.err = out.executor.Run(context.Background(), rewrite.Rewrite(prog))
	return out
}

// lookup returns the repr of a binding after a run.
func (o runOutput) lookup(t *testing.T, name string) string {
	t.Helper()
	v, ok := o.executor.Env().Get(name)
	require.True(t, ok, "name %q not bound", name)
	return value.Repr(v)
}
