package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/roach88/assertrun/internal/ast"
	"github.com/roach88/assertrun/internal/source"
)

// Reporter receives each recovered assertion failure as it happens.
// lines is the file's 1-indexed line table (index 0 is a placeholder).
type Reporter interface {
	Report(line int, lines []string, message string, hasMessage bool)
}

// Executor runs the top-level statements of one program, each in isolation.
//
// Statements execute in source order, exactly once, against one shared Env.
// An *AssertionFailure ends only the statement that raised it: it is
// recorded, handed to the Reporter, and the next statement runs. Any other
// error ends the run and is returned unchanged.
//
// An Executor is not safe for concurrent use.
type Executor struct {
	file     *source.File
	env      *Env
	reporter Reporter
	clock    Sequencer
	runIDs   RunIDGenerator
	logger   *slog.Logger
	stdout   io.Writer
	seed     uint64
	maxSteps int
}

// Option configures an Executor.
type Option func(*Executor)

// WithReporter sets the failure reporter. Without one, failures are only
// recorded in the Result.
func WithReporter(r Reporter) Option {
	return func(x *Executor) { x.reporter = r }
}

// WithClock sets the clock that stamps trace events. Default: NewClock().
func WithClock(c Sequencer) Option {
	return func(x *Executor) { x.clock = c }
}

// WithRunIDGenerator sets the run ID source. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(x *Executor) { x.runIDs = g }
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(x *Executor) { x.logger = l }
}

// WithStdout sets where print() writes. Default: os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(x *Executor) { x.stdout = w }
}

// WithSeed seeds the random module. Default: a random seed.
func WithSeed(seed uint64) Option {
	return func(x *Executor) { x.seed = seed }
}

// WithMaxSteps sets the loop-iteration budget per top-level statement.
// Zero disables the limit. Default: DefaultMaxSteps.
func WithMaxSteps(n int) Option {
	return func(x *Executor) { x.maxSteps = n }
}

// WithEnv runs statements against env instead of a fresh NewEnv().
func WithEnv(env *Env) Option {
	return func(x *Executor) { x.env = env }
}

// New creates an Executor for statements parsed from file. The file supplies
// the source lines quoted in failure reports.
func New(file *source.File, opts ...Option) *Executor {
	x := &Executor{
		file:     file,
		env:      NewEnv(),
		clock:    NewClock(),
		runIDs:   UUIDv7Generator{},
		logger:   slog.Default(),
		stdout:   os.Stdout,
		seed:     rand.Uint64(),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Env returns the environment statements run against.
func (x *Executor) Env() *Env {
	return x.env
}

// Run executes prog's top-level statements.
//
// The returned error is nil when every statement was visited, however many
// assertions failed. Otherwise it is the fatal error exactly as raised (a
// *RuntimeError or *StepsExceededError with Line set to the offending
// statement), or the context error if ctx was cancelled between statements.
func (x *Executor) Run(ctx context.Context, prog *ast.Program) (*Result, error) {
	if prog == nil {
		prog = &ast.Program{}
	}
	res := newResult(x.runIDs.Generate())
	log := x.logger.With("run_id", res.RunID)
	in := newInterpreter(x.env, x.stdout, x.seed)

	log.Debug("run starting", "file", x.file.Name, "lines", x.file.LineCount(), "statements", len(prog.Body))

	for _, stmt := range prog.Body {
		if err := ctx.Err(); err != nil {
			log.Debug("run stopping: context cancelled")
			return res, fmt.Errorf("run cancelled: %w", err)
		}

		line := stmt.Position().Line
		res.addEvent(TraceEvent{Type: EventStmtStart, Seq: x.clock.Next(), Line: line})

		in.ctx = ctx
		in.quota = NewQuotaEnforcer(x.maxSteps)
		err := x.execute(in, stmt)
		res.Executed++
		seq := x.clock.Next()

		if err == nil {
			res.addEvent(TraceEvent{Type: EventStmtEnd, Seq: seq, Line: line, Outcome: StateSucceeded})
			log.Debug("statement finished", "line", line, "seq", seq, "outcome", StateSucceeded)
			continue
		}

		var af *AssertionFailure
		if errors.As(err, &af) {
			res.Failures = append(res.Failures, Failure{
				Line:       line,
				Source:     x.file.Line(line),
				Message:    af.Message,
				HasMessage: af.HasMessage,
			})
			res.addEvent(TraceEvent{Type: EventStmtEnd, Seq: seq, Line: line, Outcome: StateFailed, Message: af.Message})
			log.Debug("statement finished", "line", line, "seq", seq, "outcome", StateFailed)
			if x.reporter != nil {
				x.reporter.Report(line, x.file.Lines, af.Message, af.HasMessage)
			}
			continue
		}

		annotateLine(err, line)
		res.addEvent(TraceEvent{Type: EventStmtEnd, Seq: seq, Line: line, Outcome: StateAborted, Message: err.Error()})
		log.Error("statement raised a fatal error", "line", line, "seq", seq, "error", err)
		return res, err
	}

	log.Debug("run finished", "statements", res.Executed, "failures", len(res.Failures))
	return res, nil
}

// execute runs one statement, converting a panic into a fatal RuntimeError.
func (x *Executor) execute(in *interpreter, stmt ast.Stmt) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newRuntimeError(KindInternal, "panic: %v", r)
		}
	}()
	return in.exec(stmt)
}

func annotateLine(err error, line int) {
	var re *RuntimeError
	if errors.As(err, &re) && re.Line == 0 {
		re.Line = line
	}
	var se *StepsExceededError
	if errors.As(err, &se) && se.Line == 0 {
		se.Line = line
	}
}

// ErrorLine returns the statement line recorded on a fatal run error, or 0.
func ErrorLine(err error) int {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Line
	}
	var se *StepsExceededError
	if errors.As(err, &se) {
		return se.Line
	}
	return 0
}
