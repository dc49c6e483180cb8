package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/assertrun/internal/engine"
	"github.com/roach88/assertrun/internal/parser"
	"github.com/roach88/assertrun/internal/report"
	"github.com/roach88/assertrun/internal/rewrite"
	"github.com/roach88/assertrun/internal/source"
	"github.com/roach88/assertrun/internal/testutil"
	"github.com/roach88/assertrun/internal/value"
)

// Harness runs scenarios with a deterministic clock and run ID.
type Harness struct {
	clock  *testutil.DeterministicClock
	runIDs *testutil.FixedRunIDGenerator
	logger *slog.Logger
}

// Run executes a scenario through the full pipeline (parse, rewrite,
// execute, report) and evaluates its assertions.
//
// The returned error is reserved for problems with the scenario itself.
// Whatever the program does, including failing to parse, is captured in the
// Result.
func Run(scenario *Scenario) (*Result, error) {
	if scenario == nil {
		return nil, errors.New("nil scenario")
	}
	h := &Harness{
		clock:  testutil.NewDeterministicClock(),
		runIDs: testutil.NewFixedRunIDGenerator(scenario.RunID),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // quiet in tests
	}

	result := NewResult()
	if err := h.execute(context.Background(), scenario, result); err != nil {
		return nil, fmt.Errorf("failed to execute scenario %s: %w", scenario.Name, err)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) execute(ctx context.Context, scenario *Scenario, result *Result) error {
	name := scenario.SourceFile
	if name == "" {
		name = scenario.Name + ".py"
	}
	file := source.New(name, scenario.Source)

	prog, err := parser.Parse(file)
	if err != nil {
		if !parser.IsSyntaxError(err) {
			return err
		}
		result.Fatal = err
		return nil
	}

	var output, stdout strings.Builder
	rep := report.New(report.Options{Out: &output, Logger: h.logger})

	opts := []engine.Option{
		engine.WithReporter(rep),
		engine.WithClock(h.clock),
		engine.WithRunIDGenerator(h.runIDs),
		engine.WithLogger(h.logger),
		engine.WithStdout(&stdout),
		engine.WithSeed(scenario.Seed),
	}
	if scenario.MaxSteps > 0 {
		opts = append(opts, engine.WithMaxSteps(scenario.MaxSteps))
	}
	x := engine.New(file, opts...)

	run, runErr := x.Run(ctx, rewrite.Rewrite(prog))
	result.Run = run
	result.Fatal = runErr
	result.Output = output.String()
	result.Stdout = stdout.String()

	env := x.Env()
	for _, n := range env.Names() {
		v, _ := env.Get(n)
		result.Bindings[n] = value.Repr(v)
	}
	return nil
}
