package cli

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"

	"github.com/roach88/assertrun/internal/engine"
	"github.com/roach88/assertrun/internal/parser"
	"github.com/roach88/assertrun/internal/report"
	"github.com/roach88/assertrun/internal/rewrite"
	"github.com/roach88/assertrun/internal/source"
)

// RunOptions holds settings for running TestFile. Only RootOptions come from
// flags; the rest exist for tests.
type RunOptions struct {
	*RootOptions

	// Dir is the directory TestFile is read from. Empty means the working
	// directory.
	Dir string

	// RunIDs overrides the run ID source. Default: engine.UUIDv7Generator.
	RunIDs engine.RunIDGenerator

	// Seed fixes the random seed. Nil picks one per run and logs it.
	Seed *uint64

	// Color forces colored headers on or off. Nil colors them only when
	// writing to a terminal that allows color.
	Color *bool
}

// RunSummary is the --format json payload of a completed or stopped run.
type RunSummary struct {
	File string `json:"file"`
	*engine.Result
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// runFile loads TestFile, parses and rewrites it, and executes it statement
// by statement. In text mode failures are reported on stdout as they occur
// and a fatal error is traced on stderr. In JSON mode a single response is
// written to stdout at the end.
func runFile(ctx context.Context, opts *RunOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(stderr, opts.Verbose)
	slog.SetDefault(logger)

	jsonOut := opts.Format == "json"
	out := &OutputFormatter{Format: opts.Format, Writer: stdout}
	if !jsonOut {
		out.Writer = stderr
	}
	rep := report.New(report.Options{
		Out:    stdout,
		Err:    stderr,
		Color:  useColor(opts, stdout),
		Logger: logger,
	})

	path := filepath.Join(opts.Dir, TestFile)
	logger.Debug("loading test file", "path", path)
	file, err := source.Load(path)
	if err != nil {
		_ = out.Error(ErrCodeReadFile, err.Error(), map[string]any{"file": path})
		return WrapExitError(ExitCommandError, "cannot read test file", err)
	}

	prog, err := parser.Parse(file)
	if err != nil {
		if jsonOut {
			_ = out.Error(ErrCodeSyntax, err.Error(), map[string]any{"file": path})
		} else {
			rep.Fatal(err, file)
		}
		return WrapExitError(ExitFailure, "syntax error", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := rand.Uint64()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	logger.Debug("random seed", "seed", seed)

	execOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithSeed(seed),
	}
	if opts.RunIDs != nil {
		execOpts = append(execOpts, engine.WithRunIDGenerator(opts.RunIDs))
	}
	if jsonOut {
		// Keep stdout a single JSON document.
		execOpts = append(execOpts, engine.WithStdout(stderr))
	} else {
		execOpts = append(execOpts, engine.WithStdout(stdout), engine.WithReporter(rep))
	}

	x := engine.New(file, execOpts...)
	result, err := x.Run(ctx, rewrite.Rewrite(prog))
	if err != nil {
		if jsonOut {
			_ = out.Error(ErrCodeRuntime, err.Error(), RunSummary{File: path, Result: result})
		} else {
			rep.Fatal(err, file)
		}
		return WrapExitError(ExitFailure, "run stopped", err)
	}

	if jsonOut {
		return out.Success(RunSummary{File: path, Result: result})
	}
	return nil
}

func useColor(opts *RunOptions, stdout io.Writer) bool {
	if opts.Color != nil {
		return *opts.Color
	}
	f, ok := stdout.(*os.File)
	return ok && f == os.Stdout && !color.NoColor
}
