package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/assertrun/internal/ast"
	"github.com/roach88/assertrun/internal/parser"
	"github.com/roach88/assertrun/internal/rewrite"
	"github.com/roach88/assertrun/internal/source"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	Rewritten bool
}

// DumpResult is the --format json payload of the dump command.
type DumpResult struct {
	File string   `json:"file"`
	Tree []string `json:"tree"`
}

func newDumpCommand(rootOpts *RootOptions, runOpts *RunOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the syntax tree of " + TestFile,
		Long: `Print the parsed syntax tree of ` + TestFile + `, one top-level
statement per line, prefixed by its line number.

With --rewritten the tree is printed after equality assertions have been
rewritten to assert_equal calls.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, filepath.Join(runOpts.Dir, TestFile), cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Rewritten, "rewritten", false, "print the tree after rewriting")

	return cmd
}

func runDump(opts *DumpOptions, path string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	file, err := source.Load(path)
	if err != nil {
		_ = out.Error(ErrCodeReadFile, err.Error(), map[string]any{"file": path})
		return WrapExitError(ExitCommandError, "cannot read test file", err)
	}
	prog, err := parser.Parse(file)
	if err != nil {
		_ = out.Error(ErrCodeSyntax, err.Error(), map[string]any{"file": path})
		return WrapExitError(ExitFailure, "syntax error", err)
	}
	if opts.Rewritten {
		prog = rewrite.Rewrite(prog)
	}

	tree := ast.Dump(prog)
	if opts.Format == "json" {
		lines := strings.Split(strings.TrimSuffix(tree, "\n"), "\n")
		if tree == "" {
			lines = []string{}
		}
		return out.Success(DumpResult{File: path, Tree: lines})
	}
	_, err = cmd.OutOrStdout().Write([]byte(tree))
	return err
}
