package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// TestFile is the file the runner executes, relative to the working
// directory. It is not configurable.
const TestFile = "asserts.py"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. Run without a subcommand, it
// executes TestFile.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RunOptions{})
}

// newRootCommand builds the command tree around runOpts, whose non-flag
// fields tests use to pin the directory, seed and run ID.
func newRootCommand(runOpts *RunOptions) *cobra.Command {
	opts := &RootOptions{}
	runOpts.RootOptions = opts

	cmd := &cobra.Command{
		Use:   "assertrun",
		Short: "Run every assert in " + TestFile + ", reporting each failure",
		Long: `Run the statements of ` + TestFile + ` one at a time.

Equality assertions (assert a == b) are rewritten to report both values.
A failing assertion is reported and the run continues with the next
statement; any other error stops the run.

Exit codes:
  0 - Every statement ran (assertion failures included)
  1 - Syntax error or fatal runtime error
  2 - ` + TestFile + ` could not be read`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd.Context(), runOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newDumpCommand(opts, runOpts))

	return cmd
}
