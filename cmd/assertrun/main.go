// Command assertrun executes asserts.py one statement at a time, reporting
// every failed assertion instead of stopping at the first.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/assertrun/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		code := cli.GetExitCode(err)
		if code == cli.ExitCommandError {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}
