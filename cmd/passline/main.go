// Command passline constructs, inspects, and runs nested pass pipelines
// over IR modules.
//
// Usage:
//
//	passline run --pipeline "canonicalize,func.func(cse)" module.cue
//	passline check "func.func(canonicalize,cse)"
//	passline passes
//	passline trace --db traces.db
//	passline test scenarios/*.yaml
package main

import (
	"fmt"
	"os"

	"github.com/roach88/passline/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
