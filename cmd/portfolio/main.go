// Command portfolio applies actions to portfolio state documents and reports
// valuations, budgets and import diffs.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"portfolio-tracker/internal/cli"
	"portfolio-tracker/internal/logging"
)

func main() {
	root := cli.NewRootCmd(nil, logging.NewLogger())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
