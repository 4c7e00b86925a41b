// Command seqraph builds, queries and splits hierarchical sequence indexes.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/seqraph/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
