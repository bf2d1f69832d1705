// (c) Copyright ZeroEval Inc. 2026

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zeroeval/zeroeval-go/commands/run"
	"github.com/zeroeval/zeroeval-go/commands/setup"
)

var root = &cobra.Command{
	Use:           "zeroeval",
	Short:         "ZeroEval command line interface",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	root.AddCommand(setup.Setup)
	root.AddCommand(run.Run)
}

func main() {
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
