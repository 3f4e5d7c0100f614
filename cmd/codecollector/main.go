// Package main implements the codecollector command line tool.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

func main() {
	cmd := newRootCmd()
	cmd.SetArgs(normalizeArgs(os.Args[1:]))

	if err := fang.Execute(
		context.Background(),
		cmd,
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "codecollector",
		Short: "Collect a source tree into one text file and restore it",
		Long: `codecollector gathers the files of a directory tree into a single
annotated text artifact with embedded metadata, restores a tree from such
an artifact, and reports heuristic code statistics.

Selection rules filter by extension, directory and explicit file. Explicit
files always win; exclusions are applied before inclusions.`,
		Example: `codecollector collect -d ./src -i py js -x node_modules
codecollector restore code_collection.txt -t ./restored
codecollector analyze -d . -e lock
codecollector stats -d .`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newCollectCmd(),
		newRestoreCmd(),
		newAnalyzeCmd(),
		newStatsCmd(),
		newServeCmd(),
	)
	return root
}
