// Package main is the skillet CLI entry point, following the teacher's
// cmd/dwscript/cmd layout: a root command with persistent flags plus one
// file per subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var versionString = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "skillet",
		Short:   "skillet evaluates spreadsheet-style expressions",
		Version: versionString,
	}
	root.SetVersionTemplate("skillet {{.Version}}\n")

	root.AddCommand(newEvalCmd())
	root.AddCommand(newReplCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newPluginsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
