package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/skillet/internal/plugin"
	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/value"
)

func newPluginsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Drive internal/plugin directly, offline, without the HTTP layer",
	}
	cmd.AddCommand(newPluginsLoadCmd())
	cmd.AddCommand(newPluginsListCmd())
	return cmd
}

func newPluginsLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <dir>",
		Short: "Scan a directory of .eqs scripts and register them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := plugin.NewLoader(registry.Default(), cliRunner{})
			if err := loader.Load(args[0]); err != nil {
				return err
			}
			for _, name := range registry.Default().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newPluginsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every function currently registered",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range registry.Default().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// cliRunner reports an error at call time rather than executing scripts
// offline; scripting execution is an external collaborator (spec.md §1).
type cliRunner struct{}

func (cliRunner) Run(path string, args []value.Value) (value.Value, error) {
	return value.Value{}, fmt.Errorf("plugin %s: no script runner configured", path)
}
