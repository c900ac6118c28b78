package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/skillet/internal/value"
	"github.com/cwbudde/skillet/pkg/skillet"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start a read-eval-print loop holding a scope across lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runRepl(in io.Reader, out io.Writer) error {
	scope := make(map[string]value.Value)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "skillet> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		result, newScope, err := skillet.EvaluateWithAssignmentsAndContext(line, scope)
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		scope = newScope
		fmt.Fprintln(out, result.ToString())
	}
}

