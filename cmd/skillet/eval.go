package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/skillet/internal/value"
	"github.com/cwbudde/skillet/pkg/skillet"
)

func newEvalCmd() *cobra.Command {
	var vars []string

	cmd := &cobra.Command{
		Use:   "eval <expr>",
		Short: "Evaluate a single expression and print the JSON-encoded result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := parseVarFlags(vars)
			if err != nil {
				return err
			}
			result, err := skillet.EvaluateWithCustom(args[0], scope)
			if err != nil {
				return err
			}
			enc, err := json.Marshal(toJSONAny(result))
			if err != nil {
				return err
			}
			fmt.Println(string(enc))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&vars, "var", nil, "variable binding k=v, repeatable")
	return cmd
}

// parseVarFlags turns "--var k=v" flags into a scope map. Values are parsed
// as numbers/booleans/null where they look like one, otherwise kept as
// strings, mirroring the evaluate_with_custom convention the embedding API
// itself is named after.
func parseVarFlags(vars []string) (map[string]value.Value, error) {
	scope := make(map[string]value.Value, len(vars))
	for _, kv := range vars {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--var must be k=v, got %q", kv)
		}
		scope[name] = parseVarValue(raw)
	}
	return scope, nil
}

func parseVarValue(raw string) value.Value {
	switch raw {
	case "null":
		return value.Null
	case "true":
		return value.Boolean(true)
	case "false":
		return value.Boolean(false)
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return value.Number(n)
	}
	return value.String(raw)
}

func toJSONAny(v value.Value) any {
	switch v.Kind() {
	case value.KindNull:
		return nil
	case value.KindNumber:
		return v.Num()
	case value.KindString:
		return v.Str()
	case value.KindBoolean:
		return v.Bool()
	case value.KindDateTime:
		return v.Unix()
	case value.KindArray:
		elems := v.Elems()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = toJSONAny(e)
		}
		return out
	case value.KindJSON:
		return v.JSONDoc().ToGo()
	default:
		return nil
	}
}
