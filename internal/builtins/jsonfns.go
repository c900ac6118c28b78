package builtins

import (
	"fmt"

	"github.com/cwbudde/skillet/internal/evaluator"
	"github.com/cwbudde/skillet/internal/jsonpath"
	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/token"
	"github.com/cwbudde/skillet/internal/value"
)

// registerJSONFns registers JQ, a gjson-path reader over a Json value, and
// DIG, a chained index/key walk delegating to the evaluator's Dig (which
// also backs the .dig() method so both forms share one implementation).
func registerJSONFns(r *registry.Registry) {
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "JQ", MinArgs: 2, MaxArgs: 2, Call: biJQ,
		Description: "Reads a JSON-path expression out of a Json value: JQ(json, path).",
		Example:     `JQ(doc, "$.users[*].name")`,
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "DIG", MinArgs: 2, MaxArgs: registry.Unbounded, Call: biDig,
		Description: "Walks a chain of String keys / Number indices into a Json or Array value.",
	})
}

func biJQ(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindJSON {
		return value.Value{}, fmt.Errorf("JQ expects a Json value, got %s", args[0].Kind())
	}
	if args[1].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("JQ path must be a String")
	}
	doc, err := jsonpath.Query(args[0].JSONDoc(), args[1].Str())
	if err != nil {
		return value.Value{}, fmt.Errorf("JQ: %w", err)
	}
	if doc == nil {
		return value.Null, nil
	}
	return evaluator.FromJSONDoc(doc), nil
}

func biDig(args []value.Value) (value.Value, error) {
	return evaluator.Dig(args[0], args[1:], token.Position{})
}
