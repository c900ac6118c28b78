package builtins

import (
	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/value"
)

// registerLogical registers the eager function-call forms of the logical
// operators. These are distinct from the &&/||/! lazy operators the parser
// handles directly: AND/OR/NOT/XOR here always evaluate every argument,
// matching spec.md's Logical summary rather than short-circuiting.
func registerLogical(r *registry.Registry) {
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "AND", MinArgs: 1, MaxArgs: registry.Unbounded, Call: biAnd,
		Description: "True if every argument is truthy.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "OR", MinArgs: 1, MaxArgs: registry.Unbounded, Call: biOr,
		Description: "True if any argument is truthy.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "NOT", MinArgs: 1, MaxArgs: 1, Call: biNot,
		Description: "Negates the truthiness of its argument.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "XOR", MinArgs: 2, MaxArgs: 2, Call: biXor,
		Description: "True if exactly one of the two arguments is truthy.",
	})
}

func biAnd(args []value.Value) (value.Value, error) {
	for _, a := range args {
		if !a.ToBool() {
			return value.Boolean(false), nil
		}
	}
	return value.Boolean(true), nil
}

func biOr(args []value.Value) (value.Value, error) {
	for _, a := range args {
		if a.ToBool() {
			return value.Boolean(true), nil
		}
	}
	return value.Boolean(false), nil
}

func biNot(args []value.Value) (value.Value, error) {
	return value.Boolean(!args[0].ToBool()), nil
}

func biXor(args []value.Value) (value.Value, error) {
	return value.Boolean(args[0].ToBool() != args[1].ToBool()), nil
}
