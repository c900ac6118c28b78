package builtins

import (
	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/value"
)

// registerTypecheck registers strict Kind checks: ISNUMBER/ISTEXT do not
// coerce, so a Boolean or Null argument is false even though it might
// otherwise convert to a number or string.
func registerTypecheck(r *registry.Registry) {
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "ISNUMBER", MinArgs: 1, MaxArgs: 1, Call: biIsNumber,
		Description: "True only if the argument's Kind is Number.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "ISTEXT", MinArgs: 1, MaxArgs: 1, Call: biIsText,
		Description: "True only if the argument's Kind is String.",
	})
}

func biIsNumber(args []value.Value) (value.Value, error) {
	return value.Boolean(args[0].Kind() == value.KindNumber), nil
}

func biIsText(args []value.Value) (value.Value, error) {
	return value.Boolean(args[0].Kind() == value.KindString), nil
}
