package builtins

import (
	"fmt"
	"strings"

	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/value"
)

func registerArrays(r *registry.Registry) {
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "ARRAY", MinArgs: 0, MaxArgs: registry.Unbounded, Call: biArray,
		Description: "Constructs an Array from its arguments.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "FIRST", MinArgs: 1, MaxArgs: 1, Call: biFirst,
		Description: "First element of an Array, Null if empty.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "LAST", MinArgs: 1, MaxArgs: 1, Call: biLast,
		Description: "Last element of an Array, Null if empty.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "CONTAINS", MinArgs: 2, MaxArgs: 2, Call: biContains,
		Description: "Whether array contains value (CONTAINS(array, value)).",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "IN", MinArgs: 2, MaxArgs: 2, Call: biIn,
		Description: "Alias for CONTAINS: whether array contains value (IN(array, value)).",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "UNIQUE", MinArgs: 1, MaxArgs: 1, Call: biUnique,
		Description: "Array with duplicate elements removed, order preserved.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "SORT", MinArgs: 1, MaxArgs: 2, Call: biSort,
		Description: "Sorts an Array ascending, or descending when direction is 'DESC'.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "REVERSE", MinArgs: 1, MaxArgs: 1, Call: biReverse,
		Description: "Reverses an Array.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "JOIN", MinArgs: 1, MaxArgs: 2, Call: biJoin,
		Description: "Joins Array elements' string forms with a separator (default \",\").",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "FLATTEN", MinArgs: 1, MaxArgs: 1, Call: biFlatten,
		Description: "Recursively flattens nested Arrays into one Array.",
	})
}

func biArray(args []value.Value) (value.Value, error) {
	elems := make([]value.Value, len(args))
	copy(elems, args)
	return value.Array(elems), nil
}

func biFirst(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("FIRST expects an Array, got %s", args[0].Kind())
	}
	if args[0].Len() == 0 {
		return value.Null, nil
	}
	return args[0].Elems()[0], nil
}

func biLast(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("LAST expects an Array, got %s", args[0].Kind())
	}
	elems := args[0].Elems()
	if len(elems) == 0 {
		return value.Null, nil
	}
	return elems[len(elems)-1], nil
}

func biContains(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("CONTAINS expects an Array, got %s", args[0].Kind())
	}
	for _, e := range args[0].Elems() {
		if value.Equal(e, args[1]) {
			return value.Boolean(true), nil
		}
	}
	return value.Boolean(false), nil
}

func biIn(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("IN expects an Array, got %s", args[0].Kind())
	}
	for _, e := range args[0].Elems() {
		if value.Equal(e, args[1]) {
			return value.Boolean(true), nil
		}
	}
	return value.Boolean(false), nil
}

func biUnique(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("UNIQUE expects an Array, got %s", args[0].Kind())
	}
	var out []value.Value
	for _, e := range args[0].Elems() {
		dup := false
		for _, seen := range out {
			if value.Equal(e, seen) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return value.Array(out), nil
}

func biSort(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("SORT expects an Array, got %s", args[0].Kind())
	}
	desc := false
	if len(args) == 2 {
		if args[1].Kind() != value.KindString {
			return value.Value{}, fmt.Errorf("SORT direction must be a String")
		}
		desc = strings.EqualFold(args[1].Str(), "DESC")
	}
	elems := append([]value.Value(nil), args[0].Elems()...)
	value.SortValues(elems)
	if desc {
		for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
			elems[i], elems[j] = elems[j], elems[i]
		}
	}
	return value.Array(elems), nil
}

func biReverse(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("REVERSE expects an Array, got %s", args[0].Kind())
	}
	elems := args[0].Elems()
	out := make([]value.Value, len(elems))
	for i, e := range elems {
		out[len(elems)-1-i] = e
	}
	return value.Array(out), nil
}

func biJoin(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("JOIN expects an Array, got %s", args[0].Kind())
	}
	sep := ","
	if len(args) == 2 {
		if args[1].Kind() != value.KindString {
			return value.Value{}, fmt.Errorf("JOIN separator must be a String")
		}
		sep = args[1].Str()
	}
	parts := make([]string, len(args[0].Elems()))
	for i, e := range args[0].Elems() {
		parts[i] = e.ToString()
	}
	return value.String(strings.Join(parts, sep)), nil
}

func biFlatten(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("FLATTEN expects an Array, got %s", args[0].Kind())
	}
	return value.Array(flattenElems(args[0].Elems())), nil
}

// flattenElems recursively flattens nested Array elements into one slice.
func flattenElems(elems []value.Value) []value.Value {
	var out []value.Value
	for _, e := range elems {
		if e.Kind() == value.KindArray {
			out = append(out, flattenElems(e.Elems())...)
			continue
		}
		out = append(out, e)
	}
	return out
}
