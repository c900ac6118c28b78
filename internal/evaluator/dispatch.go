package evaluator

import (
	"math"
	"sort"
	"strings"

	"github.com/cwbudde/skillet/internal/token"
	"github.com/cwbudde/skillet/internal/value"
)

// MethodFunc is one entry in the (Kind, name) dispatch table: a method
// invoked on a receiver with already-evaluated arguments.
type MethodFunc func(receiver value.Value, args []value.Value, pos token.Position) (value.Value, error)

// methodTable is the nested (value.Kind, method name) dispatch table,
// following the teacher's method_dispatch.go idiom of a single match over
// (receiver-tag, method-name) rather than a subtype relation — adding a new
// Value kind means extending this table.
var methodTable = map[value.Kind]map[string]MethodFunc{}

func registerMethod(k value.Kind, name string, fn MethodFunc) {
	if methodTable[k] == nil {
		methodTable[k] = make(map[string]MethodFunc)
	}
	methodTable[k][name] = fn
}

// lookupMethod resolves a method on a specific kind.
func lookupMethod(k value.Kind, name string) (MethodFunc, bool) {
	fn, ok := methodTable[k][name]
	return fn, ok
}

func init() {
	registerConversions()
	registerStringMethods()
	registerNumberMethods()
	registerArrayMethods()
	registerNullMethods()
	registerBooleanMethods()
	registerDateTimeMethods()
	registerJSONMethods()
}

// registerConversions installs to_s/to_i/to_f/to_a/to_bool/to_json on every
// kind, including Null — per spec.md §4.3's stated exception that these
// conversion methods are defined on Null even though other methods are not.
func registerConversions() {
	for _, k := range []value.Kind{
		value.KindNull, value.KindNumber, value.KindString, value.KindBoolean,
		value.KindDateTime, value.KindArray, value.KindJSON,
	} {
		registerMethod(k, "to_s", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
			return value.String(r.ToString()), nil
		})
		registerMethod(k, "to_bool", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
			return value.Boolean(r.ToBool()), nil
		})
		// Unlike the strict ::Integer / ::Float casts, the to_i/to_f
		// conversion methods are lenient: Null and unparseable input
		// convert to 0 instead of failing.
		registerMethod(k, "to_i", func(r value.Value, _ []value.Value, pos token.Position) (value.Value, error) {
			f, err := castToFloat(r, pos)
			if err != nil {
				return value.Number(0), nil
			}
			return value.Number(math.Trunc(f.Num())), nil
		})
		registerMethod(k, "to_f", func(r value.Value, _ []value.Value, pos token.Position) (value.Value, error) {
			f, err := castToFloat(r, pos)
			if err != nil {
				return value.Number(0), nil
			}
			return f, nil
		})
		registerMethod(k, "to_a", func(r value.Value, _ []value.Value, pos token.Position) (value.Value, error) {
			return castToArray(r, pos)
		})
		registerMethod(k, "to_json", func(r value.Value, _ []value.Value, pos token.Position) (value.Value, error) {
			if r.IsNull() {
				return value.String("{}"), nil
			}
			raw, err := toJSONDoc(r).MarshalJSON()
			if err != nil {
				return value.Value{}, newErr(TypeError, pos, "to_json failed: %v", err)
			}
			return value.String(string(raw)), nil
		})
		registerMethod(k, "nil?", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
			return value.Boolean(r.IsNull()), nil
		})
	}
}

func registerStringMethods() {
	registerMethod(value.KindString, "upper", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		return value.String(strings.ToUpper(r.Str())), nil
	})
	registerMethod(value.KindString, "lower", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		return value.String(strings.ToLower(r.Str())), nil
	})
	registerMethod(value.KindString, "trim", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		return value.String(strings.TrimSpace(r.Str())), nil
	})
	registerMethod(value.KindString, "length", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		return value.Number(float64(len([]rune(r.Str())))), nil
	})
	registerMethod(value.KindString, "blank?", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		return value.Boolean(strings.TrimSpace(r.Str()) == ""), nil
	})
	registerMethod(value.KindString, "present?", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		return value.Boolean(strings.TrimSpace(r.Str()) != ""), nil
	})
	registerMethod(value.KindString, "includes", func(r value.Value, args []value.Value, pos token.Position) (value.Value, error) {
		if len(args) != 1 || args[0].Kind() != value.KindString {
			return value.Value{}, newErr(ArityMismatch, pos, "includes expects a single String argument")
		}
		return value.Boolean(strings.Contains(r.Str(), args[0].Str())), nil
	})
	registerMethod(value.KindString, "split", func(r value.Value, args []value.Value, pos token.Position) (value.Value, error) {
		sep := ","
		if len(args) > 0 {
			if args[0].Kind() != value.KindString {
				return value.Value{}, newErr(TypeError, pos, "split separator must be a String")
			}
			sep = args[0].Str()
		}
		parts := strings.Split(r.Str(), sep)
		elems := make([]value.Value, len(parts))
		for i, p := range parts {
			elems[i] = value.String(p)
		}
		return value.Array(elems), nil
	})
}

func registerNumberMethods() {
	registerMethod(value.KindNumber, "abs", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		n := r.Num()
		if n < 0 {
			n = -n
		}
		return value.Number(n), nil
	})
	registerMethod(value.KindNumber, "round", func(r value.Value, args []value.Value, pos token.Position) (value.Value, error) {
		digits := 0
		if len(args) > 0 {
			if args[0].Kind() != value.KindNumber {
				return value.Value{}, newErr(TypeError, pos, "round digits must be a Number")
			}
			digits = int(args[0].Num())
		}
		return value.Number(bankersRound(r.Num(), digits)), nil
	})
	registerMethod(value.KindNumber, "positive?", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		return value.Boolean(r.Num() > 0), nil
	})
	registerMethod(value.KindNumber, "negative?", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		return value.Boolean(r.Num() < 0), nil
	})
	registerMethod(value.KindNumber, "zero?", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		return value.Boolean(r.Num() == 0), nil
	})
}

// registerArrayMethods installs the non-higher-order Array methods. FILTER,
// MAP, REDUCE, SUMIF, AVGIF, and COUNTIF are not here: their lambda argument
// must stay unevaluated, so evalMethodCall intercepts those names on an
// Array receiver before ever consulting this table.
func registerArrayMethods() {
	registerMethod(value.KindArray, "length", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		return value.Number(float64(r.Len())), nil
	})
	registerMethod(value.KindArray, "sum", func(r value.Value, _ []value.Value, pos token.Position) (value.Value, error) {
		total, err := flattenSum(r, pos)
		if err != nil {
			return value.Value{}, err
		}
		return value.Number(total), nil
	})
	registerMethod(value.KindArray, "avg", arrayAverage)
	registerMethod(value.KindArray, "average", arrayAverage)
	registerMethod(value.KindArray, "min", func(r value.Value, _ []value.Value, pos token.Position) (value.Value, error) {
		return arrayExtremum(r, pos, false)
	})
	registerMethod(value.KindArray, "max", func(r value.Value, _ []value.Value, pos token.Position) (value.Value, error) {
		return arrayExtremum(r, pos, true)
	})
	registerMethod(value.KindArray, "first", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		elems := r.Elems()
		if len(elems) == 0 {
			return value.Null, nil
		}
		return elems[0], nil
	})
	registerMethod(value.KindArray, "last", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		elems := r.Elems()
		if len(elems) == 0 {
			return value.Null, nil
		}
		return elems[len(elems)-1], nil
	})
	registerMethod(value.KindArray, "contains", func(r value.Value, args []value.Value, pos token.Position) (value.Value, error) {
		if len(args) != 1 {
			return value.Value{}, newErr(ArityMismatch, pos, "contains expects exactly 1 argument")
		}
		for _, e := range r.Elems() {
			if value.Equal(e, args[0]) {
				return value.Boolean(true), nil
			}
		}
		return value.Boolean(false), nil
	})
	registerMethod(value.KindArray, "unique", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		var out []value.Value
		for _, e := range r.Elems() {
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
	})
	registerMethod(value.KindArray, "sort", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		elems := r.Elems()
		value.SortValues(elems)
		return value.Array(elems), nil
	})
	registerMethod(value.KindArray, "reverse", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		elems := r.Elems()
		for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
			elems[i], elems[j] = elems[j], elems[i]
		}
		return value.Array(elems), nil
	})
	registerMethod(value.KindArray, "join", func(r value.Value, args []value.Value, pos token.Position) (value.Value, error) {
		sep := ","
		if len(args) > 0 {
			if args[0].Kind() != value.KindString {
				return value.Value{}, newErr(TypeError, pos, "join separator must be a String")
			}
			sep = args[0].Str()
		}
		parts := make([]string, 0, r.Len())
		for _, e := range r.Elems() {
			parts = append(parts, e.ToString())
		}
		return value.String(strings.Join(parts, sep)), nil
	})
	registerMethod(value.KindArray, "flatten", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		return value.Array(flattenArray(r.Elems())), nil
	})
	registerMethod(value.KindArray, "compact", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		var out []value.Value
		for _, e := range r.Elems() {
			if !e.IsNull() {
				out = append(out, e)
			}
		}
		return value.Array(out), nil
	})
}

// flattenSum recursively sums Number elements, descending into nested Array
// elements, per spec.md's "SUM on nested arrays recursively flattens
// numeric elements" rule.
func flattenSum(v value.Value, pos token.Position) (float64, error) {
	total := 0.0
	for _, e := range v.Elems() {
		switch e.Kind() {
		case value.KindNumber:
			total += e.Num()
		case value.KindArray:
			sub, err := flattenSum(e, pos)
			if err != nil {
				return 0, err
			}
			total += sub
		default:
			return 0, newErr(TypeError, pos, "sum requires Number (or nested Array of Number) elements, got %s", e.Kind())
		}
	}
	return total, nil
}

func flattenArray(elems []value.Value) []value.Value {
	var out []value.Value
	for _, e := range elems {
		if e.Kind() == value.KindArray {
			out = append(out, flattenArray(e.Elems())...)
			continue
		}
		out = append(out, e)
	}
	return out
}

func arrayAverage(r value.Value, _ []value.Value, pos token.Position) (value.Value, error) {
	total, err := flattenSum(r, pos)
	if err != nil {
		return value.Value{}, err
	}
	n := len(flattenArray(r.Elems()))
	if n == 0 {
		return value.Number(0), nil
	}
	return value.Number(total / float64(n)), nil
}

func arrayExtremum(r value.Value, pos token.Position, wantMax bool) (value.Value, error) {
	flat := flattenArray(r.Elems())
	if len(flat) == 0 {
		return value.Null, nil
	}
	best := flat[0]
	if best.Kind() != value.KindNumber {
		return value.Value{}, newErr(TypeError, pos, "min/max requires Number elements, got %s", best.Kind())
	}
	for _, e := range flat[1:] {
		if e.Kind() != value.KindNumber {
			return value.Value{}, newErr(TypeError, pos, "min/max requires Number elements, got %s", e.Kind())
		}
		if (wantMax && e.Num() > best.Num()) || (!wantMax && e.Num() < best.Num()) {
			best = e
		}
	}
	return best, nil
}

func registerNullMethods() {
	registerMethod(value.KindNull, "blank?", func(_ value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		return value.Boolean(true), nil
	})
	registerMethod(value.KindNull, "present?", func(_ value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		return value.Boolean(false), nil
	})
}

func registerBooleanMethods() {
	registerMethod(value.KindBoolean, "negate", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		return value.Boolean(!r.Bool()), nil
	})
}

func registerDateTimeMethods() {
	registerMethod(value.KindDateTime, "unix", func(r value.Value, _ []value.Value, _ token.Position) (value.Value, error) {
		return value.Number(float64(r.Unix())), nil
	})
}

func registerJSONMethods() {
	registerMethod(value.KindJSON, "dig", func(r value.Value, args []value.Value, pos token.Position) (value.Value, error) {
		return dig(r, args, pos)
	})
}

// bankersRound rounds half to even at the given decimal digit position
// (negative digits round to tens/hundreds/...), per spec.md §4.3.
func bankersRound(f float64, digits int) float64 {
	shift := math.Pow(10, float64(digits))
	return roundHalfEven(f*shift) / shift
}

// Round is the exported form of bankersRound, shared with the ROUND()
// built-in in internal/builtins so both the method and function forms agree
// on tie-breaking.
func Round(f float64, digits int) float64 {
	return bankersRound(f, digits)
}

func roundHalfEven(f float64) float64 {
	floorVal := math.Floor(f)
	diff := f - floorVal
	switch {
	case diff < 0.5:
		return floorVal
	case diff > 0.5:
		return floorVal + 1
	default:
		if math.Mod(floorVal, 2) == 0 {
			return floorVal
		}
		return floorVal + 1
	}
}

// sortedMethodNames returns a kind's method names sorted, used only by
// diagnostics/tests.
func sortedMethodNames(k value.Kind) []string {
	names := make([]string, 0, len(methodTable[k]))
	for name := range methodTable[k] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
