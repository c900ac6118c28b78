// Package value defines the runtime value representation shared by the
// parser's literal nodes, the evaluator, the function registry, and the
// expression cache. Value is a tagged union implemented as a struct with a
// Kind discriminator and typed payload fields — not interface{} — so that
// dispatch and equality stay allocation-light and exhaustive-switch safe,
// the same tradeoff internal/jsonvalue.Value makes for JSON trees.
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/skillet/internal/jsonvalue"
)

// Kind discriminates the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBoolean
	KindDateTime
	KindArray
	KindJSON
)

// String renders the kind's name, as used in error messages and the
// (Kind, method) dispatch table keys.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindBoolean:
		return "Boolean"
	case KindDateTime:
		return "DateTime"
	case KindArray:
		return "Array"
	case KindJSON:
		return "Json"
	default:
		return "Unknown"
	}
}

// Value is a runtime value: exactly one of Null, Number, String, Boolean,
// DateTime, Array, or Json is meaningful, selected by Kind.
type Value struct {
	kind Kind

	num  float64
	str  string
	bl   bool
	dt   int64
	arr  []Value
	json *jsonvalue.Value
}

// Null is the singular null value.
var Null = Value{kind: KindNull}

// Number constructs a numeric value, folding -0.0 to 0.0. It does not check
// for NaN: NewNumber is the checked form that returns an error instead, and
// the evaluator's arithmetic operators report a NaN result as an error
// before any Value is built from it.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: normalizeZero(f)}
}

// NewNumber validates f before wrapping it, returning an error instead of a
// NaN-bearing Value.
func NewNumber(f float64) (Value, error) {
	if math.IsNaN(f) {
		return Value{}, fmt.Errorf("value: NaN is not a representable number")
	}
	return Number(f), nil
}

// normalizeZero folds negative zero to positive zero so that equality and
// cache-key hashing never distinguish -0.0 from 0.0.
func normalizeZero(f float64) float64 {
	if f == 0 {
		return 0
	}
	return f
}

// String constructs a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Boolean constructs a boolean value.
func Boolean(b bool) Value { return Value{kind: KindBoolean, bl: b} }

// DateTime constructs a value holding Unix seconds.
func DateTime(seconds int64) Value { return Value{kind: KindDateTime, dt: seconds} }

// Array constructs an array value from its elements. The slice is copied so
// that later mutation of the caller's slice can't alias the Value.
func Array(elems []Value) Value {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return Value{kind: KindArray, arr: cp}
}

// JSON constructs a value wrapping a parsed JSON document.
func JSON(doc *jsonvalue.Value) Value {
	return Value{kind: KindJSON, json: doc}
}

// JSONFromText parses canonical JSON text into a Json value.
func JSONFromText(text string) (Value, error) {
	doc, err := jsonvalue.ParseJSON([]byte(text))
	if err != nil {
		return Value{}, fmt.Errorf("value: invalid json: %w", err)
	}
	return JSON(doc), nil
}

// Kind reports the value's variant.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the Null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Num returns the numeric payload; zero if v is not a Number.
func (v Value) Num() float64 { return v.num }

// Str returns the string payload; empty if v is not a String.
func (v Value) Str() string { return v.str }

// Bool returns the boolean payload; false if v is not a Boolean.
func (v Value) Bool() bool { return v.bl }

// Unix returns the DateTime payload in Unix seconds; zero if v is not a
// DateTime.
func (v Value) Unix() int64 { return v.dt }

// Elems returns a shallow copy of the array payload; nil if v is not an
// Array.
func (v Value) Elems() []Value {
	if v.kind != KindArray {
		return nil
	}
	cp := make([]Value, len(v.arr))
	copy(cp, v.arr)
	return cp
}

// Len returns the number of array elements; zero if v is not an Array.
func (v Value) Len() int {
	if v.kind != KindArray {
		return 0
	}
	return len(v.arr)
}

// JSONDoc returns the wrapped JSON document; nil if v is not Json.
func (v Value) JSONDoc() *jsonvalue.Value {
	if v.kind != KindJSON {
		return nil
	}
	return v.json
}

// ToBool applies the coercion rule used by IF/ternary/cast-to-Boolean:
// Null and Boolean(false) are false; Number(0), "", and [] are also false
// under explicit coercion. The AND/OR/NOT operators never coerce — they
// reject non-Boolean operands outright in the evaluator.
func (v Value) ToBool() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBoolean:
		return v.bl
	case KindNumber:
		return v.num != 0
	case KindString:
		return v.str != ""
	case KindArray:
		return len(v.arr) != 0
	case KindDateTime:
		return v.dt != 0
	case KindJSON:
		return v.json != nil && v.json.Kind() != jsonvalue.KindNull && v.json.Kind() != jsonvalue.KindUndefined
	default:
		return false
	}
}

// ToString renders v for CONCAT, string interpolation, and String casts.
func (v Value) ToString() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindBoolean:
		if v.bl {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.num)
	case KindDateTime:
		return strconv.FormatInt(v.dt, 10)
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.ToString()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindJSON:
		raw, err := v.json.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(raw)
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Equal reports structural equality. Cross-kind comparisons are false
// except Null == Null (true) and Null compared to anything else (false);
// evaluator-level "==" additionally treats cross-type comparison outside
// Null as an error rather than silently false — that decision belongs to
// the evaluator, not this method, which only implements value identity.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindNumber:
		return a.num == b.num
	case KindString:
		return a.str == b.str
	case KindBoolean:
		return a.bl == b.bl
	case KindDateTime:
		return a.dt == b.dt
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindJSON:
		return a.ToString() == b.ToString()
	default:
		return false
	}
}

// CacheKeyToken renders a deterministic, order-stable token for v, used by
// internal/ecache to build a fingerprint from a variable scope. Arrays
// render their elements in order; there is no object/map variant here
// because the scope itself is what supplies key ordering at a higher level.
func (v Value) CacheKeyToken() string {
	switch v.kind {
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.CacheKeyToken()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindNumber:
		return formatNumber(normalizeZero(v.num))
	default:
		return v.kind.String() + ":" + v.ToString()
	}
}

// SortValues sorts a slice of Values in place using a total order suitable
// for MEDIAN/PERCENTILE/MODE_SNGL-style statistics: Numbers and DateTimes
// compare numerically, everything else falls back to string comparison of
// CacheKeyToken so the sort is at least deterministic across mixed arrays.
func SortValues(vals []Value) {
	sort.SliceStable(vals, func(i, j int) bool {
		a, b := vals[i], vals[j]
		if a.kind == KindNumber && b.kind == KindNumber {
			return a.num < b.num
		}
		if a.kind == KindDateTime && b.kind == KindDateTime {
			return a.dt < b.dt
		}
		return a.CacheKeyToken() < b.CacheKeyToken()
	})
}
