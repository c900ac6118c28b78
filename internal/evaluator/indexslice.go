package evaluator

import (
	"github.com/cwbudde/skillet/internal/ast"
	"github.com/cwbudde/skillet/internal/value"
)

// resolveIndex clamps a possibly-negative logical index against length,
// returning the clamped position and whether it falls in [0, length).
func resolveIndex(i, length int) (int, bool) {
	if i < 0 {
		i += length
	}
	return i, i >= 0 && i < length
}

func evalIndex(n *ast.Index, scope *Scope, ctx *Context) (value.Value, error) {
	recv, err := Eval(n.Receiver, scope, ctx)
	if err != nil {
		return value.Value{}, err
	}
	idxVal, err := Eval(n.Index, scope, ctx)
	if err != nil {
		return value.Value{}, err
	}
	if idxVal.Kind() != value.KindNumber {
		return value.Value{}, newErr(TypeError, n.Pos(), "index must be a Number, got %s", idxVal.Kind())
	}
	i := int(idxVal.Num())

	switch recv.Kind() {
	case value.KindArray:
		pos, ok := resolveIndex(i, recv.Len())
		if !ok {
			return value.Value{}, newErr(IndexOutOfBounds, n.Pos(), "array index %d out of bounds for length %d", i, recv.Len())
		}
		return recv.Elems()[pos], nil
	case value.KindString:
		runes := []rune(recv.Str())
		pos, ok := resolveIndex(i, len(runes))
		if !ok {
			return value.Value{}, newErr(IndexOutOfBounds, n.Pos(), "string index %d out of bounds for length %d", i, len(runes))
		}
		return value.String(string(runes[pos])), nil
	default:
		return value.Value{}, newErr(TypeError, n.Pos(), "%s is not indexable", recv.Kind())
	}
}

func evalSlice(n *ast.Slice, scope *Scope, ctx *Context) (value.Value, error) {
	recv, err := Eval(n.Receiver, scope, ctx)
	if err != nil {
		return value.Value{}, err
	}

	var length int
	switch recv.Kind() {
	case value.KindArray:
		length = recv.Len()
	case value.KindString:
		length = len([]rune(recv.Str()))
	default:
		return value.Value{}, newErr(TypeError, n.Pos(), "%s is not sliceable", recv.Kind())
	}

	low, high := 0, length
	if n.Low != nil {
		lowVal, err := Eval(n.Low, scope, ctx)
		if err != nil {
			return value.Value{}, err
		}
		if lowVal.Kind() != value.KindNumber {
			return value.Value{}, newErr(TypeError, n.Pos(), "slice bound must be a Number, got %s", lowVal.Kind())
		}
		low = clampSliceBound(int(lowVal.Num()), length)
	}
	if n.High != nil {
		highVal, err := Eval(n.High, scope, ctx)
		if err != nil {
			return value.Value{}, err
		}
		if highVal.Kind() != value.KindNumber {
			return value.Value{}, newErr(TypeError, n.Pos(), "slice bound must be a Number, got %s", highVal.Kind())
		}
		high = clampSliceBound(int(highVal.Num()), length)
	}
	if high < low {
		high = low
	}

	switch recv.Kind() {
	case value.KindArray:
		return value.Array(recv.Elems()[low:high]), nil
	case value.KindString:
		runes := []rune(recv.Str())
		return value.String(string(runes[low:high])), nil
	default:
		return value.Value{}, newErr(TypeError, n.Pos(), "%s is not sliceable", recv.Kind())
	}
}

// clampSliceBound resolves a possibly-negative slice bound, clamping
// silently into [0, length] rather than erroring, per spec.md §4.3.
func clampSliceBound(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}
