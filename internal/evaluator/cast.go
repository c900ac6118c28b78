package evaluator

import (
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/skillet/internal/ast"
	"github.com/cwbudde/skillet/internal/token"
	"github.com/cwbudde/skillet/internal/value"
)

func evalCast(n *ast.Cast, scope *Scope, ctx *Context) (value.Value, error) {
	v, err := Eval(n.Value, scope, ctx)
	if err != nil {
		return value.Value{}, err
	}
	return Cast(v, n.Type, n.Pos())
}

// Cast implements expr::Type, recognizing Integer, Float, Boolean, String,
// Array, and DateTime targets per spec.md §4.3.
func Cast(v value.Value, typeName string, pos token.Position) (value.Value, error) {
	switch typeName {
	case "Integer":
		return castToInteger(v, pos)
	case "Float":
		return castToFloat(v, pos)
	case "Boolean":
		return value.Boolean(v.ToBool()), nil
	case "String":
		return value.String(v.ToString()), nil
	case "Array":
		return castToArray(v, pos)
	case "DateTime":
		return castToDateTime(v, pos)
	default:
		return value.Value{}, newErr(InvalidCast, pos, "unrecognized cast target %q", typeName)
	}
}

func castToFloat(v value.Value, pos token.Position) (value.Value, error) {
	switch v.Kind() {
	case value.KindNumber:
		return v, nil
	case value.KindBoolean:
		if v.Bool() {
			return value.Number(1), nil
		}
		return value.Number(0), nil
	case value.KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
		if err != nil {
			return value.Value{}, newErr(InvalidCast, pos, "cannot cast %q to Float", v.Str())
		}
		return value.Number(f), nil
	case value.KindDateTime:
		return value.Number(float64(v.Unix())), nil
	default:
		return value.Value{}, newErr(InvalidCast, pos, "cannot cast %s to Float", v.Kind())
	}
}

func castToInteger(v value.Value, pos token.Position) (value.Value, error) {
	f, err := castToFloat(v, pos)
	if err != nil {
		return value.Value{}, err
	}
	return value.Number(math.Trunc(f.Num())), nil
}

func castToArray(v value.Value, pos token.Position) (value.Value, error) {
	switch v.Kind() {
	case value.KindArray:
		return v, nil
	case value.KindString:
		parts := strings.Split(v.Str(), ",")
		elems := make([]value.Value, len(parts))
		for i, p := range parts {
			elems[i] = value.String(strings.TrimSpace(p))
		}
		return value.Array(elems), nil
	case value.KindNull:
		return value.Array(nil), nil
	default:
		return value.Array([]value.Value{v}), nil
	}
}

func castToDateTime(v value.Value, pos token.Position) (value.Value, error) {
	switch v.Kind() {
	case value.KindDateTime:
		return v, nil
	case value.KindNumber:
		return value.DateTime(int64(v.Num())), nil
	case value.KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
		if err != nil {
			return value.Value{}, newErr(InvalidCast, pos, "cannot cast %q to DateTime", v.Str())
		}
		return value.DateTime(int64(f)), nil
	default:
		return value.Value{}, newErr(InvalidCast, pos, "cannot cast %s to DateTime", v.Kind())
	}
}
