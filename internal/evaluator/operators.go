package evaluator

import (
	"math"

	"github.com/cwbudde/skillet/internal/ast"
	"github.com/cwbudde/skillet/internal/value"
)

func evalBinary(n *ast.Binary, scope *Scope, ctx *Context) (value.Value, error) {
	switch n.Op {
	case "AND":
		return evalShortCircuit(n, scope, ctx, false)
	case "OR":
		return evalShortCircuit(n, scope, ctx, true)
	}

	left, err := Eval(n.Left, scope, ctx)
	if err != nil {
		return value.Value{}, err
	}
	right, err := Eval(n.Right, scope, ctx)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case "+", "-", "*", "/", "%", "^":
		return evalArithmetic(n, left, right)
	case "==":
		return evalEquality(n, left, right, true)
	case "!=":
		return evalEquality(n, left, right, false)
	case "<", "<=", ">", ">=":
		return evalOrdering(n, left, right)
	default:
		return value.Value{}, newErr(TypeError, n.Pos(), "unknown binary operator %q", n.Op)
	}
}

// evalShortCircuit implements AND/OR: strict Boolean operands, the right
// side is only evaluated when necessary.
func evalShortCircuit(n *ast.Binary, scope *Scope, ctx *Context, isOr bool) (value.Value, error) {
	left, err := Eval(n.Left, scope, ctx)
	if err != nil {
		return value.Value{}, err
	}
	if left.Kind() != value.KindBoolean {
		return value.Value{}, newErr(TypeError, n.Pos(), "%s requires Boolean operands, got %s", n.Op, left.Kind())
	}
	if isOr && left.Bool() {
		return value.Boolean(true), nil
	}
	if !isOr && !left.Bool() {
		return value.Boolean(false), nil
	}
	right, err := Eval(n.Right, scope, ctx)
	if err != nil {
		return value.Value{}, err
	}
	if right.Kind() != value.KindBoolean {
		return value.Value{}, newErr(TypeError, n.Pos(), "%s requires Boolean operands, got %s", n.Op, right.Kind())
	}
	return value.Boolean(right.Bool()), nil
}

func evalArithmetic(n *ast.Binary, left, right value.Value) (value.Value, error) {
	if left.Kind() != value.KindNumber || right.Kind() != value.KindNumber {
		return value.Value{}, newErr(TypeError, n.Pos(), "arithmetic operator %q requires Number operands, got %s and %s", n.Op, left.Kind(), right.Kind())
	}
	a, b := left.Num(), right.Num()
	var result float64
	switch n.Op {
	case "+":
		result = a + b
	case "-":
		result = a - b
	case "*":
		result = a * b
	case "/":
		if b == 0 {
			return value.Value{}, newErr(DivideByZero, n.Pos(), "division by zero")
		}
		result = a / b
	case "%":
		if b == 0 {
			return value.Value{}, newErr(DivideByZero, n.Pos(), "modulo by zero")
		}
		result = a - math.Trunc(a/b)*b
	case "^":
		result = math.Pow(a, b)
	}
	if math.IsNaN(result) {
		return value.Value{}, newErr(TypeError, n.Pos(), "arithmetic produced NaN")
	}
	if math.IsInf(result, 0) {
		return value.Value{}, newErr(Overflow, n.Pos(), "arithmetic result overflowed")
	}
	return value.Number(result), nil
}

func evalEquality(n *ast.Binary, left, right value.Value, wantEqual bool) (value.Value, error) {
	if left.Kind() == value.KindNull || right.Kind() == value.KindNull {
		eq := left.Kind() == value.KindNull && right.Kind() == value.KindNull
		if !wantEqual {
			eq = !eq
		}
		return value.Boolean(eq), nil
	}
	if left.Kind() != right.Kind() {
		return value.Value{}, newErr(TypeError, n.Pos(), "cannot compare %s with %s", left.Kind(), right.Kind())
	}
	eq := value.Equal(left, right)
	if !wantEqual {
		eq = !eq
	}
	return value.Boolean(eq), nil
}

func evalOrdering(n *ast.Binary, left, right value.Value) (value.Value, error) {
	if left.Kind() != right.Kind() {
		return value.Value{}, newErr(TypeError, n.Pos(), "cannot compare %s with %s", left.Kind(), right.Kind())
	}
	var cmp int
	switch left.Kind() {
	case value.KindNumber:
		cmp = compareFloat(left.Num(), right.Num())
	case value.KindDateTime:
		cmp = compareInt64(left.Unix(), right.Unix())
	case value.KindString:
		cmp = compareString(left.Str(), right.Str())
	default:
		return value.Value{}, newErr(TypeError, n.Pos(), "%s does not support ordering comparisons", left.Kind())
	}
	var result bool
	switch n.Op {
	case "<":
		result = cmp < 0
	case "<=":
		result = cmp <= 0
	case ">":
		result = cmp > 0
	case ">=":
		result = cmp >= 0
	}
	return value.Boolean(result), nil
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
