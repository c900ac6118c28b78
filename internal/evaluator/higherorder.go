package evaluator

import (
	"github.com/cwbudde/skillet/internal/ast"
	"github.com/cwbudde/skillet/internal/token"
	"github.com/cwbudde/skillet/internal/value"
)

// higherOrderNames are the method/function names whose argument(s) are
// lambda bodies: unevaluated sub-expressions resolved fresh per element,
// never pre-evaluated or captured at parse time, per spec.md §9's
// "Lambda-with-inferred-parameter" note.
var higherOrderNames = map[string]bool{
	"FILTER": true, "MAP": true, "REDUCE": true,
	"SUMIF": true, "AVGIF": true, "COUNTIF": true,
}

// collectFreeVarRefs walks body collecting the names of every VarRef that
// is not already bound in outer and is not in exclude (reduce's ":acc"
// slot). These are the names parameter-inference binds to the current
// iteration element.
func collectFreeVarRefs(body ast.Node, outer *Scope, exclude map[string]bool, out map[string]bool) {
	if body == nil {
		return
	}
	switch n := body.(type) {
	case *ast.VarRef:
		if !outer.Has(n.Name) && !exclude[n.Name] {
			out[n.Name] = true
		}
	case *ast.Unary:
		collectFreeVarRefs(n.Operand, outer, exclude, out)
	case *ast.Binary:
		collectFreeVarRefs(n.Left, outer, exclude, out)
		collectFreeVarRefs(n.Right, outer, exclude, out)
	case *ast.Ternary:
		collectFreeVarRefs(n.Cond, outer, exclude, out)
		collectFreeVarRefs(n.Then, outer, exclude, out)
		collectFreeVarRefs(n.Else, outer, exclude, out)
	case *ast.Assign:
		collectFreeVarRefs(n.Value, outer, exclude, out)
	case *ast.Sequence:
		for _, e := range n.Exprs {
			collectFreeVarRefs(e, outer, exclude, out)
		}
	case *ast.ArrayLit:
		for _, e := range n.Elems {
			collectFreeVarRefs(e, outer, exclude, out)
		}
	case *ast.ObjectLit:
		for _, e := range n.Entries {
			collectFreeVarRefs(e.Value, outer, exclude, out)
		}
	case *ast.Spread:
		collectFreeVarRefs(n.Value, outer, exclude, out)
	case *ast.Call:
		for _, a := range n.Args {
			collectFreeVarRefs(a, outer, exclude, out)
		}
	case *ast.MethodCall:
		collectFreeVarRefs(n.Receiver, outer, exclude, out)
		for _, a := range n.Args {
			collectFreeVarRefs(a, outer, exclude, out)
		}
	case *ast.Index:
		collectFreeVarRefs(n.Receiver, outer, exclude, out)
		collectFreeVarRefs(n.Index, outer, exclude, out)
	case *ast.Slice:
		collectFreeVarRefs(n.Receiver, outer, exclude, out)
		collectFreeVarRefs(n.Low, outer, exclude, out)
		collectFreeVarRefs(n.High, outer, exclude, out)
	case *ast.Cast:
		collectFreeVarRefs(n.Value, outer, exclude, out)
	case *ast.Property:
		collectFreeVarRefs(n.Receiver, outer, exclude, out)
	}
}

// lambdaScope builds the child scope a single iteration of a higher-order
// form evaluates its body against: every free variable (per
// collectFreeVarRefs) bound to elem.
func lambdaScope(body ast.Node, outer *Scope, elem value.Value, exclude map[string]bool) *Scope {
	child := outer.Clone()
	free := make(map[string]bool)
	collectFreeVarRefs(body, outer, exclude, free)
	for name := range free {
		child.Set(name, elem)
	}
	return child
}

func evalFilter(arr value.Value, body ast.Node, outer *Scope, ctx *Context, pos token.Position) (value.Value, error) {
	var out []value.Value
	for _, elem := range arr.Elems() {
		child := lambdaScope(body, outer, elem, nil)
		v, err := Eval(body, child, ctx)
		if err != nil {
			return value.Value{}, err
		}
		if v.ToBool() {
			out = append(out, elem)
		}
	}
	return value.Array(out), nil
}

func evalMap(arr value.Value, body ast.Node, outer *Scope, ctx *Context, pos token.Position) (value.Value, error) {
	out := make([]value.Value, 0, arr.Len())
	for _, elem := range arr.Elems() {
		child := lambdaScope(body, outer, elem, nil)
		v, err := Eval(body, child, ctx)
		if err != nil {
			return value.Value{}, err
		}
		out = append(out, v)
	}
	return value.Array(out), nil
}

var accExclude = map[string]bool{"acc": true}

func evalReduce(arr value.Value, body ast.Node, initNode ast.Node, outer *Scope, ctx *Context, pos token.Position) (value.Value, error) {
	acc, err := Eval(initNode, outer, ctx)
	if err != nil {
		return value.Value{}, err
	}
	for _, elem := range arr.Elems() {
		child := lambdaScope(body, outer, elem, accExclude)
		child.Set("acc", acc)
		v, err := Eval(body, child, ctx)
		if err != nil {
			return value.Value{}, err
		}
		acc = v
	}
	return acc, nil
}

func evalSumif(arr value.Value, body ast.Node, outer *Scope, ctx *Context, pos token.Position) (value.Value, error) {
	sum := 0.0
	for _, elem := range arr.Elems() {
		child := lambdaScope(body, outer, elem, nil)
		v, err := Eval(body, child, ctx)
		if err != nil {
			return value.Value{}, err
		}
		if v.ToBool() {
			if elem.Kind() != value.KindNumber {
				return value.Value{}, newErr(TypeError, pos, "sumif requires Number elements, got %s", elem.Kind())
			}
			sum += elem.Num()
		}
	}
	return value.Number(sum), nil
}

func evalAvgif(arr value.Value, body ast.Node, outer *Scope, ctx *Context, pos token.Position) (value.Value, error) {
	sum, count := 0.0, 0
	for _, elem := range arr.Elems() {
		child := lambdaScope(body, outer, elem, nil)
		v, err := Eval(body, child, ctx)
		if err != nil {
			return value.Value{}, err
		}
		if v.ToBool() {
			if elem.Kind() != value.KindNumber {
				return value.Value{}, newErr(TypeError, pos, "avgif requires Number elements, got %s", elem.Kind())
			}
			sum += elem.Num()
			count++
		}
	}
	if count == 0 {
		return value.Number(0), nil
	}
	return value.Number(sum / float64(count)), nil
}

func evalCountif(arr value.Value, body ast.Node, outer *Scope, ctx *Context, pos token.Position) (value.Value, error) {
	count := 0
	for _, elem := range arr.Elems() {
		child := lambdaScope(body, outer, elem, nil)
		v, err := Eval(body, child, ctx)
		if err != nil {
			return value.Value{}, err
		}
		if v.ToBool() {
			count++
		}
	}
	return value.Number(float64(count)), nil
}

// dispatchHigherOrder runs the higher-order form named by upperName against
// arr using the raw (unevaluated) lambda body(s) in rawArgs.
func dispatchHigherOrder(upperName string, arr value.Value, rawArgs []ast.Node, outer *Scope, ctx *Context, pos token.Position) (value.Value, error) {
	if arr.Kind() != value.KindArray {
		return value.Value{}, newErr(TypeError, pos, "%s requires an Array receiver, got %s", upperName, arr.Kind())
	}
	switch upperName {
	case "FILTER":
		if len(rawArgs) != 1 {
			return value.Value{}, newErr(ArityMismatch, pos, "filter expects exactly 1 argument")
		}
		return evalFilter(arr, rawArgs[0], outer, ctx, pos)
	case "MAP":
		if len(rawArgs) != 1 {
			return value.Value{}, newErr(ArityMismatch, pos, "map expects exactly 1 argument")
		}
		return evalMap(arr, rawArgs[0], outer, ctx, pos)
	case "REDUCE":
		if len(rawArgs) != 2 {
			return value.Value{}, newErr(ArityMismatch, pos, "reduce expects exactly 2 arguments (lambda, init)")
		}
		return evalReduce(arr, rawArgs[0], rawArgs[1], outer, ctx, pos)
	case "SUMIF":
		if len(rawArgs) != 1 {
			return value.Value{}, newErr(ArityMismatch, pos, "sumif expects exactly 1 argument")
		}
		return evalSumif(arr, rawArgs[0], outer, ctx, pos)
	case "AVGIF":
		if len(rawArgs) != 1 {
			return value.Value{}, newErr(ArityMismatch, pos, "avgif expects exactly 1 argument")
		}
		return evalAvgif(arr, rawArgs[0], outer, ctx, pos)
	case "COUNTIF":
		if len(rawArgs) != 1 {
			return value.Value{}, newErr(ArityMismatch, pos, "countif expects exactly 1 argument")
		}
		return evalCountif(arr, rawArgs[0], outer, ctx, pos)
	default:
		return value.Value{}, newErr(UnknownFunction, pos, "unknown higher-order form %q", upperName)
	}
}
