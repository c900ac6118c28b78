package evaluator

import (
	"strings"

	"github.com/cwbudde/skillet/internal/ast"
	"github.com/cwbudde/skillet/internal/value"
)

// evalCall handles a bare function call name(args...). IF/IFS and the
// functional higher-order forms (FILTER, MAP, REDUCE, SUMIF, AVGIF,
// COUNTIF) are evaluator special forms with lazily-evaluated arguments;
// everything else is resolved through the function registry with eagerly
// evaluated, spread-expanded arguments.
func evalCall(n *ast.Call, scope *Scope, ctx *Context) (value.Value, error) {
	upper := strings.ToUpper(n.Name)

	switch upper {
	case "IF":
		return evalIfCall(n, scope, ctx)
	case "IFS":
		return evalIfsCall(n, scope, ctx)
	}

	if higherOrderNames[upper] {
		if len(n.Args) < 1 {
			return value.Value{}, newErr(ArityMismatch, n.Pos(), "%s expects an Array as its first argument", upper)
		}
		arr, err := Eval(n.Args[0], scope, ctx)
		if err != nil {
			return value.Value{}, err
		}
		return dispatchHigherOrder(upper, arr, n.Args[1:], scope, ctx, n.Pos())
	}

	args, err := evalArgsWithSpread(n.Args, scope, ctx)
	if err != nil {
		return value.Value{}, err
	}

	desc, ok := ctx.Registry.Lookup(n.Name)
	if !ok {
		return value.Value{}, newErr(UnknownFunction, n.Pos(), "unknown function %q", n.Name)
	}
	if err := desc.CheckArity(len(args)); err != nil {
		return value.Value{}, newErr(ArityMismatch, n.Pos(), "%s", err.Error())
	}
	v, err := desc.Call(args)
	if err != nil {
		if evalErr, ok := err.(*Error); ok {
			return value.Value{}, evalErr
		}
		return value.Value{}, newErr(TypeError, n.Pos(), "%s", err.Error())
	}
	return v, nil
}

// evalIfCall implements IF(cond, then, else?) lazily: only the taken
// branch is evaluated, so a side-effecting custom function in the untaken
// branch never runs. cond uses the IF-style to_bool coercion, not the
// strict Boolean rule AND/OR operators enforce.
func evalIfCall(n *ast.Call, scope *Scope, ctx *Context) (value.Value, error) {
	if len(n.Args) < 2 || len(n.Args) > 3 {
		return value.Value{}, newErr(ArityMismatch, n.Pos(), "IF expects 2 or 3 arguments, got %d", len(n.Args))
	}
	cond, err := Eval(n.Args[0], scope, ctx)
	if err != nil {
		return value.Value{}, err
	}
	if cond.ToBool() {
		return Eval(n.Args[1], scope, ctx)
	}
	if len(n.Args) == 3 {
		return Eval(n.Args[2], scope, ctx)
	}
	return value.Null, nil
}

// evalIfsCall implements IFS(cond1, then1, cond2, then2, ..., [else]):
// evaluates conditions in order, short-circuiting on the first truthy one.
// An odd final argument with no paired condition is the default/else.
func evalIfsCall(n *ast.Call, scope *Scope, ctx *Context) (value.Value, error) {
	if len(n.Args) < 2 {
		return value.Value{}, newErr(ArityMismatch, n.Pos(), "IFS expects at least 2 arguments")
	}
	i := 0
	for ; i+1 < len(n.Args); i += 2 {
		cond, err := Eval(n.Args[i], scope, ctx)
		if err != nil {
			return value.Value{}, err
		}
		if cond.ToBool() {
			return Eval(n.Args[i+1], scope, ctx)
		}
	}
	if i < len(n.Args) {
		return Eval(n.Args[i], scope, ctx)
	}
	return value.Null, nil
}

// evalArgsWithSpread evaluates a call's argument list, splicing any Spread
// node's Array target into positional arguments before the caller performs
// its arity check, per spec.md §4.3/§4.4.
func evalArgsWithSpread(argNodes []ast.Node, scope *Scope, ctx *Context) ([]value.Value, error) {
	var args []value.Value
	for _, a := range argNodes {
		if sp, ok := a.(*ast.Spread); ok {
			arr, err := Eval(sp.Value, scope, ctx)
			if err != nil {
				return nil, err
			}
			if arr.Kind() != value.KindArray {
				return nil, newErr(TypeError, sp.Pos(), "spread target must be an Array, got %s", arr.Kind())
			}
			args = append(args, arr.Elems()...)
			continue
		}
		v, err := Eval(a, scope, ctx)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}
