package evaluator

import (
	"strings"

	"github.com/cwbudde/skillet/internal/ast"
	"github.com/cwbudde/skillet/internal/value"
)

// evalMethodCall resolves "receiver.name(args...)" / "receiver&.name(args...)".
// An Array receiver whose name is a higher-order form (filter/map/reduce/
// sumif/avgif/countif) is routed to dispatchHigherOrder with its raw,
// unevaluated argument AST before anything else is considered, since those
// forms must not eagerly evaluate their lambda body.
func evalMethodCall(n *ast.MethodCall, scope *Scope, ctx *Context) (value.Value, error) {
	receiver, err := Eval(n.Receiver, scope, ctx)
	if err != nil {
		return value.Value{}, err
	}

	if n.Safe && receiver.IsNull() {
		return value.Null, nil
	}

	lower := strings.ToLower(n.Name)
	upper := strings.ToUpper(n.Name)

	if receiver.Kind() == value.KindArray && higherOrderNames[upper] {
		return dispatchHigherOrder(upper, receiver, n.Args, scope, ctx, n.Pos())
	}

	if receiver.IsNull() && !isConversionMethod(lower) {
		return value.Value{}, newErr(TypeError, n.Pos(), "cannot call method %q on Null", n.Name)
	}

	if lower == "dig" {
		args, err := evalArgsWithSpread(n.Args, scope, ctx)
		if err != nil {
			return value.Value{}, err
		}
		return Dig(receiver, args, n.Pos())
	}

	args, err := evalArgsWithSpread(n.Args, scope, ctx)
	if err != nil {
		return value.Value{}, err
	}

	fn, ok := lookupMethod(receiver.Kind(), lower)
	if !ok {
		return value.Value{}, newErr(UnknownFunction, n.Pos(), "%s has no method %q", receiver.Kind(), n.Name)
	}
	return fn(receiver, args, n.Pos())
}

// evalProperty resolves "receiver.name" / "receiver&.name" where name is not
// followed by a call: JSON object field access, or a zero-arg method read
// (e.g. "s.length", "n.blank?") falling back to the method table.
func evalProperty(n *ast.Property, scope *Scope, ctx *Context) (value.Value, error) {
	receiver, err := Eval(n.Receiver, scope, ctx)
	if err != nil {
		return value.Value{}, err
	}

	if n.Safe && receiver.IsNull() {
		return value.Null, nil
	}

	if receiver.Kind() == value.KindJSON {
		doc := receiver.JSONDoc()
		if field := doc.ObjectGet(n.Name); field != nil {
			return fromJSONDoc(field), nil
		}
		// Fall back to the method table so conversion reads like
		// obj.to_json still work on a Json receiver.
		if fn, ok := lookupMethod(value.KindJSON, strings.ToLower(n.Name)); ok {
			return fn(receiver, nil, n.Pos())
		}
		if n.Safe {
			return value.Null, nil
		}
		return value.Value{}, newErr(JsonPathError, n.Pos(), "no field %q on JSON object", n.Name)
	}

	lower := strings.ToLower(n.Name)
	if receiver.IsNull() && !isConversionMethod(lower) {
		return value.Value{}, newErr(TypeError, n.Pos(), "cannot read property %q on Null", n.Name)
	}

	fn, ok := lookupMethod(receiver.Kind(), lower)
	if !ok {
		return value.Value{}, newErr(UnknownFunction, n.Pos(), "%s has no property %q", receiver.Kind(), n.Name)
	}
	return fn(receiver, nil, n.Pos())
}

func isConversionMethod(lowerName string) bool {
	switch lowerName {
	case "to_s", "to_i", "to_f", "to_a", "to_bool", "to_json":
		return true
	default:
		return false
	}
}
