// Package evaluator tree-walks an internal/ast expression into a
// internal/value.Value, carrying a mutable internal/evaluator.Scope and
// consulting an internal/registry.Registry for function calls. It performs
// no I/O itself (aside from NOW/DATE/TIME reading the wall clock, or a
// registered custom function's own I/O), matching the teacher's separation
// of a pure interpreter core from its hosting server.
package evaluator

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/cwbudde/skillet/internal/ast"
	"github.com/cwbudde/skillet/internal/jsonvalue"
	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/token"
	"github.com/cwbudde/skillet/internal/value"
)

// DefaultMaxDepth bounds recursive Eval calls, mirroring the parser's
// nesting guard so a deeply nested tree that somehow bypassed parse-time
// limits (e.g. constructed programmatically) still can't exhaust the stack.
const DefaultMaxDepth = 512

// Context carries the dependencies and recursion-depth bookkeeping for one
// evaluation call. It is intentionally thin: no class table, no frame
// stack beyond Go's own — this language has no user-defined functions or
// control-flow blocks that would need one.
type Context struct {
	Registry *registry.Registry
	depth    int
	maxDepth int
}

// NewContext creates a Context bound to reg.
func NewContext(reg *registry.Registry) *Context {
	return &Context{Registry: reg, maxDepth: DefaultMaxDepth}
}

func (c *Context) enter(pos token.Position) (*Error, bool) {
	c.depth++
	if c.depth > c.maxDepth {
		c.depth--
		return newErr(Overflow, pos, "evaluation exceeds maximum recursion depth %d", c.maxDepth), false
	}
	return nil, true
}

func (c *Context) leave() { c.depth-- }

// Eval evaluates node against scope using ctx.
func Eval(node ast.Node, scope *Scope, ctx *Context) (value.Value, error) {
	if errv, ok := ctx.enter(node.Pos()); !ok {
		return value.Value{}, errv
	}
	defer ctx.leave()

	switch n := node.(type) {
	case *ast.NumberLit:
		return value.Number(n.Value), nil
	case *ast.StringLit:
		return value.String(n.Value), nil
	case *ast.BoolLit:
		return value.Boolean(n.Value), nil
	case *ast.NullLit:
		return value.Null, nil
	case *ast.VarRef:
		v, ok := scope.Get(n.Name)
		if !ok {
			return value.Value{}, newErr(UnknownIdentifier, n.Pos(), "undefined variable :%s", n.Name)
		}
		return v, nil
	case *ast.Ident:
		return value.Value{}, newErr(UnknownIdentifier, n.Pos(), "unexpected bare identifier %q", n.Name)
	case *ast.Unary:
		return evalUnary(n, scope, ctx)
	case *ast.Binary:
		return evalBinary(n, scope, ctx)
	case *ast.Ternary:
		cond, err := Eval(n.Cond, scope, ctx)
		if err != nil {
			return value.Value{}, err
		}
		if cond.ToBool() {
			return Eval(n.Then, scope, ctx)
		}
		return Eval(n.Else, scope, ctx)
	case *ast.Assign:
		v, err := Eval(n.Value, scope, ctx)
		if err != nil {
			return value.Value{}, err
		}
		scope.Set(n.Name, v)
		return v, nil
	case *ast.Sequence:
		var last value.Value
		for _, e := range n.Exprs {
			v, err := Eval(e, scope, ctx)
			if err != nil {
				return value.Value{}, err
			}
			last = v
		}
		return last, nil
	case *ast.ArrayLit:
		return evalArrayLit(n, scope, ctx)
	case *ast.ObjectLit:
		return evalObjectLit(n, scope, ctx)
	case *ast.Spread:
		return value.Value{}, newErr(TypeError, n.Pos(), "spread is only valid inside a call argument list or array literal")
	case *ast.Call:
		return evalCall(n, scope, ctx)
	case *ast.MethodCall:
		return evalMethodCall(n, scope, ctx)
	case *ast.Index:
		return evalIndex(n, scope, ctx)
	case *ast.Slice:
		return evalSlice(n, scope, ctx)
	case *ast.Cast:
		return evalCast(n, scope, ctx)
	case *ast.Property:
		return evalProperty(n, scope, ctx)
	default:
		return value.Value{}, newErr(TypeError, node.Pos(), "unsupported expression node %T", node)
	}
}

func evalUnary(n *ast.Unary, scope *Scope, ctx *Context) (value.Value, error) {
	v, err := Eval(n.Operand, scope, ctx)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case "-":
		if v.Kind() != value.KindNumber {
			return value.Value{}, newErr(TypeError, n.Pos(), "unary '-' requires a Number operand, got %s", v.Kind())
		}
		return value.Number(-v.Num()), nil
	case "!", "NOT":
		if v.Kind() != value.KindBoolean {
			return value.Value{}, newErr(TypeError, n.Pos(), "unary NOT requires a Boolean operand, got %s", v.Kind())
		}
		return value.Boolean(!v.Bool()), nil
	default:
		return value.Value{}, newErr(TypeError, n.Pos(), "unknown unary operator %q", n.Op)
	}
}

func evalArrayLit(n *ast.ArrayLit, scope *Scope, ctx *Context) (value.Value, error) {
	var elems []value.Value
	for _, e := range n.Elems {
		if sp, ok := e.(*ast.Spread); ok {
			arr, err := Eval(sp.Value, scope, ctx)
			if err != nil {
				return value.Value{}, err
			}
			if arr.Kind() != value.KindArray {
				return value.Value{}, newErr(TypeError, sp.Pos(), "spread target must be an Array, got %s", arr.Kind())
			}
			elems = append(elems, arr.Elems()...)
			continue
		}
		v, err := Eval(e, scope, ctx)
		if err != nil {
			return value.Value{}, err
		}
		elems = append(elems, v)
	}
	return value.Array(elems), nil
}

// evalObjectLit materializes "{key: value, ...}" as canonical JSON text,
// built up one sjson path-set at a time, then parsed into the Json value
// the rest of the evaluator traverses. Duplicate keys follow last-wins.
func evalObjectLit(n *ast.ObjectLit, scope *Scope, ctx *Context) (value.Value, error) {
	out := "{}"
	for _, entry := range n.Entries {
		v, err := Eval(entry.Value, scope, ctx)
		if err != nil {
			return value.Value{}, err
		}
		raw, err := json.Marshal(toJSONDoc(v))
		if err != nil {
			return value.Value{}, newErr(TypeError, entry.Value.Pos(), "cannot serialize object entry %q: %v", entry.Key, err)
		}
		out, err = sjson.SetRaw(out, escapeSJSONKey(entry.Key), string(raw))
		if err != nil {
			return value.Value{}, newErr(TypeError, n.Pos(), "cannot build object literal: %v", err)
		}
	}
	obj, err := value.JSONFromText(out)
	if err != nil {
		return value.Value{}, newErr(TypeError, n.Pos(), "object literal is not valid JSON: %v", err)
	}
	return obj, nil
}

// escapeSJSONKey backslash-escapes the characters sjson treats as path
// syntax so an object key like "a.b" sets a literal field, not a nested one.
func escapeSJSONKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '#', '|', '@', ':', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// toJSONDoc converts a runtime Value into a jsonvalue.Value tree, used when
// materializing object/array literals and when feeding values into JQ/DIG.
func toJSONDoc(v value.Value) *jsonvalue.Value {
	switch v.Kind() {
	case value.KindNull:
		return jsonvalue.NewNull()
	case value.KindBoolean:
		return jsonvalue.NewBoolean(v.Bool())
	case value.KindNumber:
		if v.Num() == math.Trunc(v.Num()) {
			return jsonvalue.NewInt64(int64(v.Num()))
		}
		return jsonvalue.NewNumber(v.Num())
	case value.KindString:
		return jsonvalue.NewString(v.Str())
	case value.KindDateTime:
		return jsonvalue.NewInt64(v.Unix())
	case value.KindArray:
		arr := jsonvalue.NewArray()
		for _, e := range v.Elems() {
			arr.ArrayAppend(toJSONDoc(e))
		}
		return arr
	case value.KindJSON:
		return v.JSONDoc()
	default:
		return jsonvalue.NewNull()
	}
}

// FromJSONDoc converts a jsonvalue.Value tree node into a runtime Value:
// arrays and scalars become first-class Array/Number/String/Boolean values,
// objects stay wrapped as Json. Exported for built-ins (JQ) that return
// extracted JSON to the expression language.
func FromJSONDoc(doc *jsonvalue.Value) value.Value { return fromJSONDoc(doc) }

// fromJSONDoc converts a jsonvalue.Value tree node into a runtime Value,
// used by JSON property access, JQ, and DIG.
func fromJSONDoc(doc *jsonvalue.Value) value.Value {
	if doc == nil {
		return value.Null
	}
	switch doc.Kind() {
	case jsonvalue.KindUndefined, jsonvalue.KindNull:
		return value.Null
	case jsonvalue.KindBoolean:
		return value.Boolean(doc.BoolValue())
	case jsonvalue.KindNumber:
		return value.Number(doc.NumberValue())
	case jsonvalue.KindInt64:
		return value.Number(float64(doc.Int64Value()))
	case jsonvalue.KindString:
		return value.String(doc.StringValue())
	case jsonvalue.KindArray:
		elems := make([]value.Value, doc.ArrayLen())
		for i := range elems {
			elems[i] = fromJSONDoc(doc.ArrayGet(i))
		}
		return value.Array(elems)
	case jsonvalue.KindObject:
		return value.JSON(doc)
	default:
		return value.Null
	}
}
