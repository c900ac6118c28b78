// Package skillet is the public embedding API, mirroring the teacher's
// pkg/dwscript role: a stable surface over the internal lexer/parser/
// evaluator/registry/cache machinery, exposing exactly the entry points
// spec.md §6 names.
package skillet

import (
	"encoding/json"
	"strings"
	"time"

	_ "github.com/cwbudde/skillet/internal/builtins"
	"github.com/cwbudde/skillet/internal/ecache"
	"github.com/cwbudde/skillet/internal/evaluator"
	"github.com/cwbudde/skillet/internal/jsonvalue"
	"github.com/cwbudde/skillet/internal/parser"
	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/value"
)

var defaultCache *ecache.Cache

func init() {
	c, err := ecache.New(ecache.DefaultCapacity)
	if err != nil {
		panic(err)
	}
	defaultCache = c
}

// Evaluate parses and evaluates expr with an empty scope.
func Evaluate(expr string) (value.Value, error) {
	return EvaluateWith(expr, nil)
}

// EvaluateWith parses and evaluates expr with scope as the initial variable
// bindings.
func EvaluateWith(expr string, scope map[string]value.Value) (value.Value, error) {
	node, err := parser.Parse(expr)
	if err != nil {
		return value.Value{}, err
	}
	s := evaluator.NewScope(scope)
	ctx := evaluator.NewContext(registry.Default())
	return evaluator.Eval(node, s, ctx)
}

// EvaluateWithCustom is an alias for EvaluateWith: the registry consulted by
// the evaluator already merges custom registrations over built-ins (the
// Registry overlay, see internal/registry), so there is no separate
// evaluation path for "with custom functions" — Register below is what
// makes a custom function visible to every Evaluate* call.
func EvaluateWithCustom(expr string, scope map[string]value.Value) (value.Value, error) {
	return EvaluateWith(expr, scope)
}

// EvaluateWithAssignments behaves like EvaluateWith but discards the final
// scope (use EvaluateWithAssignmentsAndContext to get it back).
func EvaluateWithAssignments(expr string, scope map[string]value.Value) (value.Value, error) {
	v, _, err := EvaluateWithAssignmentsAndContext(expr, scope)
	return v, err
}

// EvaluateWithAssignmentsAndContext evaluates expr and returns both the
// result and the scope as mutated by any assignment statements within expr,
// for callers (such as cmd/skillet's repl) that need variables to persist
// across calls.
func EvaluateWithAssignmentsAndContext(expr string, scope map[string]value.Value) (value.Value, map[string]value.Value, error) {
	node, err := parser.Parse(expr)
	if err != nil {
		return value.Value{}, nil, err
	}
	s := evaluator.NewScope(scope)
	ctx := evaluator.NewContext(registry.Default())
	v, err := evaluator.Eval(node, s, ctx)
	return v, s.Snapshot(), err
}

// sanitizeVarName replaces every non-alphanumeric, non-underscore rune with
// "_", per spec.md §6's JSON-boundary variable naming rule.
func sanitizeVarName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// EvaluateWithJSON decodes jsonPayload as a JSON object and binds each field
// as a scope variable (sanitized per sanitizeVarName), plus the reserved
// ":arguments" binding holding the whole payload as a Json value, then
// evaluates expr.
func EvaluateWithJSON(expr string, jsonPayload string) (value.Value, error) {
	var raw map[string]any
	if jsonPayload != "" {
		if err := json.Unmarshal([]byte(jsonPayload), &raw); err != nil {
			return value.Value{}, err
		}
	}

	scope := make(map[string]value.Value, len(raw)+1)
	for name, v := range raw {
		scope[sanitizeVarName(name)] = fromGoJSON(v)
	}

	argsDoc := jsonvalue.FromGo(map[string]any(raw))
	scope["arguments"] = value.JSON(argsDoc)

	return EvaluateWith(expr, scope)
}

func fromGoJSON(v any) value.Value {
	doc := jsonvalue.FromGo(v)
	switch doc.Kind() {
	case jsonvalue.KindNull, jsonvalue.KindUndefined:
		return value.Null
	case jsonvalue.KindBoolean:
		return value.Boolean(doc.BoolValue())
	case jsonvalue.KindNumber:
		return value.Number(doc.NumberValue())
	case jsonvalue.KindInt64:
		return value.Number(float64(doc.Int64Value()))
	case jsonvalue.KindString:
		return value.String(doc.StringValue())
	default:
		return value.JSON(doc)
	}
}

// Register installs a custom function into the default registry, shadowing
// any built-in of the same name.
func Register(d registry.Descriptor) {
	registry.Default().Register(d)
}

// Unregister removes a custom registration, reporting whether one existed.
func Unregister(name string) bool {
	return registry.Default().Unregister(name)
}

// EvaluateCached evaluates expr via the process-wide cache, keyed on expr
// and scope per ecache.GenerateKey. A hit returns the stored value (and
// scope snapshot, when wantScope is true) along with the recorded
// execution time of the original evaluation; a miss evaluates and — only
// on success — inserts the entry. Errors are never cached.
func EvaluateCached(expr string, scope map[string]value.Value, wantScope bool) ecache.Result {
	key := ecache.GenerateKey(expr, scope)

	if e, ok := defaultCache.Get(key); ok {
		res := ecache.Result{Value: e.Value, Duration: e.Duration, CacheHit: true}
		if wantScope {
			res.Scope = e.Scope
		}
		return res
	}

	start := time.Now()
	v, finalScope, err := EvaluateWithAssignmentsAndContext(expr, scope)
	elapsed := time.Since(start)
	if err != nil {
		return ecache.Result{Err: err, Duration: elapsed}
	}

	defaultCache.Put(key, ecache.Entry{Value: v, Scope: finalScope, Duration: elapsed})
	res := ecache.Result{Value: v, Duration: elapsed}
	if wantScope {
		res.Scope = finalScope
	}
	return res
}

// CacheStats returns the process-wide cache's counters.
func CacheStats() ecache.Stats {
	return defaultCache.Stats()
}

// ClearCache drops every cached entry and resets the counters.
func ClearCache() {
	defaultCache.Clear()
}
