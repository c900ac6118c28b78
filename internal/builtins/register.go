// Package builtins registers every built-in function named in spec.md §4.7
// into the default registry, one file per concern (arithmetic, strings,
// arrays, logical, stats, financial, datetime, typecheck, jsonfns) —
// grounded on the teacher's internal/interp/builtins package, which splits
// its (much larger) standard library the same way rather than one monolith.
//
// FILTER, MAP, REDUCE, SUMIF, AVGIF, COUNTIF, IF, and IFS are not registered
// here: they are evaluator special forms (internal/evaluator/call.go,
// higherorder.go) because their lambda/branch arguments must stay
// unevaluated ASTs, which a registry.Func's already-evaluated []value.Value
// signature cannot carry. See DESIGN.md.
package builtins

import "github.com/cwbudde/skillet/internal/registry"

func init() {
	registerArithmetic(registry.Default())
	registerStrings(registry.Default())
	registerArrays(registry.Default())
	registerLogical(registry.Default())
	registerStats(registry.Default())
	registerFinancial(registry.Default())
	registerDatetime(registry.Default())
	registerTypecheck(registry.Default())
	registerJSONFns(registry.Default())
}
