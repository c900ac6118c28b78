package skillet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/value"
	"github.com/cwbudde/skillet/pkg/skillet"
)

func TestEvaluateScenarios(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"2 + 3 * 4", 14},
		{"(2+3)*4", 20},
		{"2^3^2", 512},
		{":x := 42; :x", 42},
		{"[30,60,80,100].filter(:x>50).map(:x*0.9).sum()", 216},
	}
	for _, tt := range tests {
		v, err := skillet.Evaluate(tt.expr)
		require.NoError(t, err, tt.expr)
		assert.InDelta(t, tt.want, v.Num(), 1e-9, tt.expr)
	}
}

func TestEvaluateWithScope(t *testing.T) {
	v, err := skillet.EvaluateWith(":a + :b", map[string]value.Value{
		"a": value.Number(2),
		"b": value.Number(40),
	})
	require.NoError(t, err)
	assert.Equal(t, 42.0, v.Num())
}

func TestPMTScenario(t *testing.T) {
	v, err := skillet.Evaluate("PMT(0.05/12, 30*12, 100000)")
	require.NoError(t, err)
	assert.InDelta(t, -536.82, v.Num(), 0.01)
}

func TestSafeNavChainOverObjects(t *testing.T) {
	v, err := skillet.Evaluate(`:obj := {user:{profile:{name:"Jane"}}}; :obj&.user&.missing&.name`)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestEvaluateWithAssignmentsScoping(t *testing.T) {
	scope := map[string]value.Value{"base": value.Number(10)}

	v, err := skillet.EvaluateWithAssignments(":x := :base * 2; :x + 1", scope)
	require.NoError(t, err)
	assert.Equal(t, 21.0, v.Num())
	_, leaked := scope["x"]
	assert.False(t, leaked, "caller scope must stay unchanged")

	v, extended, err := skillet.EvaluateWithAssignmentsAndContext(":x := :base * 2; :x + 1", scope)
	require.NoError(t, err)
	assert.Equal(t, 21.0, v.Num())
	require.Contains(t, extended, "x")
	assert.Equal(t, 20.0, extended["x"].Num())
	assert.Equal(t, 10.0, extended["base"].Num())
}

func TestArrayFunctionsInAssignmentSequence(t *testing.T) {
	expr := ":arr := [1, 2, 3, 4, 5]; :size := COUNT(:arr); :has_three := IN(:arr, 3); IF(:has_three, :size, 0)"
	v, err := skillet.EvaluateWithAssignments(expr, nil)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.Num())
}

func TestEvaluateWithJSON(t *testing.T) {
	payload := `{"accounts":[{"amount":300.1},{"amount":890.1}]}`

	v, err := skillet.EvaluateWithJSON(`SUM(JQ(:arguments, "$.accounts[*].amount"))`, payload)
	require.NoError(t, err)
	assert.InDelta(t, 1190.2, v.Num(), 1e-9)
}

func TestEvaluateWithJSONBindsSanitizedVariables(t *testing.T) {
	payload := `{"unit price": 4, "qty": 3}`

	v, err := skillet.EvaluateWithJSON(":unit_price * :qty", payload)
	require.NoError(t, err)
	assert.Equal(t, 12.0, v.Num())
}

func TestEvaluateWithJSONRejectsBadPayload(t *testing.T) {
	_, err := skillet.EvaluateWithJSON("1", "{not json")
	assert.Error(t, err)
}

func TestRegisterOverrideAndUnregister(t *testing.T) {
	skillet.Register(registry.Descriptor{
		Name: "SUM", MinArgs: 0, MaxArgs: registry.Unbounded,
		Call: func(_ []value.Value) (value.Value, error) {
			return value.Number(-99), nil
		},
	})
	v, err := skillet.EvaluateWithCustom("SUM(1, 2)", nil)
	require.NoError(t, err)
	assert.Equal(t, -99.0, v.Num())

	require.True(t, skillet.Unregister("SUM"))
	v, err = skillet.Evaluate("SUM(1, 2)")
	require.NoError(t, err)
	assert.Equal(t, 3.0, v.Num())

	assert.False(t, skillet.Unregister("SUM"), "nothing custom left to unregister")
}

func TestCustomFunctionArityEnforced(t *testing.T) {
	invoked := false
	skillet.Register(registry.Descriptor{
		Name: "EXACTLY_TWO", MinArgs: 2, MaxArgs: 2,
		Call: func(args []value.Value) (value.Value, error) {
			invoked = true
			return args[0], nil
		},
	})
	defer skillet.Unregister("EXACTLY_TWO")

	_, err := skillet.Evaluate("EXACTLY_TWO(1)")
	assert.Error(t, err)
	_, err = skillet.Evaluate("EXACTLY_TWO(1, 2, 3)")
	assert.Error(t, err)
	assert.False(t, invoked, "callee must not run on arity mismatch")

	v, err := skillet.Evaluate("EXACTLY_TWO(1, 2)")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Num())
	assert.True(t, invoked)
}

func TestSpreadIdentity(t *testing.T) {
	direct, err := skillet.Evaluate("MAX(1, 5, 3)")
	require.NoError(t, err)
	spread, err := skillet.Evaluate("MAX(...[1, 5, 3])")
	require.NoError(t, err)
	assert.True(t, value.Equal(direct, spread))
}

func TestEvaluateCachedTransparency(t *testing.T) {
	skillet.ClearCache()

	expr := ":a * 2 + 1"
	scope := map[string]value.Value{"a": value.Number(20)}

	plain, err := skillet.EvaluateWith(expr, scope)
	require.NoError(t, err)

	res := skillet.EvaluateCached(expr, scope, false)
	require.NoError(t, res.Err)
	assert.False(t, res.CacheHit)
	assert.True(t, value.Equal(plain, res.Value))

	res = skillet.EvaluateCached(expr, scope, false)
	require.NoError(t, res.Err)
	assert.True(t, res.CacheHit)
	assert.True(t, value.Equal(plain, res.Value))

	stats := skillet.CacheStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestEvaluateCachedKeyOrderInsensitive(t *testing.T) {
	skillet.ClearCache()

	a := map[string]value.Value{"x": value.Number(1), "y": value.Number(2)}
	b := map[string]value.Value{"y": value.Number(2), "x": value.Number(1)}

	res := skillet.EvaluateCached(":x + :y", a, false)
	require.NoError(t, res.Err)
	require.False(t, res.CacheHit)

	res = skillet.EvaluateCached(":x + :y", b, false)
	require.NoError(t, res.Err)
	assert.True(t, res.CacheHit, "insertion order must not change the fingerprint")
}

func TestEvaluateCachedReturnsScopeWhenAsked(t *testing.T) {
	skillet.ClearCache()

	res := skillet.EvaluateCached(":x := 7; :x * 2", nil, true)
	require.NoError(t, res.Err)
	require.Contains(t, res.Scope, "x")
	assert.Equal(t, 7.0, res.Scope["x"].Num())

	// The scope snapshot survives a cache hit.
	res = skillet.EvaluateCached(":x := 7; :x * 2", nil, true)
	require.NoError(t, res.Err)
	require.True(t, res.CacheHit)
	require.Contains(t, res.Scope, "x")
	assert.Equal(t, 7.0, res.Scope["x"].Num())
}

func TestEvaluateCachedNeverCachesErrors(t *testing.T) {
	skillet.ClearCache()

	res := skillet.EvaluateCached("1 / 0", nil, false)
	require.Error(t, res.Err)
	assert.Equal(t, 0, skillet.CacheStats().Entries)

	res = skillet.EvaluateCached("1 / 0", nil, false)
	require.Error(t, res.Err)
	assert.False(t, res.CacheHit)
}

func TestDeterminism(t *testing.T) {
	scope := map[string]value.Value{"v": value.Array([]value.Value{
		value.Number(3), value.Number(1), value.Number(2),
	})}
	first, err := skillet.EvaluateWith(":v.sort().join(\"-\")", scope)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := skillet.EvaluateWith(":v.sort().join(\"-\")", scope)
		require.NoError(t, err)
		assert.True(t, value.Equal(first, again))
	}
	assert.Equal(t, "1-2-3", first.Str())
}
