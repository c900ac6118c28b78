package builtins_test

import (
	"testing"

	_ "github.com/cwbudde/skillet/internal/builtins"
	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, name string, args ...value.Value) (value.Value, error) {
	t.Helper()
	d, ok := registry.Default().Lookup(name)
	require.True(t, ok, "function %s not registered", name)
	require.NoError(t, d.CheckArity(len(args)))
	return d.Call(args)
}

func TestSumFlattensNestedArrays(t *testing.T) {
	nums := value.Array([]value.Value{value.Number(5), value.Number(10)})
	v, err := call(t, "SUM", value.Number(1), value.Number(2), nums)
	require.NoError(t, err)
	assert.Equal(t, 18.0, v.Num())
}

func TestAvgOfArrayArgument(t *testing.T) {
	v, err := call(t, "AVG", value.Array([]value.Value{value.Number(10), value.Number(20), value.Number(30)}))
	require.NoError(t, err)
	assert.Equal(t, 20.0, v.Num())
}

func TestRoundHalfToEven(t *testing.T) {
	v, err := call(t, "ROUND", value.Number(2.5))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v.Num())

	v, err = call(t, "ROUND", value.Number(3.5))
	require.NoError(t, err)
	assert.Equal(t, 4.0, v.Num())
}

func TestModTruncatedDivision(t *testing.T) {
	v, err := call(t, "MOD", value.Number(-7), value.Number(3))
	require.NoError(t, err)
	assert.Equal(t, -1.0, v.Num())
}

func TestModByZeroErrors(t *testing.T) {
	_, err := call(t, "MOD", value.Number(1), value.Number(0))
	assert.Error(t, err)
}

func TestSqrtOfNegativeErrors(t *testing.T) {
	_, err := call(t, "SQRT", value.Number(-4))
	assert.Error(t, err)
}
