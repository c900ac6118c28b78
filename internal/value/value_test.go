package value_test

import (
	"math"
	"testing"

	"github.com/cwbudde/skillet/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegativeZeroNormalizes(t *testing.T) {
	v := value.Number(math.Copysign(0, -1))
	assert.Equal(t, "0", v.ToString())
	assert.True(t, value.Equal(v, value.Number(0)))
}

func TestNewNumberRejectsNaN(t *testing.T) {
	_, err := value.NewNumber(math.NaN())
	require.Error(t, err)
}

func TestToBoolCoercion(t *testing.T) {
	assert.False(t, value.Number(0).ToBool())
	assert.True(t, value.Number(1).ToBool())
	assert.False(t, value.String("").ToBool())
	assert.True(t, value.String("x").ToBool())
	assert.False(t, value.Null.ToBool())
	assert.False(t, value.Boolean(false).ToBool())
	assert.True(t, value.Boolean(true).ToBool())
	assert.False(t, value.Array(nil).ToBool())
	assert.True(t, value.Array([]value.Value{value.Number(0)}).ToBool())
}

func TestEqualityStructural(t *testing.T) {
	assert.True(t, value.Equal(value.Null, value.Null))
	assert.False(t, value.Equal(value.Null, value.Number(0)))
	assert.False(t, value.Equal(value.Number(0), value.Null))

	a := value.Array([]value.Value{value.Number(1), value.String("x")})
	b := value.Array([]value.Value{value.Number(1), value.String("x")})
	c := value.Array([]value.Value{value.Number(1), value.String("y")})
	assert.True(t, value.Equal(a, b))
	assert.False(t, value.Equal(a, c))
}

func TestArrayIsCopiedOnConstruction(t *testing.T) {
	src := []value.Value{value.Number(1), value.Number(2)}
	v := value.Array(src)
	src[0] = value.Number(99)
	assert.Equal(t, float64(1), v.Elems()[0].Num())
}

func TestToStringFormatsIntegralNumbersWithoutDecimal(t *testing.T) {
	assert.Equal(t, "42", value.Number(42).ToString())
	assert.Equal(t, "3.14", value.Number(3.14).ToString())
}

func TestCacheKeyTokenDeterministicForArrays(t *testing.T) {
	a := value.Array([]value.Value{value.Number(1), value.String("x")})
	b := value.Array([]value.Value{value.Number(1), value.String("x")})
	assert.Equal(t, a.CacheKeyToken(), b.CacheKeyToken())
}

func TestSortValuesNumeric(t *testing.T) {
	vals := []value.Value{value.Number(3), value.Number(1), value.Number(2)}
	value.SortValues(vals)
	assert.Equal(t, []float64{1, 2, 3}, []float64{vals[0].Num(), vals[1].Num(), vals[2].Num()})
}

func TestJSONFromTextRoundTrip(t *testing.T) {
	v, err := value.JSONFromText(`{"a":1,"b":[1,2,3]}`)
	require.NoError(t, err)
	assert.Equal(t, value.KindJSON, v.Kind())
	assert.Equal(t, int64(1), v.JSONDoc().ObjectGet("a").Int64Value())
}
