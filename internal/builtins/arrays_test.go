package builtins_test

import (
	"testing"

	"github.com/cwbudde/skillet/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortDescending(t *testing.T) {
	arr := value.Array([]value.Value{value.Number(3), value.Number(1), value.Number(2)})
	v, err := call(t, "SORT", arr, value.String("DESC"))
	require.NoError(t, err)
	elems := v.Elems()
	assert.Equal(t, 3.0, elems[0].Num())
	assert.Equal(t, 2.0, elems[1].Num())
	assert.Equal(t, 1.0, elems[2].Num())
}

func TestUniquePreservesOrder(t *testing.T) {
	arr := value.Array([]value.Value{value.Number(1), value.Number(2), value.Number(1), value.Number(3)})
	v, err := call(t, "UNIQUE", arr)
	require.NoError(t, err)
	elems := v.Elems()
	require.Len(t, elems, 3)
	assert.Equal(t, 1.0, elems[0].Num())
	assert.Equal(t, 2.0, elems[1].Num())
	assert.Equal(t, 3.0, elems[2].Num())
}

func TestInMatchesContainsArgumentOrder(t *testing.T) {
	arr := value.Array([]value.Value{value.Number(1), value.Number(2)})
	v, err := call(t, "IN", arr, value.Number(2))
	require.NoError(t, err)
	assert.True(t, v.Bool())

	v, err = call(t, "IN", arr, value.Number(3))
	require.NoError(t, err)
	assert.False(t, v.Bool())

	v, err = call(t, "CONTAINS", arr, value.Number(2))
	require.NoError(t, err)
	assert.True(t, v.Bool())
}

func TestFlattenNestedArrays(t *testing.T) {
	inner := value.Array([]value.Value{value.Number(2), value.Number(3)})
	arr := value.Array([]value.Value{value.Number(1), inner, value.Number(4)})
	v, err := call(t, "FLATTEN", arr)
	require.NoError(t, err)
	elems := v.Elems()
	require.Len(t, elems, 4)
	assert.Equal(t, 1.0, elems[0].Num())
	assert.Equal(t, 4.0, elems[3].Num())
}
