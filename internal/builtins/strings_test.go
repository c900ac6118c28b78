package builtins_test

import (
	"testing"

	"github.com/cwbudde/skillet/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcatSkipsNull(t *testing.T) {
	v, err := call(t, "CONCAT", value.String("a"), value.Null, value.String("b"))
	require.NoError(t, err)
	assert.Equal(t, "ab", v.Str())
}

func TestLengthOnNullIsZero(t *testing.T) {
	v, err := call(t, "LENGTH", value.Null)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Num())
}

func TestReplaceInsertsWithoutRemovingWhenNumCharsZero(t *testing.T) {
	v, err := call(t, "REPLACE", value.String("abcdef"), value.Number(3), value.Number(0), value.String("XY"))
	require.NoError(t, err)
	assert.Equal(t, "abXYcdef", v.Str())
}

func TestReplaceClampsWhenNumCharsExceedsLength(t *testing.T) {
	v, err := call(t, "REPLACE", value.String("abc"), value.Number(2), value.Number(99), value.String("Z"))
	require.NoError(t, err)
	assert.Equal(t, "aZ", v.Str())
}

func TestSubstituteReplacesAllOccurrences(t *testing.T) {
	v, err := call(t, "SUBSTITUTE", value.String("a-b-a"), value.String("a"), value.String("X"))
	require.NoError(t, err)
	assert.Equal(t, "X-b-X", v.Str())
}

func TestMidIsOneBasedSubstringIsZeroBased(t *testing.T) {
	v, err := call(t, "MID", value.String("abcdef"), value.Number(2), value.Number(3))
	require.NoError(t, err)
	assert.Equal(t, "bcd", v.Str())

	v, err = call(t, "SUBSTRING", value.String("abcdef"), value.Number(2), value.Number(3))
	require.NoError(t, err)
	assert.Equal(t, "cde", v.Str())
}

func TestLeftRightDefaultCountOne(t *testing.T) {
	v, err := call(t, "LEFT", value.String("abc"))
	require.NoError(t, err)
	assert.Equal(t, "a", v.Str())

	v, err = call(t, "RIGHT", value.String("abc"))
	require.NoError(t, err)
	assert.Equal(t, "c", v.Str())
}

func TestIncludesCaseSensitive(t *testing.T) {
	v, err := call(t, "INCLUDES", value.String("Hello"), value.String("ell"))
	require.NoError(t, err)
	assert.True(t, v.Bool())

	v, err = call(t, "INCLUDES", value.String("Hello"), value.String("ELL"))
	require.NoError(t, err)
	assert.False(t, v.Bool())
}
