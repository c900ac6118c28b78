package jsonvalue_test

import (
	"testing"

	"github.com/cwbudde/skillet/internal/jsonvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueConstructors(t *testing.T) {
	assert.Equal(t, jsonvalue.KindNull, jsonvalue.NewNull().Kind())
	assert.Equal(t, jsonvalue.KindBoolean, jsonvalue.NewBoolean(true).Kind())
	assert.Equal(t, jsonvalue.KindNumber, jsonvalue.NewNumber(1.23).Kind())
	assert.Equal(t, jsonvalue.KindInt64, jsonvalue.NewInt64(42).Kind())
	assert.Equal(t, jsonvalue.KindString, jsonvalue.NewString("foo").Kind())
	assert.Equal(t, jsonvalue.KindArray, jsonvalue.NewArray().Kind())
	assert.Equal(t, jsonvalue.KindObject, jsonvalue.NewObject().Kind())
}

func TestObjectPreservesInsertionOrder(t *testing.T) {
	obj := jsonvalue.NewObject()
	obj.ObjectSet("z", jsonvalue.NewNumber(1))
	obj.ObjectSet("a", jsonvalue.NewNumber(2))
	obj.ObjectSet("m", jsonvalue.NewNumber(3))
	assert.Equal(t, []string{"z", "a", "m"}, obj.ObjectKeys())

	raw, err := obj.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2,"m":3}`, string(raw))

	assert.True(t, obj.ObjectDelete("a"))
	assert.Equal(t, []string{"z", "m"}, obj.ObjectKeys())
	assert.False(t, obj.ObjectDelete("a"))
}

func TestArrayAppendSetDelete(t *testing.T) {
	arr := jsonvalue.NewArray()
	arr.ArrayAppend(jsonvalue.NewString("a"))
	arr.ArrayAppend(jsonvalue.NewString("b"))
	arr.ArrayAppend(jsonvalue.NewString("c"))
	require.Equal(t, 3, arr.ArrayLen())

	require.True(t, arr.ArraySet(1, jsonvalue.NewString("B")))
	assert.Equal(t, "B", arr.ArrayGet(1).StringValue())
	assert.False(t, arr.ArraySet(10, jsonvalue.NewString("x")))

	assert.True(t, arr.ArrayDelete(0))
	require.Equal(t, 2, arr.ArrayLen())
	assert.Equal(t, "B", arr.ArrayGet(0).StringValue())
	assert.Equal(t, "c", arr.ArrayGet(1).StringValue())
	assert.False(t, arr.ArrayDelete(10))

	elements := arr.ArrayElements()
	require.Len(t, elements, arr.ArrayLen())
}

func TestParseJSONRoundTrip(t *testing.T) {
	src := `{"name":"Alice","age":30,"tags":["a","b"],"active":true,"score":null}`
	v, err := jsonvalue.ParseJSON([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, jsonvalue.KindObject, v.Kind())
	assert.Equal(t, "Alice", v.ObjectGet("name").StringValue())
	assert.Equal(t, int64(30), v.ObjectGet("age").Int64Value())
	assert.Equal(t, 2, v.ObjectGet("tags").ArrayLen())
	assert.True(t, v.ObjectGet("active").BoolValue())
	assert.Equal(t, jsonvalue.KindNull, v.ObjectGet("score").Kind())
}

func TestParseJSONPreservesKeyOrder(t *testing.T) {
	src := `{"z":1,"a":{"y":2,"b":3},"m":[{"k":1,"j":2}]}`
	v, err := jsonvalue.ParseJSON([]byte(src))
	require.NoError(t, err)
	raw, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, src, string(raw))
}

func TestFromGoAndToGo(t *testing.T) {
	v := jsonvalue.FromGo(map[string]any{
		"a": 1.5,
		"b": []any{1.0, 2.0},
	})
	back := v.ToGo().(map[string]any)
	assert.Equal(t, 1.5, back["a"])
	assert.Equal(t, []any{1.0, 2.0}, back["b"])
}

func TestNilValueIsSafeToQuery(t *testing.T) {
	var v *jsonvalue.Value
	assert.Equal(t, jsonvalue.KindUndefined, v.Kind())
	assert.Nil(t, v.ObjectGet("x"))
	assert.Equal(t, 0, v.ArrayLen())
	assert.Equal(t, "", v.StringValue())
}
