package registry_test

import (
	"testing"

	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constFn(v value.Value) registry.Func {
	return func(args []value.Value) (value.Value, error) { return v, nil }
}

func TestOverridePrecedenceAndUnregister(t *testing.T) {
	r := registry.New()
	r.RegisterBuiltin(&registry.Descriptor{Name: "SUM", MinArgs: 0, MaxArgs: registry.Unbounded, Call: constFn(value.Number(1))})

	d, ok := r.Lookup("sum")
	require.True(t, ok)
	v, err := d.Call(nil)
	require.NoError(t, err)
	assert.True(t, value.Equal(v, value.Number(1)))

	r.Register(registry.Descriptor{Name: "SUM", MinArgs: 0, MaxArgs: registry.Unbounded, Call: constFn(value.Number(99))})
	d, _ = r.Lookup("SUM")
	v, _ = d.Call(nil)
	assert.True(t, value.Equal(v, value.Number(99)))

	assert.True(t, r.Unregister("SUM"))
	d, _ = r.Lookup("SUM")
	v, _ = d.Call(nil)
	assert.True(t, value.Equal(v, value.Number(1)))

	assert.False(t, r.Unregister("SUM"))
}

func TestLookupMissingName(t *testing.T) {
	r := registry.New()
	_, ok := r.Lookup("NOPE")
	assert.False(t, ok)
}

func TestCheckArityBounds(t *testing.T) {
	d := &registry.Descriptor{Name: "POW", MinArgs: 2, MaxArgs: 2}
	assert.Error(t, d.CheckArity(1))
	assert.Error(t, d.CheckArity(3))
	assert.NoError(t, d.CheckArity(2))

	unbounded := &registry.Descriptor{Name: "SUM", MinArgs: 0, MaxArgs: registry.Unbounded}
	assert.NoError(t, unbounded.CheckArity(1000))
}

func TestNamesDeduplicatesAndSorts(t *testing.T) {
	r := registry.New()
	r.RegisterBuiltin(&registry.Descriptor{Name: "sum", Call: constFn(value.Null)})
	r.RegisterBuiltin(&registry.Descriptor{Name: "avg", Call: constFn(value.Null)})
	r.Register(registry.Descriptor{Name: "SUM", Call: constFn(value.Null)})

	names := r.Names()
	assert.Equal(t, []string{"AVG", "SUM"}, names)
}
