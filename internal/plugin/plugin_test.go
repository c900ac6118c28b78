package plugin_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/skillet/internal/plugin"
	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/value"
)

// echoRunner records which scripts it was asked to run and returns the
// first argument unchanged.
type echoRunner struct {
	ran []string
}

func (r *echoRunner) Run(path string, args []value.Value) (value.Value, error) {
	r.ran = append(r.ran, filepath.Base(path))
	if len(args) > 0 {
		return args[0], nil
	}
	return value.Null, nil
}

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

const doubleScript = `// @name DOUBLE_IT
// @min_args 1
// @max_args 1
// @description Doubles a Number.
// @example DOUBLE_IT(21) = 42
execute(args) {
  return args[0] * 2
}
`

func TestLoadRegistersScriptFunctions(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "double.eqs", doubleScript)

	reg := registry.New()
	runner := &echoRunner{}
	loader := plugin.NewLoader(reg, runner)
	require.NoError(t, loader.Load(dir))

	d, ok := reg.Lookup("DOUBLE_IT")
	require.True(t, ok)
	assert.Equal(t, 1, d.MinArgs)
	assert.Equal(t, 1, d.MaxArgs)
	assert.Equal(t, "Doubles a Number.", d.Description)
	assert.Equal(t, "DOUBLE_IT(21) = 42", d.Example)

	v, err := d.Call([]value.Value{value.Number(21)})
	require.NoError(t, err)
	assert.Equal(t, 21.0, v.Num())
	assert.Equal(t, []string{"double.eqs"}, runner.ran)
}

func TestLoadSkipsInvalidMetadata(t *testing.T) {
	dir := t.TempDir()
	// Missing @min_args.
	writeScript(t, dir, "bad.eqs", "// @name BAD\nexecute(args) { return 0 }\n")
	// Missing execute entry point.
	writeScript(t, dir, "noentry.eqs", "// @name NOENTRY\n// @min_args 0\n")
	// Wrong extension; never scanned.
	writeScript(t, dir, "ignored.txt", doubleScript)
	writeScript(t, dir, "good.eqs", doubleScript)

	reg := registry.New()
	loader := plugin.NewLoader(reg, &echoRunner{})
	require.NoError(t, loader.Load(dir))

	_, ok := reg.Lookup("BAD")
	assert.False(t, ok)
	_, ok = reg.Lookup("NOENTRY")
	assert.False(t, ok)
	_, ok = reg.Lookup("DOUBLE_IT")
	assert.True(t, ok)
}

func TestUnlimitedMaxArgs(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "varargs.eqs", `// @name GLUE
// @min_args 1
// @max_args unlimited
execute(args) { return args }
`)

	reg := registry.New()
	loader := plugin.NewLoader(reg, &echoRunner{})
	require.NoError(t, loader.Load(dir))

	d, ok := reg.Lookup("GLUE")
	require.True(t, ok)
	assert.Equal(t, registry.Unbounded, d.MaxArgs)
	assert.NoError(t, d.CheckArity(50))
}

func TestReloadIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "double.eqs", doubleScript)

	reg := registry.New()
	loader := plugin.NewLoader(reg, &echoRunner{})
	require.NoError(t, loader.Load(dir))
	require.NoError(t, loader.Reload(dir))

	_, ok := reg.Lookup("DOUBLE_IT")
	assert.True(t, ok)

	// Removing the script and reloading drops its registration.
	require.NoError(t, os.Remove(filepath.Join(dir, "double.eqs")))
	require.NoError(t, loader.Reload(dir))
	_, ok = reg.Lookup("DOUBLE_IT")
	assert.False(t, ok)
}

func TestLoadedPluginShadowsBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "sum.eqs", `// @name SUM
// @min_args 0
// @max_args unlimited
execute(args) { return -1 }
`)

	reg := registry.New()
	reg.RegisterBuiltin(&registry.Descriptor{
		Name: "SUM", MinArgs: 0, MaxArgs: registry.Unbounded,
		Call: func(_ []value.Value) (value.Value, error) { return value.Number(0), nil },
	})

	loader := plugin.NewLoader(reg, &echoRunner{})
	require.NoError(t, loader.Load(dir))

	d, ok := reg.Lookup("SUM")
	require.True(t, ok)
	v, err := d.Call([]value.Value{value.Number(7)})
	require.NoError(t, err)
	assert.Equal(t, 7.0, v.Num(), "lookup should resolve to the plugin, not the built-in")

	// Dropping the plugin resurfaces the built-in.
	require.NoError(t, os.Remove(filepath.Join(dir, "sum.eqs")))
	require.NoError(t, loader.Reload(dir))
	d, ok = reg.Lookup("SUM")
	require.True(t, ok)
	v, err = d.Call(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Num())
}

func TestManifestOverrides(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "double.eqs", doubleScript)
	writeScript(t, dir, "manifest.yaml", `functions:
  double.eqs:
    description: Overridden description.
    max_args: 3
`)

	reg := registry.New()
	loader := plugin.NewLoader(reg, &echoRunner{})
	require.NoError(t, loader.Load(dir))

	d, ok := reg.Lookup("DOUBLE_IT")
	require.True(t, ok)
	assert.Equal(t, "Overridden description.", d.Description)
	assert.Equal(t, 3, d.MaxArgs)
}

func TestMissingDirectoryFails(t *testing.T) {
	reg := registry.New()
	loader := plugin.NewLoader(reg, &echoRunner{})
	assert.Error(t, loader.Load(filepath.Join(t.TempDir(), "nope")))
}
