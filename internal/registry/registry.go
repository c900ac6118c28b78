// Package registry implements the process-wide function registry: a
// mutex-guarded map from upper-cased name to a callable descriptor,
// generalized from the teacher's internal/interp/types.FunctionRegistry
// (which maps names to compile-time AST function overload sets) to a
// runtime map of boxed native callables, since this language has no
// overloading or compile-time declarations.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cwbudde/skillet/internal/value"
)

// Func is a registered callable. args has already had spreads expanded and
// arity-checked by the time it is invoked.
type Func func(args []value.Value) (value.Value, error)

// Descriptor is one function-registry entry.
type Descriptor struct {
	Name        string
	MinArgs     int
	MaxArgs     int // -1 means unbounded
	Call        Func
	Description string
	Example     string
}

// Unbounded marks a descriptor with no maximum arity.
const Unbounded = -1

// Normalize upper-cases a function name for use as a registry key, mirroring
// the teacher's case-insensitive FunctionRegistry keying.
func Normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Registry is a mutex-guarded overlay of custom registrations over a set of
// built-ins. Built-ins are registered at a lower priority tier so that
// Unregister on a custom name falls back to the built-in rather than
// deleting it outright, giving identical override/unregister semantics to
// spec.md §4.4 (testable property 8).
type Registry struct {
	mu       sync.RWMutex
	builtins map[string]*Descriptor
	custom   map[string]*Descriptor
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		builtins: make(map[string]*Descriptor),
		custom:   make(map[string]*Descriptor),
	}
}

// RegisterBuiltin installs d into the built-in tier. Intended for use from
// internal/builtins' package init() functions only.
func (r *Registry) RegisterBuiltin(d *Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builtins[Normalize(d.Name)] = d
}

// Register installs d into the custom (overlay) tier, replacing any
// existing custom registration under the same name and shadowing a
// built-in of the same name, if any.
func (r *Registry) Register(d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := d
	cp.Name = Normalize(d.Name)
	r.custom[cp.Name] = &cp
}

// Unregister removes a custom registration. It reports whether a custom
// registration existed. A built-in of the same name, if any, becomes
// reachable again.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := Normalize(name)
	if _, ok := r.custom[key]; !ok {
		return false
	}
	delete(r.custom, key)
	return true
}

// Lookup resolves name, consulting the custom overlay first and then the
// built-in tier, per spec.md §4.4.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := Normalize(name)
	if d, ok := r.custom[key]; ok {
		return d, true
	}
	if d, ok := r.builtins[key]; ok {
		return d, true
	}
	return nil, false
}

// Names returns every registered name (custom and built-in, deduplicated),
// sorted, mainly for diagnostics and the `plugins load`/`plugins list` CLI
// subcommands.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := make(map[string]struct{}, len(r.builtins)+len(r.custom))
	for k := range r.builtins {
		set[k] = struct{}{}
	}
	for k := range r.custom {
		set[k] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for k := range set {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// CheckArity validates argc against d's bounds, returning a descriptive
// error if out of range. Call sites must invoke this before Call, after
// spread expansion, per spec.md §4.4 ("spread expansion happens before
// arity check").
func (d *Descriptor) CheckArity(argc int) error {
	if argc < d.MinArgs {
		return fmt.Errorf("%s: expected at least %d argument(s), got %d", d.Name, d.MinArgs, argc)
	}
	if d.MaxArgs != Unbounded && argc > d.MaxArgs {
		return fmt.Errorf("%s: expected at most %d argument(s), got %d", d.Name, d.MaxArgs, argc)
	}
	return nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry that internal/builtins
// registers into at init() time and pkg/skillet exposes to callers.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = New()
	})
	return defaultReg
}
