package plugin

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/value"
)

// ErrInvalidMetadata is returned (and the offending file skipped, not
// fatal) when a script is missing required @name/@min_args directives.
var ErrInvalidMetadata = errors.New("plugin: missing required metadata")

// Extension is the file extension Load scans for.
const Extension = ".eqs"

// ScriptRunner is the external collaborator that actually executes a
// plugin script body; constructing the descriptor is this package's whole
// job, running it is the host's.
type ScriptRunner interface {
	Run(path string, args []value.Value) (value.Value, error)
}

// Metadata describes one plugin function, parsed from a script's header
// directives or supplied/overridden by manifest.yaml.
type Metadata struct {
	Name        string `yaml:"name"`
	MinArgs     int    `yaml:"min_args"`
	MaxArgs     int    `yaml:"max_args"`
	Description string `yaml:"description"`
	Example     string `yaml:"example"`
}

type manifest struct {
	Functions map[string]Metadata `yaml:"functions"`
}

// Loader scans a directory for ".eqs" scripts and registers one
// registry.Descriptor per discovered function into Registry.
type Loader struct {
	Registry *registry.Registry
	Runner   ScriptRunner

	mu       sync.Mutex
	loaded   []string // names this loader last registered, for idempotent reload
}

// NewLoader builds a Loader that registers into r, delegating execution to
// runner.
func NewLoader(r *registry.Registry, runner ScriptRunner) *Loader {
	return &Loader{Registry: r, Runner: runner}
}

// Load scans dir for *.eqs files (plus an optional manifest.yaml) and
// registers a Descriptor per discovered function. It first unregisters
// every name this loader previously registered, so repeated calls (Reload)
// are idempotent per spec.md §4.6.
func (l *Loader) Load(dir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, name := range l.loaded {
		l.Registry.Unregister(name)
	}
	l.loaded = nil

	overrides, err := loadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return fmt.Errorf("plugin: reading manifest: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("plugin: reading plugin directory: %w", err)
	}

	for _, ent := range entries {
		if ent.IsDir() || filepath.Ext(ent.Name()) != Extension {
			continue
		}
		path := filepath.Join(dir, ent.Name())
		meta, err := parseScript(path)
		if err != nil {
			continue // skip, not fatal to the whole directory scan
		}
		if override, ok := overrides[ent.Name()]; ok {
			meta = mergeMetadata(meta, override)
		}
		if meta.Name == "" {
			continue
		}

		// Plugins land in the custom tier: they shadow a built-in of the
		// same name and disappear cleanly when a reload no longer finds
		// their script.
		scriptPath := path
		l.Registry.Register(registry.Descriptor{
			Name:        meta.Name,
			MinArgs:     meta.MinArgs,
			MaxArgs:     meta.MaxArgs,
			Description: meta.Description,
			Example:     meta.Example,
			Call: func(args []value.Value) (value.Value, error) {
				return l.Runner.Run(scriptPath, args)
			},
		})
		l.loaded = append(l.loaded, meta.Name)
	}
	return nil
}

// Reload is an alias for Load, documenting the re-scan intent at call sites.
func (l *Loader) Reload(dir string) error {
	return l.Load(dir)
}

func loadManifest(path string) (map[string]Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m.Functions, nil
}

func mergeMetadata(base, override Metadata) Metadata {
	if override.Name != "" {
		base.Name = override.Name
	}
	if override.MinArgs != 0 {
		base.MinArgs = override.MinArgs
	}
	if override.MaxArgs != 0 {
		base.MaxArgs = override.MaxArgs
	}
	if override.Description != "" {
		base.Description = override.Description
	}
	if override.Example != "" {
		base.Example = override.Example
	}
	return base
}

// parseScript reads a script's "@directive value" header comments and
// verifies an "execute" entry point marker is present in the body.
func parseScript(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	meta := Metadata{MaxArgs: registry.Unbounded}
	haveName, haveMinArgs := false, false
	sawExecute := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "execute") {
			sawExecute = true
		}
		if !strings.HasPrefix(line, "//") {
			continue
		}
		directive := strings.TrimSpace(strings.TrimPrefix(line, "//"))
		key, val, ok := strings.Cut(directive, " ")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch key {
		case "@name":
			meta.Name = val
			haveName = true
		case "@min_args":
			n, err := strconv.Atoi(val)
			if err != nil {
				return Metadata{}, fmt.Errorf("%w: bad @min_args %q", ErrInvalidMetadata, val)
			}
			meta.MinArgs = n
			haveMinArgs = true
		case "@max_args":
			if val == "unlimited" {
				meta.MaxArgs = registry.Unbounded
				continue
			}
			n, err := strconv.Atoi(val)
			if err != nil {
				return Metadata{}, fmt.Errorf("plugin: bad @max_args %q", val)
			}
			meta.MaxArgs = n
		case "@description":
			meta.Description = val
		case "@example":
			meta.Example = val
		}
	}
	if err := scanner.Err(); err != nil {
		return Metadata{}, err
	}
	if !haveName || !haveMinArgs {
		return Metadata{}, ErrInvalidMetadata
	}
	if !sawExecute {
		return Metadata{}, fmt.Errorf("plugin: %s has no execute entry point", path)
	}
	return meta, nil
}
