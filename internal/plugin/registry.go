package plugin

import (
	"fmt"
	"sort"
	"strings"
)

// Plugin is a Tailwind plugin the build tool can activate.
type Plugin interface {
	// Name is the short reference used in configuration files.
	Name() string

	// Module is the module id passed to require() in tailwind.config.js.
	Module() string
}

// Module is a Plugin backed by a plain npm module.
type Module struct {
	ShortName string
	ModuleID  string
}

// Name implements Plugin.
func (m Module) Name() string { return m.ShortName }

// Module implements Plugin.
func (m Module) Module() string { return m.ModuleID }

// String returns the module id.
func (m Module) String() string { return m.ModuleID }

// Registry maps plugin references to plugins. A reference is either the
// plugin's short name or its module id.
//
// A Registry is safe for concurrent reads once populated. Register must not
// be called concurrently with Resolve.
type Registry struct {
	byName   map[string]Plugin
	byModule map[string]Plugin
}

// NewRegistry creates a registry holding the given plugins.
// It panics on duplicates, which are programmer errors.
func NewRegistry(plugins ...Plugin) *Registry {
	r := &Registry{
		byName:   make(map[string]Plugin, len(plugins)),
		byModule: make(map[string]Plugin, len(plugins)),
	}
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// Builtin returns a registry with the first-party Tailwind plugins and
// daisyUI.
func Builtin() *Registry {
	return NewRegistry(
		Module{ShortName: "typography", ModuleID: "@tailwindcss/typography"},
		Module{ShortName: "forms", ModuleID: "@tailwindcss/forms"},
		Module{ShortName: "aspect-ratio", ModuleID: "@tailwindcss/aspect-ratio"},
		Module{ShortName: "container-queries", ModuleID: "@tailwindcss/container-queries"},
		Module{ShortName: "daisyui", ModuleID: "daisyui"},
	)
}

// Register adds a plugin. It fails if the name or module id is empty or
// already taken.
func (r *Registry) Register(p Plugin) error {
	name := strings.TrimSpace(p.Name())
	module := strings.TrimSpace(p.Module())
	if name == "" || module == "" {
		return fmt.Errorf("plugin: name and module must be set (name=%q module=%q)", p.Name(), p.Module())
	}
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("plugin: %q already registered", name)
	}
	if existing, ok := r.byModule[module]; ok && existing.Name() != name {
		return fmt.Errorf("plugin: module %q already registered as %q", module, existing.Name())
	}
	r.byName[name] = p
	r.byModule[module] = p
	return nil
}

// Resolve looks up a reference by short name, then by module id.
func (r *Registry) Resolve(ref string) (Plugin, bool) {
	if r == nil {
		return nil, false
	}
	if p, ok := r.byName[ref]; ok {
		return p, true
	}
	p, ok := r.byModule[ref]
	return p, ok
}

// Names returns the registered short names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	return len(r.byName)
}

// With returns a copy of the registry extended with extra plugins given as
// name → module id. The receiver is not modified.
func (r *Registry) With(extra map[string]string) (*Registry, error) {
	out := NewRegistry()
	for _, name := range r.Names() {
		if err := out.Register(r.byName[name]); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := out.Register(Module{ShortName: name, ModuleID: extra[name]}); err != nil {
			return nil, err
		}
	}
	return out, nil
}
