package config

import (
	"path/filepath"
	"reflect"
	"slices"

	"github.com/vango-dev/tailcfg/internal/plugin"
)

// Config is a resolved tailcfg configuration.
type Config struct {
	content  []string
	theme    map[string]any
	plugins  []string
	resolved []plugin.Plugin

	// path stores where the config was loaded from.
	path string
}

// ContentPatterns returns the glob patterns of files to scan for class
// usage, in declared order.
func (c *Config) ContentPatterns() []string {
	return slices.Clone(c.content)
}

// ThemeExtensions returns a deep copy of the theme extension map.
func (c *Config) ThemeExtensions() map[string]any {
	return cloneMap(c.theme)
}

// Plugins returns the plugin references exactly as declared.
func (c *Config) Plugins() []string {
	return slices.Clone(c.plugins)
}

// ResolvedPlugins returns the plugins the references resolved to, in
// declared order.
func (c *Config) ResolvedPlugins() []plugin.Plugin {
	return slices.Clone(c.resolved)
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory containing the config source. Relative content
// patterns are relative to it.
func (c *Config) Dir() string {
	if c.path == "" {
		return ""
	}
	return filepath.Dir(c.path)
}

// Equal reports whether two configs declare the same content patterns,
// theme extensions and plugins. The source path is ignored.
func (c *Config) Equal(o *Config) bool {
	if c == nil || o == nil {
		return c == o
	}
	return slices.Equal(c.content, o.content) &&
		slices.Equal(c.plugins, o.plugins) &&
		reflect.DeepEqual(c.theme, o.theme)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
