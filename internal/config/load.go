package config

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/tailcfg/internal/plugin"
)

// Format identifies the syntax of a configuration source.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// Document keys shared by every format after decoding.
const (
	KeyContentPatterns = "contentPatterns"
	KeyThemeExtensions = "themeExtensions"
	KeyPlugins         = "plugins"
)

// FormatFor returns the format implied by a file extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".hcl":
		return FormatHCL, true
	}
	return "", false
}

// Source is a static configuration source: a file on disk or an in-memory
// literal.
type Source struct {
	// Name is the file path, or a label for in-memory sources. It is used in
	// error messages and as the config's Path.
	Name string

	// Format is the source syntax. If empty it is inferred from Name.
	Format Format

	data   []byte
	inline bool
}

// File returns a source that reads path when loaded.
func File(path string) Source {
	return Source{Name: path}
}

// Bytes returns an in-memory source.
func Bytes(name string, format Format, data []byte) Source {
	return Source{Name: name, Format: format, data: data, inline: true}
}

func (s Source) read() ([]byte, error) {
	if s.inline {
		return s.data, nil
	}
	return os.ReadFile(s.Name)
}

// LoadFile loads the configuration file at path.
func LoadFile(path string, reg *plugin.Registry) (*Config, error) {
	return Load(File(path), reg)
}

// Load reads src once, validates it and resolves its plugins against reg.
// It returns either a complete Config or one of *InvalidPatternError,
// *UnresolvedPluginError or *MalformedConfigError.
func Load(src Source, reg *plugin.Registry) (*Config, error) {
	format := src.Format
	if format == "" {
		f, ok := FormatFor(src.Name)
		if !ok {
			return nil, malformed(src.Name, "unsupported config format %q (want .json, .yaml, .yml or .hcl)", filepath.Ext(src.Name))
		}
		format = f
	}

	data, err := src.read()
	if err != nil {
		return nil, &MalformedConfigError{Path: src.Name, Detail: "cannot read source", Err: err}
	}

	var doc map[string]any
	switch format {
	case FormatJSON:
		doc, err = decodeJSON(src.Name, data)
	case FormatYAML:
		doc, err = decodeYAML(src.Name, data)
	case FormatHCL:
		doc, err = decodeHCL(src.Name, data)
	default:
		return nil, malformed(src.Name, "unsupported config format %q", format)
	}
	if err != nil {
		return nil, err
	}

	return build(src.Name, doc, reg)
}

// build turns a decoded document into a Config. Shape is checked first,
// then patterns, then plugins.
func build(path string, doc map[string]any, reg *plugin.Registry) (*Config, error) {
	var unknown []string
	for k := range doc {
		switch k {
		case KeyContentPatterns, KeyThemeExtensions, KeyPlugins:
		default:
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, malformed(path, "unknown key %q", unknown[0])
	}

	rawContent, ok := doc[KeyContentPatterns]
	if !ok {
		return nil, malformed(path, "missing required key %q", KeyContentPatterns)
	}
	content, err := stringList(path, KeyContentPatterns, rawContent)
	if err != nil {
		return nil, err
	}

	theme := map[string]any{}
	if raw, ok := doc[KeyThemeExtensions]; ok {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, malformed(path, "%s must be an object, got %s", KeyThemeExtensions, typeName(raw))
		}
		for k, v := range m {
			nv, err := normalize(path, KeyThemeExtensions+"."+k, v)
			if err != nil {
				return nil, err
			}
			theme[k] = nv
		}
	}

	plugins := []string{}
	if raw, ok := doc[KeyPlugins]; ok {
		plugins, err = stringList(path, KeyPlugins, raw)
		if err != nil {
			return nil, err
		}
	}

	for i, p := range content {
		if err := ValidatePattern(p); err != nil {
			return nil, &InvalidPatternError{Path: path, Index: i, Pattern: p, Err: err}
		}
	}

	resolved := make([]plugin.Plugin, 0, len(plugins))
	for i, name := range plugins {
		p, ok := reg.Resolve(name)
		if !ok {
			return nil, &UnresolvedPluginError{Path: path, Index: i, Name: name}
		}
		resolved = append(resolved, p)
	}

	return &Config{
		content:  content,
		theme:    theme,
		plugins:  plugins,
		resolved: resolved,
		path:     path,
	}, nil
}

func stringList(path, key string, raw any) ([]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, malformed(path, "%s must be a list of strings, got %s", key, typeName(raw))
	}
	out := make([]string, 0, len(list))
	for i, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, malformed(path, "%s[%d] must be a string, got %s", key, i, typeName(v))
		}
		out = append(out, s)
	}
	return out, nil
}

// normalize converts decoded values to the canonical theme value set:
// string, bool, int64, float64, []any and map[string]any.
func normalize(path, key string, v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, malformed(path, "%s is null", key)
	case string, bool, int64:
		return t, nil
	case int:
		return int64(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return float64(t), nil
		}
		return int64(t), nil
	case float64:
		return normalizeFloat(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, malformed(path, "%s: invalid number %q", key, t.String())
		}
		return normalizeFloat(f), nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			ne, err := normalize(path, key+"["+strconv.Itoa(i)+"]", e)
			if err != nil {
				return nil, err
			}
			out[i] = ne
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			ne, err := normalize(path, key+"."+k, e)
			if err != nil {
				return nil, err
			}
			out[k] = ne
		}
		return out, nil
	default:
		return nil, malformed(path, "%s has unsupported type %s", key, typeName(v))
	}
}

// normalizeFloat folds integral values to int64 so that 2, 2.0 and 2e0
// compare equal across formats.
func normalizeFloat(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64, uint64, float64, json.Number:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	default:
		return "unsupported value"
	}
}
