package tailwind

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/google/renameio/v2"

	"github.com/vango-dev/tailcfg/internal/config"
)

// ConfigFileName is the file name Tailwind looks for by default.
const ConfigFileName = "tailwind.config.js"

var configTemplate = template.Must(template.New("tailwind.config.js").Parse(`// Code generated by tailcfg. DO NOT EDIT.
{{- if .Source}}
// Source: {{.Source}}
{{- end}}

/** @type {import('tailwindcss').Config} */
module.exports = {
  content: {{.Content}},
  theme: {
    extend: {{.Theme}},
  },
{{- if .Plugins}}
  plugins: [
{{- range .Plugins}}
    require({{.}}),
{{- end}}
  ],
{{- else}}
  plugins: [],
{{- end}}
};
`))

type configData struct {
	Source  string
	Content string
	Theme   string
	Plugins []string
}

// Render renders cfg as a CommonJS tailwind.config.js to be written at
// outPath. Content patterns are rewritten relative to outPath's directory.
// Plugins are required by module id in declared order.
func Render(cfg *config.Config, outPath string) ([]byte, error) {
	outDir := filepath.Dir(outPath)

	patterns := cfg.ContentPatterns()
	content := make([]string, 0, len(patterns))
	for _, p := range patterns {
		rel, err := relativePattern(cfg.Dir(), outDir, p)
		if err != nil {
			return nil, err
		}
		content = append(content, rel)
	}

	data := configData{Source: cfg.Path()}

	var err error
	if data.Content, err = jsonIndent(content, "  "); err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	if data.Theme, err = jsonIndent(cfg.ThemeExtensions(), "    "); err != nil {
		return nil, fmt.Errorf("encode theme: %w", err)
	}
	for _, p := range cfg.ResolvedPlugins() {
		mod, err := jsonIndent(p.Module(), "")
		if err != nil {
			return nil, fmt.Errorf("encode plugin %q: %w", p.Name(), err)
		}
		data.Plugins = append(data.Plugins, mod)
	}

	var buf bytes.Buffer
	if err := configTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", ConfigFileName, err)
	}
	return buf.Bytes(), nil
}

// WriteConfig renders cfg and atomically replaces the file at path,
// creating its directory if needed.
func WriteConfig(cfg *config.Config, path string) error {
	out, err := Render(cfg, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := renameio.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// relativePattern rebases a pattern declared relative to srcDir so it is
// relative to outDir. Absolute patterns are kept.
func relativePattern(srcDir, outDir, pattern string) (string, error) {
	glob, negated := config.SplitPattern(pattern)
	if filepath.IsAbs(glob) {
		return pattern, nil
	}
	if srcDir == "" {
		srcDir = "."
	}

	target := filepath.Join(srcDir, filepath.FromSlash(glob))
	rel, err := filepath.Rel(outDir, target)
	if err != nil {
		absTarget, err1 := filepath.Abs(target)
		absOut, err2 := filepath.Abs(outDir)
		if err1 != nil || err2 != nil {
			return "", fmt.Errorf("rebase pattern %q: %w", pattern, err)
		}
		if rel, err = filepath.Rel(absOut, absTarget); err != nil {
			return "", fmt.Errorf("rebase pattern %q: %w", pattern, err)
		}
	}

	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, "../") && rel != ".." {
		rel = "./" + rel
	}
	if negated {
		rel = config.NegatePrefix + rel
	}
	return rel, nil
}

func jsonIndent(v any, prefix string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
