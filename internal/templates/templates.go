package templates

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/vango-dev/tailcfg/internal/config"
	"github.com/vango-dev/tailcfg/internal/errors"
	"github.com/vango-dev/tailcfg/internal/tailwind"
)

// Config contains template configuration.
type Config struct {
	// ProjectName is used in generated comments.
	ProjectName string

	// ContentDir is the directory holding the markup to scan, relative to
	// the config file.
	ContentDir string

	// Format selects the config file syntax.
	Format config.Format

	// Force overwrites existing files.
	Force bool
}

// Template is a starter configuration.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Configs holds the config file source for each format.
	Configs map[config.Format]string

	// Files is a map of extra relative paths to file contents.
	Files map[string]string
}

var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"full":    fullTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("E145").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: full, minimal")
	}
	return tmpl, nil
}

// List returns all available template names in sorted order.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConfigFileName returns the config file name for format.
func ConfigFileName(format config.Format) string {
	if format == "" {
		format = config.FormatJSON
	}
	return "tailcfg." + string(format)
}

// Render executes every file of the template and returns their contents
// by relative path.
func (t *Template) Render(cfg Config) (map[string][]byte, error) {
	if cfg.Format == "" {
		cfg.Format = config.FormatJSON
	}
	if cfg.ContentDir == "" {
		cfg.ContentDir = "templates"
	}

	src, ok := t.Configs[cfg.Format]
	if !ok {
		return nil, errors.Newf(errors.CategoryCLI, "template %s has no %s variant", t.Name, cfg.Format)
	}

	sources := make(map[string]string, len(t.Files)+1)
	for relPath, content := range t.Files {
		sources[relPath] = content
	}
	sources[ConfigFileName(cfg.Format)] = src

	out := make(map[string][]byte, len(sources))
	for relPath, content := range sources {
		tmpl, err := template.New(relPath).Parse(content)
		if err != nil {
			return nil, errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return nil, errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}
		out[relPath] = buf.Bytes()
	}
	return out, nil
}

// Create writes the template into dir and returns the written paths in
// sorted order. Existing files are left alone unless cfg.Force is set.
func (t *Template) Create(dir string, cfg Config) ([]string, error) {
	files, err := t.Render(cfg)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for relPath := range files {
		paths = append(paths, relPath)
	}
	sort.Strings(paths)

	if !cfg.Force {
		for _, relPath := range paths {
			fullPath := filepath.Join(dir, relPath)
			if _, err := os.Stat(fullPath); err == nil {
				return nil, errors.New("E143").
					WithLocation(fullPath, 0, 0).
					WithSuggestion("Use --force to overwrite it.")
			}
		}
	}

	written := make([]string, 0, len(paths))
	for _, relPath := range paths {
		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return written, err
		}
		if err := os.WriteFile(fullPath, files[relPath], 0644); err != nil {
			return written, err
		}
		written = append(written, fullPath)
	}
	return written, nil
}

// InputCSSPath is the stylesheet every template writes.
const InputCSSPath = "styles/input.css"

// inputCSS imports Tailwind and loads the tailwind.config.js that tailcfg
// renders next to the config file.
var inputCSS = `@import "tailwindcss";
` + tailwind.ConfigDirective(InputCSSPath, tailwind.ConfigFileName) + "\n"

func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "Content patterns only",
		Configs: map[config.Format]string{
			config.FormatJSON: `{
  "contentPatterns": [
    "./{{.ContentDir}}/**/*.html"
  ]
}
`,
			config.FormatYAML: `# {{.ProjectName}} Tailwind configuration
contentPatterns:
  - ./{{.ContentDir}}/**/*.html
`,
			config.FormatHCL: `# {{.ProjectName}} Tailwind configuration
content_patterns = ["./{{.ContentDir}}/**/*.html"]
`,
		},
		Files: map[string]string{
			InputCSSPath: inputCSS,
		},
	}
}

func fullTemplate() *Template {
	return &Template{
		Name:        "full",
		Description: "Theme extensions with typography and daisyUI",
		Configs: map[config.Format]string{
			config.FormatJSON: `{
  "contentPatterns": [
    "./{{.ContentDir}}/**/*.html",
    "./static/**/*.js",
    "!./{{.ContentDir}}/drafts/**"
  ],
  "themeExtensions": {
    "colors": {
      "brand": "#0f766e",
      "brand-dark": "#134e4a"
    },
    "fontFamily": {
      "display": ["Oswald", "sans-serif"]
    }
  },
  "plugins": ["typography", "daisyui"]
}
`,
			config.FormatYAML: `# {{.ProjectName}} Tailwind configuration
contentPatterns:
  - ./{{.ContentDir}}/**/*.html
  - ./static/**/*.js
  - "!./{{.ContentDir}}/drafts/**"

themeExtensions:
  colors:
    brand: "#0f766e"
    brand-dark: "#134e4a"
  fontFamily:
    display: [Oswald, sans-serif]

plugins:
  - typography
  - daisyui
`,
			config.FormatHCL: `# {{.ProjectName}} Tailwind configuration
content_patterns = [
  "./{{.ContentDir}}/**/*.html",
  "./static/**/*.js",
  "!./{{.ContentDir}}/drafts/**",
]

theme_extensions = {
  colors = {
    brand        = "#0f766e"
    "brand-dark" = "#134e4a"
  }
  fontFamily = {
    display = ["Oswald", "sans-serif"]
  }
}

plugins = ["typography", "daisyui"]
`,
		},
		Files: map[string]string{
			InputCSSPath: inputCSS,
		},
	}
}

// String implements fmt.Stringer.
func (t *Template) String() string {
	return fmt.Sprintf("%-10s %s", t.Name, t.Description)
}
