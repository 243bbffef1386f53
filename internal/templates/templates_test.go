package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/tailcfg/internal/config"
	"github.com/vango-dev/tailcfg/internal/errors"
	"github.com/vango-dev/tailcfg/internal/plugin"
	"github.com/vango-dev/tailcfg/internal/tailwind"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"minimal", false},
		{"full", false},
		{"nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Get(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				if e, ok := err.(*errors.Error); !ok || e.Code != "E145" {
					t.Errorf("err = %v, want E145", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tmpl.Name != tt.name {
				t.Errorf("Name = %q, want %q", tmpl.Name, tt.name)
			}
		})
	}
}

func TestList(t *testing.T) {
	names := List()
	if strings.Join(names, ",") != "full,minimal" {
		t.Errorf("List() = %v, want [full minimal]", names)
	}
}

// Every variant must load cleanly with the builtin plugins, and the three
// formats of one template must describe the same configuration.
func TestTemplatesLoad(t *testing.T) {
	formats := []config.Format{config.FormatJSON, config.FormatYAML, config.FormatHCL}

	for _, name := range List() {
		tmpl, _ := Get(name)
		var first *config.Config

		for _, format := range formats {
			t.Run(name+"/"+string(format), func(t *testing.T) {
				files, err := tmpl.Render(Config{ProjectName: "pool", ContentDir: "views", Format: format})
				if err != nil {
					t.Fatalf("Render: %v", err)
				}
				fileName := ConfigFileName(format)
				data, ok := files[fileName]
				if !ok {
					t.Fatalf("missing %s in %v", fileName, files)
				}

				cfg, err := config.Load(config.Bytes(fileName, format, data), plugin.Builtin())
				if err != nil {
					t.Fatalf("Load %s:\n%s\n%v", fileName, data, err)
				}
				if got := cfg.ContentPatterns()[0]; got != "./views/**/*.html" {
					t.Errorf("first pattern = %q, want ./views/**/*.html", got)
				}

				if first == nil {
					first = cfg
				} else if !first.Equal(cfg) {
					t.Errorf("%s differs from json variant:\n%v %v\n%v %v", format,
						cfg.ContentPatterns(), cfg.ThemeExtensions(), first.ContentPatterns(), first.ThemeExtensions())
				}
			})
		}
	}
}

func TestTemplate_Create(t *testing.T) {
	dir := t.TempDir()
	tmpl, _ := Get("minimal")

	paths, err := tmpl.Create(dir, Config{Format: config.FormatYAML})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "styles", "input.css"),
		filepath.Join(dir, "tailcfg.yaml"),
	}
	if strings.Join(paths, "\n") != strings.Join(want, "\n") {
		t.Errorf("paths = %v, want %v", paths, want)
	}

	data, err := os.ReadFile(filepath.Join(dir, "tailcfg.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "./templates/**/*.html") {
		t.Errorf("default content dir not applied:\n%s", data)
	}
}

func TestTemplate_InputCSSLoadsRenderedConfig(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			tmpl, _ := Get(name)
			files, err := tmpl.Render(Config{})
			if err != nil {
				t.Fatalf("Render error: %v", err)
			}

			css := string(files[InputCSSPath])
			if !tailwind.HasConfigDirective([]byte(css)) {
				t.Fatalf("%s has no @config:\n%s", InputCSSPath, css)
			}

			// The directive must point at the tailwind.config.js that build
			// writes next to the tailcfg config.
			var target string
			for _, line := range strings.Split(css, "\n") {
				if rest, ok := strings.CutPrefix(line, "@config "); ok {
					target = strings.Trim(strings.TrimSuffix(rest, ";"), `"`)
				}
			}
			resolved := filepath.Join(filepath.Dir(filepath.FromSlash(InputCSSPath)), filepath.FromSlash(target))
			if resolved != tailwind.ConfigFileName {
				t.Errorf("@config resolves to %q, want %q", resolved, tailwind.ConfigFileName)
			}
		})
	}
}

func TestTemplate_Create_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "tailcfg.json")
	if err := os.WriteFile(existing, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	tmpl, _ := Get("full")

	_, err := tmpl.Create(dir, Config{})
	e, ok := err.(*errors.Error)
	if !ok || e.Code != "E143" {
		t.Fatalf("err = %v, want E143", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "styles", "input.css")); !os.IsNotExist(err) {
		t.Error("no file should be written when one already exists")
	}

	if _, err := tmpl.Create(dir, Config{Force: true}); err != nil {
		t.Fatalf("Create with Force: %v", err)
	}
	data, _ := os.ReadFile(existing)
	if !strings.Contains(string(data), "daisyui") {
		t.Errorf("existing file not overwritten:\n%s", data)
	}
}

func TestTemplate_Render_UnknownFormat(t *testing.T) {
	tmpl, _ := Get("minimal")
	if _, err := tmpl.Render(Config{Format: "toml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
