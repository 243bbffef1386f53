// Package templates provides starter configurations for tailcfg init.
//
// # Available Templates
//
//   - minimal: content patterns only
//   - full: theme extensions with typography and daisyUI
//
// Every template has a JSON, YAML and HCL variant.
//
// # Usage
//
//	tmpl, err := templates.Get("full")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := tmpl.Create(dir, templates.Config{Format: config.FormatYAML})
//
// # Template Variables
//
//	{{.ProjectName}}     - Name of the project
//	{{.ContentDir}}      - Directory holding the markup to scan
package templates
