package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Malformed configuration",
		Detail:   "The configuration source could not be parsed or does not have the expected shape.",
		DocURL:   "https://vango.dev/docs/tailcfg/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid settings",
		Detail:   "A setting from flags, the environment or .env could not be parsed.",
		DocURL:   "https://vango.dev/docs/tailcfg/errors/E121",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Tailwind not available",
		Detail:   "The Tailwind CSS standalone binary could not be installed or run.",
		DocURL:   "https://vango.dev/docs/tailcfg/errors/E123",
	},
	"E124": {
		Category: CategoryConfig,
		Message:  "Invalid content pattern",
		Detail:   "A content pattern is not a valid glob expression.",
		DocURL:   "https://vango.dev/docs/tailcfg/errors/E124",
	},
	"E125": {
		Category: CategoryConfig,
		Message:  "Unresolved plugin",
		Detail:   "A plugin reference does not match any registered plugin.",
		DocURL:   "https://vango.dev/docs/tailcfg/errors/E125",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Command failed",
		Detail:   "The command could not complete.",
		DocURL:   "https://vango.dev/docs/tailcfg/errors/E140",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "No configuration found",
		Detail:   "No tailcfg.json, tailcfg.yaml, tailcfg.yml or tailcfg.hcl was found.",
		DocURL:   "https://vango.dev/docs/tailcfg/errors/E141",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Build failed",
		Detail:   "The Tailwind build exited with an error. Check the output above.",
		DocURL:   "https://vango.dev/docs/tailcfg/errors/E142",
	},
	"E143": {
		Category: CategoryCLI,
		Message:  "File already exists",
		Detail:   "init will not overwrite an existing file.",
		DocURL:   "https://vango.dev/docs/tailcfg/errors/E143",
	},
	"E145": {
		Category: CategoryCLI,
		Message:  "Unknown template",
		Detail:   "The requested starter template does not exist.",
		DocURL:   "https://vango.dev/docs/tailcfg/errors/E145",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
