// Package config loads tailcfg configuration sources.
//
// A configuration declares what the Tailwind build tool should scan, how the
// theme is extended, and which plugins to activate. A source is a JSON, YAML
// or HCL file (or an in-memory literal) next to the code it describes.
//
// # Configuration File Structure
//
//	{
//	  "contentPatterns": [
//	    "./football_pool/templates/**/*.html",
//	    "./football_pool/static/**/*.js"
//	  ],
//	  "themeExtensions": {},
//	  "plugins": ["typography", "daisyui"]
//	}
//
// The HCL form uses snake_case attribute names:
//
//	content_patterns = ["./football_pool/templates/**/*.html"]
//	theme_extensions = {}
//	plugins          = ["typography", "daisyui"]
//
// # Usage
//
//	cfg, err := config.LoadFile("tailcfg.json", plugin.Builtin())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Plugins:", cfg.Plugins())
//
// A loaded Config is immutable. Every accessor returns a copy, so the value
// can be handed to any number of goroutines.
package config
