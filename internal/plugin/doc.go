// Package plugin provides the registry of Tailwind plugins that a tailcfg
// configuration may reference.
//
// A configuration names plugins by reference ("typography", "daisyui").
// The registry maps each reference to a Plugin that knows the npm module the
// build tool has to require. Resolution is explicit: the loader is handed a
// registry and fails when a reference is missing, instead of deferring the
// failure to the build tool.
//
// # Usage
//
//	reg := plugin.Builtin()
//	p, ok := reg.Resolve("typography")
//	if ok {
//	    fmt.Println(p.Module()) // @tailwindcss/typography
//	}
package plugin
