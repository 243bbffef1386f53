package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tailcfg/internal/errors"
	"github.com/vango-dev/tailcfg/internal/log"
	"github.com/vango-dev/tailcfg/internal/plugin"
	"github.com/vango-dev/tailcfg/internal/settings"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app is the state shared by all commands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// flags is the highest-precedence settings layer, bound to the
	// command-line flags.
	flags    settings.Settings
	noColor  bool
	jsonErrs bool

	settings *settings.Settings
	registry *plugin.Registry
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		a.report(err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tailcfg",
		Short: "Tailwind configuration provider",
		Long: `tailcfg loads Tailwind CSS configuration from JSON, YAML or HCL files.

It validates content patterns and plugin references, renders
tailwind.config.js for the standalone Tailwind binary, and keeps
builds current while the configuration changes.

Settings come from flags, TAILCFG_* environment variables and an
optional .env file, in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&a.flags.TailwindVersion, "tailwind-version", "", "Tailwind CSS standalone version")
	pf.StringVar(&a.flags.BinDir, "bin-dir", "", "Directory for downloaded Tailwind binaries")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&a.jsonErrs, "json", false, "Print errors as JSON")

	rootCmd.AddCommand(
		a.initCmd(),
		a.checkCmd(),
		a.renderCmd(),
		a.buildCmd(),
		a.watchCmd(),
		a.pluginsCmd(),
		a.errorsCmd(),
		a.versionCmd(),
	)

	return rootCmd
}

// setup resolves settings, configures logging and builds the plugin
// registry.
func (a *app) setup() error {
	if a.noColor {
		errors.DisableColors()
	}

	s, err := settings.Load(&a.flags)
	if err != nil {
		return errors.New("E121").WithDetail(err.Error()).Wrap(err)
	}
	a.settings = s

	log.Configure(log.Config{
		Level:   s.LogLevel,
		Output:  a.stderr,
		Console: true,
	})

	reg, err := plugin.Builtin().With(s.Plugins)
	if err != nil {
		return errors.New("E121").
			WithDetail(err.Error()).
			WithSuggestion("Use TAILCFG_PLUGINS=name:module,... with names that are not already registered.").
			Wrap(err)
	}
	a.registry = reg
	return nil
}

// success prints a success message.
func (a *app) success(format string, args ...any) {
	fmt.Fprintf(a.stdout, "%s %s\n", paint("\033[32m", "✓", a.noColor), fmt.Sprintf(format, args...))
}

// info prints an info message.
func (a *app) info(format string, args ...any) {
	fmt.Fprintf(a.stdout, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func (a *app) warn(format string, args ...any) {
	fmt.Fprintf(a.stdout, "%s %s\n", paint("\033[33m", "⚠", a.noColor), fmt.Sprintf(format, args...))
}

func paint(code, text string, off bool) string {
	if off {
		return text
	}
	return code + text + "\033[0m"
}
