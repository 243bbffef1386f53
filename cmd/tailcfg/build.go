package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tailcfg/internal/config"
	"github.com/vango-dev/tailcfg/internal/errors"
	"github.com/vango-dev/tailcfg/internal/settings"
	"github.com/vango-dev/tailcfg/internal/tailwind"
)

func (a *app) buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <path>",
		Short: "Build CSS with the Tailwind standalone binary",
		Long: `Render tailwind.config.js next to the configuration and run a
one-shot Tailwind build with it.

The standalone binary is downloaded on first use and cached per
version. Input and output paths are relative to the directory of
the configuration file.

Examples:
  tailcfg build tailcfg.json
  tailcfg build apps/ --minify
  tailcfg build . --input=styles/app.css --output=public/app.css`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runBuild(ctx, args[0])
		},
	}

	cmd.Flags().StringVar(&a.flags.Input, "input", "", "Input CSS file (default "+settings.DefaultInput+")")
	cmd.Flags().StringVar(&a.flags.Output, "output", "", "Output CSS file (default "+settings.DefaultOutput+")")
	cmd.Flags().BoolVar(&a.flags.Minify, "minify", false, "Minify output")

	return cmd
}

func (a *app) runBuild(ctx context.Context, arg string) error {
	cfg, runner, rc, err := a.prepareTailwind(ctx, arg)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := runner.Build(ctx, rc); err != nil {
		return errors.New("E142").WithDetail(err.Error()).Wrap(err)
	}

	a.success("Built %s in %s", filepath.Join(cfg.Dir(), rc.OutputPath), time.Since(start).Round(time.Millisecond))
	return nil
}

// prepareTailwind loads the config at arg, writes tailwind.config.js next
// to it and installs the Tailwind binary.
func (a *app) prepareTailwind(ctx context.Context, arg string) (*config.Config, *tailwind.Runner, tailwind.RunnerConfig, error) {
	var rc tailwind.RunnerConfig

	path, err := locate(arg)
	if err != nil {
		return nil, nil, rc, err
	}
	cfg, err := config.LoadFile(path, a.registry)
	if err != nil {
		return nil, nil, rc, err
	}

	dir := cfg.Dir()
	if err := tailwind.WriteConfig(cfg, filepath.Join(dir, tailwind.ConfigFileName)); err != nil {
		return nil, nil, rc, err
	}

	if tailwind.UsesConfigDirective(a.settings.TailwindVersion) {
		input := filepath.Join(dir, a.settings.Input)
		if css, err := os.ReadFile(input); err == nil && !tailwind.HasConfigDirective(css) {
			a.warn("%s does not load %s; theme and plugins are ignored until it has:", a.settings.Input, tailwind.ConfigFileName)
			a.info("%s", tailwind.ConfigDirective(a.settings.Input, tailwind.ConfigFileName))
		}
	}

	binary := &tailwind.Binary{
		Version:         a.settings.TailwindVersion,
		BinDir:          a.settings.BinDir,
		DownloadBaseURL: a.settings.DownloadURL,
	}
	if _, err := binary.EnsureInstalled(ctx, func(msg string) { a.info("%s", msg) }); err != nil {
		return nil, nil, rc, errors.New("E123").
			WithDetail(err.Error()).
			WithSuggestion(fmt.Sprintf("Check network access or set TAILCFG_DOWNLOAD_URL to a mirror that serves %s binaries.", tailwind.PlatformName())).
			Wrap(err)
	}

	runner := tailwind.NewRunner(binary, dir)
	runner.Stdout = a.stdout
	runner.Stderr = a.stderr

	rc = tailwind.RunnerConfig{
		InputPath:  a.settings.Input,
		OutputPath: a.settings.Output,
		ConfigPath: tailwind.ConfigFileName,
		Minify:     a.settings.Minify,
	}
	return cfg, runner, rc, nil
}
