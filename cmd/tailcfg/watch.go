package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tailcfg/internal/config"
	"github.com/vango-dev/tailcfg/internal/log"
	"github.com/vango-dev/tailcfg/internal/settings"
	"github.com/vango-dev/tailcfg/internal/tailwind"
	"github.com/vango-dev/tailcfg/internal/watch"
)

func (a *app) watchCmd() *cobra.Command {
	var renderOnly bool

	cmd := &cobra.Command{
		Use:   "watch <path>",
		Short: "Rebuild when the configuration changes",
		Long: `Watch a configuration file and keep tailwind.config.js current.

Tailwind runs in watch mode alongside. When the configuration
changes it is reloaded; a valid edit re-renders tailwind.config.js
and restarts Tailwind, an invalid edit is reported and the last
good configuration stays in effect.

Examples:
  tailcfg watch tailcfg.json
  tailcfg watch apps/ --render-only`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runWatch(ctx, args[0], renderOnly)
		},
	}

	cmd.Flags().StringVar(&a.flags.Input, "input", "", "Input CSS file (default "+settings.DefaultInput+")")
	cmd.Flags().StringVar(&a.flags.Output, "output", "", "Output CSS file (default "+settings.DefaultOutput+")")
	cmd.Flags().BoolVar(&renderOnly, "render-only", false, "Only re-render tailwind.config.js; do not run Tailwind")

	return cmd
}

func (a *app) runWatch(ctx context.Context, arg string, renderOnly bool) error {
	path, err := locate(arg)
	if err != nil {
		return err
	}
	holder, err := watch.NewHolder(path, a.registry)
	if err != nil {
		return err
	}
	out := filepath.Join(holder.Get().Dir(), tailwind.ConfigFileName)
	if err := tailwind.WriteConfig(holder.Get(), out); err != nil {
		return err
	}

	var (
		runner *tailwind.Runner
		rc     tailwind.RunnerConfig
	)
	if !renderOnly {
		_, runner, rc, err = a.prepareTailwind(ctx, path)
		if err != nil {
			return err
		}
		if err := runner.StartWatch(ctx, rc); err != nil {
			return err
		}
		defer runner.Stop()
	}

	updates := make(chan *config.Config, 1)
	holder.RegisterListener(updates)
	if err := holder.Start(ctx); err != nil {
		return err
	}
	defer holder.Stop()

	a.success("Watching %s", path)
	logger := log.WithComponent("cli")

	for {
		select {
		case <-ctx.Done():
			a.info("Stopped")
			return nil
		case cfg := <-updates:
			if err := tailwind.WriteConfig(cfg, out); err != nil {
				logger.Error().Err(err).Str("path", out).Msg("render failed")
				continue
			}
			a.success("Rendered %s", out)
			if runner == nil {
				continue
			}
			if err := runner.Restart(ctx, rc); err != nil {
				logger.Error().Err(err).Msg("tailwind restart failed")
			}
		}
	}
}
