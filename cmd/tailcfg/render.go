package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tailcfg/internal/config"
	"github.com/vango-dev/tailcfg/internal/tailwind"
)

func (a *app) renderCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Render tailwind.config.js",
		Long: `Render a configuration as tailwind.config.js.

Content patterns are rewritten relative to the output file. Without
--output the file is printed to stdout as if it were written next
to the configuration.

Examples:
  tailcfg render tailcfg.json
  tailcfg render apps/ -o apps/tailwind.config.js`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}

func (a *app) runRender(arg, output string) error {
	path, err := locate(arg)
	if err != nil {
		return err
	}
	cfg, err := config.LoadFile(path, a.registry)
	if err != nil {
		return err
	}

	if output == "" {
		out, err := tailwind.Render(cfg, filepath.Join(cfg.Dir(), tailwind.ConfigFileName))
		if err != nil {
			return err
		}
		_, err = a.stdout.Write(out)
		return err
	}

	if err := tailwind.WriteConfig(cfg, output); err != nil {
		return err
	}
	a.success("Wrote %s", output)
	return nil
}
