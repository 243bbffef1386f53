package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) pluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List registered plugins",
		Long: `List the plugins configuration files may reference.

A plugin can be referenced by its short name or by its module id.
Extra plugins are registered with TAILCFG_PLUGINS=name:module,...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range a.registry.Names() {
				p, _ := a.registry.Resolve(name)
				fmt.Fprintf(a.stdout, "  %-20s %s\n", name, p.Module())
			}
			return nil
		},
	}
}
