package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tailcfg/internal/errors"
)

func (a *app) errorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "errors [code]",
		Short: "List diagnostic codes",
		Long: `List the diagnostic codes tailcfg reports, or explain one.

  tailcfg errors          # one line per code
  tailcfg errors E124     # details for E124`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, code := range errors.GetAllCodes() {
					fmt.Fprintf(a.stdout, "  %s\n", errors.New(code).FormatCompact())
				}
				return nil
			}

			tmpl, ok := errors.GetTemplate(args[0])
			if !ok {
				return fmt.Errorf("unknown diagnostic code %q", args[0])
			}
			fmt.Fprintf(a.stdout, "%s: %s\n", args[0], tmpl.Message)
			a.info("Category: %s", tmpl.Category)
			a.info("%s", tmpl.Detail)
			if tmpl.DocURL != "" {
				a.info("Learn more: %s", tmpl.DocURL)
			}
			return nil
		},
	}
}
