package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tailcfg/internal/config"
	"github.com/vango-dev/tailcfg/internal/errors"
	"github.com/vango-dev/tailcfg/internal/templates"
)

func (a *app) initCmd() *cobra.Command {
	var (
		tmplName   string
		format     string
		contentDir string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a starter configuration",
		Long: `Create a starter tailcfg configuration and styles/input.css.

Templates:
  minimal   Content patterns only
  full      Theme extensions with typography and daisyUI

Examples:
  tailcfg init
  tailcfg init apps/football_pool --format=yaml
  tailcfg init --template=full --format=hcl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return a.runInit(dir, tmplName, config.Format(strings.ToLower(format)), contentDir, force)
		},
	}

	cmd.Flags().StringVarP(&tmplName, "template", "t", "minimal", "Starter template (minimal, full)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Config format (json, yaml, hcl)")
	cmd.Flags().StringVar(&contentDir, "content-dir", "templates", "Directory holding the markup to scan")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func (a *app) runInit(dir, tmplName string, format config.Format, contentDir string, force bool) error {
	switch format {
	case config.FormatJSON, config.FormatYAML, config.FormatHCL:
	default:
		return errors.Newf(errors.CategoryCLI, "unsupported format %q", format).
			WithSuggestion("Use json, yaml or hcl.")
	}

	tmpl, err := templates.Get(tmplName)
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	paths, err := tmpl.Create(dir, templates.Config{
		ProjectName: filepath.Base(abs),
		ContentDir:  contentDir,
		Format:      format,
		Force:       force,
	})
	if err != nil {
		return err
	}

	for _, p := range paths {
		a.success("Created %s", p)
	}
	a.info("Next: tailcfg build %s", filepath.Join(dir, templates.ConfigFileName(format)))
	return nil
}
