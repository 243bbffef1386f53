package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tailcfg/internal/config"
	"github.com/vango-dev/tailcfg/internal/content"
	"github.com/vango-dev/tailcfg/internal/errors"
)

func (a *app) checkCmd() *cobra.Command {
	var files bool

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Validate configuration files",
		Long: `Validate one or more configuration files.

Each file is loaded on its own: a top-level config and an app-scoped
config are independent and never merged. With no paths, every
tailcfg.{json,yaml,yml,hcl} below the working directory is checked.

With --files, content patterns are expanded and patterns that match
no files are reported.

Examples:
  tailcfg check
  tailcfg check tailcfg.json apps/tailcfg.yaml
  tailcfg check --files apps/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(args, files)
		},
	}

	cmd.Flags().BoolVar(&files, "files", false, "Expand content patterns against the file system")

	return cmd
}

func (a *app) runCheck(args []string, files bool) error {
	paths, err := a.checkPaths(args)
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range paths {
		cfg, err := config.LoadFile(path, a.registry)
		if err != nil {
			failed++
			a.report(err)
			continue
		}

		a.success("%s (%d content patterns, %d plugins)", path, len(cfg.ContentPatterns()), len(cfg.Plugins()))
		if !files {
			continue
		}
		if err := a.checkFiles(cfg); err != nil {
			failed++
			a.report(err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errChecksFailed, failed, len(paths))
	}
	return nil
}

// checkPaths resolves the command arguments to config files. Directory
// arguments are searched for a config file.
func (a *app) checkPaths(args []string) ([]string, error) {
	if len(args) == 0 {
		found, err := config.Discover(".")
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, errNoConfig
		}
		return found, nil
	}

	paths := make([]string, 0, len(args))
	for _, arg := range args {
		path, err := locate(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (a *app) checkFiles(cfg *config.Config) error {
	dir := cfg.Dir()
	if dir == "" {
		dir = "."
	}

	res, err := content.Match(os.DirFS(dir), cfg.ContentPatterns())
	if err != nil {
		return errors.New("E124").WithDetail(err.Error()).Wrap(err)
	}

	for _, p := range res.Patterns {
		switch {
		case p.Outside:
			a.info("%-40s not expanded (outside %s)", p.Pattern, dir)
		case p.Negated:
			a.info("%-40s excludes %d files", p.Pattern, p.Matches)
		default:
			a.info("%-40s %d files", p.Pattern, p.Matches)
		}
	}
	for _, p := range res.Unmatched() {
		a.warn("%s matches no files", p)
	}
	a.info("%d files scanned", len(res.Files))
	return nil
}

// locate returns the config file for arg. A directory is searched for a
// config file.
func locate(arg string) (string, error) {
	info, err := os.Stat(arg)
	if err != nil || !info.IsDir() {
		return arg, nil
	}
	path, ok := config.Find(arg)
	if !ok {
		return "", fmt.Errorf("%w in %s", errNoConfig, arg)
	}
	return path, nil
}
