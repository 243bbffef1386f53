package main

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/vango-dev/tailcfg/internal/config"
	"github.com/vango-dev/tailcfg/internal/errors"
	"github.com/vango-dev/tailcfg/internal/plugin"
)

// errNoConfig is returned when discovery finds no configuration file.
var errNoConfig = stderrors.New("no configuration file found")

// errChecksFailed is returned by check after every failure was reported.
var errChecksFailed = stderrors.New("one or more configurations failed")

// diagnose maps an error to a coded diagnostic. Errors without a code are
// returned as nil.
func diagnose(err error, reg *plugin.Registry) *errors.Error {
	var coded *errors.Error
	if stderrors.As(err, &coded) {
		return coded
	}

	if stderrors.Is(err, errNoConfig) {
		return errors.New("E141").
			WithSuggestion(fmt.Sprintf("Create one of %s, or pass a path.", strings.Join(config.FileNames, ", "))).
			Wrap(err)
	}

	var malformed *config.MalformedConfigError
	if stderrors.As(err, &malformed) {
		if stderrors.Is(err, fs.ErrNotExist) {
			e := errors.New("E141").WithDetail(err.Error()).Wrap(err)
			return e.WithLocation(malformed.Path, 0, 0)
		}
		e := errors.New("E120").WithDetail(err.Error()).Wrap(err)
		if malformed.Path != "" && fileExists(malformed.Path) {
			e.WithLocation(malformed.Path, malformed.Line, malformed.Column)
		}
		if malformed.Line > 0 {
			e.WithSuggestion("Check the syntax near the marked line.")
		} else {
			e.WithSuggestion(fmt.Sprintf("Only %s, %s and %s are recognized keys.",
				config.KeyContentPatterns, config.KeyThemeExtensions, config.KeyPlugins))
		}
		return e
	}

	var pattern *config.InvalidPatternError
	if stderrors.As(err, &pattern) {
		e := errors.New("E124").WithDetail(err.Error()).Wrap(err)
		if pattern.Path != "" {
			e.WithLocation(pattern.Path, 0, 0)
		}
		return e.WithSuggestion(`Close every "[" and "{" in the pattern, or escape them with a backslash.`)
	}

	var unresolved *config.UnresolvedPluginError
	if stderrors.As(err, &unresolved) {
		e := errors.New("E125").WithDetail(err.Error()).Wrap(err)
		if unresolved.Path != "" {
			e.WithLocation(unresolved.Path, 0, 0)
		}
		hint := "Register it with TAILCFG_PLUGINS=name:module."
		if reg != nil && reg.Len() > 0 {
			hint = fmt.Sprintf("Registered plugins: %s. %s", strings.Join(reg.Names(), ", "), hint)
		}
		return e.WithSuggestion(hint)
	}

	return nil
}

// report prints err to stderr as a coded diagnostic. Errors diagnose does
// not recognize are reported as E140.
func (a *app) report(err error) {
	d := diagnose(err, a.registry)
	if d == nil {
		d = errors.FromError(err, "E140").WithDetail(err.Error())
	}
	if a.jsonErrs {
		fmt.Fprintln(a.stderr, d.FormatJSON())
		return
	}
	errors.Print(a.stderr, d)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
