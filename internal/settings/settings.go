// Package settings resolves the tailcfg CLI settings. These are the knobs
// of the tool itself (log level, Tailwind version, file locations), not
// the Tailwind configuration that package config loads.
//
// Settings are layered: command-line flags win over the process
// environment, which wins over a .env file, which wins over defaults.
package settings

import (
	"errors"
	"fmt"
	"io/fs"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/vango-dev/tailcfg/internal/tailwind"
)

// EnvPrefix prefixes every environment variable tailcfg reads.
const EnvPrefix = "TAILCFG_"

// Defaults.
const (
	DefaultLogLevel = "info"
	DefaultInput    = "styles/input.css"
	DefaultOutput   = "static/css/output.css"
	DefaultDotEnv   = ".env"
)

// Settings holds the resolved CLI settings.
type Settings struct {
	// LogLevel is the zerolog level name.
	LogLevel string `env:"LOG_LEVEL"`

	// TailwindVersion pins the standalone binary version.
	TailwindVersion string `env:"TAILWIND_VERSION"`

	// BinDir is where downloaded binaries are cached.
	BinDir string `env:"BIN_DIR"`

	// DownloadURL overrides the release download base URL.
	DownloadURL string `env:"DOWNLOAD_URL"`

	// Input is the input CSS file, relative to the config directory.
	Input string `env:"INPUT"`

	// Output is the output CSS file, relative to the config directory.
	Output string `env:"OUTPUT"`

	// Minify enables CSS minification for builds.
	Minify bool `env:"MINIFY"`

	// Plugins registers extra plugins as name:module pairs.
	Plugins map[string]string `env:"PLUGINS" envSeparator:"," envKeyValSeparator:":"`
}

// Defaults returns the lowest-precedence settings layer.
func Defaults() *Settings {
	return &Settings{
		LogLevel:        DefaultLogLevel,
		TailwindVersion: tailwind.Version,
		BinDir:          tailwind.DefaultBinDirPath(),
		DownloadURL:     tailwind.GitHubReleaseURL,
		Input:           DefaultInput,
		Output:          DefaultOutput,
	}
}

// Validate checks the merged settings.
func (s *Settings) Validate() error {
	if s.Input == "" || s.Output == "" {
		return ErrMissingPaths
	}
	if s.TailwindVersion == "" {
		return ErrMissingVersion
	}
	return nil
}

// Validation errors returned by [Settings.Validate].
var (
	ErrMissingPaths   = errors.New("input and output CSS paths must be set")
	ErrMissingVersion = errors.New("tailwind version must be set")
)

// Builder collects settings layers in precedence order and merges them.
type Builder struct {
	layers []*Settings
	err    error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{layers: make([]*Settings, 0, 4)}
}

// WithFlags adds settings taken from command-line flags. Zero values are
// treated as unset.
func (b *Builder) WithFlags(s *Settings) *Builder {
	if s != nil {
		b.layers = append(b.layers, s)
	}
	return b
}

// WithEnv adds settings parsed from environ. A nil environ means the
// process environment.
func (b *Builder) WithEnv(environ map[string]string) *Builder {
	s := &Settings{}
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(s, opts); err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("error getting env settings: %w", err))
		return b
	}
	b.layers = append(b.layers, s)
	return b
}

// WithDotEnv adds settings from a .env file. A missing file is not an
// error.
func (b *Builder) WithDotEnv(path string) *Builder {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return b
		}
		b.err = errors.Join(b.err, fmt.Errorf("error reading %s: %w", path, err))
		return b
	}
	if vars == nil {
		vars = map[string]string{}
	}
	return b.WithEnv(vars)
}

// WithDefaults adds the default layer.
func (b *Builder) WithDefaults() *Builder {
	b.layers = append(b.layers, Defaults())
	return b
}

// Build merges the layers, earliest first, and validates the result.
func (b *Builder) Build() (*Settings, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building settings: %w", b.err)
	}

	out := new(Settings)
	for _, layer := range b.layers {
		if err := mergo.Merge(out, layer); err != nil {
			return nil, fmt.Errorf("error merging settings: %w", err)
		}
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Load resolves settings from flags, the process environment, the .env
// file in the working directory and defaults.
func Load(flags *Settings) (*Settings, error) {
	return NewBuilder().
		WithFlags(flags).
		WithEnv(nil).
		WithDotEnv(DefaultDotEnv).
		WithDefaults().
		Build()
}
