// Package tailwind hands a loaded configuration to the Tailwind CSS
// standalone binary. It renders tailwind.config.js files, downloads and
// caches the binary per version, and runs one-shot or watch-mode builds
// without requiring Node.js.
package tailwind

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"

	"github.com/vango-dev/tailcfg/internal/log"
)

const (
	// Version is the Tailwind CSS version used when none is configured.
	// v4.0.0-v4.0.5 exit immediately under --watch.
	Version = "v4.1.18"

	// GitHubReleaseURL is the base URL for downloading Tailwind binaries.
	GitHubReleaseURL = "https://github.com/tailwindlabs/tailwindcss/releases/download"

	// DefaultBinDir is the binary cache directory, relative to the home
	// directory.
	DefaultBinDir = ".tailcfg/bin"
)

// Binary is the Tailwind CSS standalone binary for one version.
type Binary struct {
	// Version is the Tailwind version.
	Version string

	// BinDir is the directory where binaries are cached.
	BinDir string

	// DownloadBaseURL is the base URL for downloading Tailwind binaries.
	// If empty, GitHubReleaseURL is used.
	DownloadBaseURL string

	// HTTPClient is used for downloads. If nil, a default client is used.
	HTTPClient *http.Client

	path string
	mu   sync.Mutex
}

// NewBinary creates a Binary with default settings.
func NewBinary() *Binary {
	return NewBinaryWithVersion(Version)
}

// NewBinaryWithVersion creates a Binary for a specific version.
func NewBinaryWithVersion(version string) *Binary {
	return &Binary{
		Version:         version,
		BinDir:          DefaultBinDirPath(),
		DownloadBaseURL: GitHubReleaseURL,
	}
}

// DefaultBinDirPath returns the default binary directory (~/.tailcfg/bin).
func DefaultBinDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", DefaultBinDir)
	}
	return filepath.Join(home, DefaultBinDir)
}

// Path returns the path to an installed binary. It does not download.
func (b *Binary) Path() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.path != "" {
		return b.path, nil
	}

	path := b.binaryPath()
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("tailwind binary not found at %s (run 'tailcfg build' to download it): %w", path, err)
	}
	b.path = path
	return path, nil
}

// EnsureInstalled downloads the binary if it is missing and returns its
// path. progress may be nil.
func (b *Binary) EnsureInstalled(ctx context.Context, progress func(msg string)) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	path := b.binaryPath()
	if _, err := os.Stat(path); err == nil {
		b.path = path
		return path, nil
	}

	if err := b.download(ctx, progress); err != nil {
		return "", err
	}

	b.path = path
	return path, nil
}

// IsInstalled reports whether the binary is present in the cache.
func (b *Binary) IsInstalled() bool {
	_, err := os.Stat(b.binaryPath())
	return err == nil
}

// binaryPath stores binaries per version so an upgrade never reuses an
// older download.
func (b *Binary) binaryPath() string {
	return filepath.Join(b.BinDir, b.Version, binaryName())
}

func (b *Binary) downloadURL() string {
	base := b.DownloadBaseURL
	if base == "" {
		base = GitHubReleaseURL
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), b.Version, binaryName())
}

func (b *Binary) download(ctx context.Context, progress func(msg string)) error {
	url := b.downloadURL()
	logger := log.WithComponent("tailwind")
	logger.Info().Str("version", b.Version).Str("url", url).Msg("downloading tailwind binary")

	if progress != nil {
		progress(fmt.Sprintf("Downloading Tailwind CSS %s...", b.Version))
	}

	dest := b.binaryPath()
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	client := b.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d (URL: %s)", resp.StatusCode, url)
	}

	f, err := renameio.NewPendingFile(dest, renameio.WithPermissions(0755))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Cleanup()

	written, err := io.Copy(f, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if progress != nil {
		progress(fmt.Sprintf("Downloaded %.1f MB", float64(written)/1024/1024))
	}

	if err := f.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to install binary: %w", err)
	}

	logger.Info().Str("path", dest).Int64("bytes", written).Msg("tailwind binary installed")
	if progress != nil {
		progress(fmt.Sprintf("Installed to %s", dest))
	}
	return nil
}

// Runner runs the Tailwind CLI against a rendered config.
type Runner struct {
	// Stdout and Stderr receive the binary's output. Nil means the
	// process's own streams.
	Stdout io.Writer
	Stderr io.Writer

	binary     *Binary
	cmd        *exec.Cmd
	mu         sync.Mutex
	running    bool
	projectDir string
	done       chan struct{}
}

// RunnerConfig configures one Tailwind invocation.
type RunnerConfig struct {
	// InputPath is the input CSS file path (relative to the project).
	InputPath string

	// OutputPath is the output CSS file path (relative to the project).
	OutputPath string

	// ConfigPath is the rendered tailwind.config.js path. It is passed
	// with -c to Tailwind v3 only. v4 loads it through an @config
	// directive in the input CSS.
	ConfigPath string

	// Minify enables CSS minification.
	Minify bool
}

// NewRunner creates a runner that executes in projectDir.
func NewRunner(binary *Binary, projectDir string) *Runner {
	return &Runner{
		binary:     binary,
		projectDir: projectDir,
	}
}

func (r *Runner) args(cfg RunnerConfig, watch bool) []string {
	args := []string{
		"-i", cfg.InputPath,
		"-o", cfg.OutputPath,
	}
	if watch {
		args = append(args, "--watch=always")
	}
	if cfg.ConfigPath != "" && !UsesConfigDirective(r.binary.Version) {
		args = append(args, "-c", cfg.ConfigPath)
	}
	if cfg.Minify {
		args = append(args, "--minify")
	}
	return args
}

// UsesConfigDirective reports whether the Tailwind version reads its JS
// config only through @config in the input CSS. That is v4 and later, and
// any version string that does not parse.
func UsesConfigDirective(version string) bool {
	major, _, _ := strings.Cut(strings.TrimPrefix(version, "v"), ".")
	n, err := strconv.Atoi(major)
	return err != nil || n >= 4
}

// ConfigDirective returns the @config line that makes the stylesheet at
// inputPath load configPath. Both paths are relative to the same directory.
func ConfigDirective(inputPath, configPath string) string {
	rel, err := filepath.Rel(filepath.Dir(inputPath), configPath)
	if err != nil {
		rel = configPath
	}
	return fmt.Sprintf("@config %q;", filepath.ToSlash(rel))
}

// HasConfigDirective reports whether css contains an @config at-rule.
func HasConfigDirective(css []byte) bool {
	for _, line := range strings.Split(string(css), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "@config") {
			return true
		}
	}
	return false
}

func (r *Runner) attach(cmd *exec.Cmd) *exec.Cmd {
	cmd.Dir = r.projectDir
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd
}

// Build runs a one-shot Tailwind build.
func (r *Runner) Build(ctx context.Context, cfg RunnerConfig) error {
	path, err := r.binary.EnsureInstalled(ctx, nil)
	if err != nil {
		return err
	}

	args := r.args(cfg, false)
	logger := log.WithComponent("tailwind")
	logger.Debug().Strs("args", args).Str("dir", r.projectDir).Msg("running tailwind build")

	if err := r.attach(exec.CommandContext(ctx, path, args...)).Run(); err != nil {
		return fmt.Errorf("tailwind build failed: %w", err)
	}
	return nil
}

// StartWatch starts Tailwind in watch mode. It is a no-op if a watcher is
// already running.
func (r *Runner) StartWatch(ctx context.Context, cfg RunnerConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil
	}

	path, err := r.binary.EnsureInstalled(ctx, nil)
	if err != nil {
		return err
	}

	// Not bound to ctx: Stop owns the process lifetime. --watch=always keeps
	// Tailwind alive when stdin closes.
	r.cmd = r.attach(exec.Command(path, r.args(cfg, true)...))
	if err := r.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start tailwind: %w", err)
	}
	logger := log.WithComponent("tailwind")
	logger.Info().Int("pid", r.cmd.Process.Pid).Msg("tailwind watcher started")

	r.running = true
	r.done = make(chan struct{})

	cmd := r.cmd
	done := r.done
	go func() {
		_ = cmd.Wait()
		close(done)
		r.mu.Lock()
		if r.cmd == cmd {
			r.running = false
			r.cmd = nil
			r.done = nil
		}
		r.mu.Unlock()
	}()

	return nil
}

// Restart stops a running watcher and starts a new one with cfg.
func (r *Runner) Restart(ctx context.Context, cfg RunnerConfig) error {
	r.Stop()
	return r.StartWatch(ctx, cfg)
}

// Stop stops the watcher and waits briefly for it to exit.
func (r *Runner) Stop() {
	r.mu.Lock()
	cmd := r.cmd
	done := r.done
	running := r.running
	r.mu.Unlock()

	if !running || cmd == nil || cmd.Process == nil {
		return
	}

	_ = cmd.Process.Kill()
	if done != nil {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}

	r.mu.Lock()
	if r.cmd == cmd {
		r.running = false
		r.cmd = nil
		r.done = nil
	}
	r.mu.Unlock()
}

// IsRunning reports whether a watcher is running.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
