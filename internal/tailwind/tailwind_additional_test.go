package tailwind

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// fakeTailwind records its working directory and arguments to
// $CAPTURE_PATH, writes the -o file and, under --watch, blocks until killed.
const fakeTailwind = `#!/bin/sh
{ pwd; for a in "$@"; do echo "$a"; done; } > "$CAPTURE_PATH"
out=""
watch=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift ;;
    --watch*) watch=1 ;;
  esac
  shift
done
if [ -n "$out" ]; then
  mkdir -p "$(dirname "$out")"
  echo "/* compiled */" > "$out"
fi
if [ -n "$watch" ]; then
  exec sleep 60
fi
`

func installFake(t *testing.T, b *Binary) {
	t.Helper()
	path := b.binaryPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll(%q): %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(fakeTailwind), 0755); err != nil {
		t.Fatalf("WriteFile(%q): %v", path, err)
	}
}

// readCapture returns the captured working directory and arguments.
func readCapture(t *testing.T, path string) (string, []string) {
	t.Helper()
	lines := strings.Split(strings.TrimRight(string(mustReadFile(t, path)), "\n"), "\n")
	return lines[0], lines[1:]
}

func samePath(t *testing.T, a, b string) bool {
	t.Helper()
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		t.Fatalf("EvalSymlinks(%q): %v", a, err)
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		t.Fatalf("EvalSymlinks(%q): %v", b, err)
	}
	return ra == rb
}

func TestBinary_binaryPath_IncludesVersionDir(t *testing.T) {
	b := &Binary{
		Version: "vTEST",
		BinDir:  filepath.Join(t.TempDir(), "bin"),
	}

	got := b.binaryPath()
	if !strings.Contains(got, string(filepath.Separator)+"vTEST"+string(filepath.Separator)) {
		t.Fatalf("binaryPath = %q, expected it to include version dir %q", got, "vTEST")
	}
}

func TestBinary_Path_CachesResolvedPath(t *testing.T) {
	binDir := t.TempDir()
	b := &Binary{Version: "vTEST", BinDir: binDir}

	path := b.binaryPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll(%q): %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("bin"), 0755); err != nil {
		t.Fatalf("WriteFile(%q): %v", path, err)
	}

	p1, err := b.Path()
	if err != nil {
		t.Fatalf("Path(): %v", err)
	}
	p2, err := b.Path()
	if err != nil {
		t.Fatalf("Path() second call: %v", err)
	}
	if p1 != p2 {
		t.Fatalf("Path() = %q then %q, expected cached same value", p1, p2)
	}
}

func TestBinary_Path_Missing_ReturnsError(t *testing.T) {
	b := &Binary{Version: "vTEST", BinDir: t.TempDir()}
	_, err := b.Path()
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestBinary_IsInstalled(t *testing.T) {
	binDir := t.TempDir()
	b := &Binary{Version: "vTEST", BinDir: binDir}
	if b.IsInstalled() {
		t.Fatal("expected IsInstalled() false before writing binary")
	}

	path := b.binaryPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll(%q): %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("bin"), 0755); err != nil {
		t.Fatalf("WriteFile(%q): %v", path, err)
	}
	if !b.IsInstalled() {
		t.Fatal("expected IsInstalled() true after writing binary")
	}
}

func TestBinary_EnsureInstalled_UsesBaseURLAndProgress(t *testing.T) {
	var requests atomic.Int64
	wantBody := []byte("fake-binary-bytes")

	binDir := t.TempDir()
	b := &Binary{
		Version:         "vTEST",
		BinDir:          binDir,
		DownloadBaseURL: "https://example.test/releases/download",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			requests.Add(1)
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewReader(wantBody)),
				Header:     make(http.Header),
				Request:    req,
			}, nil
		})},
	}

	var progress []string
	gotPath, err := b.EnsureInstalled(context.Background(), func(msg string) {
		progress = append(progress, msg)
	})
	if err != nil {
		t.Fatalf("EnsureInstalled: %v", err)
	}

	if requests.Load() != 1 {
		t.Fatalf("requests = %d, want 1", requests.Load())
	}

	// Should install to the versioned path.
	if gotPath != b.binaryPath() {
		t.Fatalf("path = %q, want %q", gotPath, b.binaryPath())
	}

	gotBytes, err := os.ReadFile(gotPath)
	if err != nil {
		t.Fatalf("ReadFile(%q): %v", gotPath, err)
	}
	if string(gotBytes) != string(wantBody) {
		t.Fatalf("installed bytes mismatch: got %q want %q", string(gotBytes), string(wantBody))
	}

	if len(progress) < 2 {
		t.Fatalf("expected progress messages, got %v", progress)
	}

	// Second call should be a no-op.
	progress = nil
	gotPath2, err := b.EnsureInstalled(context.Background(), func(msg string) {
		progress = append(progress, msg)
	})
	if err != nil {
		t.Fatalf("EnsureInstalled second: %v", err)
	}
	if gotPath2 != gotPath {
		t.Fatalf("path second = %q, want %q", gotPath2, gotPath)
	}
	if requests.Load() != 1 {
		t.Fatalf("requests after second call = %d, want 1", requests.Load())
	}
	if len(progress) != 0 {
		t.Fatalf("expected no progress messages when already installed, got %v", progress)
	}
}

func TestBinary_EnsureInstalled_NonOKStatus_ReturnsError(t *testing.T) {
	b := &Binary{
		Version:         "vTEST",
		BinDir:          t.TempDir(),
		DownloadBaseURL: "https://example.test/releases/download",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusNotFound,
				Body:       io.NopCloser(strings.NewReader("nope")),
				Header:     make(http.Header),
				Request:    req,
			}, nil
		})},
	}

	_, err := b.EnsureInstalled(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "download failed with status 404") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBinary_downloadURL_DefaultsToGitHub(t *testing.T) {
	b := &Binary{Version: "vTEST", BinDir: t.TempDir()}
	url := b.downloadURL()
	if !strings.HasPrefix(url, GitHubReleaseURL+"/") {
		t.Fatalf("downloadURL = %q, want prefix %q", url, GitHubReleaseURL+"/")
	}
}

func TestBinary_EnsureInstalled_HTTPServer(t *testing.T) {
	paths := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		_, _ = w.Write([]byte("binary"))
	}))
	defer srv.Close()

	b := &Binary{Version: "v9.9.9", BinDir: t.TempDir(), DownloadBaseURL: srv.URL + "/releases/"}
	path, err := b.EnsureInstalled(context.Background(), nil)
	if err != nil {
		t.Fatalf("EnsureInstalled: %v", err)
	}
	if gotPath, want := <-paths, "/releases/v9.9.9/"+binaryName(); gotPath != want {
		t.Fatalf("request path = %q, want %q", gotPath, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat(%q): %v", path, err)
	}
	if info.Mode().Perm()&0100 == 0 {
		t.Fatalf("installed binary is not executable: %v", info.Mode())
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the binary in %s, got %d entries", filepath.Dir(path), len(entries))
	}
}

func TestRunner_Build_And_Watch_Lifecycle(t *testing.T) {
	projectDir := t.TempDir()
	captureBuild := filepath.Join(projectDir, "capture_build.txt")
	captureWatch := filepath.Join(projectDir, "capture_watch.txt")

	b := &Binary{Version: "v3.4.17", BinDir: t.TempDir()}
	installFake(t, b)

	r := NewRunner(b, projectDir)
	var stdout, stderr bytes.Buffer
	r.Stdout = &stdout
	r.Stderr = &stderr

	// One-shot build.
	t.Setenv("CAPTURE_PATH", captureBuild)
	cfg := RunnerConfig{
		InputPath:  "styles/input.css",
		OutputPath: "static/css/output.css",
		ConfigPath: ConfigFileName,
		Minify:     true,
	}
	if err := r.Build(context.Background(), cfg); err != nil {
		t.Fatalf("Build: %v (stderr: %s)", err, stderr.String())
	}
	outCSS := filepath.Join(projectDir, "static", "css", "output.css")
	if _, err := os.Stat(outCSS); err != nil {
		t.Fatalf("expected output css at %q: %v", outCSS, err)
	}

	cwd, args := readCapture(t, captureBuild)
	argsJoined := strings.Join(args, " ")
	for _, want := range []string{"-i styles/input.css", "-o static/css/output.css", "-c tailwind.config.js", "--minify"} {
		if !strings.Contains(argsJoined, want) {
			t.Fatalf("missing %q in args: %s", want, argsJoined)
		}
	}
	if strings.Contains(argsJoined, "--watch") {
		t.Fatalf("one-shot build passed watch flag: %s", argsJoined)
	}
	if !samePath(t, cwd, projectDir) {
		t.Fatalf("cwd = %q, want %q", cwd, projectDir)
	}

	// Watch mode start/stop.
	t.Setenv("CAPTURE_PATH", captureWatch)
	cfg.Minify = false
	if err := r.StartWatch(context.Background(), cfg); err != nil {
		t.Fatalf("StartWatch: %v", err)
	}
	if !r.IsRunning() {
		t.Fatalf("expected runner to be running")
	}
	if err := r.StartWatch(context.Background(), cfg); err != nil {
		t.Fatalf("second StartWatch: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if data, err := os.ReadFile(captureWatch); err == nil && bytes.Contains(data, []byte("--watch=always")) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected watch capture file at %q", captureWatch)
		}
		time.Sleep(10 * time.Millisecond)
	}

	r.Stop()
	if r.IsRunning() {
		t.Fatalf("expected runner to stop")
	}

	_, args = readCapture(t, captureWatch)
	argsJoined = strings.Join(args, " ")
	for _, want := range []string{"--watch=always", "-c tailwind.config.js"} {
		if !strings.Contains(argsJoined, want) {
			t.Fatalf("missing %q in watch args: %s", want, argsJoined)
		}
	}
}

func TestRunner_Restart(t *testing.T) {
	projectDir := t.TempDir()
	t.Setenv("CAPTURE_PATH", filepath.Join(projectDir, "capture.txt"))

	b := &Binary{Version: "vTEST", BinDir: t.TempDir()}
	installFake(t, b)
	r := NewRunner(b, projectDir)
	r.Stdout, r.Stderr = io.Discard, io.Discard

	cfg := RunnerConfig{InputPath: "in.css", OutputPath: "out.css"}
	if err := r.StartWatch(context.Background(), cfg); err != nil {
		t.Fatalf("StartWatch: %v", err)
	}
	if err := r.Restart(context.Background(), cfg); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if !r.IsRunning() {
		t.Fatal("expected runner to be running after restart")
	}
	r.Stop()
	if r.IsRunning() {
		t.Fatal("expected runner to stop")
	}
}

func mustReadFile(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%q): %v", path, err)
	}
	return b
}

func TestRunner_Stop_NoOpWhenNotRunning(t *testing.T) {
	r := NewRunner(&Binary{Version: "vTEST", BinDir: t.TempDir()}, t.TempDir())
	r.Stop()
}

func TestRunner_Build_DownloadError_ReturnsError(t *testing.T) {
	b := &Binary{
		Version:         "vTEST",
		BinDir:          t.TempDir(),
		DownloadBaseURL: "https://example.test/releases/download",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("boom")
		})},
	}
	r := NewRunner(b, t.TempDir())

	err := r.Build(context.Background(), RunnerConfig{
		InputPath:  "in.css",
		OutputPath: "out.css",
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestBinary_downloadURL_TrimsTrailingSlash(t *testing.T) {
	b := &Binary{
		Version:         "vTEST",
		BinDir:          t.TempDir(),
		DownloadBaseURL: "https://example.com/releases/download/",
	}
	url := b.downloadURL()
	if strings.Contains(url, "download//vTEST") {
		t.Fatalf("downloadURL has double slash: %q", url)
	}
}

func TestRunner_args_ConfigFlagByVersion(t *testing.T) {
	tests := []struct {
		version string
		want    []string
	}{
		{"v3.4.17", []string{"-i", "in.css", "-o", "out.css", "-c", "tailwind.config.js"}},
		{"3.0.0", []string{"-i", "in.css", "-o", "out.css", "-c", "tailwind.config.js"}},
		{"v4.1.18", []string{"-i", "in.css", "-o", "out.css"}},
		{"v5.0.0", []string{"-i", "in.css", "-o", "out.css"}},
		{"latest", []string{"-i", "in.css", "-o", "out.css"}},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			r := NewRunner(&Binary{Version: tt.version}, t.TempDir())
			got := r.args(RunnerConfig{InputPath: "in.css", OutputPath: "out.css", ConfigPath: ConfigFileName}, false)
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Fatalf("args = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigDirective(t *testing.T) {
	tests := []struct {
		input, config, want string
	}{
		{"styles/input.css", ConfigFileName, `@config "../tailwind.config.js";`},
		{"input.css", ConfigFileName, `@config "tailwind.config.js";`},
		{"assets/css/app.css", "build/tailwind.config.js", `@config "../../build/tailwind.config.js";`},
	}
	for _, tt := range tests {
		if got := ConfigDirective(tt.input, tt.config); got != tt.want {
			t.Errorf("ConfigDirective(%q, %q) = %q, want %q", tt.input, tt.config, got, tt.want)
		}
	}
}

func TestHasConfigDirective(t *testing.T) {
	if !HasConfigDirective([]byte("@import \"tailwindcss\";\n  @config \"../tailwind.config.js\";\n")) {
		t.Fatal("expected @config to be found")
	}
	if HasConfigDirective([]byte("@import \"tailwindcss\";\n/* no config */\n")) {
		t.Fatal("unexpected @config match")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
