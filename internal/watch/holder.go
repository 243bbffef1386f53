// Package watch keeps a configuration current while its source file
// changes. A Holder hands out the last successfully loaded *config.Config;
// a failed reload leaves it in place.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/vango-dev/tailcfg/internal/config"
	"github.com/vango-dev/tailcfg/internal/log"
	"github.com/vango-dev/tailcfg/internal/plugin"
)

// DefaultDebounce is how long the watcher waits after the last file event
// before reloading.
const DefaultDebounce = 250 * time.Millisecond

// Holder holds the current configuration of one source file.
type Holder struct {
	mu      sync.RWMutex
	current *config.Config

	path     string
	registry *plugin.Registry
	debounce time.Duration
	logger   zerolog.Logger

	listenMu  sync.RWMutex
	listeners []chan<- *config.Config

	runMu   sync.Mutex
	watcher *fsnotify.Watcher
	stop    chan struct{}
	done    chan struct{}
}

// Option configures a Holder.
type Option func(*Holder)

// WithDebounce sets the reload debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(h *Holder) {
		if d > 0 {
			h.debounce = d
		}
	}
}

// NewHolder loads path and returns a holder for it. The initial load must
// succeed.
func NewHolder(path string, reg *plugin.Registry, opts ...Option) (*Holder, error) {
	cfg, err := config.LoadFile(path, reg)
	if err != nil {
		return nil, err
	}

	h := &Holder{
		current:  cfg,
		path:     filepath.Clean(path),
		registry: reg,
		debounce: DefaultDebounce,
		logger:   log.WithComponent("watch"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Get returns the current configuration.
func (h *Holder) Get() *config.Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Path returns the watched source path.
func (h *Holder) Path() string {
	return h.path
}

// Reload loads the source again. On success the new configuration replaces
// the current one and listeners are notified. On failure the current
// configuration is kept and the load error is returned.
func (h *Holder) Reload(_ context.Context) error {
	h.logger.Debug().Str("event", "config.reload_start").Str("path", h.path).Msg("reloading configuration")

	next, err := config.LoadFile(h.path, h.registry)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("event", "config.reload_failed").
			Str("path", h.path).
			Msg("keeping previous configuration")
		return err
	}

	h.mu.Lock()
	prev := h.current
	h.current = next
	h.mu.Unlock()

	h.logChanges(prev, next)
	h.notifyListeners(next)

	h.logger.Info().
		Str("event", "config.reload_success").
		Str("path", h.path).
		Msg("configuration reloaded")
	return nil
}

// RegisterListener registers a channel that receives every successfully
// reloaded configuration. Sends never block; a full channel misses the
// update.
func (h *Holder) RegisterListener(ch chan<- *config.Config) {
	h.listenMu.Lock()
	defer h.listenMu.Unlock()
	h.listeners = append(h.listeners, ch)
}

func (h *Holder) notifyListeners(cfg *config.Config) {
	h.listenMu.RLock()
	defer h.listenMu.RUnlock()

	for _, ch := range h.listeners {
		select {
		case ch <- cfg:
		default:
			h.logger.Warn().
				Str("event", "config.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}

func (h *Holder) logChanges(prev, next *config.Config) {
	if prev.Equal(next) {
		h.logger.Debug().Str("event", "config.unchanged").Msg("configuration unchanged")
		return
	}
	if !slices.Equal(prev.ContentPatterns(), next.ContentPatterns()) {
		h.logger.Info().
			Strs("old", prev.ContentPatterns()).
			Strs("new", next.ContentPatterns()).
			Msg("config changed: contentPatterns")
	}
	if !slices.Equal(prev.Plugins(), next.Plugins()) {
		h.logger.Info().
			Strs("old", prev.Plugins()).
			Strs("new", next.Plugins()).
			Msg("config changed: plugins")
	}
	h.logger.Debug().Msg("config changed: themeExtensions")
}

// ErrRunning is returned by Start when the holder is already watching.
var ErrRunning = errors.New("watcher already running")

// Start watches the source file and reloads it when it changes. Watching
// stops when ctx is cancelled or Stop is called. The directory is watched
// rather than the file so editors that replace the file by rename are seen.
func (h *Holder) Start(ctx context.Context) error {
	h.runMu.Lock()
	defer h.runMu.Unlock()

	if h.done != nil {
		select {
		case <-h.done:
		default:
			return ErrRunning
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}

	h.watcher = watcher
	h.stop = make(chan struct{})
	h.done = make(chan struct{})

	h.logger.Info().
		Str("event", "config.watcher_started").
		Str("path", h.path).
		Msg("watching config file for changes")

	go h.watchLoop(ctx, watcher, h.stop, h.done)
	return nil
}

// Done returns a channel that is closed when the watch loop exits. It is
// nil before Start.
func (h *Holder) Done() <-chan struct{} {
	h.runMu.Lock()
	defer h.runMu.Unlock()
	return h.done
}

// Stop stops watching and waits for the watch loop to exit.
func (h *Holder) Stop() {
	h.runMu.Lock()
	stop, done := h.stop, h.done
	h.stop = nil
	h.runMu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (h *Holder) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer func() {
		_ = watcher.Close()
	}()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	name := filepath.Base(h.path)
	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str("event", "config.watcher_stopped").Msg("config watcher stopped")
			return

		case <-stop:
			h.logger.Info().Str("event", "config.watcher_stopped").Msg("config watcher stopped")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			h.logger.Debug().
				Str("event", "config.file_changed").
				Str("op", event.Op.String()).
				Msg("config file changed")

			if timer == nil {
				timer = time.NewTimer(h.debounce)
			} else {
				timer.Reset(h.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			// Errors are logged by Reload.
			_ = h.Reload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str("event", "config.watcher_error").
				Msg("config watcher error")
		}
	}
}
