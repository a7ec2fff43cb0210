package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"code.helixprotocol.io/helix/logging"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
)

const (
	configFileName = "config.toml"
	namedLogger    = "cfgwatcher"
)

// Watcher reloads the configuration file whenever it changes on disk and
// fans the new configuration out to registered listeners. Listeners are
// invoked on the next clock tick rather than on the filesystem event, so
// engines only ever see a configuration change between cycles.
type Watcher struct {
	log  *logging.Logger
	path string

	mu        sync.Mutex
	cfg       Config
	listeners []func(Config)

	dirty atomic.Bool
}

// NewFromFile loads the configuration under the given root path and starts
// watching it for changes until the context is cancelled.
func NewFromFile(ctx context.Context, log *logging.Logger, path string) (*Watcher, error) {
	log = log.Named(namedLogger)
	// configuration changes are always worth reporting
	log.SetLevel(logging.DebugLevel)

	w := &Watcher{
		log:  log,
		cfg:  NewDefaultConfig(),
		path: filepath.Join(path, configFileName),
	}
	if err := w.load(); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(w.path); err != nil {
		return nil, err
	}

	w.log.Info("config watcher started",
		logging.String("config", w.path))
	go w.watch(ctx, fsw)

	return w, nil
}

// Get returns the most recently loaded configuration.
func (w *Watcher) Get() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

// OnConfigUpdate registers functions to be called with the new
// configuration after a reload.
func (w *Watcher) OnConfigUpdate(fns ...func(Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fns...)
}

// OnTimeUpdate notifies listeners of any reload that happened since the
// previous tick. Wired as a time service listener.
func (w *Watcher) OnTimeUpdate(_ context.Context, _ time.Time) {
	if !w.dirty.CompareAndSwap(true, false) {
		return
	}
	cfg := w.Get()
	w.mu.Lock()
	listeners := make([]func(Config), len(w.listeners))
	copy(listeners, w.listeners)
	w.mu.Unlock()
	for _, f := range listeners {
		f(cfg)
	}
}

func (w *Watcher) load() error {
	buf, err := os.ReadFile(w.path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := toml.Decode(string(buf), &w.cfg); err != nil {
		return err
	}
	return nil
}

func (w *Watcher) watch(ctx context.Context, fsw *fsnotify.Watcher) {
	defer fsw.Close()
	for {
		select {
		case event := <-fsw.Events:
			if event.Op&(fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Rename != 0 {
				// editors like vi replace the file instead of writing it
				// in place, give the rename a moment to land before
				// reading the new file
				time.Sleep(50 * time.Millisecond)
			}
			w.log.Info("configuration updated", logging.String("event", event.Name))
			if err := w.load(); err != nil {
				w.log.Error("unable to load configuration", logging.Error(err))
				continue
			}
			w.dirty.Store(true)
		case err := <-fsw.Errors:
			w.log.Error("config watcher error", logging.Error(err))
		case <-ctx.Done():
			return
		}
	}
}
