// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when scripts in the configured script
// directories change. Events are debounced so an editor's write-and-rename
// sequence triggers a single run.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

var (
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watcher already running")

	// DefaultPatterns selects shell scripts.
	DefaultPatterns = []string{"*.sh"}

	// editorNoise are basenames never worth a re-run.
	editorNoise = []string{"*.swp", "*.swo", "*~", ".#*", ".DS_Store"}
)

type (
	// Config holds the parameters of a Watcher.
	Config struct {
		// Dirs are watched non-recursively, like script discovery. Missing
		// directories are skipped with a warning.
		Dirs []string
		// Patterns are doublestar globs matched against file basenames.
		// Empty means DefaultPatterns.
		Patterns []string
		Debounce time.Duration
		// OnChange receives the sorted absolute paths that changed during the
		// debounce window.
		OnChange func(ctx context.Context, changed []string) error
		Logger   *log.Logger
	}

	// Watcher dispatches debounced change notifications. Run may be called
	// once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		patterns []string
		debounce time.Duration
		logger   *log.Logger
		watched  []string
		started  atomic.Bool
	}
)

// New validates the patterns and registers every existing directory.
func New(cfg Config) (*Watcher, error) {
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid pattern %q", pat)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		patterns: patterns,
		debounce: debounce,
		logger:   logger,
	}

	for _, dir := range cfg.Dirs {
		if err := w.addDir(dir); err != nil {
			fsw.Close() //nolint:errcheck // already failing
			return nil, err
		}
	}

	return w, nil
}

// Dirs returns the directories actually being watched.
func (w *Watcher) Dirs() []string {
	return slices.Clone(w.watched)
}

func (w *Watcher) addDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("watch: resolve %q: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		w.logger.Warn("script directory not found, not watching it", "dir", abs)
		return nil
	}
	if err != nil {
		return fmt.Errorf("watch: stat %q: %w", abs, err)
	}

	if err := w.fsw.Add(abs); err != nil {
		return fmt.Errorf("watch: add %q: %w", abs, err)
	}
	w.watched = append(w.watched, abs)
	w.logger.Debug("watching script directory", "dir", abs)
	return nil
}

// Run processes events until ctx is cancelled. It returns nil on
// cancellation and an error when the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		busy    atomic.Bool
	)

	// fire runs on the timer goroutine. A run still in progress pushes the
	// pending set to the next window instead of overlapping.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !busy.CompareAndSwap(false, true) {
			w.logger.Debug("previous run still in progress, postponing")
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer busy.Store(false)

		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if len(changed) == 0 || w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx, changed); err != nil {
			w.logger.Error("re-run failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Debug("closing watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if evt.Op == fsnotify.Chmod {
				continue
			}
			if !w.Matches(evt.Name) {
				continue
			}
			w.logger.Debug("script changed", "path", evt.Name, "op", evt.Op.String())

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: %w", err)
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

// Matches reports whether a changed path should trigger a re-run.
func (w *Watcher) Matches(path string) bool {
	name := filepath.Base(path)
	for _, pat := range editorNoise {
		if ok, _ := doublestar.Match(pat, name); ok {
			return false
		}
	}
	for _, pat := range w.patterns {
		if ok, _ := doublestar.Match(pat, name); ok {
			return true
		}
	}
	return false
}
