package server

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/danielewood/blog/internal/blogerr"
	"github.com/danielewood/blog/internal/logfields"
)

// Watcher monitors the content tree and the site configuration file and
// emits debounced rebuild triggers. Directory creates are picked up so new
// sections are watched without a restart.
type Watcher struct {
	watcher  *fsnotify.Watcher
	trigger  chan struct{}
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher watches every directory under contentDir plus the directory
// holding configPath. Watching the config file's directory instead of the
// file itself survives editors that replace the file on save.
func NewWatcher(contentDir, configPath string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, blogerr.InternalError("create file watcher", err)
	}

	w := &Watcher{
		watcher:  fw,
		trigger:  make(chan struct{}, 1),
		debounce: debounce,
	}

	if err := w.addDirsRecursive(contentDir); err != nil {
		_ = fw.Close()
		return nil, err
	}
	if configPath != "" {
		if err := fw.Add(filepath.Dir(configPath)); err != nil {
			_ = fw.Close()
			return nil, blogerr.InternalError("watch config directory", err)
		}
	}
	return w, nil
}

// Triggers returns the debounced rebuild channel.
func (w *Watcher) Triggers() <-chan struct{} { return w.trigger }

// Run processes filesystem events until the context is canceled.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("File watcher error", logfields.Error(err))
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ignoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(ev.Name)
		}
	}
	slog.Debug("Change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.fire()
}

// fire arms the debounce timer; rapid event bursts collapse into one trigger.
func (w *Watcher) fire() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// ignoreEvent filters editor temp and swap files that would otherwise cause
// rebuild churn on every keystroke.
func ignoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
