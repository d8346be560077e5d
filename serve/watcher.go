package serve

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the tree when markdown files below the docs root change.
// Events are debounced so editors that write in bursts trigger one reload.
type Watcher struct {
	logger   *zap.Logger
	root     string
	debounce time.Duration
	reload   func() int // reloads the tree, returns the page count
	notify   func(pages int)
}

func NewWatcher(logger *zap.Logger, root string, debounce time.Duration, reload func() int, notify func(pages int)) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Watcher{
		logger:   logger,
		root:     root,
		debounce: debounce,
		reload:   reload,
		notify:   notify,
	}
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// fsnotify does not recurse, every directory gets its own watch.
	err = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != w.root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		return err
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher shutting down")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories need a watch of their own.
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					base := filepath.Base(event.Name)
					if !strings.HasPrefix(base, ".") && !strings.HasPrefix(base, "_") {
						_ = watcher.Add(event.Name)
					}
				}
			}
			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}
			w.logger.Debug("docs changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		case <-timerC:
			pages := w.reload()
			w.logger.Info("tree reloaded", zap.Int("pages", pages))
			if w.notify != nil {
				w.notify(pages)
			}
		}
	}
}
