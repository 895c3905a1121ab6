package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/compozy/pdftab/pkg/logger"
)

// fileWatcher follows one config file. It watches the parent directory and
// filters by name because editors often save by renaming a temp file over the
// original, which drops a watch placed on the file itself.
type fileWatcher struct {
	fsw  *fsnotify.Watcher
	path string

	mu        sync.Mutex
	callbacks []func()
	done      chan struct{}
	closeOnce sync.Once
}

func newFileWatcher(ctx context.Context, path string) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	w := &fileWatcher{fsw: fsw, path: abs, done: make(chan struct{})}
	go w.loop(ctx)
	return w, nil
}

func (w *fileWatcher) subscribe(callback func()) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, callback)
	w.mu.Unlock()
}

func (w *fileWatcher) loop(ctx context.Context) {
	log := logger.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			_ = w.close()
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Name != w.path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.notify()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn("config watcher error", "path", w.path, "error", err)
		}
	}
}

func (w *fileWatcher) notify() {
	w.mu.Lock()
	callbacks := append([]func(){}, w.callbacks...)
	w.mu.Unlock()
	for _, cb := range callbacks {
		cb()
	}
}

func (w *fileWatcher) close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}
