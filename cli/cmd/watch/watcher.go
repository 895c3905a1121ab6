package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/compozy/pdftab/cli/helpers"
	"github.com/compozy/pdftab/engine/batch"
	"github.com/compozy/pdftab/engine/encode"
	"github.com/compozy/pdftab/pkg/logger"
)

// Settings is the part of the configuration a Watcher follows.
type Settings struct {
	Runner    *batch.Runner
	Format    string
	OutputDir string
	Debounce  time.Duration
}

// Result reports one finished conversion.
type Result struct {
	Source string
	Output string
	Err    error
}

// Watcher converts every PDF that is created or rewritten in a directory.
// Conversions run one at a time.
type Watcher struct {
	dir string

	mu       sync.Mutex
	settings Settings
	timers   map[string]*time.Timer

	runMu     sync.Mutex
	onConvert func(Result)
}

func NewWatcher(dir string, settings Settings) *Watcher {
	return &Watcher{
		dir:      dir,
		settings: settings,
		timers:   make(map[string]*time.Timer),
	}
}

// Update swaps the settings used by conversions that start afterwards.
func (w *Watcher) Update(settings Settings) {
	w.mu.Lock()
	w.settings = settings
	w.mu.Unlock()
}

// OnConvert registers a callback invoked after every conversion attempt.
func (w *Watcher) OnConvert(fn func(Result)) {
	w.mu.Lock()
	w.onConvert = fn
	w.mu.Unlock()
}

func (w *Watcher) current() Settings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings
}

// Run blocks until ctx is canceled or the watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	log.Info("Watching for PDF files", "dir", w.dir)
	defer w.stopTimers()
	for {
		select {
		case <-ctx.Done():
			log.Info("Context canceled, stopping file watcher")
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isPDF(event.Name) {
				continue
			}
			log.Debug("Detected file change, debouncing...", "file", event.Name)
			w.schedule(ctx, event.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Error("Watcher error", "error", err)
		}
	}
}

// schedule (re)starts the debounce timer of path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.settings.Debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		w.Convert(ctx, path)
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// Convert runs one document through the pipeline and writes
// <output dir>/<base name>.<ext>. Failures are logged and reported, not returned.
func (w *Watcher) Convert(ctx context.Context, path string) Result {
	w.runMu.Lock()
	defer w.runMu.Unlock()
	settings := w.current()
	res := Result{Source: path}
	res.Output, res.Err = w.convert(ctx, path, settings)
	log := logger.FromContext(ctx)
	if res.Err != nil {
		log.Error("Conversion failed", "file", path, "error", res.Err)
	} else {
		log.Info("Converted", "file", path, "output", res.Output)
	}
	w.mu.Lock()
	fn := w.onConvert
	w.mu.Unlock()
	if fn != nil {
		fn(res)
	}
	return res
}

func (w *Watcher) convert(ctx context.Context, path string, settings Settings) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc := batch.Document{Name: filepath.Base(path), Data: data}
	out, err := settings.Runner.Run(ctx, []batch.Document{doc}, settings.Format)
	if err != nil {
		return "", err
	}
	dest := outputPath(path, w.dir, settings.OutputDir, out.Format)
	if err := helpers.WriteOutput(dest, out.Data, nil); err != nil {
		return "", err
	}
	return dest, nil
}

func outputPath(source, watchDir, outputDir string, format encode.Format) string {
	if outputDir == "" {
		outputDir = watchDir
	}
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(outputDir, base+format.Extension())
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
