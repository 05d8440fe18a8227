package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// importDebounce lets an editor or copy finish writing before the import.
const importDebounce = 500 * time.Millisecond

// ImportWatcher imports *.json exports dropped into a directory.
type ImportWatcher struct {
	svc     *ScrapbookService
	emitter EventEmitter
	log     zerolog.Logger

	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	watchCancel context.CancelFunc
	timers      map[string]*time.Timer
	wg          sync.WaitGroup
}

func NewImportWatcher(svc *ScrapbookService, emitter EventEmitter, log zerolog.Logger) *ImportWatcher {
	return &ImportWatcher{
		svc:     svc,
		emitter: emitter,
		log:     log.With().Str("component", "import-watcher").Logger(),
		timers:  make(map[string]*time.Timer),
	}
}

// Start watches dir, creating it if needed.
func (w *ImportWatcher) Start(ctx context.Context, dir string) error {
	w.Stop()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create import dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.watcher = watcher
	w.watchCancel = cancel
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(watchCtx, watcher)
	w.log.Info().Str("dir", dir).Msg("Watching for imports")
	return nil
}

func (w *ImportWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
				continue
			}
			w.schedule(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("Watcher error")
		}
	}
}

// schedule (re)arms the debounce timer for path.
func (w *ImportWatcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(importDebounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		w.importFile(ctx, path)
	})
}

func (w *ImportWatcher) importFile(ctx context.Context, path string) {
	sb, err := w.svc.ImportFile(path)
	if err != nil {
		w.log.Error().Err(err).Str("path", path).Msg("Import failed")
		w.emitter.Emit(ctx, EventImportFailed, map[string]string{"path": path, "error": err.Error()})
		return
	}
	w.log.Info().Str("path", path).Str("id", sb.ID).Msg("Imported scrapbook")
}

// Stop closes the watcher and drops pending imports.
func (w *ImportWatcher) Stop() {
	w.mu.Lock()
	cancel, watcher := w.watchCancel, w.watcher
	w.watchCancel, w.watcher = nil, nil
	for p, t := range w.timers {
		t.Stop()
		delete(w.timers, p)
	}
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if watcher != nil {
		watcher.Close()
	}
	w.wg.Wait()
}
