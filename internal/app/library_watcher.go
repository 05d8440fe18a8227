package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"scrapbook/internal/domain"
	"scrapbook/internal/service"
	"scrapbook/internal/storage"
)

// libraryWatcher polls the library for changes made by another process
// (the standalone MCP server, a second window, a shared database) and
// emits events so the frontend refreshes. A clean open scrapbook that
// changed underneath is reloaded; a dirty one is only flagged.
type libraryWatcher struct {
	ctx      context.Context
	lib      domain.ScrapbookStore
	svc      *service.ScrapbookService
	emitter  service.EventEmitter
	log      zerolog.Logger
	interval time.Duration

	mu          sync.Mutex
	lastList    string // count + max updated_at of the library listing
	lastFlagged time.Time
	goneID      string
	stopCh      chan struct{}
	done        chan struct{}
}

func newLibraryWatcher(ctx context.Context, lib domain.ScrapbookStore, svc *service.ScrapbookService, emitter service.EventEmitter, log zerolog.Logger) *libraryWatcher {
	return &libraryWatcher{
		ctx:      ctx,
		lib:      lib,
		svc:      svc,
		emitter:  emitter,
		log:      log.With().Str("component", "library-watcher").Logger(),
		interval: 2 * time.Second,
	}
}

// ExternalChange is the payload of scrapbook:external-change.
type ExternalChange struct {
	ID       string `json:"id"`
	Reloaded bool   `json:"reloaded"`
	Conflict bool   `json:"conflict"`
	Deleted  bool   `json:"deleted"`
}

// Start begins the polling loop. Should be called once on app startup.
func (w *libraryWatcher) Start() {
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	go w.pollLoop()
}

// Stop terminates the polling loop and waits for it to exit.
func (w *libraryWatcher) Stop() {
	if w.stopCh == nil {
		return
	}
	close(w.stopCh)
	<-w.done
	w.stopCh = nil
}

func (w *libraryWatcher) pollLoop() {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-w.stopCh:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *libraryWatcher) check() {
	list, err := w.lib.ListScrapbooks()
	if err != nil {
		w.log.Debug().Err(err).Msg("list failed")
		return
	}
	var newest time.Time
	for _, sb := range list {
		if sb.UpdatedAt.After(newest) {
			newest = sb.UpdatedAt
		}
	}
	fingerprint := fmt.Sprintf("%d:%d", len(list), newest.UnixNano())

	w.mu.Lock()
	listChanged := w.lastList != "" && w.lastList != fingerprint
	w.lastList = fingerprint
	w.mu.Unlock()
	if listChanged {
		w.emitter.Emit(w.ctx, service.EventLibraryChanged, len(list))
	}

	w.checkOpen()
}

func (w *libraryWatcher) checkOpen() {
	cur, ok := w.svc.Current()
	if !ok {
		return
	}
	stored, err := w.lib.GetScrapbook(cur.ID)
	if errors.Is(err, storage.ErrNotFound) {
		w.mu.Lock()
		first := w.goneID != cur.ID
		w.goneID = cur.ID
		w.mu.Unlock()
		if first {
			w.log.Info().Str("id", cur.ID).Msg("Open scrapbook was deleted elsewhere")
			w.emitter.Emit(w.ctx, service.EventScrapbookExternal, ExternalChange{ID: cur.ID, Deleted: true})
		}
		return
	}
	if err != nil || !stored.UpdatedAt.After(cur.UpdatedAt) {
		return
	}

	reloaded, err := w.svc.ReloadIfClean(cur.ID)
	if err != nil {
		w.log.Warn().Err(err).Str("id", cur.ID).Msg("Reload failed")
		return
	}
	if !reloaded {
		// Local edits win; the user decides what to do with the newer copy.
		w.mu.Lock()
		first := !stored.UpdatedAt.Equal(w.lastFlagged)
		w.lastFlagged = stored.UpdatedAt
		w.mu.Unlock()
		if first {
			w.emitter.Emit(w.ctx, service.EventScrapbookExternal, ExternalChange{ID: cur.ID, Conflict: true})
		}
		return
	}
	w.log.Info().Str("id", cur.ID).Msg("Reloaded scrapbook changed elsewhere")
	w.emitter.Emit(w.ctx, service.EventScrapbookExternal, ExternalChange{ID: cur.ID, Reloaded: true})
}
