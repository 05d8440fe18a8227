package app

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"scrapbook/internal/canvas"
	"scrapbook/internal/domain"
	"scrapbook/internal/service"
	"scrapbook/internal/storage"
)

type watcherEnv struct {
	w       *libraryWatcher
	lib     *storage.SQLLibrary
	svc     *service.ScrapbookService
	emitter *service.MockEmitter
}

func newWatcherEnv(t *testing.T) *watcherEnv {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "lib.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	lib := storage.NewSQLLibrary(db)
	t.Cleanup(func() { lib.Close() })

	em := &service.MockEmitter{}
	svc := service.NewScrapbookService(lib, service.NopEmitter{}, service.ScrapbookOptions{
		Canvas: canvas.Options{
			Clock:         &canvas.ManualClock{},
			Rand:          rand.New(rand.NewPCG(5, 6)),
			ViewportWidth: 1280,
		},
	})
	t.Cleanup(svc.Close)
	return &watcherEnv{
		w:       newLibraryWatcher(context.Background(), lib, svc, em, zerolog.Nop()),
		lib:     lib,
		svc:     svc,
		emitter: em,
	}
}

// editElsewhere rewrites the stored document with an extra page, the way a
// second process saving the scrapbook would.
func (e *watcherEnv) editElsewhere(t *testing.T, id string) {
	t.Helper()
	sb, err := e.lib.GetScrapbook(id)
	if err != nil {
		t.Fatal(err)
	}
	var doc domain.Document
	if err := json.Unmarshal([]byte(sb.DocumentJSON), &doc); err != nil {
		t.Fatal(err)
	}
	doc.Pages = append(doc.Pages, domain.Page{ID: len(doc.Pages) + 1, Theme: "travel"})
	body, _ := json.Marshal(doc)
	sb.DocumentJSON = string(body)
	sb.PageCount = len(doc.Pages)
	time.Sleep(2 * time.Millisecond)
	if err := e.lib.UpdateScrapbook(sb); err != nil {
		t.Fatal(err)
	}
}

func externalChanges(em *service.MockEmitter) []ExternalChange {
	var out []ExternalChange
	for _, ev := range em.Named(service.EventScrapbookExternal) {
		out = append(out, ev.Data.(ExternalChange))
	}
	return out
}

func TestLibraryWatcher_ReloadsCleanScrapbook(t *testing.T) {
	env := newWatcherEnv(t)
	sb, err := env.svc.New("Shared")
	if err != nil {
		t.Fatal(err)
	}
	env.w.check()
	if len(env.emitter.Events) != 0 {
		t.Fatalf("expected a quiet first poll, got %+v", env.emitter.Events)
	}

	env.editElsewhere(t, sb.ID)
	env.w.check()

	if env.svc.Store().PageCount() != 2 {
		t.Errorf("expected reloaded canvas with 2 pages, got %d", env.svc.Store().PageCount())
	}
	changes := externalChanges(env.emitter)
	if len(changes) != 1 || !changes[0].Reloaded {
		t.Errorf("expected one reload event, got %+v", changes)
	}
	if len(env.emitter.Named(service.EventLibraryChanged)) != 1 {
		t.Error("expected library:changed for the updated listing")
	}

	// Nothing new: no further events.
	env.w.check()
	if len(externalChanges(env.emitter)) != 1 {
		t.Error("expected no repeat event without another change")
	}
}

func TestLibraryWatcher_FlagsConflictWhenDirty(t *testing.T) {
	env := newWatcherEnv(t)
	sb, _ := env.svc.New("Shared")
	env.w.check()

	env.svc.Store().AddText(0, "local edit")
	env.editElsewhere(t, sb.ID)
	env.w.check()
	env.w.check()

	if env.svc.Store().PageCount() != 1 {
		t.Error("expected local canvas kept while dirty")
	}
	changes := externalChanges(env.emitter)
	if len(changes) != 1 || !changes[0].Conflict {
		t.Errorf("expected a single conflict event, got %+v", changes)
	}
}

func TestLibraryWatcher_DeletedElsewhere(t *testing.T) {
	env := newWatcherEnv(t)
	sb, _ := env.svc.New("Doomed")
	env.w.check()

	if err := env.lib.DeleteScrapbook(sb.ID); err != nil {
		t.Fatal(err)
	}
	env.w.check()
	env.w.check()

	changes := externalChanges(env.emitter)
	if len(changes) != 1 || !changes[0].Deleted || changes[0].ID != sb.ID {
		t.Errorf("expected one deleted event, got %+v", changes)
	}
}

func TestLibraryWatcher_StartStop(t *testing.T) {
	env := newWatcherEnv(t)
	env.w.interval = 10 * time.Millisecond
	env.w.Start()
	time.Sleep(30 * time.Millisecond)
	env.w.Stop()
	env.w.Stop()
}

func TestFileSafe(t *testing.T) {
	tests := map[string]string{
		"Trip: Bali/2026": "Trip- Bali-2026",
		"   ":             "scrapbook",
		"plain":           "plain",
	}
	for in, want := range tests {
		if got := fileSafe(in); got != want {
			t.Errorf("fileSafe(%q) = %q, want %q", in, got, want)
		}
	}
}
