package service_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"scrapbook/internal/domain"
	"scrapbook/internal/export"
	"scrapbook/internal/service"
)

func TestAutosaver_Run(t *testing.T) {
	f := newFixture(t)
	a := service.NewAutosaver(f.svc, f.emitter, zerolog.Nop())

	// Nothing open: changes stay in memory, no failure reported.
	f.svc.Store().AddSticker(0, "⭐")
	a.Run(context.Background())
	if len(f.emitter.Named(service.EventAutosaveFailed)) != 0 {
		t.Error("expected no failure event without an open scrapbook")
	}

	sb, _ := f.svc.New("auto")
	f.svc.Store().AddText(0, "kept")
	a.Run(context.Background())
	if f.svc.Dirty() {
		t.Error("expected autosave to clear the dirty flag")
	}
	revs, _ := f.lib.ListRevisions(sb.ID)
	if len(revs) != 1 || revs[0].Label != "Autosave" {
		t.Errorf("expected one Autosave revision, got %+v", revs)
	}

	// Clean session: no new revision.
	a.Run(context.Background())
	if revs, _ := f.lib.ListRevisions(sb.ID); len(revs) != 1 {
		t.Errorf("expected no extra revision, got %d", len(revs))
	}
}

func TestAutosaver_StartRejectsBadSchedule(t *testing.T) {
	f := newFixture(t)
	a := service.NewAutosaver(f.svc, f.emitter, zerolog.Nop())
	if err := a.Start(context.Background(), "every now and then"); err == nil {
		a.Stop()
		t.Fatal("expected invalid schedule error")
	}
	if err := a.Start(context.Background(), "@every 1h"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	a.Stop()
	a.Stop()
}

func TestImportWatcher(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	w := service.NewImportWatcher(f.svc, f.emitter, zerolog.Nop())
	if err := w.Start(context.Background(), dir); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	var buf bytes.Buffer
	doc := domain.Document{Pages: []domain.Page{{ID: 1, Theme: "nature"}, {ID: 2, Theme: "cute"}}}
	export.WriteJSON(&buf, export.NewFile("Dropped", doc, time.Now()))
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)
	if err := os.WriteFile(filepath.Join(dir, "dropped.json"), buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(f.emitter.Named(service.EventImportCompleted)) > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if got := len(f.emitter.Named(service.EventImportCompleted)); got != 1 {
		t.Fatalf("expected exactly one import, got %d", got)
	}
	cur, ok := f.svc.Current()
	if !ok || cur.Title != "Dropped" || cur.PageCount != 2 {
		t.Errorf("unexpected open scrapbook %+v", cur)
	}
}

func TestImportWatcher_BadFileReportsFailure(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	w := service.NewImportWatcher(f.svc, f.emitter, zerolog.Nop())
	if err := w.Start(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && len(f.emitter.Named(service.EventImportFailed)) == 0 {
		time.Sleep(50 * time.Millisecond)
	}
	if len(f.emitter.Named(service.EventImportFailed)) == 0 {
		t.Fatal("expected import:failed event")
	}
}
