package storage_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"scrapbook/internal/domain"
	"scrapbook/internal/storage"
)

func openTestLibrary(t *testing.T) *storage.SQLLibrary {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	lib := storage.NewSQLLibrary(db)
	t.Cleanup(func() { lib.Close() })
	return lib
}

func TestScrapbookCRUD(t *testing.T) {
	lib := openTestLibrary(t)

	sb := &domain.Scrapbook{ID: "sb-1", Title: "Holiday", DocumentJSON: `{"pages":[]}`, PageCount: 1}
	if err := lib.CreateScrapbook(sb); err != nil {
		t.Fatalf("CreateScrapbook: %v", err)
	}
	if sb.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := lib.GetScrapbook("sb-1")
	if err != nil {
		t.Fatalf("GetScrapbook: %v", err)
	}
	if got.Title != "Holiday" || got.DocumentJSON != `{"pages":[]}` || got.PageCount != 1 {
		t.Errorf("unexpected scrapbook: %+v", got)
	}

	got.Title = "Holiday 2026"
	got.ItemCount = 7
	if err := lib.UpdateScrapbook(got); err != nil {
		t.Fatalf("UpdateScrapbook: %v", err)
	}
	again, _ := lib.GetScrapbook("sb-1")
	if again.Title != "Holiday 2026" || again.ItemCount != 7 {
		t.Errorf("update not persisted: %+v", again)
	}

	if err := lib.DeleteScrapbook("sb-1"); err != nil {
		t.Fatalf("DeleteScrapbook: %v", err)
	}
	if _, err := lib.GetScrapbook("sb-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestScrapbook_MissingIsNotFound(t *testing.T) {
	lib := openTestLibrary(t)
	if err := lib.UpdateScrapbook(&domain.Scrapbook{ID: "ghost"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound on update, got %v", err)
	}
	if err := lib.DeleteScrapbook("ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestListScrapbooks_NewestFirstWithoutBody(t *testing.T) {
	lib := openTestLibrary(t)
	for _, id := range []string{"a", "b", "c"} {
		if err := lib.CreateScrapbook(&domain.Scrapbook{ID: id, Title: id, DocumentJSON: "{}"}); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
	}
	a, _ := lib.GetScrapbook("a")
	lib.UpdateScrapbook(a)

	list, err := lib.ListScrapbooks()
	if err != nil {
		t.Fatalf("ListScrapbooks: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 scrapbooks, got %d", len(list))
	}
	if list[0].ID != "a" || list[1].ID != "c" {
		t.Errorf("expected order a, c, b; got %s, %s, %s", list[0].ID, list[1].ID, list[2].ID)
	}
	if list[0].DocumentJSON != "" {
		t.Error("expected list entries without document body")
	}
}

func TestRevisions_PrunedToKeep(t *testing.T) {
	lib := openTestLibrary(t)
	lib.CreateScrapbook(&domain.Scrapbook{ID: "sb", Title: "x", DocumentJSON: "{}"})

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rev := &domain.Revision{
			ID:           fmt.Sprintf("rev-%d", i),
			ScrapbookID:  "sb",
			Label:        fmt.Sprintf("save %d", i),
			DocumentJSON: fmt.Sprintf(`{"n":%d}`, i),
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := lib.PushRevision(rev, 3); err != nil {
			t.Fatalf("PushRevision: %v", err)
		}
	}

	revs, err := lib.ListRevisions("sb")
	if err != nil {
		t.Fatalf("ListRevisions: %v", err)
	}
	if len(revs) != 3 {
		t.Fatalf("expected 3 revisions, got %d", len(revs))
	}
	if revs[0].ID != "rev-4" || revs[2].ID != "rev-2" {
		t.Errorf("expected newest three, got %s..%s", revs[0].ID, revs[2].ID)
	}
	if revs[0].DocumentJSON != "" {
		t.Error("expected list without document bodies")
	}

	full, err := lib.GetRevision("rev-3")
	if err != nil {
		t.Fatalf("GetRevision: %v", err)
	}
	if full.DocumentJSON != `{"n":3}` {
		t.Errorf("unexpected body %q", full.DocumentJSON)
	}
	if _, err := lib.GetRevision("rev-0"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected pruned revision to be gone, got %v", err)
	}
}

func TestDeleteScrapbook_DropsRevisions(t *testing.T) {
	lib := openTestLibrary(t)
	lib.CreateScrapbook(&domain.Scrapbook{ID: "sb", Title: "x", DocumentJSON: "{}"})
	lib.PushRevision(&domain.Revision{ID: "r1", ScrapbookID: "sb", Label: "l", DocumentJSON: "{}"}, 0)

	if err := lib.DeleteScrapbook("sb"); err != nil {
		t.Fatal(err)
	}
	revs, _ := lib.ListRevisions("sb")
	if len(revs) != 0 {
		t.Errorf("expected revisions removed, got %d", len(revs))
	}
}

func TestSettings(t *testing.T) {
	lib := openTestLibrary(t)

	if _, ok, err := lib.GetSetting("window_width"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := lib.SetSetting("window_width", "1400"); err != nil {
		t.Fatal(err)
	}
	if err := lib.SetSetting("window_width", "1500"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	v, ok, err := lib.GetSetting("window_width")
	if err != nil || !ok || v != "1500" {
		t.Errorf("expected 1500, got %q ok=%v err=%v", v, ok, err)
	}
}

func TestOpenSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	db, err := storage.OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	storage.NewSettingsStore(db).SetSetting("k", "v")
	db.Close()

	// Migrations must be rerunnable.
	db, err = storage.OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if v, _, _ := storage.NewSettingsStore(db).GetSetting("k"); v != "v" {
		t.Errorf("expected persisted setting, got %q", v)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := storage.Open("oracle", "dsn"); err == nil {
		t.Error("expected error for unknown driver")
	}
}
