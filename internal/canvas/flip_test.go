package canvas_test

import (
	"testing"
	"time"

	"scrapbook/internal/canvas"
	"scrapbook/internal/domain"
)

func TestFlipTo_CommitsAfterDuration(t *testing.T) {
	s, clock, _ := newTestStore(t, 1280)
	s.AddPage("")

	if !s.FlipTo(1) {
		t.Fatal("expected flip to start")
	}
	if target, ok := s.Flipping(); !ok || target != 1 {
		t.Fatalf("expected Flipping(1), got (%d, %v)", target, ok)
	}
	if s.CurrentIndex() != 0 {
		t.Errorf("expected pre-flip index during transition, got %d", s.CurrentIndex())
	}

	clock.Advance(canvas.DefaultFlipDuration - time.Millisecond)
	if s.CurrentIndex() != 0 {
		t.Errorf("expected index 0 before the timer fires, got %d", s.CurrentIndex())
	}

	clock.Advance(time.Millisecond)
	st := s.FlipStatus()
	if st.Flipping || st.Current != 1 {
		t.Errorf("expected Idle at index 1, got %+v", st)
	}
}

func TestFlipTo_RejectedWhileFlipping(t *testing.T) {
	s, clock, _ := newTestStore(t, 1280)
	s.AddPage("")
	s.AddPage("")

	s.FlipTo(1)
	if s.FlipTo(0) {
		t.Error("expected flip to 0 during transition to be rejected")
	}
	if s.FlipTo(2) {
		t.Error("expected flip to 2 during transition to be rejected")
	}
	if target, _ := s.Flipping(); target != 1 {
		t.Errorf("expected target to stay 1, got %d", target)
	}

	clock.Advance(canvas.DefaultFlipDuration)
	if s.CurrentIndex() != 1 {
		t.Errorf("expected index 1, got %d", s.CurrentIndex())
	}
	if _, ok := s.Flipping(); ok {
		t.Error("expected Idle after commit")
	}
}

func TestFlipTo_Guards(t *testing.T) {
	s, clock, _ := newTestStore(t, 1280)
	s.AddPage("")

	tests := []struct {
		name  string
		index int
	}{
		{"current", 0},
		{"negative", -1},
		{"past end", 2},
	}
	for _, tt := range tests {
		if s.FlipTo(tt.index) {
			t.Errorf("%s: expected flip to %d to be rejected", tt.name, tt.index)
		}
	}
	if clock.Pending() != 0 {
		t.Errorf("expected no scheduled commit, got %d", clock.Pending())
	}
}

func TestFlipTo_CustomDuration(t *testing.T) {
	clock := &canvas.ManualClock{}
	s := canvas.New(canvas.Options{Clock: clock, FlipDuration: 600 * time.Millisecond})
	s.AddPage("")
	s.FlipTo(1)

	clock.Advance(300 * time.Millisecond)
	if s.CurrentIndex() != 0 {
		t.Fatal("expected flip still pending at 300ms")
	}
	clock.Advance(300 * time.Millisecond)
	if s.CurrentIndex() != 1 {
		t.Fatal("expected flip committed at 600ms")
	}
}

func TestNextPrev(t *testing.T) {
	s, clock, _ := newTestStore(t, 1280)
	s.AddPage("")

	if s.Prev() {
		t.Error("expected Prev on first page to be rejected")
	}
	if !s.Next() {
		t.Fatal("expected Next to start a flip")
	}
	clock.Advance(canvas.DefaultFlipDuration)
	if s.Next() {
		t.Error("expected Next on last page to be rejected")
	}
	if !s.Prev() {
		t.Fatal("expected Prev to start a flip")
	}
	clock.Advance(canvas.DefaultFlipDuration)
	if s.CurrentIndex() != 0 {
		t.Errorf("expected index 0, got %d", s.CurrentIndex())
	}
}

func TestFlipTo_CancelsActiveDrag(t *testing.T) {
	s, clock, _ := newTestStore(t, 1280)
	st, _ := s.AddSticker(0, "⭐")
	s.AddPage("")

	origin := domain.Point{X: st.X, Y: st.Y}
	if _, ok := s.BeginDrag(st.ID, domain.ItemTypeSticker, origin, origin); !ok {
		t.Fatal("expected drag to start")
	}
	s.FlipTo(1)
	if _, ok := s.ActiveDrag(); ok {
		t.Error("expected flip start to cancel the drag session")
	}
	if _, ok := s.UpdateDrag(domain.Point{X: 50, Y: 50}, domain.Point{}, s.PageExtent()); ok {
		t.Error("expected drag update after cancel to be a no-op")
	}
	if _, ok := s.BeginDrag(st.ID, domain.ItemTypeSticker, origin, origin); ok {
		t.Error("expected BeginDrag during a flip to be rejected")
	}
	clock.Advance(canvas.DefaultFlipDuration)

	page, _ := s.Page(0)
	if page.Stickers[0].X != st.X || page.Stickers[0].Y != st.Y {
		t.Error("expected sticker position untouched by flip")
	}
}

func TestAddPage_DuringFlipKeepsIndex(t *testing.T) {
	s, clock, _ := newTestStore(t, 1280)
	s.AddPage("")
	s.FlipTo(1)
	s.AddPage("cute")
	clock.Advance(canvas.DefaultFlipDuration)

	if s.CurrentIndex() != 1 {
		t.Errorf("expected index 1, got %d", s.CurrentIndex())
	}
	if s.PageCount() != 3 {
		t.Errorf("expected 3 pages, got %d", s.PageCount())
	}
}

func TestClose_CancelsPendingCommit(t *testing.T) {
	s, clock, changes := newTestStore(t, 1280)
	s.AddPage("")
	s.FlipTo(1)
	s.Close()

	clock.Advance(canvas.DefaultFlipDuration)
	if s.CurrentIndex() != 0 {
		t.Errorf("expected index to stay 0 after cancel, got %d", s.CurrentIndex())
	}
	for _, c := range *changes {
		if c.Kind == canvas.ChangeFlipCommitted {
			t.Error("expected no flip commit notification")
		}
	}
	if !s.FlipTo(1) {
		t.Error("expected a new flip to be accepted after cancel")
	}
}

func TestLoad_CancelsFlip(t *testing.T) {
	s, clock, _ := newTestStore(t, 1280)
	s.AddPage("")
	s.FlipTo(1)
	s.Load(domain.Document{Pages: []domain.Page{{ID: 1}, {ID: 2}}})
	clock.Advance(canvas.DefaultFlipDuration)
	if s.CurrentIndex() != 0 {
		t.Errorf("expected stale commit to be ignored, got index %d", s.CurrentIndex())
	}
}
