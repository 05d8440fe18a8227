package mcpserver

import (
	"testing"

	"scrapbook/internal/domain"
)

var testPage = domain.Extent{Width: 600, Height: 400}

func TestNextPosition_EmptyPage(t *testing.T) {
	le := NewLayoutEngine()
	pos, ok := le.NextPosition(nil, domain.Extent{Width: 200, Height: 150}, testPage)
	if !ok || pos != (domain.Point{}) {
		t.Errorf("expected (0, 0) on an empty page, got %+v ok=%v", pos, ok)
	}
}

func TestNextPosition_AvoidsExistingItems(t *testing.T) {
	le := NewLayoutEngine()
	existing := []domain.Item{
		&domain.Photo{ID: "a", X: 0, Y: 0, Width: 200, Height: 150},
		&domain.Sticker{ID: "b", X: 250, Y: 20, Size: 40},
	}
	ext := domain.Extent{Width: 200, Height: 150}
	pos, ok := le.NextPosition(existing, ext, testPage)
	if !ok {
		t.Fatal("expected a free spot")
	}
	got := rect{pos.X, pos.Y, ext.Width, ext.Height}
	for _, item := range existing {
		r := itemRect(item)
		padded := rect{r.x - Padding, r.y - Padding, r.w + Padding*2, r.h + Padding*2}
		if got.intersects(padded) {
			t.Errorf("position %+v overlaps %s", pos, item.ItemID())
		}
	}
	if pos.X+ext.Width > testPage.Width || pos.Y+ext.Height > testPage.Height {
		t.Errorf("position %+v leaves the page", pos)
	}
}

func TestNextPosition_FullPage(t *testing.T) {
	le := NewLayoutEngine()
	existing := []domain.Item{&domain.Photo{ID: "big", Width: 600, Height: 400}}
	if _, ok := le.NextPosition(existing, domain.Extent{Width: 50, Height: 50}, testPage); ok {
		t.Error("expected no room on a covered page")
	}
}

func TestArrange_NoOverlaps(t *testing.T) {
	le := NewLayoutEngine()
	items := []domain.Item{
		&domain.Photo{ID: "1", Width: 200, Height: 150},
		&domain.Photo{ID: "2", Width: 200, Height: 150},
		&domain.Photo{ID: "3", Width: 200, Height: 150},
		&domain.Sticker{ID: "4", Size: 40},
	}
	positions := le.Arrange(items, testPage)
	if len(positions) != len(items) {
		t.Fatalf("expected %d positions, got %d", len(items), len(positions))
	}

	rects := make([]rect, len(items))
	for i, item := range items {
		ext := item.Extent()
		rects[i] = rect{positions[i].X, positions[i].Y, ext.Width, ext.Height}
		if rects[i].x+rects[i].w > testPage.Width {
			t.Errorf("item %d overflows the row: %+v", i, rects[i])
		}
	}
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].intersects(rects[j]) {
				t.Errorf("items %d and %d overlap: %+v %+v", i, j, rects[i], rects[j])
			}
		}
	}
	if positions[2].Y == positions[0].Y {
		t.Error("expected the third photo to wrap to a new row")
	}
}

func TestSnap(t *testing.T) {
	le := NewLayoutEngine()
	tests := []struct {
		input, want float64
	}{
		{0, 0},
		{4, 0},
		{5, 10},
		{14, 10},
		{215, 220},
	}
	for _, tt := range tests {
		if got := le.snap(tt.input); got != tt.want {
			t.Errorf("snap(%.0f) = %.0f, want %.0f", tt.input, got, tt.want)
		}
	}
}
