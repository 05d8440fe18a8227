package mcpserver

import (
	"math"

	"scrapbook/internal/domain"
)

const (
	GridSize = 10.0
	Padding  = 10.0
)

// LayoutEngine picks positions for items placed by agents so they don't
// land on top of what is already on the page.
type LayoutEngine struct {
	gridSize float64
	padding  float64
}

func NewLayoutEngine() *LayoutEngine {
	return &LayoutEngine{
		gridSize: GridSize,
		padding:  Padding,
	}
}

// snap rounds v to the nearest grid point.
func (le *LayoutEngine) snap(v float64) float64 {
	return math.Round(v/le.gridSize) * le.gridSize
}

// rect is a simple axis-aligned bounding box.
type rect struct {
	x, y, w, h float64
}

func (a rect) intersects(b rect) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x &&
		a.y < b.y+b.h && a.y+a.h > b.y
}

func itemRect(item domain.Item) rect {
	pos, ext := item.Position(), item.Extent()
	return rect{pos.X, pos.Y, ext.Width, ext.Height}
}

// NextPosition finds the first grid position, scanning rows top to bottom,
// where an item of size ext fits inside page without touching the padded
// box of any item in existing. ok is false when the page is full.
func (le *LayoutEngine) NextPosition(existing []domain.Item, ext, page domain.Extent) (domain.Point, bool) {
	occupied := make([]rect, len(existing))
	for i, item := range existing {
		r := itemRect(item)
		occupied[i] = rect{r.x - le.padding, r.y - le.padding, r.w + le.padding*2, r.h + le.padding*2}
	}

	candidate := rect{w: ext.Width, h: ext.Height}
	for y := 0.0; y+ext.Height <= page.Height; y += le.gridSize {
		for x := 0.0; x+ext.Width <= page.Width; x += le.gridSize {
			candidate.x, candidate.y = x, y
			overlaps := false
			for _, occ := range occupied {
				if candidate.intersects(occ) {
					overlaps = true
					break
				}
			}
			if !overlaps {
				return domain.Point{X: x, Y: y}, true
			}
		}
	}
	return domain.Point{}, false
}

// Arrange lays items out left to right in rows, wrapping at the page width,
// and returns one position per item. Rows that run past the page bottom are
// left for the caller's clamp to pull back inside.
func (le *LayoutEngine) Arrange(items []domain.Item, page domain.Extent) []domain.Point {
	out := make([]domain.Point, len(items))
	x, y := le.padding, le.padding
	rowHeight := 0.0

	for i, item := range items {
		ext := item.Extent()
		if x > le.padding && x+ext.Width > page.Width-le.padding {
			x = le.padding
			y += le.snap(rowHeight + le.padding)
			rowHeight = 0
		}
		out[i] = domain.Point{X: x, Y: y}
		if ext.Height > rowHeight {
			rowHeight = ext.Height
		}
		x += le.snap(ext.Width + le.padding)
	}
	return out
}
