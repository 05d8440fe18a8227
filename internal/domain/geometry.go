package domain

// Point is a position in page-local pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

type Extent struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Clamp pins pos so that an item of the given extent lies fully inside page.
// When the item is larger than the page along an axis, that axis pins to 0.
func Clamp(pos Point, item, page Extent) Point {
	return Point{
		X: clampAxis(pos.X, page.Width-item.Width),
		Y: clampAxis(pos.Y, page.Height-item.Height),
	}
}

func clampAxis(v, max float64) float64 {
	if max <= 0 || v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// Contains reports whether an item at pos with the given extent is fully
// inside page. Oversized items count as contained when pinned at the origin.
func Contains(pos Point, item, page Extent) bool {
	return Clamp(pos, item, page) == pos
}
