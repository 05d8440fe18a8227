package domain

import "unicode/utf8"

type ItemType string

const (
	ItemTypePhoto   ItemType = "photo"
	ItemTypeText    ItemType = "text"
	ItemTypeSticker ItemType = "sticker"
)

// Valid reports whether t names one of the three placeable variants.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypePhoto, ItemTypeText, ItemTypeSticker:
		return true
	}
	return false
}

// Item is the positional capability shared by every placeable variant.
// Variant-specific payload is reached through a type switch on the concrete
// *Photo, *Text or *Sticker.
type Item interface {
	ItemID() string
	Type() ItemType
	Position() Point
	SetPosition(p Point)
	Extent() Extent
}

type Photo struct {
	ID       string  `json:"id"`
	Src      string  `json:"src"` // opaque image reference, usually a data URL
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	Adjustment
}

func (p *Photo) ItemID() string       { return p.ID }
func (p *Photo) Type() ItemType       { return ItemTypePhoto }
func (p *Photo) Position() Point      { return Point{X: p.X, Y: p.Y} }
func (p *Photo) SetPosition(pt Point) { p.X, p.Y = pt.X, pt.Y }
func (p *Photo) Extent() Extent       { return Extent{Width: p.Width, Height: p.Height} }

// Glyph box ratios used to approximate a text label's extent without a font
// rasterizer.
const (
	TextAdvanceRatio = 0.6
	TextLineRatio    = 1.4
)

type Text struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	FontSize   float64 `json:"fontSize"`
	Color      string  `json:"color"`
	FontFamily string  `json:"fontFamily"`
}

func (t *Text) ItemID() string       { return t.ID }
func (t *Text) Type() ItemType       { return ItemTypeText }
func (t *Text) Position() Point      { return Point{X: t.X, Y: t.Y} }
func (t *Text) SetPosition(pt Point) { t.X, t.Y = pt.X, pt.Y }

// Extent approximates the label's glyph box from its rune count.
func (t *Text) Extent() Extent {
	n := utf8.RuneCountInString(t.Content)
	return Extent{
		Width:  float64(n) * t.FontSize * TextAdvanceRatio,
		Height: t.FontSize * TextLineRatio,
	}
}

type Sticker struct {
	ID    string  `json:"id"`
	Emoji string  `json:"emoji"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
}

func (s *Sticker) ItemID() string       { return s.ID }
func (s *Sticker) Type() ItemType       { return ItemTypeSticker }
func (s *Sticker) Position() Point      { return Point{X: s.X, Y: s.Y} }
func (s *Sticker) SetPosition(pt Point) { s.X, s.Y = pt.X, pt.Y }
func (s *Sticker) Extent() Extent       { return Extent{Width: s.Size, Height: s.Size} }
