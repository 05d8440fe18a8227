package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	dimaging "github.com/disintegration/imaging"

	"scrapbook/internal/domain"
)

// PhotoError reports the photo that stopped a page from rendering.
type PhotoError struct {
	PhotoID string
	Err     error
}

func (e *PhotoError) Error() string {
	return fmt.Sprintf("photo %s: %v", e.PhotoID, e.Err)
}

func (e *PhotoError) Unwrap() error { return e.Err }

// RenderPage rasterizes the page background and its photos at scale pixels
// per canvas unit. Texts and stickers are left to the caller, which can draw
// them as vector glyphs.
func RenderPage(page domain.Page, extent domain.Extent, scale float64) (*image.NRGBA, error) {
	if scale <= 0 {
		scale = 1
	}
	w, h := px(extent.Width, scale), px(extent.Height, scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty page extent %.0fx%.0f", extent.Width, extent.Height)
	}

	bg := page.Background
	if bg == "" {
		bg = domain.ThemeBackground(page.Theme)
	}
	fill, ok := ParseHexColor(bg)
	if !ok {
		fill = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	canvas := dimaging.New(w, h, fill)

	for _, p := range page.Photos {
		img, err := DecodeSource(p.Src)
		if err != nil {
			return nil, &PhotoError{PhotoID: p.ID, Err: err}
		}
		pw, ph := px(p.Width, scale), px(p.Height, scale)
		if pw <= 0 || ph <= 0 {
			continue
		}
		photo := dimaging.Fill(img, pw, ph, dimaging.Center, dimaging.Lanczos)
		photo = Apply(photo, p.Adjustment, scale)

		// Rotation grows the bounds; keep the photo centred on its box.
		cx := int(p.X*scale) + pw/2
		cy := int(p.Y*scale) + ph/2
		if p.Rotation != 0 {
			photo = dimaging.Rotate(photo, -p.Rotation, color.Transparent)
		}
		b := photo.Bounds()
		canvas = dimaging.Overlay(canvas, photo, image.Pt(cx-b.Dx()/2, cy-b.Dy()/2), 1.0)
	}
	return canvas, nil
}

// Fit scales img down to fit inside w x h keeping its aspect ratio.
func Fit(img image.Image, w, h int) *image.NRGBA {
	return dimaging.Fit(img, w, h, dimaging.Lanczos)
}

// ParseHexColor parses #rgb and #rrggbb.
func ParseHexColor(s string) (color.NRGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

func px(v, scale float64) int {
	return int(v*scale + 0.5)
}
