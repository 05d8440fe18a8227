package canvas

import "scrapbook/internal/domain"

type ViewportClass int

const (
	ViewportDesktop ViewportClass = iota
	ViewportTablet
	ViewportMobile
	ViewportSmallMobile
)

func (c ViewportClass) String() string {
	switch c {
	case ViewportTablet:
		return "tablet"
	case ViewportMobile:
		return "mobile"
	case ViewportSmallMobile:
		return "small-mobile"
	}
	return "desktop"
}

// Viewport is the width of the host window in CSS pixels. Default item sizes
// and the page extent are derived from it.
type Viewport struct {
	Width float64
}

func (v Viewport) Class() ViewportClass {
	switch {
	case v.Width <= 0:
		return ViewportDesktop
	case v.Width < 480:
		return ViewportSmallMobile
	case v.Width <= 768:
		return ViewportMobile
	case v.Width <= 1024:
		return ViewportTablet
	}
	return ViewportDesktop
}

func (v Viewport) PageExtent() domain.Extent {
	switch v.Class() {
	case ViewportSmallMobile:
		return domain.Extent{Width: 280, Height: 200}
	case ViewportMobile:
		return domain.Extent{Width: 400, Height: 280}
	case ViewportTablet:
		return domain.Extent{Width: 500, Height: 350}
	}
	return domain.Extent{Width: 600, Height: 400}
}

func (v Viewport) PhotoExtent() domain.Extent {
	switch v.Class() {
	case ViewportSmallMobile:
		return domain.Extent{Width: 120, Height: 90}
	case ViewportMobile:
		return domain.Extent{Width: 160, Height: 120}
	case ViewportTablet:
		return domain.Extent{Width: 180, Height: 135}
	}
	return domain.Extent{Width: 200, Height: 150}
}

func (v Viewport) FontSize() float64 {
	switch v.Class() {
	case ViewportSmallMobile:
		return 14
	case ViewportMobile:
		return 16
	}
	return 18
}

func (v Viewport) StickerSize() float64 {
	switch v.Class() {
	case ViewportSmallMobile:
		return 20
	case ViewportMobile:
		return 25
	}
	return 30
}
