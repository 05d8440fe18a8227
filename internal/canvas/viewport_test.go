package canvas

import "testing"

func TestViewport_Class(t *testing.T) {
	tests := []struct {
		width float64
		want  ViewportClass
	}{
		{0, ViewportDesktop},
		{320, ViewportSmallMobile},
		{479, ViewportSmallMobile},
		{480, ViewportMobile},
		{768, ViewportMobile},
		{769, ViewportTablet},
		{1024, ViewportTablet},
		{1025, ViewportDesktop},
	}
	for _, tt := range tests {
		if got := (Viewport{Width: tt.width}).Class(); got != tt.want {
			t.Errorf("width %.0f: expected %s, got %s", tt.width, tt.want, got)
		}
	}
}

func TestViewport_Defaults(t *testing.T) {
	small := Viewport{Width: 360}
	if small.FontSize() != 14 || small.StickerSize() != 20 {
		t.Errorf("unexpected small defaults: font=%.0f sticker=%.0f", small.FontSize(), small.StickerSize())
	}
	tablet := Viewport{Width: 800}
	if tablet.FontSize() != 18 || tablet.StickerSize() != 30 {
		t.Errorf("unexpected tablet defaults: font=%.0f sticker=%.0f", tablet.FontSize(), tablet.StickerSize())
	}
	if ext := tablet.PageExtent(); ext.Width != 500 || ext.Height != 350 {
		t.Errorf("unexpected tablet page extent %+v", ext)
	}
}
