package domain

import (
	"math"
	"testing"
)

func TestAdjustment_CSSFilter(t *testing.T) {
	tests := []struct {
		name string
		adj  Adjustment
		want string
	}{
		{"default", DefaultAdjustment(), "brightness(100%) contrast(100%) saturate(100%)"},
		{"vintage", Adjustment{Brightness: 120, Contrast: 90, Saturation: 100, Filter: FilterVintage},
			"brightness(120%) contrast(90%) saturate(100%) sepia(0.5) contrast(1.2) brightness(1.1)"},
		{"legacy bw", Adjustment{Brightness: 100, Contrast: 100, Saturation: 100, Filter: "bw"},
			"brightness(100%) contrast(100%) saturate(100%) grayscale(1) contrast(1.1)"},
		{"blur and custom", Adjustment{Brightness: 100, Contrast: 100, Saturation: 0, Blur: 2, Filter: "invert(1)"},
			"brightness(100%) contrast(100%) saturate(0%) blur(2px) invert(1)"},
	}
	for _, tt := range tests {
		if got := tt.adj.CSSFilter(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFilterName_IsPreset(t *testing.T) {
	for _, f := range Filters() {
		if !f.IsPreset() {
			t.Errorf("%q should be a preset", f)
		}
	}
	if FilterName("hue-rotate(90deg)").IsPreset() {
		t.Error("free-form expression should not be a preset")
	}
}

func TestText_Extent(t *testing.T) {
	tx := Text{Content: "héllo", FontSize: 10}
	ext := tx.Extent()
	if math.Abs(ext.Width-30) > 1e-9 || math.Abs(ext.Height-14) > 1e-9 {
		t.Errorf("expected 30x14, got %+v", ext)
	}
}
