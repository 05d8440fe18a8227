package domain

import (
	"fmt"
	"strings"
)

// FilterName is a named photo filter preset. Values outside the preset list
// are treated as a free-form CSS filter expression.
type FilterName string

const (
	FilterNone          FilterName = "none"
	FilterVintage       FilterName = "vintage"
	FilterBlackAndWhite FilterName = "blackAndWhite"
	FilterWarm          FilterName = "warm"
	FilterCool          FilterName = "cool"
	FilterDramatic      FilterName = "dramatic"
)

var filterCSS = map[FilterName]string{
	FilterNone:          "",
	FilterVintage:       "sepia(0.5) contrast(1.2) brightness(1.1)",
	FilterBlackAndWhite: "grayscale(1) contrast(1.1)",
	FilterWarm:          "sepia(0.3) saturate(1.4) brightness(1.1)",
	FilterCool:          "hue-rotate(180deg) saturate(1.2)",
	FilterDramatic:      "contrast(1.5) brightness(0.9) saturate(1.3)",
}

// legacy aliases written by older exports
var filterAliases = map[string]FilterName{
	"":           FilterNone,
	"bw":         FilterBlackAndWhite,
	"blackwhite": FilterBlackAndWhite,
}

// Filters lists the preset names in display order.
func Filters() []FilterName {
	return []FilterName{FilterNone, FilterVintage, FilterBlackAndWhite, FilterWarm, FilterCool, FilterDramatic}
}

// Normalize maps legacy aliases onto their preset name.
func (f FilterName) Normalize() FilterName {
	if alias, ok := filterAliases[string(f)]; ok {
		return alias
	}
	return f
}

// IsPreset reports whether f is one of the closed preset names.
func (f FilterName) IsPreset() bool {
	_, ok := filterCSS[f.Normalize()]
	return ok
}

// CSS returns the CSS filter expression for f.
func (f FilterName) CSS() string {
	if css, ok := filterCSS[f.Normalize()]; ok {
		return css
	}
	return strings.TrimSpace(string(f))
}

const (
	AdjustmentMin     = 0
	AdjustmentMax     = 200
	AdjustmentDefault = 100
	BlurMax           = 10
)

type Adjustment struct {
	Brightness float64    `json:"brightness"`
	Contrast   float64    `json:"contrast"`
	Saturation float64    `json:"saturation"`
	Blur       float64    `json:"blur"`
	Filter     FilterName `json:"filter"`
}

// DefaultAdjustment leaves the photo unchanged.
func DefaultAdjustment() Adjustment {
	return Adjustment{
		Brightness: AdjustmentDefault,
		Contrast:   AdjustmentDefault,
		Saturation: AdjustmentDefault,
		Filter:     FilterNone,
	}
}

// Clamped returns a copy with every magnitude inside its documented range.
func (a Adjustment) Clamped() Adjustment {
	a.Brightness = clampRange(a.Brightness, AdjustmentMin, AdjustmentMax)
	a.Contrast = clampRange(a.Contrast, AdjustmentMin, AdjustmentMax)
	a.Saturation = clampRange(a.Saturation, AdjustmentMin, AdjustmentMax)
	a.Blur = clampRange(a.Blur, 0, BlurMax)
	a.Filter = a.Filter.Normalize()
	return a
}

// CSSFilter composes the filter string a renderer applies to the photo.
func (a Adjustment) CSSFilter() string {
	css := fmt.Sprintf("brightness(%g%%) contrast(%g%%) saturate(%g%%)", a.Brightness, a.Contrast, a.Saturation)
	if a.Blur > 0 {
		css += fmt.Sprintf(" blur(%gpx)", a.Blur)
	}
	if extra := a.Filter.CSS(); extra != "" {
		css += " " + extra
	}
	return css
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
