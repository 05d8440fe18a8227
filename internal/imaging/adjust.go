package imaging

import (
	"image"
	"image/color"
	"math"

	dimaging "github.com/disintegration/imaging"

	"scrapbook/internal/domain"
)

// Apply renders adj onto img. Percentages are 100-neutral as in CSS; blurScale
// multiplies the blur radius for rasters drawn above 1:1.
func Apply(img image.Image, adj domain.Adjustment, blurScale float64) *image.NRGBA {
	adj = adj.Clamped()
	out := dimaging.Clone(img)

	if adj.Brightness != domain.AdjustmentDefault {
		out = dimaging.AdjustFunc(out, scaleChannels(adj.Brightness/100))
	}
	if adj.Contrast != domain.AdjustmentDefault {
		out = dimaging.AdjustContrast(out, adj.Contrast-100)
	}
	if adj.Saturation != domain.AdjustmentDefault {
		out = dimaging.AdjustSaturation(out, adj.Saturation-100)
	}
	out = applyFilter(out, adj.Filter)
	if adj.Blur > 0 {
		out = dimaging.Blur(out, adj.Blur*math.Max(blurScale, 1))
	}
	return out
}

// applyFilter approximates the preset's CSS chain. Free-form expressions are
// only meaningful to a CSS renderer and pass through untouched.
func applyFilter(img *image.NRGBA, f domain.FilterName) *image.NRGBA {
	switch f.Normalize() {
	case domain.FilterVintage:
		img = sepia(img, 0.5)
		img = dimaging.AdjustContrast(img, 20)
		return dimaging.AdjustFunc(img, scaleChannels(1.1))
	case domain.FilterBlackAndWhite:
		return dimaging.AdjustContrast(dimaging.Grayscale(img), 10)
	case domain.FilterWarm:
		img = sepia(img, 0.3)
		img = dimaging.AdjustSaturation(img, 40)
		return dimaging.AdjustFunc(img, scaleChannels(1.1))
	case domain.FilterCool:
		return dimaging.AdjustSaturation(hueRotate(img, 180), 20)
	case domain.FilterDramatic:
		img = dimaging.AdjustContrast(img, 50)
		img = dimaging.AdjustFunc(img, scaleChannels(0.9))
		return dimaging.AdjustSaturation(img, 30)
	}
	return img
}

// scaleChannels multiplies RGB linearly, matching CSS brightness().
func scaleChannels(k float64) func(color.NRGBA) color.NRGBA {
	return func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clamp8(float64(c.R) * k),
			G: clamp8(float64(c.G) * k),
			B: clamp8(float64(c.B) * k),
			A: c.A,
		}
	}
}

// sepia blends toward the CSS sepia matrix by amount in [0,1].
func sepia(img *image.NRGBA, amount float64) *image.NRGBA {
	return dimaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		sr := 0.393*r + 0.769*g + 0.189*b
		sg := 0.349*r + 0.686*g + 0.168*b
		sb := 0.272*r + 0.534*g + 0.131*b
		return color.NRGBA{
			R: clamp8(r + (sr-r)*amount),
			G: clamp8(g + (sg-g)*amount),
			B: clamp8(b + (sb-b)*amount),
			A: c.A,
		}
	})
}

// hueRotate applies the CSS hue-rotate() matrix.
func hueRotate(img *image.NRGBA, degrees float64) *image.NRGBA {
	rad := degrees * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	m := [9]float64{
		0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928,
		0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283,
		0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072,
	}
	return dimaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		return color.NRGBA{
			R: clamp8(m[0]*r + m[1]*g + m[2]*b),
			G: clamp8(m[3]*r + m[4]*g + m[5]*b),
			B: clamp8(m[6]*r + m[7]*g + m[8]*b),
			A: c.A,
		}
	})
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
