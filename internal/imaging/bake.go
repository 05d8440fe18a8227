package imaging

import (
	"image/color"
	"math"

	dimaging "github.com/disintegration/imaging"

	"scrapbook/internal/domain"
)

// Bake decodes src, shrinks it to fit maxSide, renders adj onto it and turns
// it degrees clockwise inside its own frame. Corners uncovered by the turn
// are white. The result is a JPEG data URL.
func Bake(src string, adj domain.Adjustment, degrees float64, maxSide, quality int) (string, error) {
	img, err := DecodeSource(src)
	if err != nil {
		return "", err
	}
	if b := img.Bounds(); maxSide > 0 && (b.Dx() > maxSide || b.Dy() > maxSide) {
		img = Fit(img, maxSide, maxSide)
	}
	out := Apply(img, adj, 1)
	if degrees = math.Mod(degrees, 360); degrees != 0 {
		frame := dimaging.New(out.Bounds().Dx(), out.Bounds().Dy(), color.White)
		out = dimaging.PasteCenter(frame, dimaging.Rotate(out, -degrees, color.White))
	}
	return EncodeDataURL(out, quality)
}
