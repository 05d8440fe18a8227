package service

import (
	"context"
	"fmt"

	"scrapbook/internal/domain"
	"scrapbook/internal/imaging"
)

const (
	bakeMaxSide = 2048
	bakeQuality = 90
)

// BakePhoto renders the photo's current adjustments and an extra rotation
// into a new JPEG that replaces its source, then resets the adjustments. It
// reports false when the photo no longer exists or was replaced while the
// image was being rendered.
func (s *ScrapbookService) BakePhoto(ctx context.Context, photoID string, rotation float64) (domain.Photo, bool, error) {
	photo, _, ok := s.store.Photo(photoID)
	if !ok {
		return domain.Photo{}, false, nil
	}
	src, err := imaging.Bake(photo.Src, photo.Adjustment, rotation, bakeMaxSide, bakeQuality)
	if err != nil {
		return domain.Photo{}, false, fmt.Errorf("bake photo %s: %w", photoID, err)
	}
	if err := ctx.Err(); err != nil {
		return domain.Photo{}, false, err
	}
	if !s.store.ReplacePhotoSource(photoID, photo.Src, src) {
		return domain.Photo{}, false, nil
	}
	baked, _, ok := s.store.Photo(photoID)
	s.log.Debug().Str("photo", photoID).Float64("rotation", rotation).Msg("Baked photo")
	return baked, ok, nil
}
