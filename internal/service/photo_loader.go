package service

import (
	"context"

	"scrapbook/internal/imaging"
)

// PhotoFuture is the single-shot result of reading a photo file into a data
// URL. It resolves exactly once.
type PhotoFuture struct {
	done chan struct{}
	url  string
	err  error
}

// LoadPhoto starts reading path in the background.
func LoadPhoto(path string) *PhotoFuture {
	f := &PhotoFuture{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.url, f.err = imaging.FileDataURL(path)
	}()
	return f
}

// Done is closed once the photo has loaded or failed.
func (f *PhotoFuture) Done() <-chan struct{} {
	return f.done
}

// Wait blocks for the result or until ctx is cancelled. Waiting again after
// resolution returns the same result.
func (f *PhotoFuture) Wait(ctx context.Context) (string, error) {
	select {
	case <-f.done:
		return f.url, f.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// AddPhotoFromFile loads path and places it on the given page once read.
// Loading happens off the caller's goroutine so the canvas stays responsive.
func (s *ScrapbookService) AddPhotoFromFile(ctx context.Context, pageIndex int, path string) (string, bool, error) {
	url, err := LoadPhoto(path).Wait(ctx)
	if err != nil {
		return "", false, err
	}
	photo, ok := s.store.AddPhoto(pageIndex, url)
	return photo.ID, ok, nil
}
