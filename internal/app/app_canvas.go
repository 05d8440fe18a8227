package app

import (
	"fmt"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"scrapbook/internal/canvas"
	"scrapbook/internal/domain"
	"scrapbook/internal/imaging"
)

// ============================================================
// Canvas
// ============================================================

// GetDocument returns a snapshot of every page for rendering.
func (a *App) GetDocument() domain.Document {
	return a.svc.Store().Serialize()
}

func (a *App) GetTemplates() []domain.Template {
	return domain.Templates()
}

func (a *App) GetFilters() []domain.FilterName {
	return domain.Filters()
}

// PickPhoto opens a native picker and places the chosen image on the page.
// An empty id means the user cancelled.
func (a *App) PickPhoto(pageIndex int) (string, error) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Add Photo",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Images", Pattern: "*.jpg;*.jpeg;*.png;*.gif;*.webp"},
		},
	})
	if err != nil || path == "" {
		return "", err
	}
	id, ok, err := a.svc.AddPhotoFromFile(a.ctx, pageIndex, path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("page %d does not exist", pageIndex+1)
	}
	return id, nil
}

// AddPhotoData places an image the frontend already holds as a data URL,
// e.g. from drag and drop.
func (a *App) AddPhotoData(pageIndex int, dataURL string) (*domain.Photo, error) {
	if _, err := imaging.DecodeDataURL(dataURL); err != nil {
		return nil, err
	}
	photo, ok := a.svc.Store().AddPhoto(pageIndex, dataURL)
	if !ok {
		return nil, fmt.Errorf("page %d does not exist", pageIndex+1)
	}
	return &photo, nil
}

func (a *App) AddText(pageIndex int, content string) (*domain.Text, error) {
	text, ok := a.svc.Store().AddText(pageIndex, content)
	if !ok {
		return nil, fmt.Errorf("text not added")
	}
	return &text, nil
}

func (a *App) AddSticker(pageIndex int, emoji string) (*domain.Sticker, error) {
	sticker, ok := a.svc.Store().AddSticker(pageIndex, emoji)
	if !ok {
		return nil, fmt.Errorf("sticker not added")
	}
	return &sticker, nil
}

// AddPage appends a page and returns its index. templateID may be empty.
func (a *App) AddPage(templateID string) (int, error) {
	index, ok := a.svc.Store().AddPage(templateID)
	if !ok {
		return 0, fmt.Errorf("unknown template %q", templateID)
	}
	return index, nil
}

func (a *App) ApplyTemplate(pageIndex int, templateID string) bool {
	return a.svc.Store().ApplyTemplate(pageIndex, templateID)
}

func (a *App) SetPhotoAdjustment(photoID string, adj domain.Adjustment) bool {
	return a.svc.Store().SetPhotoAdjustment(photoID, adj)
}

// BakePhoto saves the photo editor's result: adjustments plus rotation are
// rendered into the image itself. A nil result means the photo is gone.
func (a *App) BakePhoto(photoID string, rotation float64) (*domain.Photo, error) {
	photo, ok, err := a.svc.BakePhoto(a.ctx, photoID, rotation)
	if err != nil || !ok {
		return nil, err
	}
	return &photo, nil
}

// ── Navigation ─────────────────────────────────────────────

func (a *App) FlipTo(index int) bool {
	return a.svc.Store().FlipTo(index)
}

func (a *App) NextPage() bool {
	return a.svc.Store().Next()
}

func (a *App) PrevPage() bool {
	return a.svc.Store().Prev()
}

func (a *App) GetFlipStatus() canvas.FlipStatus {
	return a.svc.Store().FlipStatus()
}

// ── Dragging ───────────────────────────────────────────────

func (a *App) BeginDrag(itemID string, itemType domain.ItemType, pointer, itemOrigin domain.Point) bool {
	_, ok := a.svc.Store().BeginDrag(itemID, itemType, pointer, itemOrigin)
	return ok
}

// UpdateDrag moves the dragged item and returns where it landed.
func (a *App) UpdateDrag(pointer, pageOrigin domain.Point) (*domain.Point, error) {
	store := a.svc.Store()
	pos, ok := store.UpdateDrag(pointer, pageOrigin, store.PageExtent())
	if !ok {
		return nil, fmt.Errorf("no active drag")
	}
	return &pos, nil
}

func (a *App) EndDrag() {
	a.svc.Store().EndDrag()
}

// ── Viewport ───────────────────────────────────────────────

// SetViewport reports a window resize; items are pulled back inside the
// new page bounds.
func (a *App) SetViewport(width float64) ViewportInfo {
	a.svc.Store().SetViewport(width)
	return a.GetViewport()
}

func (a *App) GetViewport() ViewportInfo {
	v := a.svc.Store().Viewport()
	return ViewportInfo{
		Width:       v.Width,
		Class:       v.Class().String(),
		Page:        a.svc.Store().PageExtent(),
		Photo:       v.PhotoExtent(),
		FontSize:    v.FontSize(),
		StickerSize: v.StickerSize(),
	}
}
