package app

import (
	"scrapbook/internal/domain"
)

// ============================================================
// Library
// ============================================================

func (a *App) ListScrapbooks() ([]domain.Scrapbook, error) {
	return a.svc.List()
}

// CurrentScrapbook returns the open library entry, or nil when the canvas is
// an unsaved draft.
func (a *App) CurrentScrapbook() *domain.Scrapbook {
	sb, ok := a.svc.Current()
	if !ok {
		return nil
	}
	return &sb
}

func (a *App) NewScrapbook(title string) (*domain.Scrapbook, error) {
	sb, err := a.svc.New(title)
	if err != nil {
		return nil, err
	}
	a.rememberOpen()
	return sb, nil
}

// SaveAsScrapbook stores the current canvas, draft or not, as a new entry.
func (a *App) SaveAsScrapbook(title string) (*domain.Scrapbook, error) {
	sb, err := a.svc.SaveAs(title)
	if err != nil {
		return nil, err
	}
	a.rememberOpen()
	return sb, nil
}

func (a *App) OpenScrapbook(id string) (*domain.Scrapbook, error) {
	sb, err := a.svc.Open(id)
	if err != nil {
		return nil, err
	}
	a.rememberOpen()
	return sb, nil
}

func (a *App) SaveScrapbook(label string) (*domain.Scrapbook, error) {
	return a.svc.Save(label)
}

func (a *App) RenameScrapbook(title string) error {
	return a.svc.Rename(title)
}

func (a *App) DeleteScrapbook(id string) error {
	if err := a.svc.Delete(id); err != nil {
		return err
	}
	a.rememberOpen()
	return nil
}

// IsDirty reports unsaved canvas changes.
func (a *App) IsDirty() bool {
	return a.svc.Dirty()
}

func (a *App) ListRevisions() ([]domain.Revision, error) {
	return a.svc.Revisions()
}

func (a *App) RestoreRevision(id string) error {
	return a.svc.RestoreRevision(id)
}
