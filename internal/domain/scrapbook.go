package domain

import "time"

// Scrapbook is a library entry: a titled document persisted as its JSON
// export form.
type Scrapbook struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	DocumentJSON string    `json:"-"`
	PageCount    int       `json:"pageCount"`
	ItemCount    int       `json:"itemCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Revision is a saved snapshot of a scrapbook's document.
type Revision struct {
	ID           string    `json:"id"`
	ScrapbookID  string    `json:"scrapbookId"`
	Label        string    `json:"label"`
	DocumentJSON string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ScrapbookStore persists library entries. ListScrapbooks leaves
// DocumentJSON empty.
type ScrapbookStore interface {
	CreateScrapbook(sb *Scrapbook) error
	GetScrapbook(id string) (*Scrapbook, error)
	ListScrapbooks() ([]Scrapbook, error)
	UpdateScrapbook(sb *Scrapbook) error
	DeleteScrapbook(id string) error
}

// RevisionStore keeps a bounded, newest-first history per scrapbook.
type RevisionStore interface {
	PushRevision(rev *Revision, keep int) error
	ListRevisions(scrapbookID string) ([]Revision, error)
	GetRevision(id string) (*Revision, error)
}

type SettingsStore interface {
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
}

// Library bundles every persistence concern a backend must provide.
type Library interface {
	ScrapbookStore
	RevisionStore
	SettingsStore
	Close() error
}
