package storage

import (
	"fmt"

	"scrapbook/internal/domain"
)

// SQLLibrary is the domain.Library backed by sqlite, postgres or mysql.
type SQLLibrary struct {
	*ScrapbookStore
	*RevisionStore
	*SettingsStore
	db *DB
}

func NewSQLLibrary(db *DB) *SQLLibrary {
	return &SQLLibrary{
		ScrapbookStore: NewScrapbookStore(db),
		RevisionStore:  NewRevisionStore(db),
		SettingsStore:  NewSettingsStore(db),
		db:             db,
	}
}

func (l *SQLLibrary) Close() error {
	return l.db.Close()
}

// OpenLibrary opens the backend named by driver. database is only used by
// the mongo backend.
func OpenLibrary(driver, dsn, database string) (domain.Library, error) {
	if driver == "mongo" {
		return OpenMongoLibrary(dsn, database)
	}
	db, err := Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	return NewSQLLibrary(db), nil
}

var (
	_ domain.Library = (*SQLLibrary)(nil)
	_ domain.Library = (*MongoLibrary)(nil)
)
