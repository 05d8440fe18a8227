package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// SettingsStore is a key/value table for app preferences such as the
// window size.
type SettingsStore struct {
	db *DB
}

func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// GetSetting returns the stored value and whether the key exists.
func (s *SettingsStore) GetSetting(key string) (string, bool, error) {
	var v string
	err := s.db.queryRow(`SELECT value FROM app_settings WHERE name = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SettingsStore) SetSetting(key, value string) error {
	_, err := s.db.exec(
		`INSERT INTO app_settings (name, value) VALUES (?, ?)`+s.db.upsertClause("name", "value"),
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}
