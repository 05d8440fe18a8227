package storage

import (
	"fmt"
	"time"

	"scrapbook/internal/domain"
)

// ScrapbookStore implements domain.ScrapbookStore over SQL.
type ScrapbookStore struct {
	db *DB
}

func NewScrapbookStore(db *DB) *ScrapbookStore {
	return &ScrapbookStore{db: db}
}

func (s *ScrapbookStore) CreateScrapbook(sb *domain.Scrapbook) error {
	now := time.Now().UTC()
	sb.CreatedAt = now
	sb.UpdatedAt = now
	_, err := s.db.exec(
		`INSERT INTO scrapbooks (id, title, document_json, page_count, item_count, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sb.ID, sb.Title, sb.DocumentJSON, sb.PageCount, sb.ItemCount, sb.CreatedAt, sb.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create scrapbook: %w", err)
	}
	return nil
}

func (s *ScrapbookStore) GetScrapbook(id string) (*domain.Scrapbook, error) {
	sb := &domain.Scrapbook{}
	err := s.db.queryRow(
		`SELECT id, title, document_json, page_count, item_count, created_at, updated_at FROM scrapbooks WHERE id = ?`, id,
	).Scan(&sb.ID, &sb.Title, &sb.DocumentJSON, &sb.PageCount, &sb.ItemCount, &sb.CreatedAt, &sb.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "get scrapbook")
	}
	return sb, nil
}

// ListScrapbooks returns summaries, most recently updated first.
func (s *ScrapbookStore) ListScrapbooks() ([]domain.Scrapbook, error) {
	rows, err := s.db.query(`SELECT id, title, page_count, item_count, created_at, updated_at FROM scrapbooks ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list scrapbooks: %w", err)
	}
	defer rows.Close()

	var books []domain.Scrapbook
	for rows.Next() {
		var sb domain.Scrapbook
		if err := rows.Scan(&sb.ID, &sb.Title, &sb.PageCount, &sb.ItemCount, &sb.CreatedAt, &sb.UpdatedAt); err != nil {
			return nil, err
		}
		books = append(books, sb)
	}
	return books, rows.Err()
}

func (s *ScrapbookStore) UpdateScrapbook(sb *domain.Scrapbook) error {
	sb.UpdatedAt = time.Now().UTC()
	res, err := s.db.exec(
		`UPDATE scrapbooks SET title = ?, document_json = ?, page_count = ?, item_count = ?, updated_at = ? WHERE id = ?`,
		sb.Title, sb.DocumentJSON, sb.PageCount, sb.ItemCount, sb.UpdatedAt, sb.ID,
	)
	if err != nil {
		return fmt.Errorf("update scrapbook: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update scrapbook %s: %w", sb.ID, ErrNotFound)
	}
	return nil
}

// DeleteScrapbook removes the scrapbook and its revision history.
func (s *ScrapbookStore) DeleteScrapbook(id string) error {
	if _, err := s.db.exec(`DELETE FROM revisions WHERE scrapbook_id = ?`, id); err != nil {
		return fmt.Errorf("delete revisions: %w", err)
	}
	res, err := s.db.exec(`DELETE FROM scrapbooks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scrapbook: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete scrapbook %s: %w", id, ErrNotFound)
	}
	return nil
}
