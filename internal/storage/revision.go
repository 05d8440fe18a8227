package storage

import (
	"fmt"
	"time"

	"scrapbook/internal/domain"
)

// MaxRevisions is the history kept per scrapbook.
const MaxRevisions = 40

// RevisionStore keeps a linear, bounded save history per scrapbook.
type RevisionStore struct {
	db *DB
}

func NewRevisionStore(db *DB) *RevisionStore {
	return &RevisionStore{db: db}
}

// PushRevision records rev and prunes the scrapbook's history down to keep
// entries, oldest first. keep <= 0 means MaxRevisions.
func (s *RevisionStore) PushRevision(rev *domain.Revision, keep int) error {
	if keep <= 0 {
		keep = MaxRevisions
	}
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.exec(
		`INSERT INTO revisions (id, scrapbook_id, label, document_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		rev.ID, rev.ScrapbookID, rev.Label, rev.DocumentJSON, rev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert revision: %w", err)
	}
	return s.prune(rev.ScrapbookID, keep)
}

// ListRevisions returns the history newest first without document bodies.
func (s *RevisionStore) ListRevisions(scrapbookID string) ([]domain.Revision, error) {
	rows, err := s.db.query(
		`SELECT id, scrapbook_id, label, created_at FROM revisions
		 WHERE scrapbook_id = ? ORDER BY created_at DESC, id DESC`, scrapbookID,
	)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revs []domain.Revision
	for rows.Next() {
		var r domain.Revision
		if err := rows.Scan(&r.ID, &r.ScrapbookID, &r.Label, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

func (s *RevisionStore) GetRevision(id string) (*domain.Revision, error) {
	r := &domain.Revision{}
	err := s.db.queryRow(
		`SELECT id, scrapbook_id, label, document_json, created_at FROM revisions WHERE id = ?`, id,
	).Scan(&r.ID, &r.ScrapbookID, &r.Label, &r.DocumentJSON, &r.CreatedAt)
	if err != nil {
		return nil, notFound(err, "get revision")
	}
	return r, nil
}

// prune removes the oldest revisions when the count exceeds keep.
func (s *RevisionStore) prune(scrapbookID string, keep int) error {
	var count int
	if err := s.db.queryRow(`SELECT COUNT(*) FROM revisions WHERE scrapbook_id = ?`, scrapbookID).Scan(&count); err != nil {
		return fmt.Errorf("count revisions: %w", err)
	}
	if count <= keep {
		return nil
	}

	// Collect IDs first and close the cursor before writing.
	rows, err := s.db.query(
		`SELECT id FROM revisions WHERE scrapbook_id = ?
		 ORDER BY created_at ASC, id ASC LIMIT ?`, scrapbookID, count-keep,
	)
	if err != nil {
		return fmt.Errorf("select stale revisions: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan revision id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()

	for _, id := range ids {
		if _, err := s.db.exec(`DELETE FROM revisions WHERE id = ?`, id); err != nil {
			return fmt.Errorf("prune revision: %w", err)
		}
	}
	return nil
}
