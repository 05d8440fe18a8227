// Package export writes scrapbooks out as JSON and PDF files and reads the
// JSON form back.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"scrapbook/internal/domain"
)

const DefaultTitle = "My Digital Scrapbook"

// NewFile wraps a document snapshot for export.
func NewFile(title string, doc domain.Document, created time.Time) domain.ExportFile {
	if title == "" {
		title = DefaultTitle
	}
	return domain.ExportFile{Title: title, Created: created.UTC(), Pages: doc.Clone().Pages}
}

// WriteJSON encodes f with two-space indentation.
func WriteJSON(w io.Writer, f domain.ExportFile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode scrapbook: %w", err)
	}
	return nil
}

// ReadJSON decodes an exported scrapbook. Missing item arrays decode as empty.
func ReadJSON(r io.Reader) (domain.ExportFile, error) {
	var f domain.ExportFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return domain.ExportFile{}, fmt.Errorf("decode scrapbook: %w", err)
	}
	if f.Title == "" {
		f.Title = DefaultTitle
	}
	for i := range f.Pages {
		p := &f.Pages[i]
		if p.Photos == nil {
			p.Photos = []domain.Photo{}
		}
		if p.Texts == nil {
			p.Texts = []domain.Text{}
		}
		if p.Stickers == nil {
			p.Stickers = []domain.Sticker{}
		}
	}
	return f, nil
}

// Document converts an import back into a loadable snapshot positioned on
// the first page.
func Document(f domain.ExportFile) domain.Document {
	return domain.Document{Pages: f.Pages}
}
