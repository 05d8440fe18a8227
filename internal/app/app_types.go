package app

import "scrapbook/internal/domain"

// ViewportInfo is the frontend view of the responsive sizing in effect.
type ViewportInfo struct {
	Width       float64       `json:"width"`
	Class       string        `json:"class"`
	Page        domain.Extent `json:"page"`
	Photo       domain.Extent `json:"photo"`
	FontSize    float64       `json:"fontSize"`
	StickerSize float64       `json:"stickerSize"`
}

// PDFExportInput is what the export dialog submits. Empty fields take the
// configured defaults.
type PDFExportInput struct {
	Selection   string `json:"selection"`
	From        int    `json:"from"`
	To          int    `json:"to"`
	PaperSize   string `json:"paperSize"`
	Orientation string `json:"orientation"`
	Quality     string `json:"quality"`
}

// ExportResultView reports where an export went. Path is empty when the
// user cancelled the save dialog.
type ExportResultView struct {
	Path    string `json:"path"`
	Pages   int    `json:"pages"`
	Skipped []int  `json:"skipped"`
}
