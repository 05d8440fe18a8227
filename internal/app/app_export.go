package app

import (
	"fmt"
	"strings"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"scrapbook/internal/domain"
	"scrapbook/internal/export"
)

// ============================================================
// Import / Export
// ============================================================

func (a *App) ExportPDF(input PDFExportInput) (*ExportResultView, error) {
	path, err := wailsRuntime.SaveFileDialog(a.ctx, wailsRuntime.SaveDialogOptions{
		Title:           "Export PDF",
		DefaultFilename: export.Filename(time.Now()),
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "PDF", Pattern: "*.pdf"},
		},
	})
	if err != nil || path == "" {
		return &ExportResultView{}, err
	}

	res, err := a.svc.ExportPDF(a.ctx, path, a.pdfOptions(input))
	if err != nil {
		return nil, err
	}
	view := &ExportResultView{Path: path, Pages: res.Pages, Skipped: []int{}}
	for _, sk := range res.Skipped {
		view.Skipped = append(view.Skipped, sk.Number)
	}
	return view, nil
}

// pdfOptions layers the dialog's choices over the configured defaults.
func (a *App) pdfOptions(input PDFExportInput) export.PDFOptions {
	opts := a.pdfDefaults()
	if sb, ok := a.svc.Current(); ok {
		opts.Title = sb.Title
	}
	if input.Selection != "" {
		opts.Selection = export.Selection(input.Selection)
	}
	opts.From, opts.To = input.From, input.To
	if input.PaperSize != "" {
		opts.PaperSize = input.PaperSize
	}
	if input.Orientation != "" {
		opts.Orientation = input.Orientation
	}
	if input.Quality != "" {
		opts.Quality = export.Quality(input.Quality)
	}
	return opts
}

func (a *App) ExportJSON() (*ExportResultView, error) {
	name := export.DefaultTitle
	if sb, ok := a.svc.Current(); ok {
		name = sb.Title
	}
	path, err := wailsRuntime.SaveFileDialog(a.ctx, wailsRuntime.SaveDialogOptions{
		Title:           "Export JSON",
		DefaultFilename: fileSafe(name) + ".json",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Scrapbook JSON", Pattern: "*.json"},
		},
	})
	if err != nil || path == "" {
		return &ExportResultView{}, err
	}
	if err := a.svc.ExportJSONFile(path); err != nil {
		return nil, err
	}
	return &ExportResultView{Path: path, Pages: a.svc.Store().PageCount(), Skipped: []int{}}, nil
}

// ImportJSON asks for an exported file and opens it as a new scrapbook. A nil
// result means the user cancelled.
func (a *App) ImportJSON() (*domain.Scrapbook, error) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Import Scrapbook",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Scrapbook JSON", Pattern: "*.json"},
		},
	})
	if err != nil || path == "" {
		return nil, err
	}
	sb, err := a.svc.ImportFile(path)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	a.rememberOpen()
	return sb, nil
}

// fileSafe replaces characters that are awkward in file names.
func fileSafe(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return "scrapbook"
	}
	return name
}
