package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"scrapbook/internal/export"
)

func (s *Server) registerExportTools() {
	// ── export_json ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_json",
		mcp.WithDescription("Write the canvas as a JSON export that import can read back"),
		mcp.WithString("path", mcp.Description("Destination file"), mcp.Required()),
	), s.handleExportJSON)

	// ── export_pdf ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_pdf",
		mcp.WithDescription("Render pages to a PDF. Pages whose photos cannot be decoded are skipped and reported."),
		mcp.WithString("path", mcp.Description("Destination file, or a directory to use the default file name"), mcp.Required()),
		mcp.WithString("selection", mcp.Description("Pages to include"),
			mcp.Enum(string(export.SelectAll), string(export.SelectCurrent), string(export.SelectRange))),
		mcp.WithNumber("from", mcp.Description("First page of a range (1-based)")),
		mcp.WithNumber("to", mcp.Description("Last page of a range (1-based, inclusive)")),
		mcp.WithString("quality", mcp.Description("Render quality"),
			mcp.Enum(string(export.QualityHigh), string(export.QualityMedium), string(export.QualityLow))),
		mcp.WithString("paperSize", mcp.Description("A3, A4 or Letter")),
		mcp.WithString("orientation", mcp.Description("P (portrait) or L (landscape)")),
	), s.handleExportPDF)
}

func (s *Server) handleExportJSON(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if err := s.scrapbooks.ExportJSONFile(path); err != nil {
		return nil, fmt.Errorf("export json: %w", err)
	}
	return textResult(fmt.Sprintf("Exported %s", path)), nil
}

type pdfExportResult struct {
	Path    string `json:"path"`
	Pages   int    `json:"pages"`
	Skipped []int  `json:"skipped"`
}

func (s *Server) handleExportPDF(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if filepath.Ext(path) == "" {
		path = filepath.Join(path, export.Filename(time.Now()))
	}

	opts := s.pdf
	opts.Selection = export.Selection(req.GetString("selection", string(export.SelectAll)))
	opts.From = req.GetInt("from", 0)
	opts.To = req.GetInt("to", 0)
	if q := req.GetString("quality", ""); q != "" {
		opts.Quality = export.Quality(q)
	}
	if p := req.GetString("paperSize", ""); p != "" {
		opts.PaperSize = p
	}
	if o := req.GetString("orientation", ""); o != "" {
		opts.Orientation = o
	}

	res, err := s.scrapbooks.ExportPDF(ctx, path, opts)
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	out := pdfExportResult{Path: path, Pages: res.Pages, Skipped: []int{}}
	for _, sk := range res.Skipped {
		out.Skipped = append(out.Skipped, sk.Number)
	}
	return jsonResult(out)
}
