package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"scrapbook/internal/domain"
)

func (s *Server) registerPageTools() {
	// ── list_pages ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List every page of the open canvas with its items"),
	), s.handleListPages)

	// ── add_page ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_page",
		mcp.WithDescription("Append a page, optionally decorated from a template. The current page does not change."),
		mcp.WithString("templateId", mcp.Description("Template ID (see list_templates)")),
	), s.handleAddPage)

	// ── apply_template ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("apply_template",
		mcp.WithDescription("Apply a template's theme, heading and decorations to a page. Existing items are kept."),
		mcp.WithString("templateId", mcp.Description("Template ID"), mcp.Required()),
		mcp.WithNumber("page", mcp.Description("1-based page number (defaults to the current page)")),
	), s.handleApplyTemplate)

	// ── list_templates ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the page templates"),
	), s.handleListTemplates)

	// ── flip_to_page ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("flip_to_page",
		mcp.WithDescription("Turn to a page. The turn animates and commits shortly after."),
		mcp.WithNumber("page", mcp.Description("1-based page number"), mcp.Required()),
	), s.handleFlipToPage)

	s.mcp.AddTool(mcp.NewTool("next_page",
		mcp.WithDescription("Turn to the next page"),
	), s.handleNextPage)

	s.mcp.AddTool(mcp.NewTool("prev_page",
		mcp.WithDescription("Turn to the previous page"),
	), s.handlePrevPage)

	// ── arrange_page ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("arrange_page",
		mcp.WithDescription("Lay out every item on a page in tidy rows"),
		mcp.WithNumber("page", mcp.Description("1-based page number (defaults to the current page)")),
	), s.handleArrangePage)
}

func (s *Server) pages() []pageSummary {
	doc := s.store().Serialize()
	out := make([]pageSummary, len(doc.Pages))
	for i, p := range doc.Pages {
		out[i] = summarizePage(p, i, doc.CurrentIndex)
	}
	return out
}

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.pages())
}

func (s *Server) handleAddPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID := req.GetString("templateId", "")
	if templateID != "" {
		if _, ok := domain.LookupTemplate(templateID); !ok {
			return nil, fmt.Errorf("unknown template %q", templateID)
		}
	}
	index, ok := s.store().AddPage(templateID)
	if !ok {
		return nil, fmt.Errorf("add page failed")
	}
	return textResult(fmt.Sprintf("Added page %d", index+1)), nil
}

func (s *Server) handleApplyTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID := req.GetString("templateId", "")
	if _, ok := domain.LookupTemplate(templateID); !ok {
		return nil, fmt.Errorf("unknown template %q", templateID)
	}
	index, err := s.resolvePage(req)
	if err != nil {
		return nil, err
	}
	if !s.store().ApplyTemplate(index, templateID) {
		return nil, fmt.Errorf("apply template to page %d failed", index+1)
	}
	return textResult(fmt.Sprintf("Applied %s to page %d", templateID, index+1)), nil
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(domain.Templates())
}

func (s *Server) handleFlipToPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := req.GetInt("page", 0)
	if n < 1 || n > s.store().PageCount() {
		return nil, fmt.Errorf("page %d out of range (1-%d)", n, s.store().PageCount())
	}
	if !s.store().FlipTo(n - 1) {
		return nil, fmt.Errorf("cannot turn to page %d now (already there or a turn is in progress)", n)
	}
	return textResult(fmt.Sprintf("Turning to page %d", n)), nil
}

func (s *Server) handleNextPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.store().Next() {
		return nil, fmt.Errorf("no next page")
	}
	return textResult("Turning to the next page"), nil
}

func (s *Server) handlePrevPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.store().Prev() {
		return nil, fmt.Errorf("no previous page")
	}
	return textResult("Turning to the previous page"), nil
}

func (s *Server) handleArrangePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := s.resolvePage(req)
	if err != nil {
		return nil, err
	}
	page, _ := s.store().Page(index)
	items := page.Items()
	positions := s.layout.Arrange(items, s.store().PageExtent())
	for i, item := range items {
		if _, ok := s.store().MoveItem(index, item.ItemID(), item.Type(), positions[i]); !ok {
			return nil, fmt.Errorf("arrange page %d: item %s could not be moved", index+1, item.ItemID())
		}
	}
	return textResult(fmt.Sprintf("Arranged %d items on page %d", len(items), index+1)), nil
}
