package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerLibraryTools() {
	// ── list_scrapbooks ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_scrapbooks",
		mcp.WithDescription("List all scrapbooks in the library, most recently updated first"),
	), s.handleListScrapbooks)

	// ── open_scrapbook ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_scrapbook",
		mcp.WithDescription("Open a scrapbook from the library. Unsaved changes to the current one are discarded."),
		mcp.WithString("id", mcp.Description("ID of the scrapbook"), mcp.Required()),
	), s.handleOpenScrapbook)

	// ── create_scrapbook ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_scrapbook",
		mcp.WithDescription("Create a new scrapbook with one empty page and open it"),
		mcp.WithString("title", mcp.Description("Title of the scrapbook")),
	), s.handleCreateScrapbook)

	// ── save_scrapbook ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_scrapbook",
		mcp.WithDescription("Save the open scrapbook and record a revision"),
		mcp.WithString("label", mcp.Description("Revision label (optional)")),
	), s.handleSaveScrapbook)

	// ── rename_scrapbook ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_scrapbook",
		mcp.WithDescription("Change the title of the open scrapbook"),
		mcp.WithString("title", mcp.Description("New title"), mcp.Required()),
	), s.handleRenameScrapbook)

	// ── delete_scrapbook ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_scrapbook",
		mcp.WithDescription("Delete a scrapbook and its revision history. Requires user approval."),
		mcp.WithString("id", mcp.Description("ID of the scrapbook"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteScrapbook)

	// ── list_revisions ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_revisions",
		mcp.WithDescription("List saved revisions of the open scrapbook, newest first"),
	), s.handleListRevisions)

	// ── restore_revision ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("restore_revision",
		mcp.WithDescription("Replace the canvas with a saved revision. Unsaved changes are lost. Requires user approval."),
		mcp.WithString("revisionId", mcp.Description("ID of the revision"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRestoreRevision)
}

func (s *Server) handleListScrapbooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.scrapbooks.List()
	if err != nil {
		return nil, fmt.Errorf("list scrapbooks: %w", err)
	}
	return jsonResult(list)
}

func (s *Server) handleOpenScrapbook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	sb, err := s.scrapbooks.Open(id)
	if err != nil {
		return nil, fmt.Errorf("open scrapbook: %w", err)
	}
	return jsonResult(sb)
}

func (s *Server) handleCreateScrapbook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sb, err := s.scrapbooks.New(req.GetString("title", ""))
	if err != nil {
		return nil, fmt.Errorf("create scrapbook: %w", err)
	}
	return jsonResult(sb)
}

func (s *Server) handleSaveScrapbook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sb, err := s.scrapbooks.Save(req.GetString("label", ""))
	if err != nil {
		return nil, fmt.Errorf("save scrapbook: %w", err)
	}
	return jsonResult(sb)
}

func (s *Server) handleRenameScrapbook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if err := s.scrapbooks.Rename(title); err != nil {
		return nil, fmt.Errorf("rename scrapbook: %w", err)
	}
	return textResult(fmt.Sprintf("Renamed to %q", title)), nil
}

func (s *Server) handleDeleteScrapbook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	if err := s.approval.Request(ctx, "delete_scrapbook", fmt.Sprintf("Delete scrapbook %s and its history", id)); err != nil {
		return nil, err
	}
	if err := s.scrapbooks.Delete(id); err != nil {
		return nil, fmt.Errorf("delete scrapbook: %w", err)
	}
	return textResult(fmt.Sprintf("Deleted scrapbook %s", id)), nil
}

func (s *Server) handleListRevisions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	revs, err := s.scrapbooks.Revisions()
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	return jsonResult(revs)
}

func (s *Server) handleRestoreRevision(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("revisionId", "")
	if id == "" {
		return nil, fmt.Errorf("revisionId is required")
	}
	if err := s.approval.Request(ctx, "restore_revision", fmt.Sprintf("Replace the canvas with revision %s", id)); err != nil {
		return nil, err
	}
	if err := s.scrapbooks.RestoreRevision(id); err != nil {
		return nil, fmt.Errorf("restore revision: %w", err)
	}
	return textResult(fmt.Sprintf("Restored revision %s (unsaved)", id)), nil
}
