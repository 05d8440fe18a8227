package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"scrapbook/internal/domain"
)

const (
	uriTemplates = "scrapbook://templates"
	uriCurrent   = "scrapbook://current"
	uriPagePfx   = "scrapbook://page/"
)

func (s *Server) registerResources() {
	// ── scrapbook://templates ──────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		uriTemplates,
		"Page Templates",
		mcp.WithMIMEType("application/json"),
	), s.handleTemplatesResource)

	// ── scrapbook://current ────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		uriCurrent,
		"Open Scrapbook",
		mcp.WithMIMEType("application/json"),
	), s.handleCurrentResource)

	// ── scrapbook://page/{number} ──────────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			uriPagePfx+"{number}",
			"Items on a Page",
		),
		s.handlePageResource,
	)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleTemplatesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(uriTemplates, domain.Templates())
}

type currentSummary struct {
	Scrapbook *domain.Scrapbook `json:"scrapbook"`
	Unsaved   bool              `json:"unsaved"`
	Pages     []pageSummary     `json:"pages"`
}

func (s *Server) handleCurrentResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out := currentSummary{Unsaved: s.scrapbooks.Dirty(), Pages: s.pages()}
	if sb, ok := s.scrapbooks.Current(); ok {
		out.Scrapbook = &sb
	}
	return jsonContents(uriCurrent, out)
}

func (s *Server) handlePageResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	n, err := pageNumberFromURI(uri)
	if err != nil {
		return nil, err
	}
	page, ok := s.store().Page(n - 1)
	if !ok {
		return nil, fmt.Errorf("page %d out of range (1-%d)", n, s.store().PageCount())
	}
	return jsonContents(uri, summarizePage(page, n-1, s.store().CurrentIndex()))
}

// pageNumberFromURI extracts N from "scrapbook://page/N".
func pageNumberFromURI(uri string) (int, error) {
	rest, ok := strings.CutPrefix(uri, uriPagePfx)
	if !ok {
		return 0, fmt.Errorf("not a page URI: %s", uri)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(rest, "/"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid page number in URI: %s", uri)
	}
	return n, nil
}
