package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"scrapbook/internal/domain"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("design_page",
		mcp.WithPromptDescription("Decorate the current page around a theme using a template, a heading and stickers"),
		mcp.WithArgument("occasion",
			mcp.ArgumentDescription("What the page is about (e.g. beach trip, birthday)"),
			mcp.RequiredArgument(),
		),
	), s.handleDesignPagePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("photo_story",
		mcp.WithPromptDescription("Build a multi-page scrapbook from a folder of photos"),
		mcp.WithArgument("title",
			mcp.ArgumentDescription("Scrapbook title"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("photos",
			mcp.ArgumentDescription("Comma-separated photo file paths"),
			mcp.RequiredArgument(),
		),
	), s.handlePhotoStoryPrompt)
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.TextContent{Type: "text", Text: text},
			},
		},
	}
}

func templateIDs() string {
	var ids []string
	for _, t := range domain.Templates() {
		ids = append(ids, t.ID)
	}
	return strings.Join(ids, ", ")
}

func (s *Server) handleDesignPagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	occasion := req.Params.Arguments["occasion"]
	return userPrompt(
		fmt.Sprintf("Design a page for: %s", occasion),
		fmt.Sprintf(`Decorate the current scrapbook page for "%s". Follow these steps:

1. Pick the template that best fits the occasion (one of: %s) and apply it with apply_template.
2. Add a short heading with add_text (autoPlace: true).
3. Add two or three fitting stickers with add_sticker (autoPlace: true).
4. Run arrange_page if items ended up crowded, then save_scrapbook with a label describing the change.`, occasion, templateIDs()),
	), nil
}

func (s *Server) handlePhotoStoryPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	title := req.Params.Arguments["title"]
	photos := req.Params.Arguments["photos"]
	return userPrompt(
		fmt.Sprintf("Build the scrapbook %q", title),
		fmt.Sprintf(`Create a scrapbook titled "%s" from these photos: %s

1. Call create_scrapbook with the title.
2. Put at most two photos on each page. Use add_page for more pages and pass the page number to add_photo.
3. Give each page a caption with add_text and a matching filter via adjust_photo (vintage, warm, cool, dramatic or blackAndWhite).
4. Finish with save_scrapbook, then export_pdf if the user wants a printable copy.`, title, photos),
	), nil
}
