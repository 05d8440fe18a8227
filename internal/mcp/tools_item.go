package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"scrapbook/internal/domain"
	"scrapbook/internal/imaging"
)

func (s *Server) registerItemTools() {
	// ── add_photo ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_photo",
		mcp.WithDescription("Place a photo on a page from an image file or a data URL"),
		mcp.WithString("path", mcp.Description("Path to a JPEG, PNG, GIF or WebP file")),
		mcp.WithString("dataUrl", mcp.Description("Image as a data URL (used when path is empty)")),
		mcp.WithNumber("page", mcp.Description("1-based page number (defaults to the current page)")),
		mcp.WithBoolean("autoPlace", mcp.Description("Find a free spot instead of a random one (current page only)")),
	), s.handleAddPhoto)

	// ── add_text ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_text",
		mcp.WithDescription("Place a text label on a page"),
		mcp.WithString("content", mcp.Description("Label text"), mcp.Required()),
		mcp.WithNumber("page", mcp.Description("1-based page number (defaults to the current page)")),
		mcp.WithBoolean("autoPlace", mcp.Description("Find a free spot instead of a random one (current page only)")),
	), s.handleAddText)

	// ── add_sticker ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_sticker",
		mcp.WithDescription("Place an emoji sticker on a page"),
		mcp.WithString("emoji", mcp.Description("Sticker glyph"), mcp.Required()),
		mcp.WithNumber("page", mcp.Description("1-based page number (defaults to the current page)")),
		mcp.WithBoolean("autoPlace", mcp.Description("Find a free spot instead of a random one (current page only)")),
	), s.handleAddSticker)

	// ── move_item ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_item",
		mcp.WithDescription("Move an item. The position is clamped so the item stays on the page."),
		mcp.WithString("itemId", mcp.Description("Item ID"), mcp.Required()),
		mcp.WithString("itemType", mcp.Description("photo, text or sticker"), mcp.Required(),
			mcp.Enum(string(domain.ItemTypePhoto), string(domain.ItemTypeText), string(domain.ItemTypeSticker))),
		mcp.WithNumber("x", mcp.Description("New X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y position"), mcp.Required()),
		mcp.WithNumber("page", mcp.Description("1-based page number (defaults to the current page)")),
	), s.handleMoveItem)

	// ── adjust_photo ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("adjust_photo",
		mcp.WithDescription("Set a photo's brightness, contrast, saturation (0-200, 100 = unchanged), blur (0-10) and filter"),
		mcp.WithString("photoId", mcp.Description("Photo ID"), mcp.Required()),
		mcp.WithNumber("brightness", mcp.Description("Brightness percent (default 100)")),
		mcp.WithNumber("contrast", mcp.Description("Contrast percent (default 100)")),
		mcp.WithNumber("saturation", mcp.Description("Saturation percent (default 100)")),
		mcp.WithNumber("blur", mcp.Description("Blur radius in px (default 0)")),
		mcp.WithString("filter", mcp.Description("none, vintage, blackAndWhite, warm, cool, dramatic, or a CSS filter expression")),
		mcp.WithBoolean("bake", mcp.Description("Render the adjustments into the image itself and reset them (default false)")),
		mcp.WithNumber("rotation", mcp.Description("Extra clockwise rotation in degrees, only used with bake")),
	), s.handleAdjustPhoto)
}

// place moves a freshly added item to a free spot when the agent asked for
// it. Placement is only attempted on the current page.
func (s *Server) place(req mcp.CallToolRequest, index int, id string, t domain.ItemType) domain.Point {
	page, _ := s.store().Page(index)
	item := page.Find(id, t)
	if item == nil {
		return domain.Point{}
	}
	if !req.GetBool("autoPlace", false) || index != s.store().CurrentIndex() {
		return item.Position()
	}
	var others []domain.Item
	for _, it := range page.Items() {
		if it.ItemID() != id {
			others = append(others, it)
		}
	}
	pos, ok := s.layout.NextPosition(others, item.Extent(), s.store().PageExtent())
	if !ok {
		return item.Position()
	}
	if moved, ok := s.store().MoveItem(index, id, t, pos); ok {
		return moved
	}
	return item.Position()
}

type addedItem struct {
	ID   string          `json:"id"`
	Type domain.ItemType `json:"type"`
	Page int             `json:"page"`
	X    float64         `json:"x"`
	Y    float64         `json:"y"`
}

func (s *Server) handleAddPhoto(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := s.resolvePage(req)
	if err != nil {
		return nil, err
	}
	path, dataURL := req.GetString("path", ""), req.GetString("dataUrl", "")

	var id string
	switch {
	case path != "":
		var ok bool
		id, ok, err = s.scrapbooks.AddPhotoFromFile(ctx, index, path)
		if err != nil {
			return nil, fmt.Errorf("add photo: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("add photo: page %d no longer exists", index+1)
		}
	case dataURL != "":
		if _, err := imaging.DecodeDataURL(dataURL); err != nil {
			return nil, fmt.Errorf("add photo: %w", err)
		}
		photo, ok := s.store().AddPhoto(index, dataURL)
		if !ok {
			return nil, fmt.Errorf("add photo: page %d no longer exists", index+1)
		}
		id = photo.ID
	default:
		return nil, fmt.Errorf("path or dataUrl is required")
	}

	pos := s.place(req, index, id, domain.ItemTypePhoto)
	return jsonResult(addedItem{ID: id, Type: domain.ItemTypePhoto, Page: index + 1, X: pos.X, Y: pos.Y})
}

func (s *Server) handleAddText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := s.resolvePage(req)
	if err != nil {
		return nil, err
	}
	text, ok := s.store().AddText(index, req.GetString("content", ""))
	if !ok {
		return nil, fmt.Errorf("content is required")
	}
	pos := s.place(req, index, text.ID, domain.ItemTypeText)
	return jsonResult(addedItem{ID: text.ID, Type: domain.ItemTypeText, Page: index + 1, X: pos.X, Y: pos.Y})
}

func (s *Server) handleAddSticker(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := s.resolvePage(req)
	if err != nil {
		return nil, err
	}
	sticker, ok := s.store().AddSticker(index, req.GetString("emoji", ""))
	if !ok {
		return nil, fmt.Errorf("emoji is required")
	}
	pos := s.place(req, index, sticker.ID, domain.ItemTypeSticker)
	return jsonResult(addedItem{ID: sticker.ID, Type: domain.ItemTypeSticker, Page: index + 1, X: pos.X, Y: pos.Y})
}

func (s *Server) handleMoveItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := s.resolvePage(req)
	if err != nil {
		return nil, err
	}
	id := req.GetString("itemId", "")
	itemType := domain.ItemType(req.GetString("itemType", ""))
	if id == "" || !itemType.Valid() {
		return nil, fmt.Errorf("itemId and a valid itemType are required")
	}
	target := domain.Point{X: req.GetFloat("x", 0), Y: req.GetFloat("y", 0)}
	pos, ok := s.store().MoveItem(index, id, itemType, target)
	if !ok {
		return nil, fmt.Errorf("%s %s not found on page %d, or a page turn is in progress", itemType, id, index+1)
	}
	return textResult(fmt.Sprintf("Moved %s %s to (%.0f, %.0f)", itemType, id, pos.X, pos.Y)), nil
}

func (s *Server) handleAdjustPhoto(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("photoId", "")
	if id == "" {
		return nil, fmt.Errorf("photoId is required")
	}
	adj := domain.Adjustment{
		Brightness: req.GetFloat("brightness", domain.AdjustmentDefault),
		Contrast:   req.GetFloat("contrast", domain.AdjustmentDefault),
		Saturation: req.GetFloat("saturation", domain.AdjustmentDefault),
		Blur:       req.GetFloat("blur", 0),
		Filter:     domain.FilterName(req.GetString("filter", string(domain.FilterNone))),
	}
	if !s.store().SetPhotoAdjustment(id, adj) {
		return nil, fmt.Errorf("photo %s not found", id)
	}
	if !req.GetBool("bake", false) {
		return jsonResult(adjustedPhoto{ID: id, Adjustment: adj.Clamped()})
	}
	photo, ok, err := s.scrapbooks.BakePhoto(ctx, id, req.GetFloat("rotation", 0))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("photo %s changed while baking", id)
	}
	return jsonResult(adjustedPhoto{ID: id, Baked: true, Adjustment: photo.Adjustment})
}

type adjustedPhoto struct {
	ID    string `json:"id"`
	Baked bool   `json:"baked"`
	domain.Adjustment
}
