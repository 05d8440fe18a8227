package mcpserver

import (
	"fmt"
	"strings"

	"scrapbook/internal/domain"
)

func boolPtr(b bool) *bool { return &b }

// itemSummary is the agent-facing view of one item. Photo sources are
// shortened since data URLs run to megabytes.
type itemSummary struct {
	ID       string             `json:"id"`
	Type     domain.ItemType    `json:"type"`
	X        float64            `json:"x"`
	Y        float64            `json:"y"`
	Width    float64            `json:"width"`
	Height   float64            `json:"height"`
	Content  string             `json:"content,omitempty"`
	Source   string             `json:"source,omitempty"`
	Adjust   *domain.Adjustment `json:"adjustment,omitempty"`
	Rotation float64            `json:"rotation,omitempty"`
}

type pageSummary struct {
	Number     int           `json:"number"`
	ID         int           `json:"id"`
	Theme      string        `json:"theme"`
	Background string        `json:"background,omitempty"`
	Current    bool          `json:"current"`
	Items      []itemSummary `json:"items"`
}

func summarizeItem(item domain.Item) itemSummary {
	pos, ext := item.Position(), item.Extent()
	sum := itemSummary{
		ID:     item.ItemID(),
		Type:   item.Type(),
		X:      pos.X,
		Y:      pos.Y,
		Width:  ext.Width,
		Height: ext.Height,
	}
	switch it := item.(type) {
	case *domain.Photo:
		adj := it.Adjustment
		sum.Source = previewSource(it.Src)
		sum.Adjust = &adj
		sum.Rotation = it.Rotation
	case *domain.Text:
		sum.Content = it.Content
	case *domain.Sticker:
		sum.Content = it.Emoji
	}
	return sum
}

func summarizePage(page domain.Page, index, current int) pageSummary {
	sum := pageSummary{
		Number:     index + 1,
		ID:         page.ID,
		Theme:      page.Theme,
		Background: page.Background,
		Current:    index == current,
		Items:      []itemSummary{},
	}
	for _, item := range page.Items() {
		sum.Items = append(sum.Items, summarizeItem(item))
	}
	return sum
}

// previewSource keeps a data URL's media type and reports its size.
func previewSource(src string) string {
	if !strings.HasPrefix(src, "data:") {
		return src
	}
	head, _, _ := strings.Cut(src, ",")
	return fmt.Sprintf("%s,… (%d bytes)", head, len(src))
}
