package domain

import "time"

// Page is one scrapbook page. IDs increase in creation order.
type Page struct {
	ID         int       `json:"id"`
	Theme      string    `json:"theme"`
	Background string    `json:"background,omitempty"`
	Photos     []Photo   `json:"photos"`
	Texts      []Text    `json:"texts"`
	Stickers   []Sticker `json:"stickers"`
}

// ItemCount returns the number of items across all three collections.
func (p *Page) ItemCount() int {
	return len(p.Photos) + len(p.Texts) + len(p.Stickers)
}

// Find returns the item with the given id and type, or nil.
func (p *Page) Find(id string, t ItemType) Item {
	switch t {
	case ItemTypePhoto:
		for i := range p.Photos {
			if p.Photos[i].ID == id {
				return &p.Photos[i]
			}
		}
	case ItemTypeText:
		for i := range p.Texts {
			if p.Texts[i].ID == id {
				return &p.Texts[i]
			}
		}
	case ItemTypeSticker:
		for i := range p.Stickers {
			if p.Stickers[i].ID == id {
				return &p.Stickers[i]
			}
		}
	}
	return nil
}

// Items returns pointers to every item on the page, photos first.
func (p *Page) Items() []Item {
	items := make([]Item, 0, p.ItemCount())
	for i := range p.Photos {
		items = append(items, &p.Photos[i])
	}
	for i := range p.Texts {
		items = append(items, &p.Texts[i])
	}
	for i := range p.Stickers {
		items = append(items, &p.Stickers[i])
	}
	return items
}

// Clone returns a deep copy that shares no slices with p.
func (p Page) Clone() Page {
	p.Photos = append(make([]Photo, 0, len(p.Photos)), p.Photos...)
	p.Texts = append(make([]Text, 0, len(p.Texts)), p.Texts...)
	p.Stickers = append(make([]Sticker, 0, len(p.Stickers)), p.Stickers...)
	return p
}

// Document is the plain, order-preserving snapshot of a scrapbook.
type Document struct {
	Pages        []Page `json:"pages"`
	CurrentIndex int    `json:"currentIndex"`
}

// Clone deep-copies every page.
func (d Document) Clone() Document {
	pages := make([]Page, len(d.Pages))
	for i, p := range d.Pages {
		pages[i] = p.Clone()
	}
	d.Pages = pages
	return d
}

// ItemCount sums items over all pages.
func (d Document) ItemCount() int {
	n := 0
	for i := range d.Pages {
		n += d.Pages[i].ItemCount()
	}
	return n
}

// ExportFile is the persisted JSON layout of a scrapbook.
type ExportFile struct {
	Title   string    `json:"title"`
	Created time.Time `json:"created"`
	Pages   []Page    `json:"pages"`
}
