package canvas

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"scrapbook/internal/domain"
)

const (
	DefaultFlipDuration = 300 * time.Millisecond
	DefaultTextColor    = "#374151"
	DefaultFontFamily   = "Dancing Script"

	placementMargin     = 10
	maxRotation         = 5
	templateFontSize    = 24
	templateStickerSize = 30
	// MaxTemplateStickers caps how many decorations a template places.
	MaxTemplateStickers = 3
)

type ChangeKind string

const (
	ChangeItemAdded       ChangeKind = "item-added"
	ChangeItemMoved       ChangeKind = "item-moved"
	ChangePhotoAdjusted   ChangeKind = "photo-adjusted"
	ChangePhotoReplaced   ChangeKind = "photo-replaced"
	ChangePageAdded       ChangeKind = "page-added"
	ChangeTemplateApplied ChangeKind = "template-applied"
	ChangeFlipStarted     ChangeKind = "flip-started"
	ChangeFlipCommitted   ChangeKind = "flip-committed"
	ChangeReconstrained   ChangeKind = "reconstrained"
	ChangeLoaded          ChangeKind = "loaded"
)

// Change describes a mutation so the renderer knows what to redraw.
type Change struct {
	Kind      ChangeKind `json:"kind"`
	PageIndex int        `json:"pageIndex"`
	ItemID    string     `json:"itemId,omitempty"`
}

// Options configures a Store. Zero values select the defaults.
type Options struct {
	Clock         Clock
	Rand          *rand.Rand
	NewID         func() string
	ViewportWidth float64
	FlipDuration  time.Duration
	DefaultTheme  string
	Logger        *zerolog.Logger
	// OnChange runs after every successful mutation, outside the store's locks.
	// Flip commits call it from the clock's goroutine.
	OnChange func(Change)
}

// Store is the single source of truth for a scrapbook document: its pages,
// the current page index, the flip state machine and the drag session.
//
// The document (pages, index, flip) and the drag session are guarded by
// separate locks. When both are needed dragMu is taken first.
type Store struct {
	clock        Clock
	newID        func() string
	flipDuration time.Duration
	defaultTheme string
	log          zerolog.Logger
	onChange     func(Change)

	mu         sync.Mutex
	rng        *rand.Rand
	pages      []domain.Page
	current    int
	nextPageID int
	viewport   Viewport
	pageExtent domain.Extent
	flip       flipState
	// edits counts document mutations; flips do not count.
	edits uint64

	dragMu sync.Mutex
	drag   *DragSession
}

// New creates a store holding one empty page.
func New(opts Options) *Store {
	s := &Store{
		clock:        opts.Clock,
		newID:        opts.NewID,
		flipDuration: opts.FlipDuration,
		defaultTheme: opts.DefaultTheme,
		onChange:     opts.OnChange,
		rng:          opts.Rand,
		viewport:     Viewport{Width: opts.ViewportWidth},
		nextPageID:   1,
	}
	if opts.Logger != nil {
		s.log = *opts.Logger
	} else {
		s.log = zerolog.Nop()
	}
	if s.clock == nil {
		s.clock = SystemClock
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	if s.flipDuration <= 0 {
		s.flipDuration = DefaultFlipDuration
	}
	if s.defaultTheme == "" {
		s.defaultTheme = domain.DefaultTheme
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5c7a9b00c))
	}
	s.pageExtent = s.viewport.PageExtent()
	s.pages = []domain.Page{s.newPage(s.defaultTheme)}
	return s
}

func (s *Store) newPage(theme string) domain.Page {
	p := domain.Page{
		ID:         s.nextPageID,
		Theme:      theme,
		Background: domain.ThemeBackground(theme),
		Photos:     []domain.Photo{},
		Texts:      []domain.Text{},
		Stickers:   []domain.Sticker{},
	}
	s.nextPageID++
	return p
}

func (s *Store) notify(c Change) {
	if s.onChange != nil {
		s.onChange(c)
	}
}

func (s *Store) validIndex(i int) bool {
	return i >= 0 && i < len(s.pages)
}

// randomIn picks a coordinate in [0, span], keeping a margin off both edges
// when the span allows it.
func (s *Store) randomIn(span float64) float64 {
	switch {
	case span <= 0:
		return 0
	case span > 2*placementMargin:
		return placementMargin + s.rng.Float64()*(span-2*placementMargin)
	}
	return s.rng.Float64() * span
}

func (s *Store) randomPosition(ext domain.Extent) domain.Point {
	pos := domain.Point{
		X: s.randomIn(s.pageExtent.Width - ext.Width),
		Y: s.randomIn(s.pageExtent.Height - ext.Height),
	}
	return domain.Clamp(pos, ext, s.pageExtent)
}

// AddPhoto places a photo with the viewport's default size at a random
// position on the page. It is a no-op when pageIndex is out of range.
func (s *Store) AddPhoto(pageIndex int, imageRef string) (domain.Photo, bool) {
	s.mu.Lock()
	if !s.validIndex(pageIndex) {
		s.mu.Unlock()
		s.log.Debug().Int("page", pageIndex).Msg("add photo: page out of range")
		return domain.Photo{}, false
	}
	ext := s.viewport.PhotoExtent()
	pos := s.randomPosition(ext)
	photo := domain.Photo{
		ID:         s.newID(),
		Src:        imageRef,
		X:          pos.X,
		Y:          pos.Y,
		Width:      ext.Width,
		Height:     ext.Height,
		Rotation:   (s.rng.Float64()*2 - 1) * maxRotation,
		Adjustment: domain.DefaultAdjustment(),
	}
	page := &s.pages[pageIndex]
	page.Photos = append(page.Photos, photo)
	s.edits++
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeItemAdded, PageIndex: pageIndex, ItemID: photo.ID})
	return photo, true
}

// AddText places a text label. Content is trimmed; blank content is a no-op.
func (s *Store) AddText(pageIndex int, content string) (domain.Text, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Text{}, false
	}
	s.mu.Lock()
	if !s.validIndex(pageIndex) {
		s.mu.Unlock()
		s.log.Debug().Int("page", pageIndex).Msg("add text: page out of range")
		return domain.Text{}, false
	}
	text := domain.Text{
		ID:         s.newID(),
		Content:    content,
		FontSize:   s.viewport.FontSize(),
		Color:      DefaultTextColor,
		FontFamily: DefaultFontFamily,
	}
	text.SetPosition(s.randomPosition(text.Extent()))
	page := &s.pages[pageIndex]
	page.Texts = append(page.Texts, text)
	s.edits++
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeItemAdded, PageIndex: pageIndex, ItemID: text.ID})
	return text, true
}

// AddSticker places an emoji sticker. A blank glyph is a no-op.
func (s *Store) AddSticker(pageIndex int, glyph string) (domain.Sticker, bool) {
	glyph = strings.TrimSpace(glyph)
	if glyph == "" {
		return domain.Sticker{}, false
	}
	s.mu.Lock()
	if !s.validIndex(pageIndex) {
		s.mu.Unlock()
		s.log.Debug().Int("page", pageIndex).Msg("add sticker: page out of range")
		return domain.Sticker{}, false
	}
	sticker := domain.Sticker{
		ID:    s.newID(),
		Emoji: glyph,
		Size:  s.viewport.StickerSize(),
	}
	sticker.SetPosition(s.randomPosition(sticker.Extent()))
	page := &s.pages[pageIndex]
	page.Stickers = append(page.Stickers, sticker)
	s.edits++
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeItemAdded, PageIndex: pageIndex, ItemID: sticker.ID})
	return sticker, true
}

// AddPage appends a page, pre-populated from the template when templateID is
// set, and returns its index. It never navigates. An unknown template is a
// no-op.
func (s *Store) AddPage(templateID string) (int, bool) {
	var tmpl domain.Template
	theme := s.defaultTheme
	if templateID != "" {
		var ok bool
		if tmpl, ok = domain.LookupTemplate(templateID); !ok {
			s.log.Debug().Str("template", templateID).Msg("add page: unknown template")
			return -1, false
		}
		theme = tmpl.ID
	}

	s.mu.Lock()
	s.pages = append(s.pages, s.newPage(theme))
	index := len(s.pages) - 1
	if templateID != "" {
		s.decorate(&s.pages[index], tmpl)
	}
	s.edits++
	s.mu.Unlock()

	s.notify(Change{Kind: ChangePageAdded, PageIndex: index})
	return index, true
}

// ApplyTemplate retags the page's theme and appends the template's text and
// decorations without clearing existing items.
func (s *Store) ApplyTemplate(pageIndex int, templateID string) bool {
	tmpl, ok := domain.LookupTemplate(templateID)
	if !ok {
		s.log.Debug().Str("template", templateID).Msg("apply template: unknown template")
		return false
	}
	s.mu.Lock()
	if !s.validIndex(pageIndex) {
		s.mu.Unlock()
		s.log.Debug().Int("page", pageIndex).Msg("apply template: page out of range")
		return false
	}
	page := &s.pages[pageIndex]
	page.Theme = tmpl.ID
	page.Background = tmpl.Background
	s.decorate(page, tmpl)
	s.edits++
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeTemplateApplied, PageIndex: pageIndex})
	return true
}

// decorate appends the template's default text and up to
// MaxTemplateStickers decorations. Caller holds mu.
func (s *Store) decorate(page *domain.Page, tmpl domain.Template) {
	if tmpl.Text != "" {
		text := domain.Text{
			ID:         s.newID(),
			Content:    tmpl.Text,
			FontSize:   templateFontSize,
			Color:      tmpl.TextColor,
			FontFamily: tmpl.FontFamily,
		}
		text.SetPosition(domain.Clamp(domain.Point{X: 100, Y: 50}, text.Extent(), s.pageExtent))
		page.Texts = append(page.Texts, text)
	}
	for i, emoji := range tmpl.Decorations {
		if i == MaxTemplateStickers {
			break
		}
		st := domain.Sticker{ID: s.newID(), Emoji: emoji, Size: templateStickerSize}
		pos := domain.Point{X: 100 + float64(i)*80, Y: 150 + float64(i)*30}
		st.SetPosition(domain.Clamp(pos, st.Extent(), s.pageExtent))
		page.Stickers = append(page.Stickers, st)
	}
}

// SetPhotoAdjustment replaces a photo's filter parameters, clamping each
// magnitude into its documented range. Photos on any page can be adjusted.
func (s *Store) SetPhotoAdjustment(photoID string, adj domain.Adjustment) bool {
	s.mu.Lock()
	for pi := range s.pages {
		if item := s.pages[pi].Find(photoID, domain.ItemTypePhoto); item != nil {
			item.(*domain.Photo).Adjustment = adj.Clamped()
			s.edits++
			s.mu.Unlock()
			s.notify(Change{Kind: ChangePhotoAdjusted, PageIndex: pi, ItemID: photoID})
			return true
		}
	}
	s.mu.Unlock()
	s.log.Debug().Str("photo", photoID).Msg("adjust photo: not found")
	return false
}

// Photo returns a copy of the photo with photoID and the index of the page
// holding it.
func (s *Store) Photo(photoID string) (domain.Photo, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for pi := range s.pages {
		if item := s.pages[pi].Find(photoID, domain.ItemTypePhoto); item != nil {
			return *item.(*domain.Photo), pi, true
		}
	}
	return domain.Photo{}, -1, false
}

// ReplacePhotoSource swaps a photo's image for src, which already has its
// adjustments baked in, so they are reset. The photo keeps its place and
// tilt on the page. It is a no-op when the photo is gone or its source is no
// longer oldSrc.
func (s *Store) ReplacePhotoSource(photoID, oldSrc, src string) bool {
	s.mu.Lock()
	for pi := range s.pages {
		item := s.pages[pi].Find(photoID, domain.ItemTypePhoto)
		if item == nil {
			continue
		}
		photo := item.(*domain.Photo)
		if photo.Src != oldSrc {
			s.mu.Unlock()
			s.log.Debug().Str("photo", photoID).Msg("replace photo: source changed")
			return false
		}
		photo.Src = src
		photo.Adjustment = domain.DefaultAdjustment()
		s.edits++
		s.mu.Unlock()
		s.notify(Change{Kind: ChangePhotoReplaced, PageIndex: pi, ItemID: photoID})
		return true
	}
	s.mu.Unlock()
	s.log.Debug().Str("photo", photoID).Msg("replace photo: not found")
	return false
}

// MoveItem writes an item's position directly, clamped into the page extent.
// It is the non-interactive counterpart of a drag and is refused while a flip
// is in progress.
func (s *Store) MoveItem(pageIndex int, itemID string, itemType domain.ItemType, pos domain.Point) (domain.Point, bool) {
	s.mu.Lock()
	if s.flip.active || !s.validIndex(pageIndex) {
		s.mu.Unlock()
		return domain.Point{}, false
	}
	item := s.pages[pageIndex].Find(itemID, itemType)
	if item == nil {
		s.mu.Unlock()
		s.log.Debug().Str("item", itemID).Int("page", pageIndex).Msg("move item: not found")
		return domain.Point{}, false
	}
	pos = domain.Clamp(pos, item.Extent(), s.pageExtent)
	item.SetPosition(pos)
	s.edits++
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeItemMoved, PageIndex: pageIndex, ItemID: itemID})
	return pos, true
}

// ReconstrainAll re-clamps every item on the current page into pageExtent,
// which also becomes the extent used for new placements. It returns how
// many items moved.
func (s *Store) ReconstrainAll(pageExtent domain.Extent) int {
	s.mu.Lock()
	s.pageExtent = pageExtent
	index := s.current
	moved := s.reconstrain(&s.pages[index])
	if moved > 0 {
		s.edits++
	}
	s.mu.Unlock()

	if moved > 0 {
		s.notify(Change{Kind: ChangeReconstrained, PageIndex: index})
	}
	return moved
}

func (s *Store) reconstrain(page *domain.Page) int {
	moved := 0
	for _, item := range page.Items() {
		pos := item.Position()
		if domain.Contains(pos, item.Extent(), s.pageExtent) {
			continue
		}
		item.SetPosition(domain.Clamp(pos, item.Extent(), s.pageExtent))
		moved++
	}
	return moved
}

// SetViewport records a new host width, derives the page extent from it and
// re-clamps the current page. Existing items keep their size.
func (s *Store) SetViewport(width float64) int {
	s.mu.Lock()
	s.viewport = Viewport{Width: width}
	ext := s.viewport.PageExtent()
	s.mu.Unlock()
	return s.ReconstrainAll(ext)
}

func (s *Store) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

func (s *Store) PageExtent() domain.Extent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageExtent
}

// CurrentIndex returns the committed page index. During a flip this is still
// the pre-flip page.
func (s *Store) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Store) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Page returns a copy of the page at index.
func (s *Store) Page(index int) (domain.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validIndex(index) {
		return domain.Page{}, false
	}
	return s.pages[index].Clone(), true
}

// Serialize returns a deep copy of the document that shares no state with
// the store.
func (s *Store) Serialize() domain.Document {
	doc, _ := s.Snapshot()
	return doc
}

// Snapshot is Serialize plus the edit count the copy reflects.
func (s *Store) Snapshot() (domain.Document, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Document{Pages: s.pages, CurrentIndex: s.current}.Clone(), s.edits
}

// Edits returns the number of document mutations so far.
func (s *Store) Edits() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edits
}

// Load replaces the document, cancelling any flip or drag in progress. Every
// page is re-clamped into the current page extent. An empty document loads
// as a single blank page. It returns the edit count after the load.
func (s *Store) Load(doc domain.Document) uint64 {
	edits, _ := s.load(doc, 0, false)
	return edits
}

// LoadIfUnchanged loads doc only when no edit happened since the store was
// at edit count since.
func (s *Store) LoadIfUnchanged(doc domain.Document, since uint64) (uint64, bool) {
	return s.load(doc, since, true)
}

func (s *Store) load(doc domain.Document, since uint64, guarded bool) (uint64, bool) {
	s.dragMu.Lock()
	s.mu.Lock()
	if guarded && s.edits != since {
		edits := s.edits
		s.mu.Unlock()
		s.dragMu.Unlock()
		return edits, false
	}
	s.drag = nil
	s.cancelFlip()
	doc = doc.Clone()
	s.pages = doc.Pages
	s.nextPageID = 1
	for i := range s.pages {
		p := &s.pages[i]
		if p.ID >= s.nextPageID {
			s.nextPageID = p.ID + 1
		}
		if p.Theme == "" {
			p.Theme = s.defaultTheme
		}
		if p.Background == "" {
			p.Background = domain.ThemeBackground(p.Theme)
		}
		for j := range p.Photos {
			p.Photos[j].Adjustment = p.Photos[j].Adjustment.Clamped()
		}
		s.reconstrain(p)
	}
	if len(s.pages) == 0 {
		s.pages = []domain.Page{s.newPage(s.defaultTheme)}
	}
	s.current = doc.CurrentIndex
	if !s.validIndex(s.current) {
		s.current = 0
	}
	index := s.current
	s.edits++
	edits := s.edits
	s.mu.Unlock()
	s.dragMu.Unlock()

	s.notify(Change{Kind: ChangeLoaded, PageIndex: index})
	return edits, true
}

// Close cancels a pending flip commit. The store stays usable.
func (s *Store) Close() {
	s.mu.Lock()
	s.cancelFlip()
	s.mu.Unlock()
}
