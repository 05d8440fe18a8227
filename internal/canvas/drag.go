package canvas

import "scrapbook/internal/domain"

// DragSession tracks one in-progress reposition. Offset is the pointer
// position relative to the item's origin at drag start.
type DragSession struct {
	ItemID    string          `json:"itemId"`
	ItemType  domain.ItemType `json:"itemType"`
	PageIndex int             `json:"pageIndex"`
	Offset    domain.Point    `json:"offset"`
}

// BeginDrag starts a session for an item on the current page, replacing any
// stale session. It fails when the item is not on the current page or a flip
// is in progress.
func (s *Store) BeginDrag(itemID string, itemType domain.ItemType, pointer, itemOrigin domain.Point) (DragSession, bool) {
	s.dragMu.Lock()
	defer s.dragMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.flip.active {
		return DragSession{}, false
	}
	if s.pages[s.current].Find(itemID, itemType) == nil {
		s.log.Debug().Str("item", itemID).Str("type", string(itemType)).Msg("begin drag: item not on current page")
		return DragSession{}, false
	}
	sess := DragSession{
		ItemID:    itemID,
		ItemType:  itemType,
		PageIndex: s.current,
		Offset:    pointer.Sub(itemOrigin),
	}
	s.drag = &sess
	return sess, true
}

// UpdateDrag moves the dragged item to pointer - pageOrigin - offset,
// clamped so its full extent stays inside pageExtent, and returns the
// written position. Without an active session it is a no-op.
func (s *Store) UpdateDrag(pointer, pageOrigin domain.Point, pageExtent domain.Extent) (domain.Point, bool) {
	s.dragMu.Lock()
	if s.drag == nil {
		s.dragMu.Unlock()
		return domain.Point{}, false
	}
	sess := *s.drag

	s.mu.Lock()
	var item domain.Item
	if !s.flip.active && sess.PageIndex == s.current {
		item = s.pages[s.current].Find(sess.ItemID, sess.ItemType)
	}
	if item == nil {
		s.mu.Unlock()
		s.dragMu.Unlock()
		return domain.Point{}, false
	}
	candidate := pointer.Sub(pageOrigin).Sub(sess.Offset)
	pos := domain.Clamp(candidate, item.Extent(), pageExtent)
	item.SetPosition(pos)
	s.edits++
	s.mu.Unlock()
	s.dragMu.Unlock()

	s.notify(Change{Kind: ChangeItemMoved, PageIndex: sess.PageIndex, ItemID: sess.ItemID})
	return pos, true
}

// EndDrag clears the session. Calling it without one is fine.
func (s *Store) EndDrag() {
	s.dragMu.Lock()
	s.drag = nil
	s.dragMu.Unlock()
}

// ActiveDrag returns the current session, if any.
func (s *Store) ActiveDrag() (DragSession, bool) {
	s.dragMu.Lock()
	defer s.dragMu.Unlock()
	if s.drag == nil {
		return DragSession{}, false
	}
	return *s.drag, true
}
