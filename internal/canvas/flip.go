package canvas

// flipState is the Idle/Flipping machine. The index changes only when the
// scheduled commit fires, so reads during a flip see the pre-flip page.
type flipState struct {
	active bool
	target int
	gen    uint64
	timer  Timer
}

// FlipStatus is a read-only view of the flip machine.
type FlipStatus struct {
	Flipping bool `json:"flipping"`
	Target   int  `json:"target"`
	Current  int  `json:"current"`
}

// FlipTo starts a transition to index. It is rejected while another flip is
// in progress, when index is out of range, or when index is already current.
// Starting a flip cancels any active drag session.
func (s *Store) FlipTo(index int) bool {
	s.dragMu.Lock()
	s.mu.Lock()
	if s.flip.active || !s.validIndex(index) || index == s.current {
		s.mu.Unlock()
		s.dragMu.Unlock()
		s.log.Debug().Int("target", index).Msg("flip rejected")
		return false
	}
	s.drag = nil
	s.flip.gen++
	gen := s.flip.gen
	s.flip.active = true
	s.flip.target = index
	// The commit takes mu, so it cannot observe the state before timer is set.
	s.flip.timer = s.clock.AfterFunc(s.flipDuration, func() { s.commitFlip(gen) })
	from := s.current
	s.mu.Unlock()
	s.dragMu.Unlock()

	s.notify(Change{Kind: ChangeFlipStarted, PageIndex: from})
	return true
}

// Next flips to the following page.
func (s *Store) Next() bool {
	return s.FlipTo(s.CurrentIndex() + 1)
}

// Prev flips to the preceding page.
func (s *Store) Prev() bool {
	return s.FlipTo(s.CurrentIndex() - 1)
}

func (s *Store) commitFlip(gen uint64) {
	s.mu.Lock()
	if !s.flip.active || s.flip.gen != gen {
		s.mu.Unlock()
		return
	}
	s.current = s.flip.target
	s.flip.active = false
	s.flip.timer = nil
	index := s.current
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeFlipCommitted, PageIndex: index})
}

// cancelFlip stops a pending commit. Caller holds mu.
func (s *Store) cancelFlip() {
	if !s.flip.active {
		return
	}
	if s.flip.timer != nil {
		s.flip.timer.Stop()
	}
	s.flip.active = false
	s.flip.timer = nil
	s.flip.gen++
}

func (s *Store) FlipStatus() FlipStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FlipStatus{Flipping: s.flip.active, Target: s.flip.target, Current: s.current}
}

// Flipping reports the pending target when a flip is in progress.
func (s *Store) Flipping() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flip.target, s.flip.active
}
