package ui

import "oledui/internal/store"

// navContext is the element whose subtree is on screen: the active base
// screen at depth 0, else the target of the top navigation entry.
func (s *State) navContext() store.ID {
	if s.depth == 0 {
		return s.ScreenByOrdinal(s.activeScreen)
	}
	return s.nav[s.depth-1].target
}

func (s *State) navTargetActive(id store.ID) bool {
	if id == store.NoID {
		return false
	}
	for i := 0; i < s.depth; i++ {
		if s.nav[i].target == id {
			return true
		}
	}
	return false
}

// Visible reports whether id belongs to what is currently on screen.
//
// At depth 0 that is the active base screen plus, during a slide, the
// screen being left. Inside a navigation level it is the level's target.
// Local screens and sub-lists are hidden unless they are on the stack.
func (s *State) Visible(id store.ID) bool {
	if int(id) >= s.count() {
		return false
	}
	ctx := s.navContext()
	extra := store.NoID
	if s.depth == 0 && s.slide.Active {
		extra = s.ScreenByOrdinal(s.slide.From)
		if extra == ctx {
			extra = store.NoID
		}
	}
	if ctx == store.NoID && extra == store.NoID {
		return false
	}

	var visible bool
	if s.depth == 0 {
		visible = s.IsDescendant(id, ctx) || s.IsDescendant(id, extra)
	} else {
		visible = id == ctx || s.IsDescendant(id, ctx)
	}
	if !visible {
		return false
	}

	root := s.ScreenOf(id)
	if root == store.NoID {
		return false
	}
	if s.isLocalScreen(root) && !s.navTargetActive(root) {
		return false
	}

	// A List hanging off a row of another List is a sub-list.
	cur := id
	for range s.count() {
		if int(cur) >= s.count() {
			break
		}
		e := s.el(cur)
		if e.Type == store.TypeList && s.typeOf(e.Parent) == store.TypeText {
			owner := s.parentOf(e.Parent)
			if s.typeOf(owner) == store.TypeList && !s.navTargetActive(cur) {
				return false
			}
		}
		cur = e.Parent
	}
	return true
}

// Focusable reports whether id's type takes focus.
func (s *State) Focusable(id store.ID) bool {
	switch s.typeOf(id) {
	case store.TypeList, store.TypeNumberEdit, store.TypeTrigger, store.TypeBarrel:
		return true
	default:
		return false
	}
}

// SetFocus moves focus to id when it is visible and focusable; otherwise
// focus is left unchanged.
func (s *State) SetFocus(id store.ID) {
	if int(id) >= s.count() || !s.Visible(id) || !s.Focusable(id) {
		return
	}
	s.focus = id
}

func (s *State) ClearFocus() { s.focus = store.NoID }

// FocusNext moves to the next visible focusable element in id order,
// wrapping around. Focus is cleared when there is none.
func (s *State) FocusNext() {
	n := s.count()
	if n == 0 {
		s.ClearFocus()
		return
	}
	start := 0
	if s.focus != store.NoID {
		start = (int(s.focus) + 1) % n
	}
	for step := range n {
		c := store.ID((start + step) % n)
		if s.Visible(c) && s.Focusable(c) {
			s.SetFocus(c)
			return
		}
	}
	s.ClearFocus()
}

// FocusPrev is FocusNext in reverse.
func (s *State) FocusPrev() {
	n := s.count()
	if n == 0 {
		s.ClearFocus()
		return
	}
	start := n - 1
	if s.focus != store.NoID {
		start = int(s.focus) - 1
	}
	for range n {
		if start < 0 {
			start = n - 1
		}
		c := store.ID(start)
		if s.Visible(c) && s.Focusable(c) {
			s.SetFocus(c)
			return
		}
		start--
	}
	s.ClearFocus()
}

// FocusFirstOnScreen focuses the first focusable element of a base screen.
// It does nothing while a navigation level is open.
func (s *State) FocusFirstOnScreen(ord uint8) {
	if s.depth != 0 {
		return
	}
	screen := s.ScreenByOrdinal(ord)
	if screen == store.NoID {
		s.ClearFocus()
		return
	}
	s.FocusFirstUnder(screen)
}

// FocusFirstUnder focuses the first focusable element at or below owner.
func (s *State) FocusFirstUnder(owner store.ID) {
	for i := 0; i < s.count(); i++ {
		id := store.ID(i)
		if !s.Visible(id) || !s.IsDescendant(id, owner) {
			continue
		}
		if s.Focusable(id) {
			s.SetFocus(id)
			return
		}
	}
	s.ClearFocus()
}
