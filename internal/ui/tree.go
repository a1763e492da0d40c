package ui

import "oledui/internal/store"

// Parent walks are bounded by the element count so a corrupt parent link
// can never loop forever.

func (s *State) screenRole(id store.ID) uint8 {
	if s.typeOf(id) != store.TypeScreen {
		return store.RoleNone
	}
	return s.arena.ScreenRole(id)
}

// IsOverlayScreen reports whether id is a screen with the overlay role.
func (s *State) IsOverlayScreen(id store.ID) bool {
	return s.screenRole(id) == store.RoleOverlayFull
}

func (s *State) isBaseScreen(id store.ID) bool {
	e := s.el(id)
	return e.Type == store.TypeScreen && e.Parent == store.NoID && s.screenRole(id) == store.RoleNone
}

// ItemCount counts the Text children of list, visible or not.
func (s *State) ItemCount(list store.ID) int {
	n := 0
	for i := 0; i < s.count(); i++ {
		e := s.el(store.ID(i))
		if e.Parent == list && e.Type == store.TypeText {
			n++
		}
	}
	return n
}

// ItemAt returns the row-th Text child of list, ignoring visibility.
func (s *State) ItemAt(list store.ID, row int) store.ID {
	n := 0
	for i := 0; i < s.count(); i++ {
		e := s.el(store.ID(i))
		if e.Parent != list || e.Type != store.TypeText {
			continue
		}
		if n == row {
			return store.ID(i)
		}
		n++
	}
	return store.NoID
}

// RowCount counts the visible Text rows of list.
func (s *State) RowCount(list store.ID) int {
	n := 0
	for i := 0; i < s.count(); i++ {
		id := store.ID(i)
		e := s.el(id)
		if e.Parent == list && e.Type == store.TypeText && s.Visible(id) {
			n++
		}
	}
	return n
}

// RowAt returns the row-th visible Text row of list.
func (s *State) RowAt(list store.ID, row int) store.ID {
	n := 0
	for i := 0; i < s.count(); i++ {
		id := store.ID(i)
		e := s.el(id)
		if e.Parent != list || e.Type != store.TypeText || !s.Visible(id) {
			continue
		}
		if n == row {
			return id
		}
		n++
	}
	return store.NoID
}

// RowOf returns the visible row index of text within list, or -1.
func (s *State) RowOf(list, text store.ID) int {
	if int(list) >= s.count() || int(text) >= s.count() {
		return -1
	}
	n := 0
	for i := 0; i < s.count(); i++ {
		id := store.ID(i)
		e := s.el(id)
		if e.Parent != list || e.Type != store.TypeText || !s.Visible(id) {
			continue
		}
		if id == text {
			return n
		}
		n++
	}
	return -1
}

func (s *State) childOfType(parent store.ID, t store.Type) store.ID {
	for i := 0; i < s.count(); i++ {
		e := s.el(store.ID(i))
		if e.Parent == parent && e.Type == t {
			return store.ID(i)
		}
	}
	return store.NoID
}

// InlineBarrel returns the Barrel attached to a list row.
func (s *State) InlineBarrel(text store.ID) store.ID {
	return s.childOfType(text, store.TypeBarrel)
}

// NestedList returns the sub-list opened from a list row.
func (s *State) NestedList(text store.ID) store.ID {
	return s.childOfType(text, store.TypeList)
}

// LocalScreen returns the screen opened from a list row.
func (s *State) LocalScreen(text store.ID) store.ID {
	if int(text) >= s.count() {
		return store.NoID
	}
	return s.childOfType(text, store.TypeScreen)
}

// OwningList returns the nearest List strictly above id.
func (s *State) OwningList(id store.ID) store.ID {
	if int(id) >= s.count() {
		return store.NoID
	}
	cur := s.parentOf(id)
	for range s.count() {
		if int(cur) >= s.count() {
			break
		}
		if s.typeOf(cur) == store.TypeList {
			return cur
		}
		cur = s.parentOf(cur)
	}
	return store.NoID
}

// ScreenByOrdinal returns the ord-th base screen (root, no overlay role).
func (s *State) ScreenByOrdinal(ord uint8) store.ID {
	seen := uint8(0)
	for i := 0; i < s.count(); i++ {
		id := store.ID(i)
		if !s.isBaseScreen(id) {
			continue
		}
		if seen == ord {
			return id
		}
		seen++
	}
	return store.NoID
}

// OrdinalOf is the inverse of ScreenByOrdinal.
func (s *State) OrdinalOf(screen store.ID) (uint8, bool) {
	if int(screen) >= s.count() || !s.isBaseScreen(screen) {
		return 0, false
	}
	ord := uint8(0)
	for i := 0; i < s.count(); i++ {
		id := store.ID(i)
		if !s.isBaseScreen(id) {
			continue
		}
		if id == screen {
			return ord, true
		}
		ord++
	}
	return 0, false
}

// ScreenOf returns the nearest Screen at or above id.
func (s *State) ScreenOf(id store.ID) store.ID {
	cur := id
	for range s.count() {
		if int(cur) >= s.count() {
			break
		}
		if s.typeOf(cur) == store.TypeScreen {
			return cur
		}
		cur = s.parentOf(cur)
	}
	return store.NoID
}

// RootScreenOf returns the parentless Screen at or above id.
func (s *State) RootScreenOf(id store.ID) store.ID {
	cur := id
	for range s.count() {
		if int(cur) >= s.count() {
			break
		}
		e := s.el(cur)
		if e.Type == store.TypeScreen && e.Parent == store.NoID {
			return cur
		}
		cur = e.Parent
	}
	return store.NoID
}

// IsDescendant reports whether ancestor is id or above it.
func (s *State) IsDescendant(id, ancestor store.ID) bool {
	if ancestor == store.NoID {
		return false
	}
	cur := id
	for range s.count() {
		if int(cur) >= s.count() {
			break
		}
		if cur == ancestor {
			return true
		}
		cur = s.parentOf(cur)
	}
	return false
}

func (s *State) isLocalScreen(id store.ID) bool {
	e := s.el(id)
	if e.Type != store.TypeScreen || int(e.Parent) >= s.count() {
		return false
	}
	return s.typeOf(e.Parent) == store.TypeText
}

// ActiveScreenID is the element id of the active base screen.
func (s *State) ActiveScreenID() store.ID { return s.ScreenByOrdinal(s.activeScreen) }
