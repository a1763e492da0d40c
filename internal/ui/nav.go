package ui

import "oledui/internal/store"

// PushList opens target, a sub-list of returnList, as a new navigation
// level. The parent's cursor, window and focus are saved for Pop.
func (s *State) PushList(target, returnList store.ID) bool {
	if s.depth >= NavDepth {
		return false
	}
	parent := s.arena.List(returnList)
	child := s.arena.List(target)
	if parent == nil || child == nil {
		return false
	}
	s.nav[s.depth] = navEntry{
		kind:        navList,
		target:      target,
		returnList:  returnList,
		savedCursor: parent.Cursor,
		savedTop:    parent.Top,
		savedFocus:  s.focus,
		savedActive: s.activeScreen,
	}
	child.Cursor = 0
	child.Top = 0
	stopListAnim(child)
	s.depth++
	s.SetFocus(target)
	return true
}

// PushLocalScreen opens a row's local screen. Focus goes to its first
// focusable element, or stays on the parent list.
func (s *State) PushLocalScreen(screen, parentList store.ID) bool {
	if s.depth >= NavDepth {
		return false
	}
	parent := s.arena.List(parentList)
	if parent == nil {
		return false
	}
	s.nav[s.depth] = navEntry{
		kind:        navLocalScreen,
		target:      screen,
		returnList:  parentList,
		savedCursor: parent.Cursor,
		savedTop:    parent.Top,
		savedFocus:  s.focus,
		savedActive: s.activeScreen,
	}
	if ord, ok := s.OrdinalOf(screen); ok {
		s.activeScreen = ord
		s.scrollX = int16(ord) * ScreenWidth
	}
	s.depth++
	s.FocusFirstUnder(screen)
	if s.focus == store.NoID {
		s.SetFocus(parentList)
	}
	return true
}

// Pop closes the top navigation level and restores what it saved.
func (s *State) Pop() bool {
	if s.depth == 0 {
		return false
	}
	s.depth--
	e := s.nav[s.depth]
	if e.returnList != store.NoID {
		if l := s.arena.List(e.returnList); l != nil {
			l.Cursor = e.savedCursor
			l.Top = e.savedTop
			stopListAnim(l)
		}
	}
	if e.kind == navLocalScreen {
		s.activeScreen = e.savedActive
		s.scrollX = int16(s.activeScreen) * ScreenWidth
	}
	s.ClearFocus()
	s.SetFocus(e.savedFocus)
	if s.focus == store.NoID {
		s.SetFocus(e.returnList)
	}
	return true
}

// ActiveLocalScreen is the local screen at the top of the stack, if any.
func (s *State) ActiveLocalScreen() store.ID {
	if s.depth == 0 || s.nav[s.depth-1].kind != navLocalScreen {
		return store.NoID
	}
	return s.nav[s.depth-1].target
}

func stopListAnim(l *store.ListState) {
	l.AnimActive = false
	l.AnimPix = 0
	l.AnimDir = 0
}
