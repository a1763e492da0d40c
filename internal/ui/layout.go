package ui

import "oledui/internal/store"

const defaultRows = 4

// MaxRows is the largest list window the display height allows.
func (s *State) MaxRows() int {
	if s.height >= 64 {
		return 8
	}
	return 6
}

// ListRows is the list's requested window clamped to the display.
func (s *State) ListRows(l *store.ListState) int {
	rows := defaultRows
	if l != nil && l.VisibleRows != 0 {
		rows = int(l.VisibleRows)
	}
	return min(rows, s.MaxRows())
}

// ListWindow is the number of rows a list shows: its requested window,
// limited to the rows that fit between its top edge and the bottom of the
// display. Never less than one.
func (s *State) ListWindow(list store.ID, l *store.ListState) int {
	rows := s.ListRows(l)
	e, ok := s.arena.Element(list)
	if !ok {
		return rows
	}
	h := int(s.height)
	if h <= int(e.Y) {
		return 1
	}
	avail := max((h-int(e.Y))/PageHeight, 1)
	return min(rows, avail)
}

// Position returns id's on-screen origin. Elements on a base screen are
// offset by the screen's ordinal, the horizontal scroll and any running
// slide; overlay content stays fixed. ok is false for elements that do not
// sit under a root screen.
func (s *State) Position(id store.ID) (x, y int16, ok bool) {
	e, found := s.arena.Element(id)
	if !found {
		return 0, 0, false
	}
	root := s.RootScreenOf(id)
	if root == store.NoID {
		return 0, 0, false
	}
	x, y = int16(e.X), int16(e.Y)
	if s.screenRole(root) != store.RoleNone {
		return x, y, true
	}
	ord, ok := s.OrdinalOf(root)
	if !ok {
		return 0, 0, false
	}
	x += int16(ord)*ScreenWidth - s.scrollX
	if s.slide.Active && (ord == s.slide.From || ord == s.slide.To) {
		x -= int16(s.slide.Dir) * s.slide.Offset
	}
	return x, y, true
}
