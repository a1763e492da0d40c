package ui

import "oledui/internal/store"

func (s *State) barrelOptions(id store.ID) int {
	n := 0
	for i := 0; i < s.count(); i++ {
		e := s.el(store.ID(i))
		if e.Parent == id && e.Type == store.TypeText {
			n++
		}
	}
	return n
}

func clampInt16(v int) int16 {
	return int16(max(min(v, 32767), -32768))
}

func (s *State) setValue(id store.ID, v int) {
	if int(id) >= s.count() {
		return
	}
	if b := s.arena.Barrel(id); b != nil {
		b.Value = clampInt16(v)
	}
}

func (s *State) setAux(id store.ID, aux uint8) {
	if int(id) >= s.count() {
		return
	}
	if b := s.arena.Barrel(id); b != nil {
		b.Aux = aux
	}
}

func (s *State) aux(id store.ID) uint8 {
	if b := s.arena.FindBarrel(id); b != nil {
		return b.Aux
	}
	return 0
}

// beginEdit enters edit mode and snapshots the current selection.
func (s *State) beginEdit(id store.ID) {
	if int(id) >= s.count() {
		return
	}
	snap := max(s.Value(id), 0)
	s.setAux(id, store.BarrelEditing|uint8(snap)&store.BarrelSnapMask)
	s.blink = blink{active: true, phase: true}
}

// cancelEdit restores the snapshot and leaves edit mode.
func (s *State) cancelEdit(id store.ID) {
	if int(id) >= s.count() {
		return
	}
	snap := s.aux(id) & store.BarrelSnapMask
	s.setValue(id, int(snap))
	s.setAux(id, snap)
	s.stopBlinkIfIdle()
}

// commitEdit keeps the current selection and leaves edit mode.
func (s *State) commitEdit(id store.ID) {
	if int(id) >= s.count() {
		return
	}
	cur := uint8(max(s.Value(id), 0)) & store.BarrelSnapMask
	s.setAux(id, cur)
	s.stopBlinkIfIdle()
}

func (s *State) anyEditing() bool {
	found := false
	s.arena.EachBarrel(func(id store.ID, b *store.BarrelState) {
		if b.Editing() && s.typeOf(id) == store.TypeBarrel {
			found = true
		}
	})
	return found
}

func (s *State) stopBlinkIfIdle() {
	if !s.blink.active || s.anyEditing() {
		return
	}
	s.blink = blink{phase: true}
}

// changeOption moves the selection over the barrel's Text children,
// wrapping at both ends.
func (s *State) changeOption(id store.ID, dir int) {
	n := s.barrelOptions(id)
	if n == 0 {
		return
	}
	idx := max(int(s.Value(id)), 0)
	if dir < 0 {
		if idx == 0 {
			idx = n - 1
		} else {
			idx--
		}
	} else {
		idx = (idx + 1) % n
	}
	s.setValue(id, idx)
}

// focusOwningList returns focus from a barrel to the list it sits in. With
// restoreRow the list cursor is moved to the barrel's row and the window
// scrolled so the row is visible.
func (s *State) focusOwningList(barrel store.ID, restoreRow bool) {
	list := s.OwningList(barrel)
	row := s.parentOf(barrel)
	if list == store.NoID {
		s.FocusFirstOnScreen(s.activeScreen)
		return
	}
	s.SetFocus(list)
	if s.focus != list {
		if s.focus == store.NoID {
			s.FocusFirstOnScreen(s.activeScreen)
		}
		return
	}
	if !restoreRow {
		return
	}
	l := s.arena.List(list)
	if l == nil {
		return
	}
	rows := s.RowCount(list)
	window := max(s.ListWindow(list, l), 1)
	if rows == 0 {
		l.Cursor, l.Top = 0, 0
		l.PendingCursor, l.PendingTop = 0, 0
	} else {
		target := s.RowOf(list, row)
		if target < 0 || target >= rows {
			target = rows - 1
		}
		l.Cursor = uint8(target)
		if int(l.Top) > target {
			l.Top = uint8(target)
		} else if target > int(l.Top)+window-1 {
			l.Top = uint8(max(target+1-window, 0))
		}
		l.PendingCursor = l.Cursor
		l.PendingTop = l.Top
	}
	stopListAnim(l)
}
