package ui

import (
	"oledui/internal/status"
	"oledui/internal/store"
)

type focusKind uint8

const (
	focusNone focusKind = iota
	focusList
	focusBarrel
	focusTrigger
	focusOther
)

type inputCtx struct {
	focused   store.ID
	kind      focusKind
	editing   bool
	navKind   navKind
	nested    bool
	navTarget store.ID
}

func (s *State) inputContext() inputCtx {
	c := inputCtx{focused: s.focus, navTarget: store.NoID}
	switch {
	case int(s.focus) >= s.count():
		c.kind = focusNone
	case s.typeOf(s.focus) == store.TypeList:
		c.kind = focusList
	case s.typeOf(s.focus) == store.TypeBarrel:
		c.kind = focusBarrel
		c.editing = s.Editing(s.focus)
	case s.typeOf(s.focus) == store.TypeTrigger:
		c.kind = focusTrigger
	default:
		c.kind = focusOther
	}
	if s.depth > 0 {
		top := s.nav[s.depth-1]
		c.nested = true
		c.navKind = top.kind
		c.navTarget = top.target
	}
	return c
}

// Input applies one button event. Press events are accepted and ignored;
// a release is acted on and always requests a render. While an overlay
// that masks input is shown, only Ok gets through.
func (s *State) Input(b Button, event uint8) error {
	if b >= ButtonCount {
		return status.Range
	}
	if s.overlay.Active() && s.overlay.MaskInput && b != ButtonOk {
		return nil
	}
	if event == EventRelease {
		s.release(b)
		s.RequestRender()
	}
	return nil
}

func (s *State) release(b Button) {
	if s.slide.Active {
		return
	}
	if b == ButtonUp && s.OnUp != nil {
		s.OnUp()
	}
	if b == ButtonLeft || b == ButtonRight {
		s.slideScreen(b)
		return
	}
	c := s.inputContext()
	switch b {
	case ButtonUp:
		s.upDown(c, -1)
	case ButtonDown:
		s.upDown(c, +1)
	case ButtonOk:
		s.ok(c)
	case ButtonBack:
		s.back(c)
	}
}

// slideScreen starts a slide to the neighbouring base screen. The active
// ordinal switches immediately; the slide only moves pixels.
func (s *State) slideScreen(b Button) {
	if s.depth != 0 {
		return
	}
	var target uint8
	var dir int8
	switch b {
	case ButtonLeft:
		if s.activeScreen == 0 {
			return
		}
		target, dir = s.activeScreen-1, -1
	case ButtonRight:
		if int(s.activeScreen)+1 >= int(s.screenCount) {
			return
		}
		target, dir = s.activeScreen+1, +1
	default:
		return
	}
	s.slide = Slide{Active: true, From: s.activeScreen, To: target, Dir: dir}
	s.scrollX = int16(s.activeScreen) * ScreenWidth
	s.activeScreen = target
	s.ClearFocus()
}

func (s *State) upDown(c inputCtx, dir int) {
	switch {
	case c.kind == focusList:
		s.moveCursor(c.focused, dir)
	case c.kind == focusBarrel && c.editing:
		s.changeOption(c.focused, dir)
	case dir < 0:
		s.FocusPrev()
	default:
		s.FocusNext()
	}
}

// moveCursor steps a list cursor. Crossing the window edge starts a
// one-row scroll animation; the cursor and window move when it finishes.
func (s *State) moveCursor(list store.ID, dir int) {
	l := s.arena.List(list)
	if l == nil {
		return
	}
	rows := s.RowCount(list)
	if rows == 0 {
		l.Cursor, l.Top = 0, 0
		return
	}
	if int(l.Cursor) >= rows {
		l.Cursor = uint8(rows - 1)
	}
	if l.AnimActive {
		return
	}
	window := max(s.ListWindow(list, l), 1)
	if dir < 0 {
		if l.Cursor == 0 {
			return
		}
		next := l.Cursor - 1
		if next < l.Top {
			l.AnimActive = true
			l.AnimDir = -1
			l.AnimPix = 0
			l.PendingCursor = next
			l.PendingTop = l.Top - 1
			return
		}
		l.Cursor = next
		return
	}
	if int(l.Cursor)+1 >= rows {
		return
	}
	next := l.Cursor + 1
	if int(next) >= int(l.Top)+window {
		l.AnimActive = true
		l.AnimDir = +1
		l.AnimPix = 0
		l.PendingCursor = next
		l.PendingTop = l.Top + 1
		return
	}
	l.Cursor = next
}

type rowAction uint8

const (
	rowNone rowAction = iota
	rowInlineBarrel
	rowNestedList
	rowLocalScreen
)

func (s *State) selectedRow(list store.ID) store.ID {
	l := s.arena.List(list)
	if l == nil {
		return store.NoID
	}
	rows := s.RowCount(list)
	if rows == 0 {
		l.Cursor, l.Top = 0, 0
		return store.NoID
	}
	if int(l.Cursor) >= rows {
		l.Cursor = uint8(rows - 1)
	}
	return s.RowAt(list, int(l.Cursor))
}

func (s *State) rowAction(list store.ID) (rowAction, store.ID) {
	text := s.selectedRow(list)
	if text == store.NoID {
		return rowNone, store.NoID
	}
	if b := s.InlineBarrel(text); b != store.NoID {
		return rowInlineBarrel, b
	}
	if l := s.NestedList(text); l != store.NoID {
		return rowNestedList, l
	}
	if sc := s.LocalScreen(text); sc != store.NoID {
		return rowLocalScreen, sc
	}
	return rowNone, store.NoID
}

func (s *State) ok(c inputCtx) {
	switch c.kind {
	case focusNone:
		s.FocusNext()
	case focusTrigger:
		if t := s.arena.Trigger(c.focused); t != nil {
			t.Version++
			s.markChanged(c.focused)
		}
	case focusBarrel:
		s.toggleEdit(c.focused, c.editing)
	case focusList:
		switch action, target := s.rowAction(c.focused); action {
		case rowInlineBarrel:
			s.SetFocus(target)
			s.toggleEdit(target, s.Editing(target))
		case rowNestedList:
			s.PushList(target, c.focused)
		case rowLocalScreen:
			s.PushLocalScreen(target, c.focused)
		}
	}
}

func (s *State) toggleEdit(id store.ID, editing bool) {
	if !editing {
		s.beginEdit(id)
		return
	}
	s.commitEdit(id)
	s.markChanged(id)
	s.focusOwningList(id, false)
}

func (s *State) back(c inputCtx) {
	switch c.kind {
	case focusBarrel:
		if c.editing {
			s.cancelEdit(c.focused)
		}
		s.focusOwningList(c.focused, true)
		return
	case focusList:
		if c.nested && c.navKind == navList && c.navTarget == c.focused {
			if !s.Pop() {
				s.ClearFocus()
			}
		}
		return
	case focusTrigger, focusOther:
		if list := s.OwningList(c.focused); list != store.NoID {
			s.SetFocus(list)
			if s.focus == list {
				return
			}
		}
	}
	if c.nested {
		if !s.Pop() {
			s.ClearFocus()
		}
		return
	}
	if c.focused != store.NoID {
		return
	}
	s.FocusFirstOnScreen(s.activeScreen)
}
