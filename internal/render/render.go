package render

import (
	"strconv"

	"oledui/internal/font5x8"
	"oledui/internal/store"
	"oledui/internal/ui"
)

// cull bounds the horizontal positions worth drawing; content up to one
// screen off either edge is still walked so slides enter smoothly.
const cull = 143

// minTextHighlight is the narrowest inclusive highlight for a focused Text.
const minTextHighlight = 18

// Renderer draws a ui.State one page at a time.
type Renderer struct {
	ui *ui.State
}

func New(s *ui.State) *Renderer { return &Renderer{ui: s} }

// DrawTile renders page into buf, which the caller has cleared. It matches
// the pipeline's per-page callback.
func (r *Renderer) DrawTile(page uint8, buf []byte) {
	t := NewTile(page, buf)
	s := r.ui
	if o := s.Overlay(); o.Active() && s.IsOverlayScreen(o.Screen) {
		r.drawOverlay(t, o.Screen)
		return
	}

	a := s.Arena()
	active := s.ActiveScreenID()
	for i := 0; i < s.ElementCount(); i++ {
		id := store.ID(i)
		if !s.Visible(id) {
			continue
		}
		e, _ := a.Element(id)
		if e.Parent != store.NoID {
			pt := a.TypeOf(e.Parent)
			if pt == store.TypeList && e.Type == store.TypeText || pt == store.TypeBarrel {
				continue
			}
		}
		owner := s.RootScreenOf(id)
		if owner == store.NoID || owner == id || a.ScreenRole(owner) != store.RoleNone {
			continue
		}
		x, y, ok := s.Position(id)
		if !ok || x < -cull || x > cull {
			continue
		}
		onActive := owner == active && !s.Slide().Active
		switch e.Type {
		case store.TypeText:
			r.drawText(t, id, x, y, onActive)
		case store.TypeList:
			r.drawList(t, id, x, y, onActive)
		case store.TypeBarrel:
			r.drawBarrel(t, id, x, y, onActive)
		}
	}
}

func (r *Renderer) drawOverlay(t *Tile, overlay store.ID) {
	s := r.ui
	a := s.Arena()
	for i := 0; i < s.ElementCount(); i++ {
		id := store.ID(i)
		e, _ := a.Element(id)
		if e.Type != store.TypeText || s.ScreenOf(e.Parent) != overlay {
			continue
		}
		x, y, ok := s.Position(id)
		if !ok {
			continue
		}
		txt, _ := a.Text(id)
		t.Text(x, y, txt, t.top(), t.bottom())
	}
}

func clampX(x int16) uint8 { return uint8(min(max(x, 0), 255)) }

func (r *Renderer) drawText(t *Tile, id store.ID, x, y int16, onActive bool) {
	txt, _ := r.ui.Arena().Text(id)
	t.Text(x, y, txt, t.top(), t.bottom())
	if id != r.ui.Focus() || !onActive {
		return
	}
	w := max(highlightWidth(len(txt)), minTextHighlight)
	t.InvertRow(clampX(x), w, y, y, y+7)
}

func (r *Renderer) drawList(t *Tile, id store.ID, x, y int16, onActive bool) {
	s := r.ui
	l := s.Arena().FindList(id)
	if l == nil {
		return
	}
	baseY := max(y, 0)
	window := s.ListRows(l)
	var dir, pix int
	if l.AnimActive {
		dir, pix = int(l.AnimDir), int(l.AnimPix)
	}
	top := int(l.Top)
	vpTop := baseY
	vpBottom := baseY + int16(window*PageHeight) - 1
	items := s.ItemCount(id)

	first, last := top, top+window-1
	if dir < 0 && top > 0 {
		first = top - 1
	}
	if dir > 0 && top+window < items {
		last = top + window
	}
	marker := onActive && s.Focus() == id
	for row := first; row <= last && row < items; row++ {
		var py int
		switch {
		case dir == 0:
			py = int(baseY) + (row-top)*PageHeight
		case dir > 0:
			py = int(baseY) + (row-top)*PageHeight - pix
		case row == top-1:
			py = int(baseY) - PageHeight + pix
		default:
			py = int(baseY) + (row-top)*PageHeight + pix
		}
		rowY := int16(py)
		if !t.rowVisible(rowY, vpTop, vpBottom) {
			continue
		}
		item := s.ItemAt(id, row)
		if item == store.NoID {
			continue
		}
		ie, _ := s.Arena().Element(item)
		ix := x + int16(ie.X)
		if ix < -cull || ix > cull {
			continue
		}
		txt, _ := s.Arena().Text(item)
		t.Text(ix, rowY, txt, vpTop, vpBottom)

		selected := row == int(l.Cursor) || l.AnimActive && row == int(l.PendingCursor)
		if selected && marker {
			t.Text(ix-font5x8.Advance, rowY, cursorMarker, vpTop, vpBottom)
		}
	}
}

var cursorMarker = []byte(">")

// inlineSelected reports whether barrel sits on the cursor row of a focused,
// settled list.
func (r *Renderer) inlineSelected(barrel store.ID, onActive bool) bool {
	s := r.ui
	a := s.Arena()
	row := a.ParentOf(barrel)
	if a.TypeOf(row) != store.TypeText {
		return false
	}
	list := a.ParentOf(row)
	if a.TypeOf(list) != store.TypeList || list != s.Focus() || !onActive {
		return false
	}
	l := a.FindList(list)
	if l == nil || l.AnimActive {
		return false
	}
	for i := range s.ItemCount(list) {
		if s.ItemAt(list, i) == row {
			return i == int(l.Cursor)
		}
	}
	return false
}

func (r *Renderer) drawBarrel(t *Tile, id store.ID, x, y int16, onActive bool) {
	s := r.ui
	sel := max(int(s.Value(id)), 0)
	rowTop := max(y, 0)

	var label []byte
	n := 0
	for i := 0; i < s.ElementCount(); i++ {
		c := store.ID(i)
		if e, _ := s.Arena().Element(c); e.Parent != id || e.Type != store.TypeText {
			continue
		}
		if n == sel {
			label, _ = s.Arena().Text(c)
			t.Text(x, y, label, rowTop, rowTop+7)
			break
		}
		n++
	}
	if label == nil {
		var buf [6]byte
		label = append(buf[:0], '[')
		label = strconv.AppendInt(label, int64(sel%100), 10)
		label = append(label, ']')
		t.Text(int16(clampX(x)), y, label, rowTop, rowTop+7)
	}

	editing := s.Editing(id)
	invert := false
	if id == s.Focus() && onActive {
		invert = !editing || s.BlinkVisible()
	} else if r.inlineSelected(id, onActive) {
		invert = true
	}
	if invert {
		t.InvertRow(clampX(x), highlightWidth(len(label)), y, rowTop, rowTop+7)
	}
}
