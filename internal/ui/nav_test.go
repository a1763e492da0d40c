package ui

import (
	"testing"

	"oledui/internal/store"
)

// menu is a screen with one list: a plain row, a row opening a sub-list and
// a row carrying an inline barrel with three options.
func menu(t *testing.T) *State {
	t.Helper()
	return build(t,
		`{"t":"h","n":12}`,
		`{"t":"s"}`,                        // 0
		`{"t":"l","p":0,"y":8}`,            // 1
		`{"t":"t","p":1,"tx":"Alpha"}`,     // 2
		`{"t":"t","p":1,"tx":"Beta"}`,      // 3
		`{"t":"l","p":1}`,                  // 4, sub-list of row 3
		`{"t":"t","p":4,"tx":"Sub A"}`,     // 5
		`{"t":"t","p":4,"tx":"Sub B"}`,     // 6
		`{"t":"t","p":1,"tx":"Mode"}`,      // 7
		`{"t":"b","p":7,"v":1}`,            // 8
		`{"t":"t","p":8,"tx":"Off"}`,       // 9
		`{"t":"t","p":8,"tx":"On"}`,        // 10
		`{"t":"t","p":8,"tx":"Auto"}`,      // 11
	)
}

func press(t *testing.T, s *State, bs ...Button) {
	t.Helper()
	for _, b := range bs {
		if err := s.Input(b, EventRelease); err != nil {
			t.Fatalf("Input(%v) err = %v", b, err)
		}
	}
}

func cursor(t *testing.T, s *State, list store.ID) (uint8, uint8) {
	t.Helper()
	l := s.Arena().FindList(list)
	if l == nil {
		t.Fatalf("no list record for %d", list)
	}
	return l.Cursor, l.Top
}

func TestFocusTraversal(t *testing.T) {
	s := build(t,
		`{"t":"h","n":5}`,
		`{"t":"s"}`,
		`{"t":"t","p":0,"tx":"Hi"}`,
		`{"t":"l","p":0,"y":8}`,
		`{"t":"b","p":0,"y":24}`,
		`{"t":"t","p":0,"y":40,"tx":"x"}`,
	)
	if s.Focus() != store.NoID {
		t.Fatalf("Focus() after commit = %d, want none", s.Focus())
	}
	for _, want := range []store.ID{2, 3, 2} {
		s.FocusNext()
		if got := s.Focus(); got != want {
			t.Fatalf("FocusNext() = %d, want %d", got, want)
		}
	}
	s.FocusPrev()
	if got := s.Focus(); got != 3 {
		t.Fatalf("FocusPrev() = %d, want 3", got)
	}
}

func TestFocusEmpty(t *testing.T) {
	s := build(t, `{"t":"h","n":2}`, `{"t":"s"}`, `{"t":"t","p":0,"tx":"x"}`)
	s.FocusNext()
	if s.Focus() != store.NoID {
		t.Fatalf("FocusNext() without focusables = %d", s.Focus())
	}
	s.SetFocus(1)
	if s.Focus() != store.NoID {
		t.Fatalf("SetFocus(text) = %d, want none", s.Focus())
	}
}

func TestSubListHidden(t *testing.T) {
	s := menu(t)
	if s.Visible(4) || s.Visible(5) {
		t.Fatalf("sub-list visible at depth 0")
	}
	if !s.Visible(1) || !s.Visible(8) {
		t.Fatalf("list or inline barrel hidden at depth 0")
	}
	if got := s.RowCount(1); got != 3 {
		t.Fatalf("RowCount(1) = %d, want 3", got)
	}
	if got := s.ItemCount(4); got != 2 {
		t.Fatalf("ItemCount(4) = %d, want 2", got)
	}
	if got := s.RowCount(4); got != 0 {
		t.Fatalf("RowCount(4) = %d at depth 0, want 0", got)
	}
}

func TestPushPopRestores(t *testing.T) {
	s := menu(t)
	press(t, s, ButtonOk, ButtonDown)
	if c, _ := cursor(t, s, 1); c != 1 || s.Focus() != 1 {
		t.Fatalf("cursor = %d focus = %d, want 1, 1", c, s.Focus())
	}

	press(t, s, ButtonOk)
	if s.Depth() != 1 || s.Focus() != 4 {
		t.Fatalf("after push depth = %d focus = %d, want 1, 4", s.Depth(), s.Focus())
	}
	if !s.Visible(5) || s.Visible(2) {
		t.Fatalf("visibility inside sub-list: 5=%v 2=%v", s.Visible(5), s.Visible(2))
	}
	press(t, s, ButtonDown)
	if c, _ := cursor(t, s, 4); c != 1 {
		t.Fatalf("sub-list cursor = %d, want 1", c)
	}

	press(t, s, ButtonBack)
	if s.Depth() != 0 || s.Focus() != 1 {
		t.Fatalf("after pop depth = %d focus = %d, want 0, 1", s.Depth(), s.Focus())
	}
	if c, top := cursor(t, s, 1); c != 1 || top != 0 {
		t.Fatalf("restored cursor = %d top = %d, want 1, 0", c, top)
	}

	// Reopening starts the child at the top again.
	press(t, s, ButtonOk)
	if c, _ := cursor(t, s, 4); c != 0 {
		t.Fatalf("reopened sub-list cursor = %d, want 0", c)
	}
}

func TestNavDepthBounded(t *testing.T) {
	s := menu(t)
	for i := 0; i < NavDepth; i++ {
		if !s.PushList(4, 1) {
			t.Fatalf("PushList() #%d = false", i)
		}
	}
	if s.PushList(4, 1) {
		t.Fatalf("PushList() past depth %d = true", NavDepth)
	}
	for i := 0; i < NavDepth; i++ {
		if !s.Pop() {
			t.Fatalf("Pop() #%d = false", i)
		}
	}
	if s.Pop() {
		t.Fatalf("Pop() on empty stack = true")
	}
}

func TestBarrelEditCancel(t *testing.T) {
	s := menu(t)
	press(t, s, ButtonOk, ButtonDown, ButtonDown, ButtonOk)
	if s.Focus() != 8 || !s.Editing(8) {
		t.Fatalf("focus = %d editing = %v, want barrel in edit", s.Focus(), s.Editing(8))
	}
	if !s.BlinkActive() {
		t.Fatalf("BlinkActive() = false while editing")
	}

	press(t, s, ButtonUp)
	if got := s.Value(8); got != 0 {
		t.Fatalf("Value() after Up = %d, want 0", got)
	}
	press(t, s, ButtonUp)
	if got := s.Value(8); got != 2 {
		t.Fatalf("Value() after wrap = %d, want 2", got)
	}

	press(t, s, ButtonBack)
	if got := s.Value(8); got != 1 {
		t.Fatalf("Value() after cancel = %d, want 1", got)
	}
	if s.Editing(8) || s.BlinkActive() {
		t.Fatalf("still editing after Back")
	}
	if s.Focus() != 1 {
		t.Fatalf("Focus() = %d, want list 1", s.Focus())
	}
	if c, _ := cursor(t, s, 1); c != 2 {
		t.Fatalf("cursor = %d, want barrel row 2", c)
	}
	if _, dirty := s.Dirty(); dirty {
		t.Fatalf("cancel marked the barrel dirty")
	}
}

func TestBarrelEditCommit(t *testing.T) {
	s := menu(t)
	press(t, s, ButtonOk, ButtonDown, ButtonDown, ButtonOk, ButtonDown, ButtonOk)
	if got := s.Value(8); got != 2 {
		t.Fatalf("Value() = %d, want 2", got)
	}
	if s.Editing(8) || s.Focus() != 1 {
		t.Fatalf("editing = %v focus = %d after commit", s.Editing(8), s.Focus())
	}
	if id, dirty := s.Dirty(); !dirty || id != 8 {
		t.Fatalf("Dirty() = %d, %v, want 8, true", id, dirty)
	}
	s.ClearDirty()
	if _, dirty := s.Dirty(); dirty {
		t.Fatalf("Dirty() after ClearDirty = true")
	}
}

func localScreenTree(t *testing.T) *State {
	t.Helper()
	return build(t,
		`{"t":"h","n":6}`,
		`{"t":"s"}`,
		`{"t":"l","p":0}`,
		`{"t":"t","p":1,"tx":"Net"}`,
		`{"t":"s","p":1}`,
		`{"t":"i","p":3}`,
		`{"t":"t","p":1,"tx":"Info"}`,
	)
}

func TestLocalScreenPushPop(t *testing.T) {
	s := localScreenTree(t)
	if s.Visible(4) {
		t.Fatalf("trigger on closed local screen is visible")
	}
	press(t, s, ButtonOk, ButtonOk)
	if s.ActiveLocalScreen() != 3 || s.Focus() != 4 {
		t.Fatalf("local screen = %d focus = %d, want 3, 4", s.ActiveLocalScreen(), s.Focus())
	}
	if s.Visible(5) {
		t.Fatalf("parent list row visible inside local screen")
	}

	press(t, s, ButtonOk)
	if v, ok := s.TriggerVersion(4); !ok || v != 1 {
		t.Fatalf("TriggerVersion(4) = %d, %v, want 1, true", v, ok)
	}
	if id, dirty := s.Dirty(); !dirty || id != 4 {
		t.Fatalf("Dirty() = %d, %v, want 4, true", id, dirty)
	}

	press(t, s, ButtonBack)
	if s.Depth() != 0 || s.Focus() != 1 {
		t.Fatalf("after Back depth = %d focus = %d, want 0, 1", s.Depth(), s.Focus())
	}
}

func TestPositionFollowsScroll(t *testing.T) {
	s := build(t,
		`{"t":"h","n":5}`,
		`{"t":"s"}`,
		`{"t":"t","p":0,"x":4,"y":8,"tx":"a"}`,
		`{"t":"s"}`,
		`{"t":"t","p":2,"x":4,"y":8,"tx":"b"}`,
		`{"t":"s","ov":1}`,
	)
	if x, y, ok := s.Position(3); !ok || x != 132 || y != 8 {
		t.Fatalf("Position(3) = %d, %d, %v, want 132, 8, true", x, y, ok)
	}
	if err := s.SetActiveScreen(1); err != nil {
		t.Fatalf("SetActiveScreen(1) err = %v", err)
	}
	if x, _, _ := s.Position(3); x != 4 {
		t.Fatalf("Position(3).x = %d, want 4", x)
	}
	if x, _, _ := s.Position(1); x != -124 {
		t.Fatalf("Position(1).x = %d, want -124", x)
	}
	if _, _, ok := s.Position(4); !ok {
		t.Fatalf("overlay screen has no position")
	}
}
