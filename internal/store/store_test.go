package store

import (
	"errors"
	"testing"

	"oledui/internal/status"

	"pgregory.net/rapid"
)

func TestReserve(t *testing.T) {
	var a Arena
	if err := a.Reserve(0); !errors.Is(err, status.Range) {
		t.Fatalf("Reserve(0) err = %v, want Range", err)
	}
	if err := a.Reserve(Capacity/elementBytes + 1); !errors.Is(err, status.NoSpace) && !errors.Is(err, status.Range) {
		t.Fatalf("Reserve(too many) err = %v, want NoSpace", err)
	}
	if err := a.Reserve(4); err != nil {
		t.Fatalf("Reserve(4) err = %v", err)
	}
	if err := a.Reserve(4); !errors.Is(err, status.BadState) {
		t.Fatalf("second Reserve() err = %v, want BadState", err)
	}
	if head, tail := a.Usage(); head != 16 || tail != 0 {
		t.Fatalf("Usage() = %d, %d, want 16, 0", head, tail)
	}
}

func TestReserveNoSpace(t *testing.T) {
	var a Arena
	// 193 elements need 772 bytes.
	if err := a.Reserve(193); !errors.Is(err, status.NoSpace) {
		t.Fatalf("Reserve(193) err = %v, want NoSpace", err)
	}
	if head, _ := a.Usage(); head != 0 {
		t.Fatalf("failed Reserve() moved head to %d", head)
	}
}

func TestAddElements(t *testing.T) {
	var a Arena
	if _, err := a.Add(NoID, TypeScreen, 0, 0); !errors.Is(err, status.BadState) {
		t.Fatalf("Add() before Reserve err = %v, want BadState", err)
	}
	_ = a.Reserve(2)
	s, _ := a.Add(NoID, TypeScreen, 0, 0)
	txt, _ := a.Add(s, TypeText, 3, 16)
	if _, err := a.Add(s, TypeText, 0, 0); !errors.Is(err, status.Range) {
		t.Fatalf("Add() past capacity err = %v, want Range", err)
	}
	el, ok := a.Element(txt)
	if !ok || el.Parent != s || el.Type != TypeText || el.X != 3 || el.Y != 16 {
		t.Fatalf("Element(%d) = %+v, %v", txt, el, ok)
	}
	if got := a.TypeOf(7); got != TypeNone {
		t.Fatalf("TypeOf(7) = %v, want none", got)
	}
	a.SetParent(txt, NoID)
	if got := a.ParentOf(txt); got != NoID {
		t.Fatalf("ParentOf() after SetParent = %d, want none", got)
	}
}

func TestText(t *testing.T) {
	var a Arena
	_ = a.Reserve(3)

	if err := a.AppendText(0, []byte("Hello"), 0); err != nil {
		t.Fatalf("AppendText() err = %v", err)
	}
	if err := a.AppendText(1, []byte("Hi"), 8); err != nil {
		t.Fatalf("AppendText() err = %v", err)
	}
	if err := a.AppendText(5, []byte("x"), 0); !errors.Is(err, status.Range) {
		t.Fatalf("AppendText(5) err = %v, want Range", err)
	}
	if got := a.TextAlloc(0); got != 6 {
		t.Fatalf("TextAlloc(0) = %d, want 6", got)
	}
	if got := a.TextAlloc(1); got != 9 {
		t.Fatalf("TextAlloc(1) = %d, want 9", got)
	}
	if head, _ := a.Usage(); head != 12+(3+6)+(3+9) {
		t.Fatalf("head = %d, want %d", head, 12+(3+6)+(3+9))
	}

	a.Commit()
	if err := a.AppendText(2, []byte("late"), 0); !errors.Is(err, status.BadState) {
		t.Fatalf("AppendText() after Commit err = %v, want BadState", err)
	}
	if err := a.UpdateText(0, []byte("Goodbye")); err != nil {
		t.Fatalf("UpdateText() err = %v", err)
	}
	if got, _ := a.Text(0); string(got) != "Goodb" {
		t.Fatalf("Text(0) = %q, want %q", got, "Goodb")
	}
	if err := a.UpdateText(1, []byte("ok")); err != nil {
		t.Fatalf("UpdateText() err = %v", err)
	}
	if got, _ := a.Text(1); string(got) != "ok" {
		t.Fatalf("Text(1) = %q, want %q", got, "ok")
	}
	if err := a.UpdateText(2, []byte("x")); !errors.Is(err, status.UnknownID) {
		t.Fatalf("UpdateText(2) err = %v, want UnknownID", err)
	}
}

func TestScreenRole(t *testing.T) {
	var a Arena
	_ = a.Reserve(2)
	if got := a.ScreenRole(0); got != RoleNone {
		t.Fatalf("ScreenRole(0) = %d, want none", got)
	}
	if err := a.SetScreenRole(1, RoleOverlayFull); err != nil {
		t.Fatalf("SetScreenRole() err = %v", err)
	}
	_ = a.AppendText(0, []byte("abc"), 0)
	if got := a.ScreenRole(1); got != RoleOverlayFull {
		t.Fatalf("ScreenRole(1) = %d, want overlay", got)
	}
	if got, _ := a.Text(0); string(got) != "abc" {
		t.Fatalf("Text(0) = %q after role entry", got)
	}
}

func TestNoSpaceLeavesUsage(t *testing.T) {
	var a Arena
	_ = a.Reserve(180) // 720 bytes of table
	for a.Free() >= TextCost(21) {
		if err := a.AppendText(0, []byte("01234567890123456789"), 0); err != nil {
			t.Fatalf("AppendText() err = %v", err)
		}
	}
	head, tail := a.Usage()
	if err := a.AppendText(1, []byte("01234567890123456789"), 0); !errors.Is(err, status.NoSpace) {
		t.Fatalf("AppendText() err = %v, want NoSpace", err)
	}
	if h, tl := a.Usage(); h != head || tl != tail {
		t.Fatalf("Usage() changed after NoSpace: %d,%d -> %d,%d", head, tail, h, tl)
	}
	if a.List(0) != nil {
		t.Fatalf("List() allocated past capacity")
	}
	if h, tl := a.Usage(); h != head || tl != tail {
		t.Fatalf("Usage() changed after failed alloc: %d,%d -> %d,%d", head, tail, h, tl)
	}
}

func TestRuntimeRecords(t *testing.T) {
	var a Arena
	_ = a.Reserve(4)

	l := a.List(1)
	if l == nil || l.VisibleRows != 4 || l.LastTextChild != NoID {
		t.Fatalf("List(1) defaults = %+v", l)
	}
	l.Cursor = 2
	if got := a.List(1); got != l || got.Cursor != 2 {
		t.Fatalf("List(1) is not stable")
	}
	if a.FindList(2) != nil {
		t.Fatalf("FindList(2) allocated")
	}
	b := a.Barrel(3)
	b.Value = 5
	b.Aux = BarrelEditing | 3
	if !a.FindBarrel(3).Editing() || a.FindBarrel(3).Snapshot() != 3 {
		t.Fatalf("barrel record = %+v", *a.FindBarrel(3))
	}
	a.Trigger(0).Version++
	if got := a.FindTrigger(0).Version; got != 1 {
		t.Fatalf("trigger version = %d, want 1", got)
	}
	if _, tail := a.Usage(); tail != listNodeBytes+barrelNodeBytes+triggerNodeBytes {
		t.Fatalf("tail = %d", tail)
	}
}

func TestArenaInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var a Arena
		n := rapid.IntRange(1, 120).Draw(t, "n")
		if err := a.Reserve(n); err != nil {
			t.Fatalf("Reserve(%d) err = %v", n, err)
		}
		steps := rapid.IntRange(0, 200).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			head, tail := a.Usage()
			id := ID(rapid.IntRange(0, n-1).Draw(t, "id"))
			var failed bool
			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0:
				text := rapid.SliceOfN(rapid.ByteRange('a', 'z'), 0, 20).Draw(t, "text")
				failed = a.AppendText(id, text, rapid.IntRange(0, 20).Draw(t, "cap")) != nil
			case 1:
				failed = a.SetScreenRole(id, RoleOverlayFull) != nil
			case 2:
				failed = a.List(id) == nil
			case 3:
				failed = a.Trigger(id) == nil
			case 4:
				failed = a.Barrel(id) == nil
			}
			h, tl := a.Usage()
			if h+tl > Capacity {
				t.Fatalf("head %d + tail %d > %d", h, tl, Capacity)
			}
			if failed && (h != head || tl != tail) {
				t.Fatalf("failed op moved usage %d,%d -> %d,%d", head, tail, h, tl)
			}
		}
	})
}
