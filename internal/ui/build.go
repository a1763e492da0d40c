package ui

import (
	"oledui/internal/kv"
	"oledui/internal/ledcode"
	"oledui/internal/status"
	"oledui/internal/store"
)

const (
	maxTextLen  = 20
	maxListRows = 6
	maxTypeKey  = 15
)

// typeKey maps the "t" field to an element type. One-letter keys are
// current; the two-letter forms are still accepted.
func typeKey(k []byte) store.Type {
	switch string(k) {
	case "s":
		return store.TypeScreen
	case "t", "te":
		return store.TypeText
	case "l", "li":
		return store.TypeList
	case "b", "ba":
		return store.TypeBarrel
	case "i", "tr":
		return store.TypeTrigger
	default:
		return store.TypeNone
	}
}

// ApplyObject applies one element object from the provisioning stream.
//
// FlagReset clears everything before the object is read. FlagCommit
// finishes provisioning: the tree becomes initialized and a render is
// requested. A commit with no header seen fails with BadState unless the
// object itself already failed. A failing object leaves earlier elements
// untouched, so a host can keep streaming after an error.
func (s *State) ApplyObject(buf []byte, flags uint8) error {
	if flags&FlagReset != 0 {
		s.Reset()
	}
	var err error
	if len(buf) > 0 {
		err = s.applyObject(buf)
	}
	if flags&FlagCommit != 0 {
		if s.arena.Cap() == 0 {
			if err == nil {
				err = status.BadState
			}
			return err
		}
		s.initialized = true
		s.arena.Commit()
		s.RequestRender()
		s.post(ledcode.JSONCommit, 0)
	}
	return err
}

func (s *State) applyObject(buf []byte) error {
	obj, err := kv.Object(buf)
	if err != nil {
		return err
	}
	key, _ := kv.String(obj, "t", maxTypeKey)
	if string(key) == "h" {
		n, ok := kv.Int(obj, "n")
		if !ok || n <= 0 || n > store.MaxElements {
			return status.ParseFail
		}
		if err := s.arena.Reserve(n); err != nil {
			return err
		}
		s.headerSeen = true
		return nil
	}
	if s.arena.Cap() == 0 {
		return status.BadState
	}

	t := typeKey(key)
	if e, ok := kv.Int(obj, "e"); ok && e >= 0 && e < s.count() {
		s.update(store.ID(e), t, len(key) > 0, obj)
		return nil
	}
	if t == store.TypeNone {
		return nil
	}
	if s.initialized {
		return status.BadState
	}
	if s.count() >= s.arena.Cap() {
		return status.ParseFail
	}

	parent := store.NoID
	if p, ok := kv.Int(obj, "p"); ok && p >= 0 && p < s.count() {
		parent = store.ID(p)
	}
	x, _ := kv.Int(obj, "x")
	y, _ := kv.Int(obj, "y")
	c := create{parent: parent, x: clampByte(x), y: clampByte(y), obj: obj}

	switch t {
	case store.TypeScreen:
		return s.createScreen(c)
	case store.TypeList:
		return s.createList(c)
	case store.TypeText:
		return s.createText(c)
	case store.TypeBarrel:
		return s.createBarrel(c)
	case store.TypeTrigger:
		return s.createTrigger(c)
	}
	return nil
}

type create struct {
	parent store.ID
	x, y   uint8
	obj    []byte
}

func clampByte(v int) uint8 { return uint8(max(min(v, 255), 0)) }

// update changes an existing element in place. A type key that does not
// match the element is ignored, as are types without updatable fields.
func (s *State) update(id store.ID, t store.Type, typed bool, obj []byte) {
	cur := s.typeOf(id)
	if typed && t != cur {
		return
	}
	switch cur {
	case store.TypeText:
		if tx, ok := kv.String(obj, "tx", maxTextLen); ok {
			_ = s.arena.UpdateText(id, tx)
		}
	case store.TypeBarrel:
		if v, ok := kv.Int(obj, "v"); ok {
			s.setValue(id, v)
		}
	}
}

// rowOwner resolves the list row a nested Screen or List attaches to.
func (s *State) rowOwner(parent store.ID) store.ID {
	switch s.typeOf(parent) {
	case store.TypeText:
		return parent
	case store.TypeList:
		if l := s.arena.FindList(parent); l != nil {
			return l.LastTextChild
		}
	}
	return store.NoID
}

func (s *State) createScreen(c create) error {
	role := store.RoleNone
	if c.parent == store.NoID {
		if ov, ok := kv.Int(c.obj, "ov"); ok && ov > 0 {
			role = store.RoleOverlayFull
		}
		if role != store.RoleNone && s.arena.Free() < store.RoleCost {
			return status.NoSpace
		}
	}
	parent := c.parent
	if owner := s.rowOwner(c.parent); owner != store.NoID {
		parent = owner
	}
	id, err := s.arena.Add(parent, store.TypeScreen, c.x, c.y)
	if err != nil {
		return status.ParseFail
	}
	if c.parent != store.NoID {
		return nil
	}
	if role != store.RoleNone {
		return s.arena.SetScreenRole(id, role)
	}
	s.screenCount++
	if s.screenCount == 1 {
		s.activeScreen = 0
	}
	return nil
}

func (s *State) createList(c create) error {
	rows := defaultRows
	if r, ok := kv.Int(c.obj, "r"); ok {
		rows = max(min(r, maxListRows), 1)
	}
	if s.arena.Free() < store.NodeCost(store.TypeList) {
		return status.NoSpace
	}
	parent := c.parent
	if s.typeOf(parent) == store.TypeList {
		if owner := s.rowOwner(parent); owner != store.NoID {
			parent = owner
		}
	}
	id, err := s.arena.Add(parent, store.TypeList, c.x, c.y)
	if err != nil {
		return status.ParseFail
	}
	l := s.arena.List(id)
	l.VisibleRows = uint8(rows)
	l.LastTextChild = store.NoID
	return nil
}

func (s *State) createText(c create) error {
	tx, _ := kv.String(c.obj, "tx", maxTextLen)
	capacity, _ := kv.Int(c.obj, "c")
	capacity = max(min(capacity, maxTextLen), 0)
	if s.arena.Free() < store.TextCost(max(capacity, len(tx))+1) {
		return status.NoSpace
	}
	list := store.NoID
	y := c.y
	if s.typeOf(c.parent) == store.TypeList {
		list = c.parent
		y = clampByte(s.ItemCount(list) * PageHeight)
	}
	id, err := s.arena.Add(c.parent, store.TypeText, c.x, y)
	if err != nil {
		return status.ParseFail
	}
	if err := s.arena.AppendText(id, tx, capacity); err != nil {
		return err
	}
	if list != store.NoID {
		if l := s.arena.FindList(list); l != nil {
			l.LastTextChild = id
		}
	}
	return nil
}

func (s *State) createBarrel(c create) error {
	v, _ := kv.Int(c.obj, "v")
	if s.arena.Free() < store.NodeCost(store.TypeBarrel) {
		return status.NoSpace
	}
	id, err := s.arena.Add(c.parent, store.TypeBarrel, c.x, c.y)
	if err != nil {
		return status.ParseFail
	}
	b := s.arena.Barrel(id)
	b.Value = int16(max(min(v, 32767), 0))
	b.Aux = 0
	return nil
}

func (s *State) createTrigger(c create) error {
	if s.arena.Free() < store.NodeCost(store.TypeTrigger) {
		return status.ParseFail
	}
	id, err := s.arena.Add(c.parent, store.TypeTrigger, c.x, c.y)
	if err != nil {
		return status.ParseFail
	}
	s.arena.Trigger(id)
	return nil
}
