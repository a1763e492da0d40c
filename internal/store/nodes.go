package store

// ListState is the runtime record of a List element.
type ListState struct {
	Cursor        uint8
	Top           uint8
	VisibleRows   uint8
	AnimActive    bool
	AnimDir       int8
	AnimPix       uint8
	PendingCursor uint8
	PendingTop    uint8
	LastTextChild ID
}

// TriggerState is the runtime record of a Trigger element.
type TriggerState struct {
	Version uint8
}

// BarrelState is the runtime record of a Barrel element. Aux bit 7 marks
// edit mode; bits 0..6 hold the value snapshot taken on entering it.
type BarrelState struct {
	Value int16
	Aux   uint8
}

const (
	BarrelEditing  uint8 = 0x80
	BarrelSnapMask uint8 = 0x7F
)

// Editing reports whether the barrel is in edit mode.
func (b *BarrelState) Editing() bool { return b.Aux&BarrelEditing != 0 }

// Snapshot is the value saved on entering edit mode.
func (b *BarrelState) Snapshot() int16 { return int16(b.Aux & BarrelSnapMask) }

const defaultVisibleRows = 4

func defaultList() ListState {
	return ListState{VisibleRows: defaultVisibleRows, LastTextChild: NoID}
}

// maxNodes bounds every slab by the smallest record size.
const maxNodes = Capacity / triggerNodeBytes

// slab is an index-addressed store of records keyed by element id.
// Slots are never freed; their lifetime is the tree's.
type slab[T any] struct {
	n   int
	ids [maxNodes]ID
	v   [maxNodes]T
}

func (s *slab[T]) find(id ID) *T {
	for i := 0; i < s.n; i++ {
		if s.ids[i] == id {
			return &s.v[i]
		}
	}
	return nil
}

func (s *slab[T]) add(id ID, init T) *T {
	if s.n >= maxNodes {
		return nil
	}
	i := s.n
	s.n++
	s.ids[i] = id
	s.v[i] = init
	return &s.v[i]
}

// each visits records in allocation order.
func (s *slab[T]) each(fn func(id ID, v *T)) {
	for i := 0; i < s.n; i++ {
		fn(s.ids[i], &s.v[i])
	}
}

func (a *Arena) grow(size int) bool {
	if a.head+a.tail+size > Capacity {
		return false
	}
	a.tail += size
	a.check()
	return true
}

// List returns id's list record, allocating it on first use. It returns nil
// when the tail region cannot grow.
func (a *Arena) List(id ID) *ListState {
	if l := a.lists.find(id); l != nil {
		return l
	}
	if !a.grow(listNodeBytes) {
		return nil
	}
	return a.lists.add(id, defaultList())
}

// FindList returns id's list record without allocating.
func (a *Arena) FindList(id ID) *ListState { return a.lists.find(id) }

// EachList visits every allocated list record.
func (a *Arena) EachList(fn func(id ID, l *ListState)) { a.lists.each(fn) }

// Trigger returns id's trigger record, allocating it on first use.
func (a *Arena) Trigger(id ID) *TriggerState {
	if t := a.triggers.find(id); t != nil {
		return t
	}
	if !a.grow(triggerNodeBytes) {
		return nil
	}
	return a.triggers.add(id, TriggerState{})
}

// FindTrigger returns id's trigger record without allocating.
func (a *Arena) FindTrigger(id ID) *TriggerState { return a.triggers.find(id) }

// Barrel returns id's barrel record, allocating it on first use.
func (a *Arena) Barrel(id ID) *BarrelState {
	if b := a.barrels.find(id); b != nil {
		return b
	}
	if !a.grow(barrelNodeBytes) {
		return nil
	}
	return a.barrels.add(id, BarrelState{})
}

// FindBarrel returns id's barrel record without allocating.
func (a *Arena) FindBarrel(id ID) *BarrelState { return a.barrels.find(id) }

// EachBarrel visits every allocated barrel record.
func (a *Arena) EachBarrel(fn func(id ID, b *BarrelState)) { a.barrels.each(fn) }

// NodeCost reports the tail bytes taken by one record of type t, or 0 for
// types without runtime state.
func NodeCost(t Type) int {
	switch t {
	case TypeList:
		return listNodeBytes
	case TypeTrigger:
		return triggerNodeBytes
	case TypeBarrel:
		return barrelNodeBytes
	default:
		return 0
	}
}
