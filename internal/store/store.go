// Package store holds the element tree and its runtime records inside one
// fixed byte budget.
//
// The head region grows forward: the element table (4 bytes per element),
// then append-only attribute entries (text strings, screen roles). The tail
// region grows backward and is accounted per runtime record (List, Trigger,
// Barrel). head+tail never exceeds Capacity; a mutation that would break this
// is rejected before anything is written.
package store

import (
	"fmt"

	"oledui/internal/status"
)

// Capacity is the arena budget in bytes.
const Capacity = 768

// ID addresses an element. NoID marks "none" (root parent, no focus, ...).
type ID uint8

const NoID ID = 0xFF

// MaxElements is the largest element count a header may declare.
const MaxElements = 255

// Valid reports whether id is not the NoID sentinel.
func (id ID) Valid() bool { return id != NoID }

// Type is the element kind. The numeric values are part of the wire format.
type Type uint8

const (
	TypeText       Type = 0
	TypeNumberEdit Type = 8
	TypeList       Type = 9
	TypeScreen     Type = 10
	TypeBarrel     Type = 12
	TypeTrigger    Type = 14
	TypeNone       Type = 0xFF
)

func (t Type) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeNumberEdit:
		return "number_edit"
	case TypeList:
		return "list"
	case TypeScreen:
		return "screen"
	case TypeBarrel:
		return "barrel"
	case TypeTrigger:
		return "trigger"
	case TypeNone:
		return "none"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Element is one row of the element table.
type Element struct {
	Parent ID
	Type   Type
	X, Y   uint8
}

// Screen roles.
const (
	RoleNone        uint8 = 0
	RoleOverlayFull uint8 = 1
)

const (
	elementBytes     = 4
	listNodeBytes    = 12
	triggerNodeBytes = 4
	barrelNodeBytes  = 6

	attrHeaderBytes = 3 // tag, element id, length or value
	tagText         = 0x10
	tagScreenRole   = 0x11
)

// Arena owns the element table, attribute entries and runtime records.
// It must not be copied once in use; runtime record pointers refer into it.
type Arena struct {
	head      int
	tail      int
	attrBase  int
	capacity  int
	count     int
	committed bool

	elems [MaxElements]Element
	buf   [Capacity]byte

	lists    slab[ListState]
	triggers slab[TriggerState]
	barrels  slab[BarrelState]
}

// Reset clears the arena back to the unreserved state.
func (a *Arena) Reset() {
	*a = Arena{}
}

// Reserve sizes the element table for exactly n elements.
func (a *Arena) Reserve(n int) error {
	if n <= 0 || n > MaxElements {
		return status.Range
	}
	if a.capacity != 0 {
		return status.BadState
	}
	need := n * elementBytes
	if need+a.head+a.tail > Capacity {
		return status.NoSpace
	}
	for i := 0; i < n; i++ {
		a.elems[i] = Element{Parent: NoID, Type: TypeNone}
	}
	a.capacity = n
	a.head += need
	a.attrBase = a.head
	a.check()
	return nil
}

// Commit freezes the head region. Later appends fail with BadState; values
// already stored may still be updated in place.
func (a *Arena) Commit() { a.committed = true }

func (a *Arena) Committed() bool { return a.committed }

// Cap is the reserved element capacity (0 before Reserve).
func (a *Arena) Cap() int { return a.capacity }

// Count is the number of elements created so far.
func (a *Arena) Count() int { return a.count }

// Usage reports the bytes used by the head and tail regions.
func (a *Arena) Usage() (head, tail int) { return a.head, a.tail }

// Free is the number of bytes still available between head and tail.
func (a *Arena) Free() int { return Capacity - a.head - a.tail }

// TextCost is the head space taken by a text entry of the given allocation
// (terminator included).
func TextCost(alloc int) int { return attrHeaderBytes + alloc }

// Add appends an element and returns its id.
func (a *Arena) Add(parent ID, t Type, x, y uint8) (ID, error) {
	if a.capacity == 0 {
		return NoID, status.BadState
	}
	if a.count >= a.capacity {
		return NoID, status.Range
	}
	id := ID(a.count)
	a.count++
	a.elems[id] = Element{Parent: parent, Type: t, X: x, Y: y}
	return id, nil
}

// Element returns the element with the given id.
func (a *Arena) Element(id ID) (Element, bool) {
	if int(id) >= a.count {
		return Element{Parent: NoID, Type: TypeNone}, false
	}
	return a.elems[id], true
}

// TypeOf returns the element's type, or TypeNone for an unknown id.
func (a *Arena) TypeOf(id ID) Type {
	if int(id) >= a.count {
		return TypeNone
	}
	return a.elems[id].Type
}

// ParentOf returns the element's parent, or NoID for an unknown id.
func (a *Arena) ParentOf(id ID) ID {
	if int(id) >= a.count {
		return NoID
	}
	return a.elems[id].Parent
}

// SetParent re-links an existing element.
func (a *Arena) SetParent(id, parent ID) {
	if int(id) < a.count {
		a.elems[id].Parent = parent
	}
}

func (a *Arena) check() {
	if a.head < 0 || a.tail < 0 || a.head+a.tail > Capacity {
		panic(fmt.Sprintf("store: arena overflow head=%d tail=%d cap=%d", a.head, a.tail, Capacity))
	}
}
