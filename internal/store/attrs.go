package store

import "oledui/internal/status"

// MaxText is the largest text allocation (terminator excluded).
const MaxText = 0xFE

// RoleCost is the head space taken by a screen role entry.
const RoleCost = attrHeaderBytes

// AppendText stores text for id with room for max(capacity, len(text))
// bytes plus a terminator. Only allowed before Commit.
func (a *Arena) AppendText(id ID, text []byte, capacity int) error {
	if a.committed {
		return status.BadState
	}
	if int(id) >= a.capacity {
		return status.Range
	}
	size := capacity
	if len(text) > size {
		size = len(text)
	}
	if size > MaxText {
		return status.Range
	}
	alloc := size + 1
	need := TextCost(alloc)
	if a.head+need+a.tail > Capacity {
		return status.NoSpace
	}
	off := a.head
	a.buf[off] = tagText
	a.buf[off+1] = byte(id)
	a.buf[off+2] = byte(alloc)
	data := a.buf[off+attrHeaderBytes : off+need]
	n := copy(data, text)
	clear(data[n:])
	a.head += need
	a.check()
	return nil
}

// Text returns the stored string for id, without the terminator.
// The slice aliases the arena.
func (a *Arena) Text(id ID) ([]byte, bool) {
	off, ok := a.findAttr(tagText, id)
	if !ok {
		return nil, false
	}
	alloc := int(a.buf[off+2])
	data := a.buf[off+attrHeaderBytes : off+attrHeaderBytes+alloc]
	for i, b := range data {
		if b == 0 {
			return data[:i], true
		}
	}
	return data, true
}

// TextAlloc returns the allocated size of id's text entry, terminator
// included.
func (a *Arena) TextAlloc(id ID) int {
	off, ok := a.findAttr(tagText, id)
	if !ok {
		return 0
	}
	return int(a.buf[off+2])
}

// UpdateText overwrites id's text in place, truncated to the original
// allocation. Allowed after Commit.
func (a *Arena) UpdateText(id ID, text []byte) error {
	off, ok := a.findAttr(tagText, id)
	if !ok {
		return status.UnknownID
	}
	alloc := int(a.buf[off+2])
	data := a.buf[off+attrHeaderBytes : off+attrHeaderBytes+alloc]
	n := copy(data[:alloc-1], text)
	clear(data[n:])
	return nil
}

// ScreenRole returns the role recorded for a screen, RoleNone if absent.
func (a *Arena) ScreenRole(id ID) uint8 {
	off, ok := a.findAttr(tagScreenRole, id)
	if !ok {
		return RoleNone
	}
	return a.buf[off+2]
}

// SetScreenRole records a role for id, updating an existing entry in place.
func (a *Arena) SetScreenRole(id ID, role uint8) error {
	if off, ok := a.findAttr(tagScreenRole, id); ok {
		a.buf[off+2] = role
		return nil
	}
	if a.committed {
		return status.BadState
	}
	if int(id) >= a.capacity {
		return status.Range
	}
	if a.head+attrHeaderBytes+a.tail > Capacity {
		return status.NoSpace
	}
	off := a.head
	a.buf[off] = tagScreenRole
	a.buf[off+1] = byte(id)
	a.buf[off+2] = role
	a.head += attrHeaderBytes
	a.check()
	return nil
}

func (a *Arena) findAttr(tag byte, id ID) (int, bool) {
	off := a.attrBase
	for off+attrHeaderBytes <= a.head {
		t := a.buf[off]
		if t == tag && ID(a.buf[off+1]) == id {
			return off, true
		}
		switch t {
		case tagText:
			off += attrHeaderBytes + int(a.buf[off+2])
		default:
			off += attrHeaderBytes
		}
	}
	return 0, false
}
