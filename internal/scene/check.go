package scene

import (
	"fmt"

	"oledui/internal/protocol"
	"oledui/internal/store"
	"oledui/internal/ui"
)

// Usage is the device memory a stream takes once applied.
type Usage struct {
	Head     int
	Tail     int
	Elements int
	Capacity int
	ArenaCap int
}

func (u Usage) Total() int { return u.Head + u.Tail }

// Check replays objs through the device's own parser, with the header
// carrying reset and the last object carrying commit, and reports arena
// usage. Any object the device would reject is an error, as is an object
// too large for one request.
func Check(objs []Object) (Usage, error) {
	if len(objs) <= 1 {
		return Usage{}, fmt.Errorf("no elements to evaluate")
	}
	if objs[0].T != "h" || objs[0].N == nil {
		return Usage{}, fmt.Errorf("first element must be header (t=h)")
	}
	if n := len(objs) - 1; *objs[0].N != n {
		return Usage{}, fmt.Errorf("header n=%d does not match element count %d", *objs[0].N, n)
	}

	s := ui.New()
	for i, o := range objs {
		b, err := o.Marshal()
		if err != nil {
			return Usage{}, fmt.Errorf("e[%d]: %w", i, err)
		}
		if len(b) > protocol.MaxObject {
			return Usage{}, fmt.Errorf("e[%d]: object is %d bytes, limit %d", i, len(b), protocol.MaxObject)
		}
		var flags uint8
		if i == 0 {
			flags |= ui.FlagReset
		}
		if i == len(objs)-1 {
			flags |= ui.FlagCommit
		}
		if err := s.ApplyObject(b, flags); err != nil {
			return Usage{}, fmt.Errorf("e[%d] %s: %w", i, b, err)
		}
	}

	a := s.Arena()
	head, tail := a.Usage()
	u := Usage{Head: head, Tail: tail, Elements: a.Count(), Capacity: a.Cap(), ArenaCap: store.Capacity}
	if u.Total() > u.ArenaCap {
		return u, fmt.Errorf("arena overflow: head=%d tail=%d cap=%d", head, tail, u.ArenaCap)
	}
	return u, nil
}

// Convert decodes a nested document, flattens it for the given panel
// height and checks it fits the device.
func Convert(data []byte, height int) ([]Object, Usage, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, Usage{}, err
	}
	objs, err := Flatten(doc, height)
	if err != nil {
		return nil, Usage{}, err
	}
	u, err := Check(objs)
	if err != nil {
		return nil, u, err
	}
	return objs, u, nil
}
