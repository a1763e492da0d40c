package scene

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Object is one flat short-key element object. A nil field is omitted.
type Object struct {
	T  string  `json:"t"`
	N  *int    `json:"n,omitempty"`
	P  *int    `json:"p,omitempty"`
	X  *int    `json:"x,omitempty"`
	Y  *int    `json:"y,omitempty"`
	R  *int    `json:"r,omitempty"`
	Tx *string `json:"tx,omitempty"`
	C  *int    `json:"c,omitempty"`
	V  *int    `json:"v,omitempty"`
	Ov *int    `json:"ov,omitempty"`
}

func ptr[T any](v T) *T { return &v }

// Header returns the header object reserving n elements.
func Header(n int) Object { return Object{T: "h", N: ptr(n)} }

// Flatten walks doc depth-first and returns the flat objects, header
// first. Parents are referenced by their index among the elements (the
// header is not counted). Values are clamped to what the device accepts
// for a panel of the given height.
func Flatten(doc *Document, height int) ([]Object, error) {
	f := &flattener{height: height}
	for _, n := range doc.Elements {
		f.visit(n, -1)
	}
	if len(f.out) > MaxElements {
		f.addf("element count %d exceeds %d", len(f.out), MaxElements)
	}
	if err := f.probs.err(); err != nil {
		return nil, err
	}
	return append([]Object{Header(len(f.out))}, f.out...), nil
}

type flattener struct {
	height      int
	out         []Object
	probs       Problems
	seenOverlay bool
}

func (f *flattener) addf(format string, args ...any) {
	f.probs = append(f.probs, fmt.Sprintf(format, args...))
}

func (f *flattener) visit(n Node, parent int) {
	idx := len(f.out)
	o := Object{T: typeShort[n.Type]}
	if parent >= 0 {
		o.P = ptr(parent)
	}
	if raw, ok := n.Fields["x"]; ok {
		o.X = ptr(clamp(asInt(raw, 0), 0, MaxX))
	}
	if raw, ok := n.Fields["y"]; ok {
		o.Y = ptr(clamp(asInt(raw, 0), 0, max(f.height-1, 0)))
	}

	switch o.T {
	case "t":
		f.text(&o, n, idx)
	case "l":
		if raw, ok := n.Fields["rows"]; ok {
			o.R = ptr(clamp(asInt(raw, 4), MinRows, MaxRows))
		}
	case "b":
		o.V = ptr(clamp(asInt(n.Fields["value"], 0), 0, MaxValue))
	case "s":
		f.screen(&o, n, idx, parent < 0)
	}
	if parent < 0 && o.T != "s" {
		f.addf("e[%d]: root elements must be screens", idx)
	}

	f.out = append(f.out, o)
	for _, ch := range n.Elements {
		f.visit(ch, idx)
	}
}

// text truncates to the capacity; a zero capacity means "size of the text".
func (f *flattener) text(o *Object, n Node, idx int) {
	var tx string
	if raw, ok := n.Fields["text"]; ok {
		if err := json.Unmarshal(raw, &tx); err != nil {
			f.addf("e[%d]: text must be a string", idx)
		}
	}
	runes := []rune(tx)
	if len(runes) > MaxText {
		runes = runes[:MaxText]
	}
	c := len(runes)
	if raw, ok := n.Fields["capacity"]; ok {
		c = asInt(raw, len(runes))
	}
	c = clamp(c, 0, MaxText)
	if c > 0 && len(runes) > c {
		runes = runes[:c]
	}
	o.Tx = ptr(string(runes))
	o.C = ptr(c)
}

func (f *flattener) screen(o *Object, n Node, idx int, root bool) {
	raw, present := n.Fields["overlay"]
	if !present {
		if root && f.seenOverlay {
			f.addf("e[%d]: base screens must appear before overlay screens", idx)
		}
		return
	}
	ov := clamp(asInt(raw, 0), 0, 1)
	o.Ov = ptr(ov)
	if !root {
		f.addf("e[%d]: ov is only valid on root screens", idx)
		return
	}
	if ov == 0 && f.seenOverlay {
		f.addf("e[%d]: base screens must appear before overlay screens", idx)
	}
	if ov != 0 {
		f.seenOverlay = true
	}
}

// Marshal encodes one object compactly.
func (o Object) Marshal() ([]byte, error) {
	return json.Marshal(o)
}

// EncodeDocument writes {"elements":[...]}.
func EncodeDocument(objs []Object) ([]byte, error) {
	return json.Marshal(struct {
		Elements []Object `json:"elements"`
	}{objs})
}

// EncodeStream writes the objects back to back, one per line, the form
// the provisioning client sends.
func EncodeStream(objs []Object) ([]byte, error) {
	var buf bytes.Buffer
	for _, o := range objs {
		b, err := o.Marshal()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
