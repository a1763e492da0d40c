// Package scene converts nested, long-key scene documents into the flat
// short-key object stream a display controller is provisioned with, and
// checks the result against the device's memory budget.
package scene

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Limits applied while sanitizing.
const (
	MaxX        = 127
	MaxText     = 20
	MinRows     = 1
	MaxRows     = 6
	MaxValue    = 32767
	MaxElements = 255
)

var typeShort = map[string]string{
	"screen":  "s",
	"text":    "t",
	"list":    "l",
	"barrel":  "b",
	"trigger": "i",
}

var allowedKeys = map[string]bool{
	"type": true, "elements": true,
	"x": true, "y": true, "rows": true, "text": true,
	"capacity": true, "value": true, "overlay": true,
}

var shortKeys = map[string]bool{
	"t": true, "p": true, "par": true, "v": true, "val": true, "tx": true,
	"r": true, "c": true, "cap": true, "ov": true, "e": true,
}

var shortTypes = map[string]bool{
	"s": true, "t": true, "l": true, "b": true, "i": true,
	"te": true, "li": true, "ba": true, "tr": true,
}

// Problems collects every validation failure of a document.
type Problems []string

func (p Problems) Error() string {
	return fmt.Sprintf("%d problem(s):\n  %s", len(p), strings.Join(p, "\n  "))
}

func (p Problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}

// Node is one element of a nested document. Fields keep their raw JSON so
// sanitizing can coerce loosely typed values.
type Node struct {
	Type     string
	Fields   map[string]json.RawMessage
	Elements []Node
}

// Document is a decoded nested scene.
type Document struct {
	Elements []Node
}

// Decode parses and validates a nested document. Every problem found is
// reported, not only the first.
func Decode(data []byte) (*Document, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("root: must be a JSON object with \"elements\": %w", err)
	}
	var probs Problems
	raw, ok := root["elements"]
	if !ok {
		return nil, append(probs, "root.elements: must be an array")
	}
	d := &decoder{}
	doc := &Document{Elements: d.list(raw, "elements", true)}
	probs = append(probs, d.probs...)
	if !d.nested {
		probs = append(probs, `input is flat; nested "elements" arrays are required`)
	}
	if err := probs.err(); err != nil {
		return nil, err
	}
	return doc, nil
}

type decoder struct {
	probs  Problems
	nested bool
}

func (d *decoder) addf(format string, args ...any) {
	d.probs = append(d.probs, fmt.Sprintf(format, args...))
}

func (d *decoder) list(raw json.RawMessage, path string, root bool) []Node {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		d.addf("%s: must be an array", path)
		return nil
	}
	nodes := make([]Node, 0, len(items))
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			d.addf("%s: must be an object", p)
			continue
		}
		nodes = append(nodes, d.node(fields, p, root))
	}
	return nodes
}

func (d *decoder) node(fields map[string]json.RawMessage, path string, root bool) Node {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch {
		case shortKeys[k]:
			d.addf("%s: short key %q is not allowed", path, k)
		case !allowedKeys[k]:
			d.addf("%s: unknown key %q", path, k)
		}
	}

	n := Node{Fields: fields}
	var t string
	if err := json.Unmarshal(fields["type"], &t); err != nil || t == "" {
		d.addf("%s: missing \"type\"", path)
	} else {
		switch {
		case shortTypes[t]:
			d.addf("%s: short type token %q is not allowed", path, t)
		case typeShort[t] == "":
			d.addf("%s: unsupported type %q", path, t)
		case root && t != "screen":
			d.addf("%s: root elements must be \"screen\"", path)
		}
		n.Type = t
	}
	if _, ok := fields["overlay"]; ok {
		if t != "screen" {
			d.addf("%s: overlay is only valid on screens", path)
		}
		if !root {
			d.addf("%s: overlay is only valid on root screens", path)
		}
	}
	if raw, ok := fields["elements"]; ok {
		d.nested = true
		n.Elements = d.list(raw, path+".elements", false)
	}
	return n
}

// asInt coerces a loosely typed JSON value the way hand-written scenes
// tend to use it: numbers, numeric strings and booleans.
func asInt(raw json.RawMessage, def int) int {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	switch x := v.(type) {
	case float64:
		return int(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return n
		}
	}
	return def
}

func clamp(v, lo, hi int) int { return max(min(v, hi), lo) }
