package master

import (
	"context"
	"errors"
	"fmt"

	"oledui/internal/protocol"
	"oledui/internal/ui"
)

// MaxObject is the largest object Provision sends.
const MaxObject = protocol.MaxObject

// SplitObjects cuts a stream of back-to-back top-level objects into
// separate objects. Whitespace outside strings is dropped and anything
// between objects is skipped. An unterminated trailing object is ignored.
func SplitObjects(stream []byte) [][]byte {
	var (
		objs     [][]byte
		cur      []byte
		depth    int
		inString bool
		escaped  bool
	)
	for _, b := range stream {
		if depth == 0 && b != '{' {
			continue
		}
		if inString {
			cur = append(cur, b)
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
		}
		cur = append(cur, b)
		if depth == 0 {
			objs = append(objs, cur)
			cur = nil
		}
	}
	return objs
}

// ObjectResult is the outcome for one object of a provisioning stream.
type ObjectResult struct {
	Index   int
	Object  []byte
	Flags   uint8
	Skipped bool
	Err     error
}

// Report summarizes a provisioning run.
type Report struct {
	Objects []ObjectResult
}

func (r Report) Sent() int {
	n := 0
	for _, o := range r.Objects {
		if !o.Skipped {
			n++
		}
	}
	return n
}

func (r Report) Skipped() int { return len(r.Objects) - r.Sent() }

// Err joins the errors of every failed object.
func (r Report) Err() error {
	var errs []error
	for _, o := range r.Objects {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("object %d: %w", o.Index, o.Err))
		}
	}
	return errors.Join(errs...)
}

// Provision sends a whole stream. The first object that fits carries the
// reset flag and the last one carries commit. Objects larger than
// MaxObject are skipped. A failing object does not stop the stream; the
// device keeps what it already has.
func (c *Client) Provision(ctx context.Context, stream []byte) (Report, error) {
	objs := SplitObjects(stream)
	first, last := -1, -1
	for i, o := range objs {
		if len(o) > MaxObject {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}

	rep := Report{Objects: make([]ObjectResult, 0, len(objs))}
	for i, o := range objs {
		res := ObjectResult{Index: i, Object: o}
		if len(o) > MaxObject {
			res.Skipped = true
			rep.Objects = append(rep.Objects, res)
			continue
		}
		if i == first {
			res.Flags |= ui.FlagReset
		}
		if i == last {
			res.Flags |= ui.FlagCommit
		}
		res.Err = c.SendObject(ctx, o, res.Flags)
		rep.Objects = append(rep.Objects, res)
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if errors.Is(res.Err, ErrTimeout) {
			return rep, res.Err
		}
	}
	return rep, rep.Err()
}
