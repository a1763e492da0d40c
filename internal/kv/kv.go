// Package kv pulls flat values out of single-line JSON objects without
// building a document.
//
// Only what the element stream needs is understood: a key is a quoted
// string followed by ':', integers are optionally quoted and optionally
// negative, strings end at the next '"' with no escapes.
package kv

import "oledui/internal/status"

// Object trims surrounding whitespace and returns the {...} span of buf,
// braces included.
func Object(buf []byte) ([]byte, error) {
	if len(buf) < 2 {
		return nil, status.BadLen
	}
	s, e := 0, len(buf)-1
	for s <= e && isSpace(buf[s]) {
		s++
	}
	for e >= s && isSpace(buf[e]) {
		e--
	}
	if s >= e || buf[s] != '{' || buf[e] != '}' {
		return nil, status.ParseFail
	}
	return buf[s : e+1], nil
}

// Int returns the integer value of key. Values outside int32 saturate.
func Int(obj []byte, key string) (int, bool) {
	q, ok := valueStart(obj, key)
	if !ok {
		return 0, false
	}
	end := len(obj) - 1
	if obj[q] == '"' {
		q++
	}
	neg := false
	if q < end && obj[q] == '-' {
		neg = true
		q++
	}
	v, digits := 0, 0
	for q < end && isDigit(obj[q]) {
		if v < 1<<30 {
			v = v*10 + int(obj[q]-'0')
		}
		q++
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// String returns the raw bytes of key's string value, cut to at most max
// bytes. The slice aliases obj.
func String(obj []byte, key string, max int) ([]byte, bool) {
	q, ok := valueStart(obj, key)
	if !ok || obj[q] != '"' {
		return nil, false
	}
	end := len(obj) - 1
	q++
	start := q
	for q < end && obj[q] != '"' && q-start < max {
		q++
	}
	if q >= end {
		return nil, false
	}
	return obj[start:q], true
}

// Has reports whether key appears with a value.
func Has(obj []byte, key string) bool {
	_, ok := valueStart(obj, key)
	return ok
}

// valueStart finds `"key" :` inside obj and returns the index of the first
// non-space byte after the colon. The closing brace is never part of a value.
func valueStart(obj []byte, key string) (int, bool) {
	klen := len(key)
	if klen == 0 || len(obj) < 2 {
		return 0, false
	}
	end := len(obj) - 1
	for p := 0; p+klen+3 <= end; p++ {
		if obj[p] != '"' {
			continue
		}
		if end-p <= klen+2 {
			break
		}
		if string(obj[p+1:p+1+klen]) != key || obj[p+1+klen] != '"' {
			continue
		}
		q := p + klen + 2
		for q < end && isSpace(obj[q]) {
			q++
		}
		if q >= end || obj[q] != ':' {
			continue
		}
		q++
		for q < end && isSpace(obj[q]) {
			q++
		}
		if q >= end {
			return 0, false
		}
		return q, true
	}
	return 0, false
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
