// Package cobs implements Consistent Overhead Byte Stuffing over caller-owned
// buffers. Neither direction allocates or relies on a terminating delimiter.
package cobs

import "errors"

// MaxRun is the longest run of non-zero bytes carried by a single code byte.
const MaxRun = 254

var (
	ErrOverflow   = errors.New("cobs: destination too small")
	ErrTruncated  = errors.New("cobs: truncated run")
	ErrZeroMarker = errors.New("cobs: zero code byte")
)

// MaxEncodedLen returns the worst-case encoded size of n input bytes.
func MaxEncodedLen(n int) int {
	return n + n/MaxRun + 1
}

// Encode writes the stuffed form of src into dst and returns the number of
// bytes written. On overflow it returns 0 and ErrOverflow; dst contents are
// then unspecified.
func Encode(dst, src []byte) (int, error) {
	if len(dst) == 0 {
		return 0, ErrOverflow
	}
	code := byte(1)
	codeIdx := 0
	w := 1
	for _, b := range src {
		if b == 0 {
			dst[codeIdx] = code
			code = 1
			codeIdx = w
			w++
			if w > len(dst) {
				return 0, ErrOverflow
			}
			continue
		}
		if w >= len(dst) {
			return 0, ErrOverflow
		}
		dst[w] = b
		w++
		code++
		if code == 0xFF {
			dst[codeIdx] = code
			code = 1
			codeIdx = w
			w++
			if w > len(dst) {
				return 0, ErrOverflow
			}
		}
	}
	dst[codeIdx] = code
	return w, nil
}

// Decode reverses Encode. A run shorter than MaxRun is followed by an
// implicit zero unless it is the last run of src.
func Decode(dst, src []byte) (int, error) {
	r, w := 0, 0
	for r < len(src) {
		code := src[r]
		r++
		if code == 0 {
			return 0, ErrZeroMarker
		}
		n := int(code) - 1
		if r+n > len(src) {
			return 0, ErrTruncated
		}
		if w+n > len(dst) {
			return 0, ErrOverflow
		}
		copy(dst[w:], src[r:r+n])
		w += n
		r += n
		if r < len(src) && code != 0xFF {
			if w >= len(dst) {
				return 0, ErrOverflow
			}
			dst[w] = 0
			w++
		}
	}
	return w, nil
}
