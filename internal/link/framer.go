package link

import (
	"errors"

	"oledui/internal/cobs"
)

const (
	Sync0 = 0xA5
	Sync1 = 0x5A

	// MaxEncoded bounds the encoded length carried in a frame header.
	MaxEncoded = 112
	// MaxDecoded bounds a decoded request (command byte plus payload).
	MaxDecoded = 64
	// HeaderLen is the size of [SYNC0][SYNC1][LEN].
	HeaderLen = 3

	InterByteTimeoutMS = 200
)

type rxState uint8

const (
	waitSync0 rxState = iota
	waitSync1
	waitLen
	collect
)

// Framer reassembles [SYNC0][SYNC1][LEN][encoded...] frames one byte at a time.
// Once a frame is ready further bytes are ignored until Reset.
type Framer struct {
	state  rxState
	want   int
	n      int
	ready  bool
	lastMS uint32
	buf    [MaxEncoded]byte
}

// Feed advances the receive state machine by one byte.
func (f *Framer) Feed(b byte, nowMS uint32) {
	if f.ready {
		return
	}
	f.lastMS = nowMS
	switch f.state {
	case waitSync0:
		if b == Sync0 {
			f.state = waitSync1
		}
	case waitSync1:
		if b == Sync1 {
			f.state = waitLen
		} else {
			f.state = waitSync0
		}
	case waitLen:
		f.want = int(b)
		f.n = 0
		if f.want > 0 && f.want <= MaxEncoded {
			f.state = collect
		} else {
			f.state = waitSync0
		}
	case collect:
		f.buf[f.n] = b
		f.n++
		if f.n >= f.want {
			f.ready = true
			f.state = waitSync0
		}
	default:
		f.state = waitSync0
	}
}

// Ready reports whether a complete encoded frame is waiting.
func (f *Framer) Ready() bool { return f.ready }

// Frame returns the encoded body of the ready frame. It is only valid until
// the next Reset.
func (f *Framer) Frame() []byte {
	if !f.ready {
		return nil
	}
	return f.buf[:f.n]
}

// Reset discards any partial or ready frame.
func (f *Framer) Reset() {
	f.state = waitSync0
	f.want = 0
	f.n = 0
	f.ready = false
	f.lastMS = 0
}

// Expire drops a partially received frame whose last byte is older than the
// inter-byte timeout. It reports whether anything was dropped.
func (f *Framer) Expire(nowMS uint32) bool {
	if f.ready || f.state == waitSync0 {
		return false
	}
	if nowMS-f.lastMS <= InterByteTimeoutMS {
		return false
	}
	f.Reset()
	return true
}

// ErrFrameTooLong reports an encoded body that does not fit the length byte.
var ErrFrameTooLong = errors.New("link: frame too long")

// EncodeFrame writes [SYNC0][SYNC1][LEN][COBS(payload)] into dst and returns
// the frame length.
func EncodeFrame(dst, payload []byte) (int, error) {
	if len(dst) <= HeaderLen {
		return 0, cobs.ErrOverflow
	}
	n, err := cobs.Encode(dst[HeaderLen:], payload)
	if err != nil {
		return 0, err
	}
	if n > 0xFF {
		return 0, ErrFrameTooLong
	}
	dst[0] = Sync0
	dst[1] = Sync1
	dst[2] = byte(n)
	return HeaderLen + n, nil
}
