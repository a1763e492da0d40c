package link

import "sync/atomic"

const ringSlots = 256

// Ring is a fixed-size single-producer, single-consumer byte queue between the
// receive interrupt (or host reader goroutine) and the main loop.
// It never allocates; a push into a full ring drops the byte and latches the
// overrun flag.
type Ring struct {
	_       [0]func() // prevent accidental copying.
	head    atomic.Uint32
	tail    atomic.Uint32
	overrun atomic.Bool
	slots   [ringSlots]byte
}

// Push appends one byte. It is the only producer-side call and is safe to run
// in interrupt context. It reports false when the ring was full.
func (r *Ring) Push(b byte) bool {
	head := r.head.Load()
	tail := r.tail.Load()
	if head-tail >= ringSlots {
		r.overrun.Store(true)
		return false
	}
	r.slots[head%ringSlots] = b
	r.head.Store(head + 1)
	return true
}

// Pop removes the oldest byte, returning false if the ring is empty.
func (r *Ring) Pop() (byte, bool) {
	tail := r.tail.Load()
	head := r.head.Load()
	if tail == head {
		return 0, false
	}
	b := r.slots[tail%ringSlots]
	r.tail.Store(tail + 1)
	return b, true
}

// Len returns the number of queued bytes.
func (r *Ring) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// SetOverrun latches the overrun flag on behalf of a bus-level overrun.
func (r *Ring) SetOverrun() { r.overrun.Store(true) }

// TakeOverrun reports and clears the overrun flag.
func (r *Ring) TakeOverrun() bool {
	return r.overrun.Swap(false)
}
