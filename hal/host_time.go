//go:build !tinygo

package hal

import (
	"context"
	"time"
)

type hostTime struct {
	ch  chan uint64
	seq uint64
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 16)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// run ticks every millisecond. A slow reader skips ticks; the count keeps
// real time.
func (t *hostTime) run(ctx context.Context) error {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}
}
