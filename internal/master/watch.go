package master

import (
	"context"
	"time"

	"oledui/internal/protocol"
	"oledui/internal/store"
)

// Change is one element reported dirty by the device.
type Change struct {
	ID    store.ID
	State protocol.ElementState
}

// Watch polls the device status every interval and calls fn with the
// state of each element the device reports as changed. It returns when
// ctx ends or fn or a request fails.
func (c *Client) Watch(ctx context.Context, every time.Duration, fn func(Change) error) error {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		st, err := c.Status(ctx)
		if err != nil {
			return err
		}
		if st.Dirty() {
			es, err := c.ElementState(ctx, st.DirtyID)
			if err != nil {
				return err
			}
			if err := fn(Change{ID: st.DirtyID, State: es}); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}
