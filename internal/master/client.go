// Package master is the host side of the display link: it frames requests,
// waits for the matching reply and decodes it.
package master

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"oledui/internal/cobs"
	"oledui/internal/link"
	"oledui/internal/protocol"
	"oledui/internal/store"
	"oledui/internal/ui"
)

// DefaultTimeout bounds the wait for one reply.
const DefaultTimeout = 500 * time.Millisecond

// ErrTimeout is returned when no reply frame arrives in time.
var ErrTimeout = errors.New("master: reply timeout")

type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// Client issues one request at a time over rw. It is safe for concurrent
// use; requests are serialized.
type Client struct {
	mu      sync.Mutex
	rw      io.ReadWriter
	timeout time.Duration

	fr    link.Framer
	frame [link.HeaderLen + link.MaxEncoded]byte
	rx    [link.MaxEncoded]byte
	dec   [link.MaxEncoded]byte
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request reply timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func New(rw io.ReadWriter, opts ...Option) *Client {
	c := &Client{rw: rw, timeout: DefaultTimeout}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Send writes a request without waiting for a reply.
func (c *Client) Send(cmd protocol.Cmd, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(cmd, payload)
}

// Do sends a request and returns the decoded reply. The first reply byte
// is the response code; Do does not interpret it.
func (c *Client) Do(ctx context.Context, cmd protocol.Cmd, payload []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.write(cmd, payload); err != nil {
		return nil, err
	}
	reply, err := c.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd, err)
	}
	return reply, nil
}

func (c *Client) write(cmd protocol.Cmd, payload []byte) error {
	if 1+len(payload) > link.MaxDecoded {
		return fmt.Errorf("%s: request of %d bytes: %w", cmd, 1+len(payload), link.ErrFrameTooLong)
	}
	req := make([]byte, 0, 1+len(payload))
	req = append(req, byte(cmd))
	req = append(req, payload...)
	n, err := link.EncodeFrame(c.frame[:], req)
	if err != nil {
		return fmt.Errorf("%s: encoding: %w", cmd, err)
	}
	if _, err := c.rw.Write(c.frame[:n]); err != nil {
		return fmt.Errorf("%s: writing: %w", cmd, err)
	}
	return nil
}

func (c *Client) read(ctx context.Context) ([]byte, error) {
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	dl, canDeadline := c.rw.(deadliner)
	if canDeadline {
		if err := dl.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
		defer dl.SetReadDeadline(time.Time{})
		stop := context.AfterFunc(ctx, func() { dl.SetReadDeadline(time.Now()) })
		defer stop()
	}

	start := time.Now()
	c.fr.Reset()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := c.rw.Read(c.rx[:])
		now := uint32(time.Since(start).Milliseconds())
		for _, b := range c.rx[:n] {
			c.fr.Feed(b, now)
			if c.fr.Ready() {
				return c.decode()
			}
		}
		c.fr.Expire(now)
		switch {
		case err == nil:
		case errors.Is(err, os.ErrDeadlineExceeded):
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if d, ok := ctx.Deadline(); ok && !time.Now().Before(d) {
				return nil, context.DeadlineExceeded
			}
			return nil, ErrTimeout
		default:
			return nil, err
		}
		if !canDeadline && time.Now().After(deadline) {
			return nil, ErrTimeout
		}
	}
}

func (c *Client) decode() ([]byte, error) {
	defer c.fr.Reset()
	n, err := cobs.Decode(c.dec[:], c.fr.Frame())
	if err != nil {
		return nil, fmt.Errorf("decoding reply: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("empty reply: %w", protocol.ReplyErr(nil))
	}
	return append([]byte(nil), c.dec[:n]...), nil
}

// Ping checks the link and reports the device protocol version.
func (c *Client) Ping(ctx context.Context) (protocol.PingReply, error) {
	r, err := c.Do(ctx, protocol.CmdPing, nil)
	if err != nil {
		return protocol.PingReply{}, err
	}
	return protocol.DecodePing(r)
}

// Status reads and clears the device's change notification.
func (c *Client) Status(ctx context.Context) (protocol.Status, error) {
	r, err := c.Do(ctx, protocol.CmdGetStatus, nil)
	if err != nil {
		return protocol.Status{}, err
	}
	return protocol.DecodeStatus(r)
}

func (c *Client) ElementState(ctx context.Context, id store.ID) (protocol.ElementState, error) {
	r, err := c.Do(ctx, protocol.CmdGetElementState, []byte{byte(id)})
	if err != nil {
		return protocol.ElementState{}, err
	}
	return protocol.DecodeElementState(r)
}

func (c *Client) SetActiveScreen(ctx context.Context, ordinal uint8) error {
	return c.simple(ctx, protocol.CmdSetActiveScreen, []byte{ordinal})
}

func (c *Client) ScrollToScreen(ctx context.Context, ordinal uint8) error {
	return c.simple(ctx, protocol.CmdScrollToScreen, []byte{ordinal})
}

// ScrollToScreenWithOffset starts a slide to ordinal from an explicit
// pixel offset.
func (c *Client) ScrollToScreenWithOffset(ctx context.Context, offset int16, ordinal uint8) error {
	return c.simple(ctx, protocol.CmdScrollToScreen, protocol.ScrollPayload(offset, ordinal))
}

// ShowOverlay shows an overlay screen. A zero duration uses the device
// default.
func (c *Client) ShowOverlay(ctx context.Context, id store.ID, d time.Duration, maskInput bool) error {
	if d == 0 && !maskInput {
		return c.simple(ctx, protocol.CmdShowOverlay, []byte{byte(id)})
	}
	if d <= 0 {
		d = ui.DefaultOverlayMS * time.Millisecond
	}
	ms := min(d.Milliseconds(), 0xFFFF)
	return c.simple(ctx, protocol.CmdShowOverlay, protocol.OverlayPayload(id, uint16(ms), maskInput))
}

// Input forwards one button event.
func (c *Client) Input(ctx context.Context, button, event uint8) error {
	return c.simple(ctx, protocol.CmdInputEvent, protocol.InputPayload(button, event))
}

func (c *Client) Abort(ctx context.Context) error {
	return c.simple(ctx, protocol.CmdJSONAbort, nil)
}

// Standby powers the panel down. The device does not reply.
func (c *Client) Standby() error {
	return c.Send(protocol.CmdGotoStandby, nil)
}

// SendObject applies one element object with the given flags.
func (c *Client) SendObject(ctx context.Context, obj []byte, flags uint8) error {
	return c.simple(ctx, protocol.CmdJSON, protocol.JSONPayload(flags, obj))
}

func (c *Client) simple(ctx context.Context, cmd protocol.Cmd, payload []byte) error {
	r, err := c.Do(ctx, cmd, payload)
	if err != nil {
		return err
	}
	if err := protocol.ReplyErr(r); err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}
	return nil
}
