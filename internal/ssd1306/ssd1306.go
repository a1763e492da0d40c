// Package ssd1306 drives a 128-column SSD1306 OLED panel over I2C.
//
// Blocking helpers cover bring-up and the boot banner. Frames are rendered
// through an asynchronous pipeline that builds one 128x8 page tile at a time
// and streams it while the main loop keeps running.
package ssd1306

import (
	"oledui/internal/ledcode"
	"oledui/internal/status"
)

const (
	Address    = 0x3C
	Width      = 128
	PageHeight = 8

	// ChunkSize is the payload of one bus write; the control byte is extra.
	ChunkSize = 28

	ctrlCommand byte = 0x00
	ctrlData    byte = 0x40
)

// Commands used by the driver.
const (
	cmdDisplayOff    = 0xAE
	cmdDisplayOn     = 0xAF
	cmdSetMultiplex  = 0xA8
	cmdSetOffset     = 0xD3
	cmdSetComPins    = 0xDA
	cmdSetColumnAddr = 0x21
	cmdSetPageAddr   = 0x22
	cmdStopScroll    = 0x2E
)

var initSequence = [...]byte{
	cmdDisplayOff,
	0xD5, 0x80, // clock divide
	0x00,
	0x8D, 0x14, // charge pump
	0x20, 0x00, // horizontal addressing
	0xA1,       // segment remap
	0xC8,       // COM scan descending
	0x81, 0x8F, // contrast
	0xD9, 0xF1, // precharge
	0xDB, 0x40, // VCOM detect
	0xA4,
	0xA6,
	cmdStopScroll,
	cmdDisplayOn,
}

// Bus is the I2C master the panel hangs off.
//
// StartWrite may return before the bytes are on the wire; data stays
// untouched until Busy reports false. Implementations that cannot queue
// can complete the write before returning.
type Bus interface {
	Write(addr uint16, data []byte) error
	StartWrite(addr uint16, data []byte) error
	Busy() bool
}

// transfer sends one buffer as a run of control-prefixed chunks. Chunks
// alternate between two buffers so the next one is never built over bytes
// the bus may still be reading.
type transfer struct {
	active bool
	ctrl   byte
	data   []byte
	sent   int
	next   int
	bufs   [2][ChunkSize + 1]byte
}

// Controller owns the panel and its render pipeline.
type Controller struct {
	bus    Bus
	addr   uint16
	height uint8
	pages  uint8

	xfer transfer
	err  error

	pipe pipeline
	tile [Width]byte

	// Events receives render stage codes. May be nil.
	Events ledcode.Sink
}

// New returns a controller for a 64-pixel panel at the default address.
func New(bus Bus) *Controller {
	return &Controller{bus: bus, addr: Address, height: 64, pages: 64 / PageHeight}
}

func (c *Controller) Height() uint8 { return c.height }
func (c *Controller) Pages() uint8  { return c.pages }

// Init sends the power-up sequence and turns the panel on. Geometry is set
// separately with SetHeight.
func (c *Controller) Init() error {
	if err := c.commands(initSequence[:]); err != nil {
		return status.Internal
	}
	return nil
}

// SetHeight selects a 32 or 64 row panel.
func (c *Controller) SetHeight(h uint8) error {
	if h != 32 && h != 64 {
		return status.Range
	}
	c.height = h
	c.pages = h / PageHeight
	pins := byte(0x12)
	if h == 32 {
		pins = 0x02
	}
	return c.commands([]byte{cmdSetMultiplex, h - 1, cmdSetOffset, 0x00, cmdSetComPins, pins})
}

func (c *Controller) DisplayOn() error  { return c.commands([]byte{cmdDisplayOn}) }
func (c *Controller) DisplayOff() error { return c.commands([]byte{cmdDisplayOff}) }

// Clear blanks every page.
func (c *Controller) Clear() error {
	clear(c.tile[:])
	for p := range c.pages {
		if err := c.WritePage(p, c.tile[:]); err != nil {
			return err
		}
	}
	return nil
}

// WritePage writes one full page, blocking until it is sent.
func (c *Controller) WritePage(page uint8, data []byte) error {
	if page >= c.pages || len(data) < Width {
		return status.BadLen
	}
	if err := c.setAddr(page); err != nil {
		return err
	}
	return c.block(ctrlData, data[:Width])
}

// TakeErr returns and clears the last asynchronous transfer error.
func (c *Controller) TakeErr() error {
	err := c.err
	c.err = nil
	return err
}

func (c *Controller) setAddr(page uint8) error {
	return c.commands([]byte{cmdSetColumnAddr, 0x00, Width - 1, cmdSetPageAddr, page, page})
}

func (c *Controller) commands(seq []byte) error { return c.block(ctrlCommand, seq) }

// block waits out any transfer in flight, then writes data chunk by chunk.
func (c *Controller) block(ctrl byte, data []byte) error {
	for c.xfer.active {
		c.pump()
	}
	for c.bus.Busy() {
	}
	var buf [ChunkSize + 1]byte
	for sent := 0; sent < len(data); {
		n := copy(buf[1:], data[sent:])
		buf[0] = ctrl
		if err := c.bus.Write(c.addr, buf[:n+1]); err != nil {
			return err
		}
		sent += n
	}
	return nil
}

func (c *Controller) start(ctrl byte, data []byte) {
	c.xfer.active = true
	c.xfer.ctrl = ctrl
	c.xfer.data = data
	c.xfer.sent = 0
	c.pump()
}

// pump issues the next chunk once the bus is free.
func (c *Controller) pump() {
	x := &c.xfer
	if !x.active || c.bus.Busy() {
		return
	}
	if x.sent >= len(x.data) {
		x.active = false
		x.data = nil
		return
	}
	buf := &x.bufs[x.next]
	x.next ^= 1
	n := copy(buf[1:], x.data[x.sent:])
	buf[0] = x.ctrl
	if err := c.bus.StartWrite(c.addr, buf[:n+1]); err != nil {
		c.err = err
		x.active = false
		x.data = nil
		return
	}
	x.sent += n
}
