package hal

import (
	"errors"

	"oledui/internal/link"
	"oledui/internal/ssd1306"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// Link is the serial byte link to the master. Received bytes are pushed into
// the ring given to Attach from interrupt or reader context; replies leave
// through the embedded Port.
type Link interface {
	link.Port
	Attach(r *link.Ring)
}

// Button lines, in ui.Button order.
const (
	PinUp = iota
	PinDown
	PinOk
	PinBack
	PinLeft
	PinRight

	ButtonPins
)

// Time provides a base tick stream.
//
// One tick is one millisecond; the value is the running tick count.
type Time interface {
	Ticks() <-chan uint64
}

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	// GPIO exposes the button lines as pins PinUp..PinRight. Lines are
	// active low.
	GPIO() GPIO
	Link() Link
	PanelBus() ssd1306.Bus
	Time() Time
	// Wake fires when the link sees traffic; standby waits on it.
	Wake() <-chan struct{}
}
