//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"

	"oledui/internal/link"
)

type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime() *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(1 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

// uartLink moves bytes from the UART receive buffer into the link ring.
// Writes block, so the port never reports busy.
type uartLink struct {
	uart *machine.UART
	wake chan struct{}
}

func newUARTLink(u *machine.UART) *uartLink {
	return &uartLink{uart: u, wake: make(chan struct{}, 1)}
}

func (l *uartLink) Attach(r *link.Ring) { go l.pump(r) }

func (l *uartLink) pump(r *link.Ring) {
	for {
		n := 0
		for l.uart.Buffered() > 0 {
			b, err := l.uart.ReadByte()
			if err != nil {
				break
			}
			r.Push(b)
			n++
		}
		if n > 0 {
			select {
			case l.wake <- struct{}{}:
			default:
			}
		}
		time.Sleep(time.Millisecond)
	}
}

func (l *uartLink) Busy() bool { return false }

func (l *uartLink) Start(frame []byte) error {
	_, err := l.uart.Write(frame)
	return err
}

// machinePin is a GPIO line on the microcontroller.
type machinePin struct {
	name string
	pin  machine.Pin
	mode GPIOMode
}

func (p *machinePin) Name() string   { return p.name }
func (p *machinePin) Caps() GPIOCaps { return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown }

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	cfg := machine.PinConfig{Mode: machine.PinInput}
	switch {
	case mode == GPIOModeOutput:
		cfg.Mode = machine.PinOutput
	case pull == GPIOPullUp:
		cfg.Mode = machine.PinInputPullup
	case pull == GPIOPullDown:
		cfg.Mode = machine.PinInputPulldown
	}
	p.pin.Configure(cfg)
	p.mode = mode
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	if p.mode != GPIOModeOutput {
		return ErrNotImplemented
	}
	p.pin.Set(level)
	return nil
}
