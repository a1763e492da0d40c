package link

import "oledui/internal/status"

// TxBufSize bounds a complete response frame including its header.
const TxBufSize = 64

// Port is the transmit half of the byte link. Start begins sending frame and
// must not retain it after returning; Busy reports an in-flight transfer.
type Port interface {
	Busy() bool
	Start(frame []byte) error
}

// Transmitter frames replies and holds at most one of them while the port
// is busy. Frames are never interleaved.
type Transmitter struct {
	port       Port
	buf        [TxBufSize]byte
	pending    [TxBufSize]byte
	pendingLen int
}

func NewTransmitter(p Port) *Transmitter {
	return &Transmitter{port: p}
}

// Send encodes payload into a response frame and starts it, or parks it in
// the pending slot if the port is busy. A second send while the slot is
// occupied fails with BadState.
func (t *Transmitter) Send(payload []byte) error {
	n, err := EncodeFrame(t.buf[:], payload)
	if err != nil {
		return status.Internal
	}
	frame := t.buf[:n]

	if t.pendingLen > 0 {
		return status.BadState
	}
	if t.port.Busy() {
		if len(frame) > len(t.pending) {
			return status.BadLen
		}
		t.pendingLen = copy(t.pending[:], frame)
		return nil
	}
	return t.port.Start(frame)
}

// Pending reports whether a frame is parked.
func (t *Transmitter) Pending() bool { return t.pendingLen > 0 }

// Flush starts the parked frame once the port is idle.
func (t *Transmitter) Flush() error {
	if t.pendingLen == 0 || t.port.Busy() {
		return nil
	}
	n := t.pendingLen
	t.pendingLen = 0
	return t.port.Start(t.pending[:n])
}
