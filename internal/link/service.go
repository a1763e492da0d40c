package link

import (
	"fmt"

	"oledui/internal/cobs"
)

// Handler serves one decoded request. A nil reply sends nothing.
type Handler interface {
	Serve(cmd byte, payload []byte) []byte
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(cmd byte, payload []byte) []byte

func (f HandlerFunc) Serve(cmd byte, payload []byte) []byte { return f(cmd, payload) }

// Logger is the line sink used for link diagnostics.
type Logger interface {
	WriteLineString(s string)
}

// Service runs the deferred link work once per main-loop iteration:
// overrun recovery, transmit flushing, frame reassembly and dispatch.
type Service struct {
	ring *Ring
	rx   Framer
	tx   *Transmitter
	h    Handler
	log  Logger
	dec  [MaxDecoded]byte
}

func NewService(ring *Ring, port Port, h Handler, log Logger) *Service {
	return &Service{ring: ring, tx: NewTransmitter(port), h: h, log: log}
}

// Transmitter exposes the single-slot transmit path.
func (s *Service) Transmitter() *Transmitter { return s.tx }

// Poll performs one pass. Transmit is always serviced before receive.
func (s *Service) Poll(nowMS uint32) {
	if s.ring.TakeOverrun() {
		s.rx.Reset()
		s.logf("link: rx overrun, framing reset")
	}
	s.flush()

	for !s.rx.Ready() {
		b, ok := s.ring.Pop()
		if !ok {
			break
		}
		s.rx.Feed(b, nowMS)
	}
	if s.rx.Expire(nowMS) {
		s.logf("link: inter-byte timeout, partial frame dropped")
	}

	if s.rx.Ready() {
		s.dispatch()
		s.rx.Reset()
	}
	s.flush()
}

func (s *Service) dispatch() {
	n, err := cobs.Decode(s.dec[:], s.rx.Frame())
	if err != nil || n < 1 {
		s.logf("link: frame dropped: decode n=%d err=%v", n, err)
		return
	}
	reply := s.h.Serve(s.dec[0], s.dec[1:n])
	if reply == nil {
		return
	}
	if err := s.tx.Send(reply); err != nil {
		s.logf("link: reply for cmd 0x%02X dropped: %v", s.dec[0], err)
	}
}

func (s *Service) flush() {
	if err := s.tx.Flush(); err != nil {
		s.logf("link: tx: %v", err)
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString(fmt.Sprintf(format, args...))
}
