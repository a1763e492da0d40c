//go:build !tinygo

package hal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"charm.land/log/v2"
	"golang.org/x/sync/errgroup"

	"oledui/internal/link"
	"oledui/internal/status"
)

// tcpLink carries the byte link over TCP. One master is served at a time;
// a new connection replaces the old one. Writes go through a goroutine so
// Busy behaves like a transmit DMA channel.
type tcpLink struct {
	addr string
	log  *log.Logger
	wake chan struct{}

	ring atomic.Pointer[link.Ring]
	busy atomic.Bool
	out  chan []byte

	mu    sync.Mutex
	conn  net.Conn
	ln    net.Listener
	ready chan struct{}
}

func newTCPLink(addr string, l *log.Logger) *tcpLink {
	return &tcpLink{
		addr:  addr,
		log:   l,
		wake:  make(chan struct{}, 1),
		out:   make(chan []byte, 1),
		ready: make(chan struct{}),
	}
}

func (l *tcpLink) Attach(r *link.Ring) { l.ring.Store(r) }

func (l *tcpLink) Busy() bool { return l.busy.Load() }

func (l *tcpLink) Start(frame []byte) error {
	if !l.busy.CompareAndSwap(false, true) {
		return status.BadState
	}
	select {
	case l.out <- bytes.Clone(frame):
		return nil
	default:
		l.busy.Store(false)
		return status.BadState
	}
}

// Addr blocks until the listener is up and returns its address.
func (l *tcpLink) Addr(ctx context.Context) (net.Addr, error) {
	select {
	case <-l.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ln.Addr(), nil
}

func (l *tcpLink) serve(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", l.addr)
	if err != nil {
		return fmt.Errorf("link: listen %s: %w", l.addr, err)
	}
	l.mu.Lock()
	l.ln = ln
	l.mu.Unlock()
	close(l.ready)
	l.log.Info("link listening", "addr", ln.Addr())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		_ = ln.Close()
		l.swap(nil)
		return nil
	})
	g.Go(func() error { return l.write(ctx) })
	g.Go(func() error {
		for {
			c, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return nil
				}
				return fmt.Errorf("link: accept: %w", err)
			}
			l.log.Info("master connected", "remote", c.RemoteAddr())
			l.swap(c)
			go l.read(c)
		}
	})
	return g.Wait()
}

func (l *tcpLink) swap(c net.Conn) {
	l.mu.Lock()
	old := l.conn
	l.conn = c
	l.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
}

func (l *tcpLink) current() net.Conn {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn
}

func (l *tcpLink) read(c net.Conn) {
	var buf [256]byte
	for {
		n, err := c.Read(buf[:])
		if r := l.ring.Load(); r != nil {
			for _, b := range buf[:n] {
				r.Push(b)
			}
		}
		if n > 0 {
			select {
			case l.wake <- struct{}{}:
			default:
			}
		}
		if err != nil {
			l.log.Debug("master disconnected", "remote", c.RemoteAddr(), "err", err)
			return
		}
	}
}

func (l *tcpLink) write(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-l.out:
			if c := l.current(); c != nil {
				if _, err := c.Write(f); err != nil {
					l.log.Debug("link write failed", "err", err)
				}
			}
			l.busy.Store(false)
		}
	}
}
