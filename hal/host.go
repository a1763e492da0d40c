//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"charm.land/log/v2"
	"golang.org/x/sync/errgroup"

	"oledui/internal/ssd1306"
)

// HostConfig configures the simulated device.
type HostConfig struct {
	// Listen is the TCP address the master connects to.
	Listen   string
	LogLevel string
	Output   io.Writer
}

// DefaultListen is the link address used when none is configured.
const DefaultListen = "127.0.0.1:7300"

// Host is the desktop HAL: a TCP byte link, an emulated SSD1306, software
// button lines and a millisecond ticker.
type Host struct {
	logger  *hostLogger
	led     *hostLED
	gpio    GPIO
	buttons [ButtonPins]*virtualPin
	link    *tcpLink
	panel   *ssd1306.Emulator
	t       *hostTime
}

// NewHost returns a host HAL. Nothing runs until Serve is called.
func NewHost(cfg HostConfig) (*Host, error) {
	logger, err := newHostLogger(cfg.Output, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	gpio, pins := newButtonGPIO()
	return &Host{
		logger:  logger,
		led:     &hostLED{log: logger.l},
		gpio:    gpio,
		buttons: pins,
		link:    newTCPLink(cfg.Listen, logger.l),
		panel:   ssd1306.NewEmulator(),
		t:       newHostTime(),
	}, nil
}

func (h *Host) Logger() Logger           { return h.logger }
func (h *Host) LED() LED                 { return h.led }
func (h *Host) GPIO() GPIO               { return h.gpio }
func (h *Host) Link() Link               { return h.link }
func (h *Host) PanelBus() ssd1306.Bus    { return h.panel }
func (h *Host) Time() Time               { return h.t }
func (h *Host) Wake() <-chan struct{}    { return h.link.wake }
func (h *Host) Panel() *ssd1306.Emulator { return h.panel }

// Log returns the structured logger behind Logger.
func (h *Host) Log() *log.Logger { return h.logger.l }

// LEDOn reports the status LED level.
func (h *Host) LEDOn() bool { return h.led.on.Load() }

// Press drives a button line low; Release lets it float back high.
func (h *Host) Press(pin int) {
	if pin >= 0 && pin < ButtonPins {
		h.buttons[pin].drive(false)
	}
}

func (h *Host) Release(pin int) {
	if pin >= 0 && pin < ButtonPins {
		h.buttons[pin].release()
	}
}

// Serve runs the link listener and the tick source until ctx ends.
func (h *Host) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return h.link.serve(ctx) })
	g.Go(func() error { return h.t.run(ctx) })
	return g.Wait()
}

type hostLogger struct {
	l *log.Logger
}

func newHostLogger(w io.Writer, level string) (*hostLogger, error) {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Prefix:          "oledui",
	})
	if level != "" {
		lv, err := log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		l.SetLevel(lv)
	}
	return &hostLogger{l: l}, nil
}

func (l *hostLogger) WriteLineString(s string) { l.l.Info(s) }
func (l *hostLogger) WriteLineBytes(b []byte)  { l.l.Info(string(b)) }

type hostLED struct {
	on  atomic.Bool
	log *log.Logger
}

func (l *hostLED) High() {
	l.on.Store(true)
	l.log.Debug("led", "on", true)
}

func (l *hostLED) Low() {
	l.on.Store(false)
	l.log.Debug("led", "on", false)
}
