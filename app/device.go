// Package app wires the HAL to the link, the UI state, the renderer and the
// panel, and runs the device main loop.
package app

import (
	"context"
	"fmt"
	"runtime/debug"

	"oledui/hal"
	"oledui/internal/ledcode"
	"oledui/internal/link"
	"oledui/internal/protocol"
	"oledui/internal/render"
	"oledui/internal/ssd1306"
	"oledui/internal/ui"
)

// BannerText is shown until the master provisions a tree.
const BannerText = "SLAVE START"

// Config holds device settings.
type Config struct {
	// Height is the panel height, 32 or 64.
	Height uint8
}

func DefaultConfig() Config { return Config{Height: ui.DefaultHeight} }

// Device is one display controller.
type Device struct {
	h   hal.HAL
	log hal.Logger
	cfg Config

	ring  link.Ring
	ui    *ui.State
	proto *protocol.Dispatcher
	svc   *link.Service
	panel *ssd1306.Controller
	r     *render.Renderer
	leds  *ledcode.Blinker
	draw  ssd1306.DrawFunc

	buttons [ui.ButtonCount]hal.GPIOPin
	levels  [ui.ButtonCount]bool
}

// ledLine drives a HAL LED as a ledcode output.
type ledLine struct{ hal.LED }

func (l ledLine) Set(on bool) {
	if on {
		l.High()
	} else {
		l.Low()
	}
}

// New brings the device up: protocol state, panel, boot banner, link and
// buttons, in that order. Panel errors are logged and do not stop bring-up.
func New(h hal.HAL, cfg Config) (*Device, error) {
	if cfg.Height == 0 {
		cfg.Height = ui.DefaultHeight
	}
	if cfg.Height != 32 && cfg.Height != 64 {
		return nil, fmt.Errorf("display height %d: must be 32 or 64", cfg.Height)
	}
	d := &Device{h: h, log: h.Logger(), cfg: cfg}
	d.leds = ledcode.New(ledLine{h.LED()})
	d.leds.Set(false)

	d.ui = ui.New()
	d.ui.Events = d.leds
	d.ui.OnUp = d.leds.Toggle
	d.proto = protocol.New(d.ui, d.log)
	d.proto.Reset()

	d.panel = ssd1306.New(h.PanelBus())
	d.panel.Events = d.leds
	d.r = render.New(d.ui)
	d.draw = d.r.DrawTile
	d.panelUp()
	d.banner()

	d.svc = link.NewService(&d.ring, h.Link(), d.proto, d.log)
	h.Link().Attach(&d.ring)
	d.leds.Set(true)

	d.setupButtons()
	d.logf("boot: height=%d pages=%d", d.panel.Height(), d.panel.Pages())
	return d, nil
}

// panelUp runs the power-up sequence, geometry and clear.
func (d *Device) panelUp() {
	if err := d.panel.Init(); err != nil {
		d.logf("panel: init: %v", err)
	}
	if err := d.panel.SetHeight(d.cfg.Height); err != nil {
		d.logf("panel: set height: %v", err)
	}
	d.ui.SetHeight(d.panel.Height())
	if err := d.panel.Clear(); err != nil {
		d.logf("panel: clear: %v", err)
	}
}

func (d *Device) banner() {
	var buf [render.Width]byte
	page := render.BannerPage(d.panel.Pages())
	render.Banner(render.NewTile(page, buf[:]), BannerText)
	if err := d.panel.WritePage(page, buf[:]); err != nil {
		d.logf("panel: banner: %v", err)
	}
}

func (d *Device) setupButtons() {
	g := d.h.GPIO()
	if g == nil {
		return
	}
	for i := range d.buttons {
		pin := g.Pin(i)
		if pin == nil {
			continue
		}
		if err := pin.Configure(hal.GPIOModeInput, hal.GPIOPullUp); err != nil {
			d.logf("buttons: %s: %v", pin.Name(), err)
			continue
		}
		d.buttons[i] = pin
		d.levels[i], _ = pin.Read()
	}
}

// UI exposes the interaction state.
func (d *Device) UI() *ui.State { return d.ui }

// Panel exposes the panel controller.
func (d *Device) Panel() *ssd1306.Controller { return d.panel }

// Step runs one main loop iteration at time now. It only blocks while in
// standby, and returns early with ctx's error if ctx ends there.
func (d *Device) Step(ctx context.Context, now uint32) error {
	d.panel.Process()
	if err := d.panel.TakeErr(); err != nil {
		d.logf("panel: transfer: %v", err)
	}
	d.svc.Poll(now)
	d.ui.Tick(now)
	d.pollButtons()
	d.leds.Process(now)
	if d.ui.TakeStandbyRequest() {
		if err := d.standby(ctx); err != nil {
			return err
		}
	}
	if d.ui.TakeRenderRequest() {
		d.ui.NormalizeActiveScreen()
		if d.panel.StartOrRequest(d.draw) {
			d.leds.Post(ledcode.RenderScreen, d.ui.ActiveScreen()&7)
		}
	}
	return nil
}

// pollButtons turns a high-to-low edge on a button line into a release
// event for that button.
func (d *Device) pollButtons() {
	for i, pin := range d.buttons {
		if pin == nil {
			continue
		}
		level, err := pin.Read()
		if err != nil {
			continue
		}
		if d.levels[i] && !level {
			_ = d.ui.Input(ui.Button(i), ui.EventRelease)
		}
		d.levels[i] = level
	}
}

// standby powers the panel down until the link sees traffic, then brings
// it back up and asks for a redraw.
func (d *Device) standby(ctx context.Context) error {
	d.logf("standby")
	d.panel.Drain()
	if err := d.panel.DisplayOff(); err != nil {
		d.logf("panel: display off: %v", err)
	}
	wake := d.h.Wake()
	select {
	case <-wake:
	default:
	}
	select {
	case <-wake:
	case <-ctx.Done():
		return ctx.Err()
	}
	d.logf("wake")
	d.panelUp()
	d.ui.RequestRender()
	return nil
}

// Run steps the device on every HAL tick until ctx ends.
func (d *Device) Run(ctx context.Context) error {
	ticks := d.h.Time().Ticks()
	for {
		select {
		case <-ctx.Done():
			d.panel.Drain()
			return ctx.Err()
		case t := <-ticks:
			if err := d.Step(ctx, uint32(t)); err != nil {
				return err
			}
		}
	}
}

func (d *Device) logf(format string, args ...any) {
	if d.log != nil {
		d.log.WriteLineString(fmt.Sprintf(format, args...))
	}
}

// Run brings the device up on h and runs it forever. A panic in the main
// loop is painted on the panel and the LED blinks until reset.
func Run(h hal.HAL) {
	d, err := New(h, DefaultConfig())
	if err != nil {
		h.Logger().WriteLineString("boot: " + err.Error())
		return
	}
	defer func() {
		if v := recover(); v != nil {
			d.showFault(v, debug.Stack())
			d.halt()
		}
	}()
	_ = d.Run(context.Background())
}
