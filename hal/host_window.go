//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"oledui/internal/buildinfo"
	"oledui/internal/ssd1306"
)

const panelRows = ssd1306.MaxPages * ssd1306.PageHeight

// WindowConfig sizes the panel window.
type WindowConfig struct {
	Scale int
}

// RunWindow shows the emulated panel and maps keys to button lines. It
// blocks until the window closes or ctx ends.
func RunWindow(ctx context.Context, h *Host, cfg WindowConfig) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 4
	}
	g := &panelGame{ctx: ctx, h: h, pix: make([]byte, ssd1306.Width*panelRows*4)}
	ebiten.SetWindowTitle("oledui (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(ssd1306.Width*cfg.Scale, panelRows*cfg.Scale)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type panelGame struct {
	ctx context.Context
	h   *Host
	img *ebiten.Image
	ram [ssd1306.MaxPages][ssd1306.Width]byte
	pix []byte
}

func (g *panelGame) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.h.pollKeys()
	return nil
}

// Lit pixels use the blue-white tint of common SSD1306 modules.
var litRGB = [3]byte{0xB8, 0xE4, 0xFF}

func (g *panelGame) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(ssd1306.Width, panelRows)
	}
	panel := g.h.panel
	panel.Snapshot(&g.ram)
	on := panel.On()
	rows := panel.Rows()

	for y := range panelRows {
		for x := range ssd1306.Width {
			lit := on && y < rows && g.ram[y/ssd1306.PageHeight][x]&(1<<(y%ssd1306.PageHeight)) != 0
			j := (y*ssd1306.Width + x) * 4
			if lit {
				g.pix[j], g.pix[j+1], g.pix[j+2] = litRGB[0], litRGB[1], litRGB[2]
			} else {
				g.pix[j], g.pix[j+1], g.pix[j+2] = 0, 0, 0
			}
			g.pix[j+3] = 0xFF
		}
	}
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)
}

func (g *panelGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ssd1306.Width, panelRows
}
