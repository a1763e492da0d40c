// Package render draws the UI tree into 128x8 display pages.
package render

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"oledui/internal/font5x8"
)

const (
	Width      = 128
	PageHeight = 8
)

// On is the lit pixel colour. Any colour with a non-zero channel lights a
// pixel; black clears it.
var On = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// Tile is one display page: Width column bytes, bit 0 the top row. It takes
// absolute panel coordinates and drops pixels outside its page.
type Tile struct {
	Page uint8
	Buf  []byte
}

var _ drivers.Displayer = (*Tile)(nil)

// NewTile wraps buf, which must hold at least Width bytes.
func NewTile(page uint8, buf []byte) *Tile { return &Tile{Page: page, Buf: buf[:Width]} }

func (t *Tile) top() int16    { return int16(t.Page) * PageHeight }
func (t *Tile) bottom() int16 { return t.top() + PageHeight - 1 }

func (t *Tile) Size() (x, y int16) { return Width, t.bottom() + 1 }

func (t *Tile) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || x >= Width || y < t.top() || y > t.bottom() {
		return
	}
	bit := byte(1) << (y - t.top())
	if c.R|c.G|c.B != 0 {
		t.Buf[x] |= bit
	} else {
		t.Buf[x] &^= bit
	}
}

func (t *Tile) Display() error { return nil }

func (t *Tile) Clear() { clear(t.Buf) }

// rowVisible reports whether an 8-pixel row at y meets both the viewport
// and this page.
func (t *Tile) rowVisible(y, vpTop, vpBottom int16) bool {
	if y > vpBottom || y+7 < vpTop {
		return false
	}
	return y <= t.bottom() && y+7 >= t.top()
}

// clip masks drawing to the rows [top, bottom].
type clip struct {
	*Tile
	top, bottom int16
}

func (c clip) SetPixel(x, y int16, col color.RGBA) {
	if y < c.top || y > c.bottom {
		return
	}
	c.Tile.SetPixel(x, y, col)
}

// Text draws s with its top-left corner at (x, y), masked to the rows
// [vpTop, vpBottom]. Runes outside the font draw blank.
func (t *Tile) Text(x, y int16, s []byte, vpTop, vpBottom int16) {
	if len(s) == 0 || !t.rowVisible(y, vpTop, vpBottom) {
		return
	}
	tinyfont.WriteLine(clip{t, vpTop, vpBottom}, font5x8.Font, x, y+font5x8.Height-1, string(s), On)
}

// InvertRow flips the pixels of an 8-pixel row at y, columns x through
// x+width inclusive, inside the viewport.
func (t *Tile) InvertRow(x uint8, width uint8, y, vpTop, vpBottom int16) {
	if !t.rowVisible(y, vpTop, vpBottom) || x >= Width {
		return
	}
	if int(x)+int(width) >= Width {
		width = Width - 1 - x
	}
	var mask byte
	for b := int16(0); b < PageHeight; b++ {
		gy := t.top() + b
		if gy < y || gy > y+7 || gy < vpTop || gy > vpBottom {
			continue
		}
		mask |= 1 << b
	}
	for cx := 0; cx <= int(width); cx++ {
		t.Buf[int(x)+cx] ^= mask
	}
}

// TextWidth is the pixel span of n glyphs without the trailing gap.
func TextWidth(n int) int {
	if n == 0 {
		return 0
	}
	return n*font5x8.Advance - 1
}

// highlightWidth is the inclusive highlight width for n glyphs.
func highlightWidth(n int) uint8 {
	w := font5x8.Width
	if n > 0 {
		w = min(TextWidth(n), Width)
	}
	return uint8(w - 1)
}

// Banner clears t and draws text centred horizontally on it.
func Banner(t *Tile, text string) {
	t.Clear()
	x := 0
	if w := TextWidth(len(text)); w < Width {
		x = (Width - w) / 2
	}
	t.Text(int16(x), t.top(), []byte(text), t.top(), t.bottom())
}

// BannerPage is the page the boot banner goes on.
func BannerPage(pages uint8) uint8 {
	if pages == 0 {
		return 0
	}
	return (pages - 1) / 2
}
