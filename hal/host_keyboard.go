//go:build !tinygo && cgo

package hal

import "github.com/hajimehoshi/ebiten/v2"

var buttonKeys = [ButtonPins][]ebiten.Key{
	PinUp:    {ebiten.KeyArrowUp},
	PinDown:  {ebiten.KeyArrowDown},
	PinOk:    {ebiten.KeyEnter, ebiten.KeySpace},
	PinBack:  {ebiten.KeyEscape, ebiten.KeyBackspace},
	PinLeft:  {ebiten.KeyArrowLeft},
	PinRight: {ebiten.KeyArrowRight},
}

// pollKeys holds a button line low while any of its keys is down.
func (h *Host) pollKeys() {
	for pin, keys := range buttonKeys {
		down := false
		for _, k := range keys {
			if ebiten.IsKeyPressed(k) {
				down = true
				break
			}
		}
		if down {
			h.Press(pin)
		} else {
			h.Release(pin)
		}
	}
}
