package app

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"oledui/internal/font5x8"
	"oledui/internal/render"
)

// faultBlink is the LED half-period once the device has faulted.
const faultBlink = 100 * time.Millisecond

// showFault logs a recovered panic with its stack and paints as much of it
// as fits onto the panel, one text line per page.
func (d *Device) showFault(v any, stack []byte) {
	lines := faultLines(v, stack, render.Width/font5x8.Advance)
	for _, l := range lines {
		d.logf("fault: %s", l)
	}

	var buf [render.Width]byte
	for p := uint8(0); p < d.panel.Pages(); p++ {
		t := render.NewTile(p, buf[:])
		t.Clear()
		if int(p) < len(lines) {
			top := int16(p) * render.PageHeight
			t.Text(0, top, []byte(lines[p]), top, top+render.PageHeight-1)
		}
		if err := d.panel.WritePage(p, buf[:]); err != nil {
			d.logf("panel: fault: %v", err)
			return
		}
	}
}

// faultLines wraps the panic value and the non-empty stack lines to cols
// runes each.
func faultLines(v any, stack []byte, cols int) []string {
	src := []string{"PANIC", fmt.Sprint(v)}
	for _, l := range strings.Split(string(stack), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			src = append(src, l)
		}
	}
	var out []string
	for _, line := range src {
		for line != "" {
			chunk, rest := takeRunes(line, cols)
			out = append(out, chunk)
			line = strings.TrimLeft(rest, " ")
		}
	}
	return out
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}

// halt blinks the status LED forever.
func (d *Device) halt() {
	for {
		d.leds.Toggle()
		time.Sleep(faultBlink)
	}
}
