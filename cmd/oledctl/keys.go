//go:build !tinygo

package main

import (
	"errors"
	"io"
	"os"

	"golang.org/x/term"

	"oledui/internal/ui"
)

// decodeKeys maps one raw terminal read to buttons. Arrow keys arrive as
// ESC [ A..D; a lone ESC is Back. q or Ctrl-C asks to quit.
func decodeKeys(b []byte) (buttons []ui.Button, quit bool) {
	for i := 0; i < len(b); i++ {
		switch c := b[i]; c {
		case 0x1b:
			if i+2 < len(b) && (b[i+1] == '[' || b[i+1] == 'O') {
				switch b[i+2] {
				case 'A':
					buttons = append(buttons, ui.ButtonUp)
				case 'B':
					buttons = append(buttons, ui.ButtonDown)
				case 'C':
					buttons = append(buttons, ui.ButtonRight)
				case 'D':
					buttons = append(buttons, ui.ButtonLeft)
				}
				i += 2
				continue
			}
			buttons = append(buttons, ui.ButtonBack)
		case '\r', '\n', ' ':
			buttons = append(buttons, ui.ButtonOk)
		case 0x7f, 0x08:
			buttons = append(buttons, ui.ButtonBack)
		case 'q', 0x03:
			return buttons, true
		}
	}
	return buttons, false
}

func cmdKeys(e *env, args []string) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("keys needs a terminal on stdin")
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, old)
	e.log.Info("forwarding keys, q to quit")

	buf := make([]byte, 16)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		buttons, quit := decodeKeys(buf[:n])
		for _, b := range buttons {
			if err := e.client.Input(e.ctx, uint8(b), ui.EventRelease); err != nil {
				return err
			}
			e.log.Debug("input", "button", b)
		}
		if quit || e.ctx.Err() != nil {
			return nil
		}
	}
}
