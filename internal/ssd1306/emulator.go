package ssd1306

import (
	"errors"
	"sync"
)

// ErrNack is returned by the emulator for writes to another address.
var ErrNack = errors.New("ssd1306: address not acknowledged")

// MaxPages is the GDDRAM depth of the controller.
const MaxPages = 8

// argCount is the number of parameter bytes following a command.
func argCount(cmd byte) int {
	switch cmd {
	case cmdSetColumnAddr, cmdSetPageAddr:
		return 2
	case 0x20, 0x81, 0x8D, cmdSetMultiplex, cmdSetOffset, 0xD5, 0xD9, cmdSetComPins, 0xDB:
		return 1
	default:
		return 0
	}
}

// Emulator is an in-memory panel that implements Bus. It decodes the
// command stream and keeps GDDRAM in horizontal addressing mode, which is
// all the driver uses. Reads are safe from other goroutines.
type Emulator struct {
	mu  sync.Mutex
	ram [MaxPages][Width]byte
	on  bool
	mux uint8

	col, colStart, colEnd    uint8
	page, pageStart, pageEnd uint8

	cmd  [3]byte
	have int

	// Delay is the number of Busy polls that report true after StartWrite.
	Delay int
	busy  int
}

func NewEmulator() *Emulator {
	return &Emulator{mux: 63, colEnd: Width - 1, pageEnd: MaxPages - 1}
}

func (e *Emulator) Write(addr uint16, data []byte) error {
	if addr != Address {
		return ErrNack
	}
	if len(data) == 0 {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if data[0] == ctrlData {
		for _, b := range data[1:] {
			e.data(b)
		}
		return nil
	}
	for _, b := range data[1:] {
		e.command(b)
	}
	return nil
}

func (e *Emulator) StartWrite(addr uint16, data []byte) error {
	if err := e.Write(addr, data); err != nil {
		return err
	}
	e.busy = e.Delay
	return nil
}

func (e *Emulator) Busy() bool {
	if e.busy > 0 {
		e.busy--
		return true
	}
	return false
}

func (e *Emulator) command(b byte) {
	e.cmd[e.have] = b
	e.have++
	if e.have <= argCount(e.cmd[0]) {
		return
	}
	e.have = 0
	switch e.cmd[0] {
	case cmdDisplayOn:
		e.on = true
	case cmdDisplayOff:
		e.on = false
	case cmdSetMultiplex:
		e.mux = e.cmd[1] & 0x3F
	case cmdSetColumnAddr:
		e.colStart, e.colEnd = e.cmd[1]&0x7F, e.cmd[2]&0x7F
		e.col = e.colStart
	case cmdSetPageAddr:
		e.pageStart, e.pageEnd = e.cmd[1]&7, e.cmd[2]&7
		e.page = e.pageStart
	}
}

func (e *Emulator) data(b byte) {
	e.ram[e.page][e.col] = b
	if e.col < e.colEnd {
		e.col++
		return
	}
	e.col = e.colStart
	if e.page < e.pageEnd {
		e.page++
	} else {
		e.page = e.pageStart
	}
}

// On reports whether the display is switched on.
func (e *Emulator) On() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.on
}

// Rows is the number of multiplexed rows shown.
func (e *Emulator) Rows() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return int(e.mux) + 1
}

// Page returns a copy of one GDDRAM page.
func (e *Emulator) Page(p int) [Width]byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ram[p%MaxPages]
}

// Snapshot copies GDDRAM into dst.
func (e *Emulator) Snapshot(dst *[MaxPages][Width]byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	*dst = e.ram
}

// Pixel reports whether the pixel at x, y is lit in GDDRAM.
func (e *Emulator) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= MaxPages*PageHeight {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ram[y/PageHeight][x]&(1<<(y%PageHeight)) != 0
}
