package ssd1306

import (
	"bytes"
	"errors"
	"testing"

	"oledui/internal/ledcode"
	"oledui/internal/status"
)

// recordBus logs every write made through it.
type recordBus struct {
	*Emulator
	writes [][]byte
	fail   error
}

func (b *recordBus) Write(addr uint16, data []byte) error {
	b.writes = append(b.writes, bytes.Clone(data))
	return b.Emulator.Write(addr, data)
}

func (b *recordBus) StartWrite(addr uint16, data []byte) error {
	if b.fail != nil {
		return b.fail
	}
	b.writes = append(b.writes, bytes.Clone(data))
	return b.Emulator.StartWrite(addr, data)
}

type event struct {
	kind  ledcode.Kind
	value uint8
}

type recorder struct{ events []event }

func (r *recorder) Post(k ledcode.Kind, v uint8) { r.events = append(r.events, event{k, v}) }

func TestInitSequence(t *testing.T) {
	bus := &recordBus{Emulator: NewEmulator()}
	c := New(bus)
	if err := c.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	if len(bus.writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(bus.writes))
	}
	want := append([]byte{ctrlCommand}, initSequence[:]...)
	if !bytes.Equal(bus.writes[0], want) {
		t.Fatalf("Init() wrote % X, want % X", bus.writes[0], want)
	}
	if !bus.On() {
		t.Fatalf("On() = false after Init")
	}
}

func TestSetHeight(t *testing.T) {
	tests := []struct {
		height uint8
		err    error
		pages  uint8
		wrote  []byte
	}{
		{height: 32, pages: 4, wrote: []byte{0x00, 0xA8, 0x1F, 0xD3, 0x00, 0xDA, 0x02}},
		{height: 64, pages: 8, wrote: []byte{0x00, 0xA8, 0x3F, 0xD3, 0x00, 0xDA, 0x12}},
		{height: 48, err: status.Range, pages: 8},
		{height: 0, err: status.Range, pages: 8},
	}
	for _, tt := range tests {
		bus := &recordBus{Emulator: NewEmulator()}
		c := New(bus)
		err := c.SetHeight(tt.height)
		if !errors.Is(err, tt.err) {
			t.Fatalf("SetHeight(%d) = %v, want %v", tt.height, err, tt.err)
		}
		if c.Pages() != tt.pages {
			t.Fatalf("SetHeight(%d): Pages() = %d, want %d", tt.height, c.Pages(), tt.pages)
		}
		if tt.wrote == nil {
			if len(bus.writes) != 0 {
				t.Fatalf("SetHeight(%d) wrote %d times, want none", tt.height, len(bus.writes))
			}
			continue
		}
		if len(bus.writes) != 1 || !bytes.Equal(bus.writes[0], tt.wrote) {
			t.Fatalf("SetHeight(%d) wrote % X, want % X", tt.height, bus.writes, tt.wrote)
		}
		if bus.Rows() != int(tt.height) {
			t.Fatalf("Rows() = %d, want %d", bus.Rows(), tt.height)
		}
	}
}

func TestWritePageChunks(t *testing.T) {
	bus := &recordBus{Emulator: NewEmulator()}
	c := New(bus)
	data := make([]byte, Width)
	for i := range data {
		data[i] = byte(i)
	}
	if err := c.WritePage(2, data); err != nil {
		t.Fatalf("WritePage() = %v", err)
	}
	addr := []byte{0x00, 0x21, 0x00, 0x7F, 0x22, 0x02, 0x02}
	if !bytes.Equal(bus.writes[0], addr) {
		t.Fatalf("address write = % X, want % X", bus.writes[0], addr)
	}
	var got []byte
	lens := []int{29, 29, 29, 29, 17}
	if len(bus.writes)-1 != len(lens) {
		t.Fatalf("data writes = %d, want %d", len(bus.writes)-1, len(lens))
	}
	for i, w := range bus.writes[1:] {
		if len(w) != lens[i] || w[0] != ctrlData {
			t.Fatalf("chunk %d = len %d ctrl %02X, want len %d ctrl 40", i, len(w), w[0], lens[i])
		}
		got = append(got, w[1:]...)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("chunks reassemble to % X", got)
	}
	if page := bus.Page(2); !bytes.Equal(page[:], data) {
		t.Fatalf("Page(2) = % X, want % X", page, data)
	}
}

func TestWritePageOutOfRange(t *testing.T) {
	c := New(NewEmulator())
	if err := c.SetHeight(32); err != nil {
		t.Fatalf("SetHeight() = %v", err)
	}
	if err := c.WritePage(4, make([]byte, Width)); !errors.Is(err, status.BadLen) {
		t.Fatalf("WritePage(4) = %v, want %v", err, status.BadLen)
	}
	if err := c.WritePage(0, make([]byte, 10)); !errors.Is(err, status.BadLen) {
		t.Fatalf("WritePage(short) = %v, want %v", err, status.BadLen)
	}
}

func TestClear(t *testing.T) {
	emu := NewEmulator()
	c := New(emu)
	full := bytes.Repeat([]byte{0xFF}, Width)
	for p := range c.Pages() {
		if err := c.WritePage(p, full); err != nil {
			t.Fatalf("WritePage(%d) = %v", p, err)
		}
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() = %v", err)
	}
	for p := range MaxPages {
		if page := emu.Page(p); page != [Width]byte{} {
			t.Fatalf("Page(%d) not blank after Clear", p)
		}
	}
}

func TestDisplayOnOff(t *testing.T) {
	emu := NewEmulator()
	c := New(emu)
	if err := c.DisplayOn(); err != nil || !emu.On() {
		t.Fatalf("DisplayOn() = %v, On() = %v", err, emu.On())
	}
	if err := c.DisplayOff(); err != nil || emu.On() {
		t.Fatalf("DisplayOff() = %v, On() = %v", err, emu.On())
	}
}

func pageMarker(page uint8, tile []byte) {
	tile[0] = page + 1
	tile[Width-1] = 0x80 | page
}

func TestPipelineFrame(t *testing.T) {
	emu := NewEmulator()
	emu.Delay = 3
	c := New(emu)
	if err := c.SetHeight(32); err != nil {
		t.Fatalf("SetHeight() = %v", err)
	}
	rec := &recorder{}
	c.Events = rec

	if c.Stage() != StageIdle {
		t.Fatalf("Stage() = %d, want idle", c.Stage())
	}
	var drawn []uint8
	err := c.Begin(func(page uint8, tile []byte) {
		drawn = append(drawn, page)
		pageMarker(page, tile)
	})
	if err != nil {
		t.Fatalf("Begin() = %v", err)
	}
	if c.Stage() != StageAddr {
		t.Fatalf("Stage() = %d, want %d", c.Stage(), StageAddr)
	}
	c.Drain()
	if c.Active() {
		t.Fatalf("Active() = true after Drain")
	}
	if want := []uint8{0, 1, 2, 3}; !bytes.Equal(drawn, want) {
		t.Fatalf("drawn pages = %v, want %v", drawn, want)
	}
	for p := range uint8(4) {
		page := emu.Page(int(p))
		if page[0] != p+1 || page[Width-1] != 0x80|p {
			t.Fatalf("Page(%d) = %02X..%02X", p, page[0], page[Width-1])
		}
	}
	want := []event{
		{ledcode.RenderStart, 3},
		{ledcode.RenderStage, 0},
		{ledcode.RenderStage, 1},
		{ledcode.RenderStage, 2},
		{ledcode.RenderStage, 3},
		{ledcode.RenderDone, 0},
	}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Fatalf("events[%d] = %v, want %v", i, rec.events[i], want[i])
		}
	}
}

func TestBeginWhileActive(t *testing.T) {
	c := New(NewEmulator())
	if err := c.Begin(nil); err != nil {
		t.Fatalf("Begin() = %v", err)
	}
	if err := c.Begin(nil); !errors.Is(err, status.BadState) {
		t.Fatalf("Begin() while active = %v, want %v", err, status.BadState)
	}
}

func TestStartOrRequestRerenders(t *testing.T) {
	emu := NewEmulator()
	emu.Delay = 2
	c := New(emu)
	rec := &recorder{}
	c.Events = rec

	frames := 0
	draw := func(page uint8, tile []byte) {
		if page == 0 {
			frames++
		}
		tile[0] = byte(frames)
	}
	if !c.StartOrRequest(draw) {
		t.Fatalf("StartOrRequest() on idle pipeline = false, want true")
	}
	for range 5 {
		c.Process()
	}
	if c.StartOrRequest(draw) {
		t.Fatalf("StartOrRequest() while active = true, want false")
	}
	c.Drain()
	if frames != 2 {
		t.Fatalf("frames = %d, want 2", frames)
	}
	if page := emu.Page(7); page[0] != 2 {
		t.Fatalf("last page shows frame %d, want 2", page[0])
	}
	var done []uint8
	starts := 0
	for _, e := range rec.events {
		switch e.kind {
		case ledcode.RenderDone:
			done = append(done, e.value)
		case ledcode.RenderStart:
			starts++
		}
	}
	if !bytes.Equal(done, []uint8{1, 0}) || starts != 2 {
		t.Fatalf("done = %v starts = %d, want [1 0] and 2", done, starts)
	}
}

func TestRequestRerenderIdle(t *testing.T) {
	c := New(NewEmulator())
	c.RequestRerender()
	frames := 0
	if err := c.Begin(func(page uint8, _ []byte) {
		if page == 0 {
			frames++
		}
	}); err != nil {
		t.Fatalf("Begin() = %v", err)
	}
	c.Drain()
	if frames != 1 {
		t.Fatalf("frames = %d, want 1", frames)
	}
}

func TestTransferErrorAbortsPage(t *testing.T) {
	fail := errors.New("bus fault")
	bus := &recordBus{Emulator: NewEmulator(), fail: fail}
	c := New(bus)
	if err := c.Begin(pageMarker); err != nil {
		t.Fatalf("Begin() = %v", err)
	}
	c.Drain()
	if err := c.TakeErr(); !errors.Is(err, fail) {
		t.Fatalf("TakeErr() = %v, want %v", err, fail)
	}
	if err := c.TakeErr(); err != nil {
		t.Fatalf("second TakeErr() = %v, want nil", err)
	}
	if page := bus.Page(0); page[0] != 0 {
		t.Fatalf("Page(0)[0] = %02X, want untouched", page[0])
	}
}

func TestEmulatorWrongAddress(t *testing.T) {
	emu := NewEmulator()
	if err := emu.Write(0x3D, []byte{0x00, cmdDisplayOn}); !errors.Is(err, ErrNack) {
		t.Fatalf("Write(0x3D) = %v, want %v", err, ErrNack)
	}
	if emu.On() {
		t.Fatalf("On() = true after rejected write")
	}
}

func TestEmulatorCommandSplitAcrossWrites(t *testing.T) {
	emu := NewEmulator()
	_ = emu.Write(Address, []byte{0x00, cmdSetColumnAddr, 10})
	_ = emu.Write(Address, []byte{0x00, 11, cmdSetPageAddr, 3, 3})
	_ = emu.Write(Address, []byte{0x40, 0x01, 0x02, 0x03})
	page := emu.Page(3)
	// The third byte wraps back to the start column.
	if page[10] != 0x03 || page[11] != 0x02 || page[12] != 0 {
		t.Fatalf("Page(3)[10:13] = % X", page[10:13])
	}
	if emu.Page(4)[10] != 0 {
		t.Fatalf("page wrap escaped the page range")
	}
	if !emu.Pixel(11, 25) || emu.Pixel(11, 24) {
		t.Fatalf("Pixel(11, 25/24) = %v/%v, want true/false", emu.Pixel(11, 25), emu.Pixel(11, 24))
	}
}
