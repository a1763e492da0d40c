package render

import (
	"testing"

	"oledui/internal/ui"
)

func build(t *testing.T, objs ...string) *ui.State {
	t.Helper()
	s := ui.New()
	for i, o := range objs {
		var flags uint8
		if i == 0 {
			flags |= ui.FlagReset
		}
		if i == len(objs)-1 {
			flags |= ui.FlagCommit
		}
		if err := s.ApplyObject([]byte(o), flags); err != nil {
			t.Fatalf("ApplyObject(%s) err = %v", o, err)
		}
	}
	return s
}

func page(r *Renderer, p uint8) []byte {
	buf := make([]byte, Width)
	r.DrawTile(p, buf)
	return buf
}

func blank(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func TestTileText(t *testing.T) {
	tests := []struct {
		name     string
		page     uint8
		y        int16
		vpTop    int16
		vpBottom int16
		want     byte
	}{
		{"aligned", 0, 0, 0, 7, 0x5F},
		{"second page", 1, 8, 8, 15, 0x5F},
		{"shifted down", 0, 4, 0, 63, 0xF0},
		{"spill into next page", 1, 4, 0, 63, 0x05},
		{"viewport top rows", 0, 0, 0, 3, 0x0F},
		{"outside viewport", 0, 0, 8, 15, 0x00},
	}
	for _, tt := range tests {
		tile := NewTile(tt.page, make([]byte, Width))
		tile.Text(0, tt.y, []byte("!"), tt.vpTop, tt.vpBottom)
		if got := tile.Buf[2]; got != tt.want {
			t.Fatalf("%s: column 2 = %#02x, want %#02x", tt.name, got, tt.want)
		}
	}
}

func TestTileClipsHorizontally(t *testing.T) {
	tile := NewTile(0, make([]byte, Width))
	tile.Text(-6, 0, []byte("!!"), 0, 7)
	if tile.Buf[2] != 0x5F {
		t.Fatalf("second glyph column = %#02x, want 0x5F", tile.Buf[2])
	}
	tile.Clear()
	tile.Text(124, 0, []byte("HH"), 0, 7)
	if tile.Buf[127] != 0x08 || tile.Buf[124] != 0x7F {
		t.Fatalf("edge glyph = % X", tile.Buf[124:])
	}
}

func TestInvertRow(t *testing.T) {
	tile := NewTile(0, make([]byte, Width))
	tile.Buf[1] = 0x0F
	tile.InvertRow(0, 4, 0, 0, 7)
	for x := 0; x <= 4; x++ {
		want := byte(0xFF)
		if x == 1 {
			want = 0xF0
		}
		if tile.Buf[x] != want {
			t.Fatalf("column %d = %#02x, want %#02x", x, tile.Buf[x], want)
		}
	}
	if tile.Buf[5] != 0 {
		t.Fatalf("column 5 inverted")
	}

	tile.Clear()
	tile.InvertRow(120, 50, 4, 4, 11)
	if tile.Buf[127] != 0xF0 || tile.Buf[119] != 0 {
		t.Fatalf("clamped invert = % X", tile.Buf[119:])
	}
}

func TestHighlightWidth(t *testing.T) {
	tests := map[int]uint8{0: 4, 1: 4, 2: 10, 3: 16, 30: 127}
	for n, want := range tests {
		if got := highlightWidth(n); got != want {
			t.Fatalf("highlightWidth(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestBanner(t *testing.T) {
	tile := NewTile(3, make([]byte, Width))
	tile.Buf[0] = 0xFF
	Banner(tile, "SLAVE START")
	// 11 glyphs span 65 px, centred at x=31.
	if tile.Buf[0] != 0 || tile.Buf[30] != 0 || tile.Buf[31] != 0x46 {
		t.Fatalf("banner columns 0,30,31 = %#02x %#02x %#02x", tile.Buf[0], tile.Buf[30], tile.Buf[31])
	}
	if got := BannerPage(8); got != 3 {
		t.Fatalf("BannerPage(8) = %d, want 3", got)
	}
	if got := BannerPage(4); got != 1 {
		t.Fatalf("BannerPage(4) = %d, want 1", got)
	}
}

func TestDrawText(t *testing.T) {
	s := build(t,
		`{"t":"h","n":3}`,
		`{"t":"s"}`,
		`{"t":"t","p":0,"x":0,"y":0,"tx":"H"}`,
		`{"t":"t","p":0,"x":10,"y":16,"tx":"I"}`,
	)
	r := New(s)
	p0 := page(r, 0)
	if p0[0] != 0x7F || p0[2] != 0x08 {
		t.Fatalf("page 0 = % X", p0[:6])
	}
	if !blank(page(r, 1)) {
		t.Fatalf("page 1 not blank")
	}
	if p2 := page(r, 2); p2[12] != 0x7F {
		t.Fatalf("page 2 column 12 = %#02x, want 0x7F", p2[12])
	}
}

func TestDrawListMarker(t *testing.T) {
	s := build(t,
		`{"t":"h","n":4}`,
		`{"t":"s"}`,
		`{"t":"l","p":0,"y":8}`,
		`{"t":"t","p":1,"x":6,"tx":"a"}`,
		`{"t":"t","p":1,"x":6,"tx":"b"}`,
	)
	r := New(s)
	if p1 := page(r, 1); p1[0] != 0 || p1[6] != 0x20 {
		t.Fatalf("unfocused row = % X", p1[:12])
	}
	if err := s.Input(ui.ButtonOk, ui.EventRelease); err != nil {
		t.Fatalf("Input() err = %v", err)
	}
	if p1 := page(r, 1); p1[0] != 0x41 {
		t.Fatalf("marker column = %#02x, want 0x41", p1[0])
	}
	if p2 := page(r, 2); p2[0] != 0 || p2[6] != 0x7F {
		t.Fatalf("second row = % X", p2[:12])
	}
}

func TestDrawListScrollOffset(t *testing.T) {
	s := build(t,
		`{"t":"h","n":5}`,
		`{"t":"s"}`,
		`{"t":"l","p":0,"r":1}`,
		`{"t":"t","p":1,"tx":"|"}`,
		`{"t":"t","p":1,"tx":"|"}`,
		`{"t":"t","p":1,"tx":"|"}`,
	)
	_ = s.Input(ui.ButtonOk, ui.EventRelease)
	_ = s.Input(ui.ButtonDown, ui.EventRelease)
	for now := uint32(16); now <= 64; now += 16 {
		s.Tick(now)
	}
	// Four pixels into the scroll: the old row keeps its bottom three lit
	// rows at the top of the window, the next row fills the lower half.
	p0 := page(New(s), 0)
	if p0[2] != 0xF7 {
		t.Fatalf("scrolling window column 2 = %#02x, want 0xF7", p0[2])
	}
	l := s.Arena().FindList(1)
	if !l.AnimActive || l.AnimPix != 4 {
		t.Fatalf("list = %+v", *l)
	}
}

func TestDrawBarrel(t *testing.T) {
	s := build(t,
		`{"t":"h","n":4}`,
		`{"t":"s"}`,
		`{"t":"b","p":0,"v":3}`,
		`{"t":"b","p":0,"y":8,"v":0}`,
		`{"t":"t","p":2,"tx":"I"}`,
	)
	r := New(s)
	p0 := page(r, 0)
	// "[3]": '[' then '3' at x=6.
	if p0[2] != 0x7F || p0[6] != 0x21 {
		t.Fatalf("fallback label = % X", p0[:18])
	}
	if p1 := page(r, 1); p1[2] != 0x7F {
		t.Fatalf("child label column 2 = %#02x, want 0x7F", p1[2])
	}

	_ = s.Input(ui.ButtonOk, ui.EventRelease)
	if s.Focus() != 1 {
		t.Fatalf("Focus() = %d, want 1", s.Focus())
	}
	p0 = page(r, 0)
	if p0[0] != 0xFF || p0[2] != 0x80 {
		t.Fatalf("focused label not inverted: % X", p0[:18])
	}
}

func TestDrawOverlay(t *testing.T) {
	s := build(t,
		`{"t":"h","n":4}`,
		`{"t":"s"}`,
		`{"t":"t","p":0,"tx":"H"}`,
		`{"t":"s","ov":1}`,
		`{"t":"t","p":2,"x":20,"tx":"I"}`,
	)
	r := New(s)
	if p0 := page(r, 0); p0[0] != 0x7F || p0[22] != 0 {
		t.Fatalf("base page = % X", p0[:24])
	}
	if err := s.ShowOverlay(2, 100, false); err != nil {
		t.Fatalf("ShowOverlay() err = %v", err)
	}
	if p0 := page(r, 0); p0[0] != 0 || p0[22] != 0x7F {
		t.Fatalf("overlay page = % X", p0[:24])
	}
}

func TestDrawSlide(t *testing.T) {
	s := build(t,
		`{"t":"h","n":4}`,
		`{"t":"s"}`,
		`{"t":"t","p":0,"tx":"H"}`,
		`{"t":"s"}`,
		`{"t":"t","p":2,"tx":"I"}`,
	)
	_ = s.Input(ui.ButtonRight, ui.EventRelease)
	for now := uint32(16); now <= 16*8; now += 16 {
		s.Tick(now)
	}
	// Halfway: screen 0 text at x=-64 (off), screen 1 text at x=64.
	p0 := page(New(s), 0)
	if p0[0] != 0 || p0[66] != 0x7F {
		t.Fatalf("mid-slide page = % X", p0[60:70])
	}
}
