package cobs

import (
	"bytes"
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func TestEncodeVectors(t *testing.T) {
	long := bytes.Repeat([]byte{0x42}, MaxRun)
	longWant := append([]byte{0xFF}, long...)
	longWant = append(longWant, 0x01)

	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"empty", nil, []byte{0x01}},
		{"zero", []byte{0x00}, []byte{0x01, 0x01}},
		{"mixed", []byte{0x11, 0x22, 0x00, 0x33}, []byte{0x03, 0x11, 0x22, 0x02, 0x33}},
		{"trailing zeros", []byte{0x11, 0x00, 0x00, 0x00}, []byte{0x02, 0x11, 0x01, 0x01, 0x01}},
		{"full run", long, longWant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, MaxEncodedLen(len(tt.in)))
			n, err := Encode(dst, tt.in)
			if err != nil {
				t.Fatalf("Encode() err = %v", err)
			}
			if !bytes.Equal(dst[:n], tt.want) {
				t.Fatalf("Encode() = % X, want % X", dst[:n], tt.want)
			}
		})
	}
}

func TestEncodeOverflow(t *testing.T) {
	tests := []struct {
		name string
		dst  int
		in   []byte
	}{
		{"no room", 0, nil},
		{"data", 3, []byte{1, 2, 3}},
		{"zeros", 2, []byte{0, 0}},
	}
	for _, tt := range tests {
		n, err := Encode(make([]byte, tt.dst), tt.in)
		if n != 0 || !errors.Is(err, ErrOverflow) {
			t.Fatalf("%s: Encode() = %d, %v, want 0, ErrOverflow", tt.name, n, err)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		dst  int
		in   []byte
		want error
	}{
		{"zero marker", 8, []byte{0x00}, ErrZeroMarker},
		{"zero marker mid", 8, []byte{0x02, 0x11, 0x00}, ErrZeroMarker},
		{"truncated", 8, []byte{0x05, 0x11, 0x22}, ErrTruncated},
		{"overflow data", 1, []byte{0x03, 0x11, 0x22}, ErrOverflow},
		{"overflow implicit zero", 1, []byte{0x02, 0x11, 0x01}, ErrOverflow},
	}
	for _, tt := range tests {
		_, err := Decode(make([]byte, tt.dst), tt.in)
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: Decode() err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestDecodeVector(t *testing.T) {
	dst := make([]byte, 8)
	n, err := Decode(dst, []byte{0x03, 0x11, 0x22, 0x02, 0x33})
	if err != nil {
		t.Fatalf("Decode() err = %v", err)
	}
	want := []byte{0x11, 0x22, 0x00, 0x33}
	if !bytes.Equal(dst[:n], want) {
		t.Fatalf("Decode() = % X, want % X", dst[:n], want)
	}
}

func TestRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := rapid.SliceOfN(rapid.Byte(), 0, 700).Draw(t, "src")

		enc := make([]byte, MaxEncodedLen(len(src)))
		n, err := Encode(enc, src)
		if err != nil {
			t.Fatalf("Encode() err = %v", err)
		}
		if bytes.IndexByte(enc[:n], 0) >= 0 {
			t.Fatalf("Encode() output contains a zero byte: % X", enc[:n])
		}

		dec := make([]byte, len(src))
		m, err := Decode(dec, enc[:n])
		if err != nil {
			t.Fatalf("Decode() err = %v", err)
		}
		if !bytes.Equal(dec[:m], src) {
			t.Fatalf("Decode(Encode(x)) = % X, want % X", dec[:m], src)
		}
	})
}

func TestEncodeTightBuffer(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := rapid.SliceOfN(rapid.Byte(), 1, 300).Draw(t, "src")

		full := make([]byte, MaxEncodedLen(len(src)))
		n, err := Encode(full, src)
		if err != nil {
			t.Fatalf("Encode() err = %v", err)
		}
		if _, err := Encode(make([]byte, n-1), src); !errors.Is(err, ErrOverflow) {
			t.Fatalf("Encode() into %d bytes err = %v, want ErrOverflow", n-1, err)
		}
	})
}
