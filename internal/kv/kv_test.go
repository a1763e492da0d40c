package kv

import (
	"errors"
	"testing"

	"oledui/internal/status"
)

func TestObject(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{in: `{"t":"s"}`, want: `{"t":"s"}`},
		{in: "  \t{\"n\":3}\r\n", want: `{"n":3}`},
		{in: `{`, err: status.BadLen},
		{in: `  `, err: status.ParseFail},
		{in: `["t"]`, err: status.ParseFail},
		{in: `{"t":"s"`, err: status.ParseFail},
	}
	for _, tt := range tests {
		got, err := Object([]byte(tt.in))
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Fatalf("Object(%q) err = %v, want %v", tt.in, err, tt.err)
			}
			continue
		}
		if err != nil || string(got) != tt.want {
			t.Fatalf("Object(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		obj  string
		key  string
		want int
		ok   bool
	}{
		{`{"n":3}`, "n", 3, true},
		{`{"t":"b","v":-12,"p":0}`, "v", -12, true},
		{`{"x": "40"}`, "x", 40, true},
		{`{ "y" :  7 }`, "y", 7, true},
		{`{"px":5,"x":9}`, "x", 9, true},
		{`{"t":"x","x":2}`, "x", 2, true},
		{`{"n":}`, "n", 0, false},
		{`{"n":"-"}`, "n", 0, false},
		{`{"m":3}`, "n", 0, false},
		{`{"n"}`, "n", 0, false},
	}
	for _, tt := range tests {
		got, ok := Int([]byte(tt.obj), tt.key)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("Int(%s, %q) = %d, %v, want %d, %v", tt.obj, tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		obj  string
		key  string
		max  int
		want string
		ok   bool
	}{
		{`{"t":"te","p":0}`, "t", 15, "te", true},
		{`{"tx":"Hello"}`, "tx", 32, "Hello", true},
		{`{"tx":""}`, "tx", 32, "", true},
		{`{"tx":"Hello"}`, "tx", 3, "Hel", true},
		{`{"tx":5}`, "tx", 32, "", false},
		{`{"tx":"open}`, "tx", 32, "", false},
		{`{"t":"s"}`, "tx", 32, "", false},
	}
	for _, tt := range tests {
		got, ok := String([]byte(tt.obj), tt.key, tt.max)
		if string(got) != tt.want || ok != tt.ok {
			t.Fatalf("String(%s, %q) = %q, %v, want %q, %v", tt.obj, tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHas(t *testing.T) {
	obj := []byte(`{"e":4,"tx":"a"}`)
	if !Has(obj, "e") || Has(obj, "p") {
		t.Fatalf("Has() mismatch on %s", obj)
	}
}
