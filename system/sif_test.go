package system

import (
	"testing"

	"ps2/storage"
)

func TestSIFWordsToQword(t *testing.T) {
	f := NewSIF(8)
	for _, w := range []uint32{0x11111111, 0x22222222, 0x33333333} {
		f.WriteWord(w)
	}
	if _, ok := f.ReadQword(); ok {
		t.Fatal("ReadQword() with 3 words = ok, want waiting")
	}
	f.WriteWord(0x44444444)

	got, ok := f.ReadQword()
	want := storage.Uint128{Lo: 0x2222222211111111, Hi: 0x4444444433333333}
	if !ok || got != want {
		t.Errorf("ReadQword() = %v, %v, want %v, true", got, ok, want)
	}
}

func TestSIFQwordToWords(t *testing.T) {
	f := NewSIF(8)
	f.WriteQword(storage.Uint128{Lo: 0x2222222211111111, Hi: 0x4444444433333333})

	for _, want := range []uint32{0x11111111, 0x22222222, 0x33333333, 0x44444444} {
		if got, ok := f.ReadWord(); !ok || got != want {
			t.Errorf("ReadWord() = %08x, %v, want %08x, true", got, ok, want)
		}
	}
	if _, ok := f.ReadWord(); ok {
		t.Error("ReadWord() on empty SIF = ok")
	}
}

func TestSIFCapacity(t *testing.T) {
	tests := []struct {
		name   string
		queued int
		qword  bool
		want   bool
	}{
		{"word fits", 7, false, true},
		{"word full", 8, false, false},
		{"qword fits", 4, true, true},
		{"qword partly fits", 5, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewSIF(8)
			for i := 0; i < tt.queued; i++ {
				f.WriteWord(uint32(i))
			}
			var got bool
			if tt.qword {
				got = f.WriteQword(storage.Uint128{})
			} else {
				got = f.WriteWord(0)
			}
			if got != tt.want {
				t.Errorf("write after %d words = %v, want %v", tt.queued, got, tt.want)
			}
		})
	}
}
