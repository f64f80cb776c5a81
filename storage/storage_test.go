package storage

import (
	"testing"
)

func TestMemory_LittleEndian(t *testing.T) {
	m := NewMemory("RAM", 0, 32)
	m.Write32(4, 0xDEADBEEF)

	tests := []struct {
		name string
		got  uint64
		want uint64
	}{
		{"byte 0", uint64(m.Read8(4)), 0xEF},
		{"byte 3", uint64(m.Read8(7)), 0xDE},
		{"low halfword", uint64(m.Read16(4)), 0xBEEF},
		{"high halfword", uint64(m.Read16(6)), 0xDEAD},
		{"word", uint64(m.Read32(4)), 0xDEADBEEF},
		{"doubleword", m.Read64(0), 0xDEADBEEF00000000},
		{"untouched", uint64(m.Read32(8)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Memory read = %#x, want %#x", tt.got, tt.want)
			}
		})
	}
}

func TestMemory_Quadword(t *testing.T) {
	m := NewMemory("RAM", 0, 32)
	q := Uint128{Lo: 0x0123456789ABCDEF, Hi: 0xFEDCBA9876543210}
	m.Write128(16, q)

	if got := m.Read64(16); got != q.Lo {
		t.Errorf("Memory.Read64(16) = %#x, want %#x", got, q.Lo)
	}
	if got := m.Read64(24); got != q.Hi {
		t.Errorf("Memory.Read64(24) = %#x, want %#x", got, q.Hi)
	}
	if got := m.Read128(16); got != q {
		t.Errorf("Memory.Read128(16) = %v, want %v", got, q)
	}

	m.Reset()
	if got := m.Read128(16); got != (Uint128{}) {
		t.Errorf("Memory.Read128(16) after reset = %v, want 0", got)
	}
}

func TestConstant(t *testing.T) {
	c := NewConstant("reserved", 0x1000F000, 0x100, 0x12345678)
	c.Write32(0, 0)

	if got := c.Read32(0); got != 0x12345678 {
		t.Errorf("Constant.Read32() = %#x, want %#x", got, 0x12345678)
	}
	if got := c.Read8(3); got != 0x78 {
		t.Errorf("Constant.Read8() = %#x, want %#x", got, 0x78)
	}
	if got := c.Read64(8); got != 0x1234567812345678 {
		t.Errorf("Constant.Read64() = %#x", got)
	}
}

func TestMirror(t *testing.T) {
	m := NewMemory("RAM", 0, 16)
	mirror := NewMirror(m, 0x20000000)
	mirror.Write16(2, 0xCAFE)

	if got := m.Read16(2); got != 0xCAFE {
		t.Errorf("mirrored write not visible: %#x", got)
	}
	if mirror.PhysicalAddress() != 0x20000000 {
		t.Errorf("Mirror.PhysicalAddress() = %#x", mirror.PhysicalAddress())
	}
	if mirror.Size() != 16 {
		t.Errorf("Mirror.Size() = %d, want 16", mirror.Size())
	}
}

func TestRegisterMap(t *testing.T) {
	var a, b Word
	var written uint32
	fn := Funcs{
		Read:  func() uint32 { return 0xAABBCCDD },
		Write: func(v uint32) { written = v },
	}

	r := NewRegisterMap("regs", 0x10000000, 0x40).
		Add(0x00, &a).
		Add(0x10, &b).
		Add(0x20, fn)

	r.Write32(0x00, 0x11223344)
	r.Write8(0x01, 0xFF)
	if a != 0x1122FF44 {
		t.Errorf("byte write merged to %#x, want %#x", uint32(a), 0x1122FF44)
	}
	if got := r.Read16(0x02); got != 0x1122 {
		t.Errorf("RegisterMap.Read16() = %#x, want 0x1122", got)
	}

	r.Write64(0x10, 0xFFFFFFFF_87654321)
	if b != 0x87654321 {
		t.Errorf("doubleword write low half = %#x", uint32(b))
	}

	r.Write16(0x22, 0x0102)
	if written != 0x0102CCDD {
		t.Errorf("Funcs write got %#x, want %#x", written, 0x0102CCDD)
	}

	if got := r.Read32(0x30); got != 0 {
		t.Errorf("unpopulated offset read %#x, want 0", got)
	}
	r.Write32(0x30, 1)

	offsets := r.Offsets()
	if len(offsets) != 3 || offsets[0] != 0 || offsets[2] != 0x20 {
		t.Errorf("RegisterMap.Offsets() = %v", offsets)
	}
}

func TestDescribe(t *testing.T) {
	m := NewMemory("Scratchpad", 0x70000000, 0x4000)
	want := "Scratchpad [0x70000000..0x70003fff]"
	if got := Describe(m); got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}
