package storage

import "sort"

// Register is a 32 bit I/O register. WriteWord only affects the bits set in
// mask, so byte and halfword stores leave the rest of the register alone.
type Register interface {
	ReadWord() uint32
	WriteWord(value, mask uint32)
}

// Word is a plain read/write register
type Word uint32

func (w *Word) ReadWord() uint32 { return uint32(*w) }

func (w *Word) WriteWord(value, mask uint32) {
	*w = Word(uint32(*w)&^mask | value&mask)
}

// Funcs adapts a getter/setter pair. Partial writes are merged with the
// current value before Write is called.
type Funcs struct {
	Read  func() uint32
	Write func(value uint32)
}

func (f Funcs) ReadWord() uint32 {
	if f.Read == nil {
		return 0
	}
	return f.Read()
}

func (f Funcs) WriteWord(value, mask uint32) {
	if f.Write == nil {
		return
	}
	f.Write(f.ReadWord()&^mask | value&mask)
}

// RegisterMap is a storage assembled from registers at word aligned offsets.
// Offsets without a register read as 0 and ignore writes.
type RegisterMap struct {
	mnemonic  string
	address   uint32
	size      uint32
	registers map[uint32]Register
}

// NewRegisterMap returns an empty register block
func NewRegisterMap(mnemonic string, address, size uint32) *RegisterMap {
	return &RegisterMap{
		mnemonic:  mnemonic,
		address:   address,
		size:      size,
		registers: make(map[uint32]Register),
	}
}

// Add places reg at offset (rounded down to a word boundary)
func (r *RegisterMap) Add(offset uint32, reg Register) *RegisterMap {
	r.registers[offset&^3] = reg
	return r
}

// Offsets lists the populated offsets in ascending order
func (r *RegisterMap) Offsets() []uint32 {
	offsets := make([]uint32, 0, len(r.registers))
	for o := range r.registers {
		offsets = append(offsets, o)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}

func (r *RegisterMap) Mnemonic() string        { return r.mnemonic }
func (r *RegisterMap) PhysicalAddress() uint32 { return r.address }
func (r *RegisterMap) Size() uint32            { return r.size }

func (r *RegisterMap) readWord(offset uint32) uint32 {
	if reg, ok := r.registers[offset]; ok {
		return reg.ReadWord()
	}
	return 0
}

func (r *RegisterMap) writeWord(offset, value, mask uint32) {
	if reg, ok := r.registers[offset]; ok {
		reg.WriteWord(value, mask)
	}
}

func (r *RegisterMap) Read8(offset uint32) uint8 {
	return uint8(r.readWord(offset&^3) >> ((offset & 3) * 8))
}

func (r *RegisterMap) Read16(offset uint32) uint16 {
	return uint16(r.readWord(offset&^3) >> ((offset & 2) * 8))
}

func (r *RegisterMap) Read32(offset uint32) uint32 {
	return r.readWord(offset &^ 3)
}

func (r *RegisterMap) Read64(offset uint32) uint64 {
	return uint64(r.Read32(offset+4))<<32 | uint64(r.Read32(offset))
}

func (r *RegisterMap) Read128(offset uint32) Uint128 {
	return Uint128{Lo: r.Read64(offset), Hi: r.Read64(offset + 8)}
}

func (r *RegisterMap) Write8(offset uint32, value uint8) {
	shift := (offset & 3) * 8
	r.writeWord(offset&^3, uint32(value)<<shift, 0xff<<shift)
}

func (r *RegisterMap) Write16(offset uint32, value uint16) {
	shift := (offset & 2) * 8
	r.writeWord(offset&^3, uint32(value)<<shift, 0xffff<<shift)
}

func (r *RegisterMap) Write32(offset uint32, value uint32) {
	r.writeWord(offset&^3, value, 0xffffffff)
}

func (r *RegisterMap) Write64(offset uint32, value uint64) {
	r.Write32(offset, uint32(value))
	r.Write32(offset+4, uint32(value>>32))
}

func (r *RegisterMap) Write128(offset uint32, value Uint128) {
	r.Write64(offset, value.Lo)
	r.Write64(offset+8, value.Hi)
}
