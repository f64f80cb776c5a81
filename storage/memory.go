package storage

import "encoding/binary"

// Memory is a plain byte backed block, used for RAM, ROM and scratchpad.
type Memory struct {
	mnemonic string
	address  uint32
	data     []byte
}

// NewMemory returns zero filled memory of the given size at the physical address
func NewMemory(mnemonic string, address, size uint32) *Memory {
	return &Memory{
		mnemonic: mnemonic,
		address:  address,
		data:     make([]byte, size),
	}
}

func (m *Memory) Mnemonic() string        { return m.mnemonic }
func (m *Memory) PhysicalAddress() uint32 { return m.address }
func (m *Memory) Size() uint32            { return uint32(len(m.data)) }

// Reset zero fills the memory
func (m *Memory) Reset() {
	clear(m.data)
}

func (m *Memory) Read8(offset uint32) uint8 { return m.data[offset] }

func (m *Memory) Read16(offset uint32) uint16 {
	return binary.LittleEndian.Uint16(m.data[offset:])
}

func (m *Memory) Read32(offset uint32) uint32 {
	return binary.LittleEndian.Uint32(m.data[offset:])
}

func (m *Memory) Read64(offset uint32) uint64 {
	return binary.LittleEndian.Uint64(m.data[offset:])
}

func (m *Memory) Read128(offset uint32) Uint128 {
	return Uint128{Lo: m.Read64(offset), Hi: m.Read64(offset + 8)}
}

func (m *Memory) Write8(offset uint32, value uint8) { m.data[offset] = value }

func (m *Memory) Write16(offset uint32, value uint16) {
	binary.LittleEndian.PutUint16(m.data[offset:], value)
}

func (m *Memory) Write32(offset uint32, value uint32) {
	binary.LittleEndian.PutUint32(m.data[offset:], value)
}

func (m *Memory) Write64(offset uint32, value uint64) {
	binary.LittleEndian.PutUint64(m.data[offset:], value)
}

func (m *Memory) Write128(offset uint32, value Uint128) {
	m.Write64(offset, value.Lo)
	m.Write64(offset+8, value.Hi)
}
