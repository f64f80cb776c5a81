package storage

import "fmt"

/*
 Storage is anything that can back a range of physical addresses:
 main memory, ROM, reserved regions and blocks of I/O registers.

 All offsets are relative to the start of the storage. Multi-byte values are
 always little-endian, regardless of the host byte order.
*/

// Storage describes a physically mapped block.
type Storage interface {
	// Mnemonic returns a short identifying name used in logs and region dumps
	Mnemonic() string

	// PhysicalAddress returns the first physical address the storage occupies
	PhysicalAddress() uint32

	// Size returns the length of the storage in bytes
	Size() uint32

	Read8(offset uint32) uint8
	Read16(offset uint32) uint16
	Read32(offset uint32) uint32
	Read64(offset uint32) uint64
	Read128(offset uint32) Uint128

	Write8(offset uint32, value uint8)
	Write16(offset uint32, value uint16)
	Write32(offset uint32, value uint32)
	Write64(offset uint32, value uint64)
	Write128(offset uint32, value Uint128)
}

// Uint128 is a quadword. Lo occupies the lower 8 bytes in memory.
type Uint128 struct {
	Lo, Hi uint64
}

func (q Uint128) String() string {
	return fmt.Sprintf("%016x%016x", q.Hi, q.Lo)
}

// Describe returns "mnemonic [first..last]" for a storage
func Describe(s Storage) string {
	last := s.PhysicalAddress()
	if s.Size() > 0 {
		last += s.Size() - 1
	}
	return fmt.Sprintf("%s [0x%08x..0x%08x]", s.Mnemonic(), s.PhysicalAddress(), last)
}
