package mmu

import "ps2/storage"

// PhysicalMemory is the physical address space as seen by the DMA
// controllers and the core interpreters. PhysicalMMU implements it.
type PhysicalMemory interface {
	ReadByteU(address uint32) (uint8, error)
	ReadHwordU(address uint32) (uint16, error)
	ReadWordU(address uint32) (uint32, error)
	ReadDwordU(address uint32) (uint64, error)
	ReadQword(address uint32) (storage.Uint128, error)

	WriteByteU(address uint32, value uint8) error
	WriteHwordU(address uint32, value uint16) error
	WriteWordU(address uint32, value uint32) error
	WriteDwordU(address uint32, value uint64) error
	WriteQword(address uint32, value storage.Uint128) error
}
