package system

import (
	"fmt"

	"ps2/mmu"
	"ps2/storage"
)

// EE physical memory map
const (
	AddressMainMemory  = 0x00000000
	AddressEERegisters = 0x10000000
	AddressGSRegisters = 0x12000000
	AddressIOPMemory   = 0x1C000000
	AddressBootROM     = 0x1FC00000

	// not in the physical address space, reached by the DMAC through the SPR bit
	AddressScratchpad = 0x70000000
)

const (
	SizeMainMemory = 32 * 1024 * 1024
	SizeBootROM    = 4 * 1024 * 1024
	SizeScratchpad = 16 * 1024
	SizeIOPMemory  = 2 * 1024 * 1024
)

// register space that is decoded but has no device behind it yet: reads 0,
// writes are dropped
var eeReserved = []struct {
	mnemonic string
	address  uint32
	size     uint32
}{
	{"EE timers/IPU/GIF/VIF (unimplemented)", AddressEERegisters, 0x8000},
	{"EE INTC/SIO (unimplemented)", 0x1000F000, 0x500},
	{"GS privileged (unimplemented)", AddressGSRegisters, 0x2000},
}

// mapAll maps every storage, stopping at the first failure
func mapAll(m *mmu.PhysicalMMU, storages ...storage.Storage) error {
	for _, s := range storages {
		if err := m.MapMemory(s); err != nil {
			return fmt.Errorf("mapping %s: %w", storage.Describe(s), err)
		}
	}
	return nil
}

func (s *System) buildEEMap() error {
	var storages []storage.Storage
	storages = append(storages, s.MainMemory, s.BootROM, storage.NewMirror(s.IOPMemory, AddressIOPMemory))
	for _, r := range eeReserved {
		storages = append(storages, storage.NewConstant(r.mnemonic, r.address, r.size, 0))
	}
	storages = append(storages, s.EEDMAC.Storages()...)
	return mapAll(s.EEMMU, storages...)
}

// IOP physical memory map: RAM at 0, the boot ROM shared with the EE
func (s *System) buildIOPMap() error {
	storages := []storage.Storage{s.IOPMemory, s.BootROM}
	storages = append(storages, s.IOPDMAC.Storages()...)
	return mapAll(s.IOPMMU, storages...)
}
