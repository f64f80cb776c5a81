package mmu

import (
	"fmt"
	"math/bits"
)

// Geometry sets the shape of the two level page table. All sizes are in
// bytes and must be powers of two with PageSize <= DirectorySize <= MaxAddressable.
type Geometry struct {
	MaxAddressable uint32
	DirectorySize  uint32
	PageSize       uint32
}

// EEGeometry covers the 512MB EE physical space (0x00000000 - 0x1FFFFFFF)
// with 4MB directories and 16B pages, the register granularity.
var EEGeometry = Geometry{
	MaxAddressable: 0x20000000,
	DirectorySize:  0x400000,
	PageSize:       0x10,
}

// IOPGeometry covers the IOP physical space, same layout as the EE
var IOPGeometry = Geometry{
	MaxAddressable: 0x20000000,
	DirectorySize:  0x400000,
	PageSize:       0x10,
}

func isPowerOfTwo(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}

// Validate checks the sizes
func (g Geometry) Validate() error {
	switch {
	case !isPowerOfTwo(g.MaxAddressable):
		return fmt.Errorf("%w: max addressable size 0x%x is not a power of two", ErrInvalidGeometry, g.MaxAddressable)
	case !isPowerOfTwo(g.DirectorySize):
		return fmt.Errorf("%w: directory size 0x%x is not a power of two", ErrInvalidGeometry, g.DirectorySize)
	case !isPowerOfTwo(g.PageSize):
		return fmt.Errorf("%w: page size 0x%x is not a power of two", ErrInvalidGeometry, g.PageSize)
	case g.DirectorySize > g.MaxAddressable:
		return fmt.Errorf("%w: directory size 0x%x exceeds max addressable 0x%x", ErrInvalidGeometry, g.DirectorySize, g.MaxAddressable)
	case g.PageSize > g.DirectorySize:
		return fmt.Errorf("%w: page size 0x%x exceeds directory size 0x%x", ErrInvalidGeometry, g.PageSize, g.DirectorySize)
	}
	return nil
}

// DirectoryEntries is the number of directories (first level slots)
func (g Geometry) DirectoryEntries() uint32 { return g.MaxAddressable / g.DirectorySize }

// PageEntries is the number of pages per directory (second level slots)
func (g Geometry) PageEntries() uint32 { return g.DirectorySize / g.PageSize }

func (g Geometry) offsetBits() uint { return uint(bits.TrailingZeros32(g.PageSize)) }
func (g Geometry) pageBits() uint   { return uint(bits.TrailingZeros32(g.PageEntries())) }
func (g Geometry) offsetMask() uint32 {
	return g.PageSize - 1
}
func (g Geometry) pageMask() uint32 { return g.PageEntries() - 1 }
func (g Geometry) dirMask() uint32  { return g.DirectoryEntries() - 1 }

// VDN returns the directory number of a physical address
func (g Geometry) VDN(address uint32) uint32 {
	return (address >> (g.offsetBits() + g.pageBits())) & g.dirMask()
}

// VPN returns the page number within the directory
func (g Geometry) VPN(address uint32) uint32 {
	return (address >> g.offsetBits()) & g.pageMask()
}

// Offset returns the offset within the page
func (g Geometry) Offset(address uint32) uint32 {
	return address & g.offsetMask()
}

// AbsolutePage returns the page index counted from address 0
func (g Geometry) AbsolutePage(address uint32) uint32 {
	return g.VDN(address)*g.PageEntries() + g.VPN(address)
}

// PageCount returns the number of pages needed for size bytes (rounded up)
func (g Geometry) PageCount(size uint32) uint32 {
	return uint32((uint64(size) + uint64(g.PageSize) - 1) / uint64(g.PageSize))
}
