package mmu

import (
	"errors"
	"fmt"
	"log"

	"ps2/storage"
)

/*
 PhysicalMMU maps physical addresses onto the storage objects backing them.
 It is a page table in reverse: instead of translating virtual to physical
 addresses it resolves a physical address to (storage, offset).

 Two levels: a directory table, and for each directory that has anything
 mapped in it, a table of pages. Unused directories cost nothing.
 Pages are small (16B for the EE) since the I/O registers are laid out
 on 16 byte boundaries.
*/

var (
	// ErrInvalidGeometry : bad page table sizes
	ErrInvalidGeometry = errors.New("invalid page table geometry")

	// ErrUnmappedDirectory : nothing is mapped in the address' directory
	ErrUnmappedDirectory = errors.New("unmapped directory")

	// ErrUnmappedPage : the directory is in use, but not the page
	ErrUnmappedPage = errors.New("unmapped page")

	// ErrOutOfBounds : the access runs past the end of the storage
	ErrOutOfBounds = errors.New("access beyond end of storage")

	// ErrAddressRange : address is not covered by the page table at all
	ErrAddressRange = errors.New("address outside of the physical address space")

	// ErrOverlappingMapping : MapMemory under OverlapReject hit a mapped page
	ErrOverlappingMapping = errors.New("overlapping mapping")

	// ErrMisalignedMapping : storage does not start on a page boundary
	ErrMisalignedMapping = errors.New("storage not aligned to page size")
)

// OverlapPolicy decides what MapMemory does with pages that are already mapped
type OverlapPolicy int

const (
	// OverlapOverwrite : log a warning, the new storage wins
	OverlapOverwrite OverlapPolicy = iota
	// OverlapReject : fail, leaving the table untouched
	OverlapReject
)

// mapping is shared by every page slot a storage covers
type mapping struct {
	storage  storage.Storage
	basePage uint32
}

// PhysicalMMU - see above
type PhysicalMMU struct {
	Geometry
	Policy OverlapPolicy

	directories [][]*mapping
	log         *log.Logger
}

// New returns an empty page table
func New(g Geometry, log *log.Logger) (*PhysicalMMU, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &PhysicalMMU{
		Geometry:    g,
		directories: make([][]*mapping, g.DirectoryEntries()),
		log:         log,
	}, nil
}

// MapMemory makes s visible at its physical address. Zero sized storage is
// ignored.
func (m *PhysicalMMU) MapMemory(s storage.Storage) error {
	size := s.Size()
	if size == 0 {
		return nil
	}
	base := s.PhysicalAddress()
	if m.Offset(base) != 0 {
		return fmt.Errorf("%w: %s", ErrMisalignedMapping, storage.Describe(s))
	}
	if uint64(base)+uint64(size) > uint64(m.MaxAddressable) {
		return fmt.Errorf("%w: %s", ErrAddressRange, storage.Describe(s))
	}

	mp := &mapping{storage: s, basePage: m.AbsolutePage(base)}
	pages := m.PageCount(size)

	overlapped := m.overlapping(mp.basePage, pages)
	if len(overlapped) > 0 {
		if m.Policy == OverlapReject {
			return fmt.Errorf("%w: %s over %s", ErrOverlappingMapping, storage.Describe(s), storage.Describe(overlapped[0]))
		}
		for _, o := range overlapped {
			m.log.Printf("WARNING: mapping %s overwrites %s\n", storage.Describe(s), storage.Describe(o))
		}
	}

	pageEntries := m.PageEntries()
	for p := mp.basePage; p < mp.basePage+pages; p++ {
		dir := p / pageEntries
		if m.directories[dir] == nil {
			m.directories[dir] = make([]*mapping, pageEntries)
		}
		m.directories[dir][p%pageEntries] = mp
	}
	return nil
}

// overlapping returns the distinct storages currently mapped over the page range
func (m *PhysicalMMU) overlapping(first, count uint32) []storage.Storage {
	var found []storage.Storage
	seen := make(map[*mapping]bool)
	pageEntries := m.PageEntries()
	for p := first; p < first+count; p++ {
		dir := m.directories[p/pageEntries]
		if dir == nil {
			// skip the rest of this directory
			p |= pageEntries - 1
			continue
		}
		if mp := dir[p%pageEntries]; mp != nil && !seen[mp] {
			seen[mp] = true
			found = append(found, mp.storage)
		}
	}
	return found
}

// Lookup resolves an address to the storage holding it and the offset in it
func (m *PhysicalMMU) Lookup(address uint32) (storage.Storage, uint32, error) {
	return m.translate(address, 1)
}

// translate resolves an access of width bytes at address
func (m *PhysicalMMU) translate(address, width uint32) (storage.Storage, uint32, error) {
	if address >= m.MaxAddressable {
		return nil, 0, fmt.Errorf("%w: 0x%08x", ErrAddressRange, address)
	}

	vdn := m.VDN(address)
	dir := m.directories[vdn]
	if dir == nil {
		return nil, 0, fmt.Errorf("%w: 0x%08x (directory %d)", ErrUnmappedDirectory, address, vdn)
	}

	vpn := m.VPN(address)
	mp := dir[vpn]
	if mp == nil {
		return nil, 0, fmt.Errorf("%w: 0x%08x (directory %d, page %d)", ErrUnmappedPage, address, vdn, vpn)
	}

	absPage := vdn*m.PageEntries() + vpn
	offset := (absPage-mp.basePage)*m.PageSize + m.Offset(address)
	if uint64(offset)+uint64(width) > uint64(mp.storage.Size()) {
		return nil, 0, fmt.Errorf("%w: %d byte access at 0x%08x, %s", ErrOutOfBounds, width, address, storage.Describe(mp.storage))
	}
	return mp.storage, offset, nil
}

// Reset unmaps everything
func (m *PhysicalMMU) Reset() {
	clear(m.directories)
}
