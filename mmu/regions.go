package mmu

import (
	"fmt"
	"io"

	"github.com/bradleyjkemp/memviz"
)

// Region is a run of consecutive pages mapped to the same storage
type Region struct {
	Mnemonic string
	First    uint32
	Last     uint32
}

func (r Region) String() string {
	return fmt.Sprintf("0x%08x - 0x%08x %s", r.First, r.Last, r.Mnemonic)
}

// Regions lists the mapped address runs in ascending order
func (m *PhysicalMMU) Regions() []Region {
	var regions []Region
	var current *mapping

	pageEntries := m.PageEntries()
	for d, dir := range m.directories {
		if dir == nil {
			current = nil
			continue
		}
		for p, mp := range dir {
			address := (uint32(d)*pageEntries + uint32(p)) * m.PageSize
			if mp == nil {
				current = nil
				continue
			}
			if mp == current {
				regions[len(regions)-1].Last = address + m.PageSize - 1
				continue
			}
			current = mp
			regions = append(regions, Region{
				Mnemonic: mp.storage.Mnemonic(),
				First:    address,
				Last:     address + m.PageSize - 1,
			})
		}
	}
	return regions
}

// DumpRegions prints the memory map, one region per line
func (m *PhysicalMMU) DumpRegions(w io.Writer) {
	for _, r := range m.Regions() {
		fmt.Fprintln(w, r)
	}
}

// Visualise writes a graphviz description of the memory map
func (m *PhysicalMMU) Visualise(w io.Writer) {
	regions := m.Regions()
	memviz.Map(w, &regions)
}
