package dmac

import (
	"bytes"
	"strings"
	"testing"
)

func mapRegisters(t *testing.T, b *testBench) {
	t.Helper()
	for _, s := range b.dmac.Storages() {
		if err := b.mmu.MapMemory(s); err != nil {
			t.Fatalf("MapMemory(%s) error = %v", s.Mnemonic(), err)
		}
	}
}

func TestController_Storages(t *testing.T) {
	b := newTestBench(t)
	mapRegisters(t, b)
	m := b.mmu

	m.WriteWordU(0x1000A010, 0x0000_0123) // GIF MADR, low bits dropped
	m.WriteWordU(0x1000A020, 0x0001_0002) // GIF QWC, 16 bits
	m.WriteWordU(0x1000D480, 0x0000_7FFF) // toSPR SADR
	m.WriteWordU(0x1000E000, 0x0000_0001) // D_CTRL.DMAE
	m.WriteWordU(0x1000E060, 0x8000_1000) // D_STADR

	gif := b.dmac.Channel(GIF)
	if gif.MADR != 0x120 || gif.QWC != 2 {
		t.Errorf("GIF registers after stores:\n%s", gif)
	}
	if sadr := b.dmac.Channel(ToSPR).SADR; sadr != 0x3FF0 {
		t.Errorf("SADR = %#x, want 0x3ff0", sadr)
	}
	if !b.dmac.Ctrl.DMAE() || b.dmac.STADR != 0x80001000 {
		t.Errorf("common registers: D_CTRL=%08x D_STADR=%08x", uint32(b.dmac.Ctrl), uint32(b.dmac.STADR))
	}

	// byte store into CHCR.STR starts the channel
	m.WriteByteU(0x1000A001, 0x01)
	if !gif.CHCR.STR() {
		t.Fatalf("CHCR.STR not set by byte store: %08x", uint32(gif.CHCR))
	}
	if v, _ := m.ReadWordU(0x1000A000); v != 0x100 {
		t.Errorf("CHCR read back %#x, want 0x100", v)
	}

	b.dmac.Tick()
	b.dmac.Tick()
	if gif.CHCR.STR() {
		t.Errorf("GIF still running: %s", gif)
	}
}

func TestController_StatRegister(t *testing.T) {
	tests := []struct {
		name  string
		start Stat
		store uint32
		want  Stat
	}{
		{"clear CIS", 0x0000_0005, 0x0000_0001, 0x0000_0004},
		{"zero store keeps status", 0x0000_2005, 0, 0x0000_2005},
		{"clear SIS", 0x0000_2000, 0x0000_2000, 0},
		{"toggle CIM on", 0, 0x0004_0000, 0x0004_0000},
		{"toggle CIM off", 0x0004_0000, 0x0004_0000, 0},
		{"toggle SIM and clear CIS", 0x0000_0002, 0x2000_0002, 0x2000_0000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBench(t)
			mapRegisters(t, b)
			b.dmac.Stat = tt.start
			if err := b.mmu.WriteWordU(0x1000E010, tt.store); err != nil {
				t.Fatal(err)
			}
			if b.dmac.Stat != tt.want {
				t.Errorf("D_STAT = %08x, want %08x", uint32(b.dmac.Stat), uint32(tt.want))
			}
			if v, _ := b.mmu.ReadWordU(0x1000E010); v != uint32(tt.want) {
				t.Errorf("D_STAT read back %08x", v)
			}
		})
	}
}

func TestController_EnableRegisters(t *testing.T) {
	b := newTestBench(t)
	mapRegisters(t, b)

	b.mmu.WriteWordU(AddressENABLEW, 1<<16)
	if !b.dmac.Enable.CPND() {
		t.Errorf("D_ENABLEW store did not hold transfers")
	}
	if v, _ := b.mmu.ReadWordU(AddressENABLER); v != 1<<16 {
		t.Errorf("D_ENABLER = %08x", v)
	}
	// D_ENABLER is read only
	b.mmu.WriteWordU(AddressENABLER, 0)
	if !b.dmac.Enable.CPND() {
		t.Errorf("D_ENABLER accepted a store")
	}
}

func TestController_DumpRegisters(t *testing.T) {
	b := newTestBench(t)
	b.dmac.Channel(SIF1).QWC = 0x20
	// DMAE, RELE, RCYC=3
	b.dmac.Ctrl = Ctrl(0x303)
	b.dmac.Stat = Stat(statBEIS)

	var buf bytes.Buffer
	b.dmac.DumpRegisters(&buf)
	out := buf.String()
	if strings.Count(out, "\n") != NumChannels+2 {
		t.Errorf("DumpRegisters() printed %d lines", strings.Count(out, "\n"))
	}
	for _, want := range []string{"SIF1", "QWC=0020", "RELE=true", "RCYC=3", "BEIS=true", "SIS=false"} {
		if !strings.Contains(out, want) {
			t.Errorf("DumpRegisters() missing %q:\n%s", want, out)
		}
	}
}

func TestTag(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		id   TagID
		qwc  uint32
		pce  uint32
		addr Address
		irq  bool
	}{
		{"CNT", NewTag(TagCNT, 2, 0, false), TagCNT, 2, 0, 0, false},
		{"REF with IRQ", NewTag(TagREF, 0xFFFF, 0x01234560, true), TagREF, 0xFFFF, 0, 0x01234560, true},
		{"NEXT to scratchpad", NewTag(TagNEXT, 1, SPRBit|0x100, false), TagNEXT, 1, 0, SPRBit | 0x100, false},
		{"raw", Tag{Lo: 0x8000_0010_7000_0003}, TagEND, 3, 0, SPRBit | 0x10, false},
		{"priority control", Tag{Lo: 0x2C00_0001}, TagNEXT, 1, 3, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tag.ID() != tt.id || tt.tag.QWC() != tt.qwc || tt.tag.PCE() != tt.pce ||
				tt.tag.Addr() != tt.addr || tt.tag.IRQ() != tt.irq {
				t.Errorf("decoded %v, want id=%d qwc=%d pce=%d addr=%08x irq=%t",
					tt.tag, tt.id, tt.qwc, tt.pce, uint32(tt.addr), tt.irq)
			}
		})
	}
}

func TestAddress_Add(t *testing.T) {
	a := Address(SPRBit | 0x3FF0)
	if got := a.Add(16); got != SPRBit|0x4000 {
		t.Errorf("Address.Add() = %08x", uint32(got))
	}
	if got := Address(0x7FFFFFF0).Add(16); got.SPR() {
		t.Errorf("address overflow set the SPR flag: %08x", uint32(got))
	}
}
