package iopdmac

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"ps2/interrupts"
	"ps2/logger"
	"ps2/mmu"
	"ps2/storage"
)

func newTestController(t *testing.T) (*Controller, *mmu.PhysicalMMU, *storage.Memory, *interrupts.Queue) {
	t.Helper()
	m, err := mmu.New(mmu.IOPGeometry, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	ram := storage.NewMemory("IOP RAM", 0, 0x200000)
	if err := m.MapMemory(ram); err != nil {
		t.Fatal(err)
	}
	q := new(interrupts.Queue)
	d := New(m, q, logger.Discard())
	for _, s := range d.Storages() {
		if err := m.MapMemory(s); err != nil {
			t.Fatal(err)
		}
	}
	return d, m, ram, q
}

func runChannel(t *testing.T, d *Controller, ch *Channel) int {
	t.Helper()
	for ticks := 1; ticks <= 1000; ticks++ {
		if err := d.Tick(); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
		if !ch.CHCR.Start() {
			return ticks
		}
	}
	t.Fatalf("channel did not finish:\n%s", spew.Sdump(ch))
	return 0
}

func TestController_Transfers(t *testing.T) {
	tests := []struct {
		name  string
		id    ChannelID
		sync  Sync
		bcr   uint32
		words int
	}{
		{"manual", SIF1, SyncManual, 4, 4},
		{"request", SPU2c1, SyncRequest, 3<<16 | 2, 6},
		{"second bank", ToSIO2, SyncManual, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, ram, _ := newTestController(t)
			for i := 0; i < tt.words; i++ {
				ram.Write32(0x1000+uint32(i)*4, uint32(0xA0+i))
			}
			fifo := new(FIFO)
			ch := d.Channel(tt.id)
			ch.Peripheral = fifo
			ch.MADR = 0x1000
			ch.BCR = tt.bcr
			ch.WriteCHCR(uint32(NewCHCR(tt.sync, true, false, true)))
			d.Enable(tt.id)

			if ticks := runChannel(t, d, ch); ticks != tt.words {
				t.Errorf("transfer took %d ticks, want %d", ticks, tt.words)
			}
			got := fifo.Drain()
			if len(got) != tt.words || got[0] != 0xA0 || got[len(got)-1] != uint32(0xA0+tt.words-1) {
				t.Errorf("peripheral received %x", got)
			}
			if ch.MADR != 0x1000+uint32(tt.words)*4 {
				t.Errorf("MADR = %#x", ch.MADR)
			}
		})
	}
}

func TestController_RequestModeCountsBlocks(t *testing.T) {
	d, _, _, _ := newTestController(t)
	ch := d.Channel(SPU2c1)
	ch.Peripheral = new(FIFO)
	ch.BCR = 3<<16 | 2
	ch.WriteCHCR(uint32(NewCHCR(SyncRequest, true, false, true)))
	d.Enable(SPU2c1)

	d.Tick()
	d.Tick()
	if ch.BlockCount() != 2 {
		t.Errorf("BlockCount() after one block = %d, want 2", ch.BlockCount())
	}
}

func TestController_ToRAM(t *testing.T) {
	d, m, _, _ := newTestController(t)
	fifo := new(FIFO)
	fifo.Push(0x11, 0x22)

	ch := d.Channel(SIF0)
	ch.Peripheral = fifo
	ch.MADR = 0x2000
	ch.BCR = 2
	ch.WriteCHCR(uint32(NewCHCR(SyncManual, false, false, true)))
	d.Enable(SIF0)
	runChannel(t, d, ch)

	if v, _ := m.ReadWordU(0x2004); v != 0x22 {
		t.Errorf("IOP RAM at 0x2004 = %#x, want 0x22", v)
	}
}

func TestController_OrderingTable(t *testing.T) {
	d, m, _, _ := newTestController(t)
	ch := d.Channel(OTClear)
	ch.MADR = 0x10C
	ch.BCR = 4
	ch.WriteCHCR(uint32(NewCHCR(SyncManual, false, true, true)))
	d.Enable(OTClear)
	runChannel(t, d, ch)

	want := map[uint32]uint32{0x10C: 0x108, 0x108: 0x104, 0x104: 0x100, 0x100: 0xFFFFFF}
	for address, entry := range want {
		if v, _ := m.ReadWordU(address); v != entry {
			t.Errorf("ordering table at %#x = %#x, want %#x", address, v, entry)
		}
	}
}

func TestController_Disabled(t *testing.T) {
	d, _, _, _ := newTestController(t)
	ch := d.Channel(GPU)
	ch.Peripheral = new(FIFO)
	ch.BCR = 1
	ch.WriteCHCR(uint32(NewCHCR(SyncManual, true, false, true)))

	d.Tick()
	if !ch.CHCR.Start() {
		t.Errorf("channel ran without its PCR enable bit")
	}

	// manual mode needs the trigger bit
	d.Enable(GPU)
	ch.WriteCHCR(uint32(ch.CHCR &^ chcrTrigger))
	d.Tick()
	if !ch.CHCR.Start() {
		t.Errorf("manual channel ran without trigger")
	}
}

func TestController_UnsupportedSyncMode(t *testing.T) {
	for _, sync := range []Sync{SyncLinkedList, SyncChain} {
		d, _, _, _ := newTestController(t)
		ch := d.Channel(SIF1)
		ch.WriteCHCR(uint32(NewCHCR(sync, true, false, true)))
		d.Enable(SIF1)
		if err := d.Tick(); !errors.Is(err, ErrUnsupportedSyncMode) {
			t.Errorf("Tick() error = %v, want %v", err, ErrUnsupportedSyncMode)
		}
	}
}

func TestController_Interrupts(t *testing.T) {
	d, m, _, q := newTestController(t)

	// master enable + channel enable for SIF1 (bank 1, bit 3)
	m.WriteWordU(0x1F8010F4, 1<<23)
	m.WriteWordU(0x1F801574, 1<<(16+3))

	ch := d.Channel(SIF1)
	ch.Peripheral = new(FIFO)
	ch.BCR = 1
	ch.WriteCHCR(uint32(NewCHCR(SyncManual, true, false, true)))
	d.Enable(SIF1)
	runChannel(t, d, ch)
	d.Tick()

	if q.Len() != 1 {
		t.Fatalf("%d interrupts queued, want 1", q.Len())
	}
	i, _ := q.Pop()
	if i.Source != interrupts.IOPDMAC || i.Channel != int(SIF1) {
		t.Errorf("interrupt = %v", i)
	}

	icr1, _ := m.ReadWordU(0x1F801574)
	if icr1&(1<<(24+3)) == 0 || icr1>>31 != 1 {
		t.Errorf("ICR1 = %08x, want flag and IRQ set", icr1)
	}

	// a byte store to the enable field leaves the flags alone
	m.WriteByteU(0x1F801576, 1<<3)
	if d.ICR1.Flags == 0 {
		t.Errorf("partial store acknowledged ICR1 flags")
	}

	// acknowledge
	m.WriteWordU(0x1F801574, 1<<(16+3)|1<<(24+3))
	if d.IRQ() {
		t.Errorf("IRQ() still set after acknowledge")
	}
}

func TestController_Registers(t *testing.T) {
	d, m, _, _ := newTestController(t)

	m.WriteWordU(0x1F8010A0, 0x12345678) // GPU MADR
	m.WriteWordU(0x1F8010A4, 0x00040010) // GPU BCR
	m.WriteWordU(0x1F801518, 0x01000201) // DEV9 CHCR
	m.WriteWordU(0x1F801570, 0x8)        // PCR1, SPU2c2 enable
	m.WriteWordU(0x1F801578, 0xCAFE)     // GCTRL

	gpu := d.Channel(GPU)
	if gpu.MADR != 0x345678 || gpu.BlockSize() != 0x10 || gpu.BlockCount() != 4 {
		t.Errorf("GPU registers: %s", gpu)
	}
	dev9 := d.Channel(DEV9)
	if dev9.CHCR.Sync() != SyncRequest || !dev9.CHCR.Start() || !dev9.CHCR.FromRAM() {
		t.Errorf("DEV9 CHCR = %08x", uint32(dev9.CHCR))
	}
	if !d.enabled(SPU2c2) || d.GCTRL != 0xCAFE {
		t.Errorf("PCR1=%08x GCTRL=%08x", d.PCR1, d.GCTRL)
	}
	if v, _ := m.ReadWordU(0x1F8010A0); v != 0x345678 {
		t.Errorf("MADR read back %#x", v)
	}
}
