package iopdmac

import (
	"errors"
	"fmt"
	"io"
	"log"

	"ps2/interrupts"
	"ps2/mmu"
	"ps2/storage"
)

/*
 The IOP DMAC: the PS1 DMA controller with a second bank of six channels.
 Clocked by the IOP clock, every started channel moves one 32 bit word
 per Tick.

 Supported: manual (burst) and request (slice) sync modes and the OTC
 ordering table channel. Linked list and chain modes are not.
*/

// ErrUnsupportedSyncMode : CHCR sync mode 2 or 3
var ErrUnsupportedSyncMode = errors.New("unsupported sync mode")

const (
	addressBank0 = 0x1F801080
	addressBank1 = 0x1F801500
	bankSize     = 0x80

	madrMask = 0x00FFFFFF
)

// ICR - interrupt control. ICR0 covers channels 0-6, ICR1 channels 7-12,
// the master enable and force bits of ICR0 apply to both.
//
//	bit 0-5   unknown, read back as written
//	bit 15    force IRQ
//	bit 16-22 channel IRQ enable
//	bit 23    master enable
//	bit 24-30 channel IRQ flags, writing 1 acknowledges
//	bit 31    IRQ (read only)
type ICR struct {
	Dummy        uint8
	Force        bool
	Enable       uint8
	MasterEnable bool
	Flags        uint8
}

func (i *ICR) read(irq bool) uint32 {
	r := uint32(i.Dummy)
	r |= oneIfTrue(i.Force) << 15
	r |= uint32(i.Enable) << 16
	r |= oneIfTrue(i.MasterEnable) << 23
	r |= uint32(i.Flags) << 24
	return r | oneIfTrue(irq)<<31
}

func (i *ICR) write(v uint32) {
	i.Dummy = uint8(v & 0x3F)
	i.Force = (v>>15)&1 != 0
	i.Enable = uint8((v >> 16) & 0x7F)
	i.MasterEnable = (v>>23)&1 != 0
	i.Flags &^= uint8((v >> 24) & 0x7F)
}

// icrRegister keeps partial stores from acknowledging flags they did not write
type icrRegister struct {
	icr *ICR
	d   *Controller
}

func (r icrRegister) ReadWord() uint32 { return r.icr.read(r.d.IRQ()) }

func (r icrRegister) WriteWord(value, mask uint32) {
	current := r.icr.read(false) &^ 0xFF000000
	r.icr.write(current&^mask | value&mask)
}

func oneIfTrue(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// Controller is the IOP DMAC
type Controller struct {
	Channels [NumChannels]*Channel

	PCR0, PCR1 uint32
	ICR0, ICR1 ICR
	GCTRL      uint32

	mem  mmu.PhysicalMemory
	sink interrupts.Sink
	log  *log.Logger

	irqLine       bool
	lastCompleted int
}

// New returns an IOP DMAC transferring through the IOP physical memory
func New(mem mmu.PhysicalMemory, sink interrupts.Sink, log *log.Logger) *Controller {
	d := &Controller{
		mem:           mem,
		sink:          sink,
		log:           log,
		lastCompleted: -1,
	}
	for i := range d.Channels {
		d.Channels[i] = newChannel(ChannelID(i))
	}
	return d
}

// Reset clears all registers, peripherals stay attached
func (d *Controller) Reset() {
	for _, ch := range d.Channels {
		p := ch.Peripheral
		*ch = *newChannel(ch.ID)
		ch.Peripheral = p
	}
	d.PCR0, d.PCR1, d.GCTRL = 0, 0, 0
	d.ICR0, d.ICR1 = ICR{}, ICR{}
	d.irqLine, d.lastCompleted = false, -1
}

func (d *Controller) Channel(id ChannelID) *Channel {
	return d.Channels[id]
}

// Enable sets the PCR enable bit of a channel
func (d *Controller) Enable(id ChannelID) {
	if id < SPU2c2 {
		d.PCR0 |= 8 << (4 * uint(id))
	} else {
		d.PCR1 |= 8 << (4 * uint(id-SPU2c2))
	}
}

func (d *Controller) enabled(id ChannelID) bool {
	if id < SPU2c2 {
		return d.PCR0&(8<<(4*uint(id))) != 0
	}
	return d.PCR1&(8<<(4*uint(id-SPU2c2))) != 0
}

// IRQ returns the state of the interrupt line
func (d *Controller) IRQ() bool {
	if d.ICR0.Force {
		return true
	}
	pending := d.ICR0.Flags&d.ICR0.Enable != 0 || d.ICR1.Flags&d.ICR1.Enable != 0
	return d.ICR0.MasterEnable && pending
}

// Tick runs one IOP clock cycle
func (d *Controller) Tick() error {
	defer d.checkInterrupt()

	for _, ch := range d.Channels {
		if !d.enabled(ch.ID) || !ch.CHCR.Active() {
			continue
		}
		if err := d.step(ch); err != nil {
			return fmt.Errorf("IOP DMAC %s: %w", ch.Mnemonic, err)
		}
	}
	return nil
}

func (d *Controller) step(ch *Channel) error {
	if !ch.running {
		size, err := ch.transferSize()
		if err != nil {
			return err
		}
		ch.remaining, ch.inBlock, ch.running = size, 0, true
		if size == 0 {
			d.complete(ch)
			return nil
		}
	}

	if ch.CHCR.FromRAM() {
		w, err := d.mem.ReadWordU(ch.MADR)
		if err != nil {
			return err
		}
		if ch.Peripheral == nil || !ch.Peripheral.WriteWord(w) {
			return nil
		}
	} else {
		var w uint32
		switch {
		case ch.ID == OTClear:
			// ordering table: every entry points at the previous word,
			// the last one is the end marker
			w = (ch.MADR - 4) & 0x1FFFFF
			if ch.remaining == 1 {
				w = 0xFFFFFF
			}
		case ch.Peripheral == nil:
			return nil
		default:
			var ok bool
			if w, ok = ch.Peripheral.ReadWord(); !ok {
				return nil
			}
		}
		if err := d.mem.WriteWordU(ch.MADR, w); err != nil {
			return err
		}
	}

	if ch.CHCR.Decrement() {
		ch.MADR = (ch.MADR - 4) & madrMask
	} else {
		ch.MADR = (ch.MADR + 4) & madrMask
	}
	ch.remaining--

	if ch.CHCR.Sync() == SyncRequest {
		ch.inBlock++
		if ch.inBlock == ch.BlockSize() {
			ch.inBlock = 0
			ch.BCR = ch.BCR&0xFFFF | (ch.BlockCount()-1)<<16
		}
	}
	if ch.remaining == 0 {
		d.complete(ch)
	}
	return nil
}

// complete ends the transfer and raises the channel's ICR flag if enabled
func (d *Controller) complete(ch *Channel) {
	ch.done()
	icr, bit := &d.ICR0, uint(ch.ID)
	if ch.ID >= SPU2c2 {
		icr, bit = &d.ICR1, uint(ch.ID-SPU2c2)
	}
	if icr.Enable&(1<<bit) != 0 {
		icr.Flags |= 1 << bit
		d.lastCompleted = int(ch.ID)
	}
}

// checkInterrupt signals the rising edge of the IRQ line
func (d *Controller) checkInterrupt() {
	irq := d.IRQ()
	if irq && !d.irqLine && d.sink != nil {
		d.sink.Send(interrupts.Interrupt{
			Source:  interrupts.IOPDMAC,
			Channel: d.lastCompleted,
			Cause:   interrupts.ChannelComplete,
		})
	}
	d.irqLine = irq
}

// Storages returns the two register banks at their IOP physical addresses
func (d *Controller) Storages() []storage.Storage {
	bank0 := storage.NewRegisterMap("IOP DMAC bank 0", addressBank0, bankSize)
	bank1 := storage.NewRegisterMap("IOP DMAC bank 1", addressBank1, bankSize)

	for _, ch := range d.Channels {
		bank, offset := bank0, ch.Address-addressBank0
		if ch.ID >= SPU2c2 {
			bank, offset = bank1, ch.Address-addressBank1
		}
		bank.Add(offset+0x0, storage.Funcs{
			Read:  func() uint32 { return ch.MADR },
			Write: func(v uint32) { ch.MADR = v & madrMask },
		})
		bank.Add(offset+0x4, storage.Funcs{
			Read:  func() uint32 { return ch.BCR },
			Write: func(v uint32) { ch.BCR = v },
		})
		bank.Add(offset+0x8, storage.Funcs{
			Read:  func() uint32 { return uint32(ch.CHCR) },
			Write: ch.WriteCHCR,
		})
		bank.Add(offset+0xC, storage.Funcs{
			Read:  func() uint32 { return ch.TADR },
			Write: func(v uint32) { ch.TADR = v & madrMask },
		})
	}

	bank0.Add(0x70, (*storage.Word)(&d.PCR0))
	bank0.Add(0x74, icrRegister{&d.ICR0, d})
	bank1.Add(0x70, (*storage.Word)(&d.PCR1))
	bank1.Add(0x74, icrRegister{&d.ICR1, d})
	bank1.Add(0x78, (*storage.Word)(&d.GCTRL))

	return []storage.Storage{bank0, bank1}
}

// DumpRegisters prints all channel and controller registers
func (d *Controller) DumpRegisters(w io.Writer) {
	for _, ch := range d.Channels {
		fmt.Fprintln(w, ch)
	}
	fmt.Fprintf(w, "PCR0=%08x ICR0=%08x PCR1=%08x ICR1=%08x GCTRL=%08x\n",
		d.PCR0, d.ICR0.read(d.IRQ()), d.PCR1, d.ICR1.read(d.IRQ()), d.GCTRL)
}
