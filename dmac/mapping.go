package dmac

import (
	"fmt"
	"io"

	"ps2/storage"
)

// channel register offsets from the channel base address
const (
	offsetCHCR = 0x00
	offsetMADR = 0x10
	offsetQWC  = 0x20
	offsetTADR = 0x30
	offsetASR0 = 0x40
	offsetASR1 = 0x50
	offsetSADR = 0x80

	channelBlockSize = 0x90
)

// controller wide registers
const (
	AddressCommon   = 0x1000E000
	AddressENABLER  = 0x1000F520
	AddressENABLEW  = 0x1000F590
	commonBlockSize = 0x70

	offsetCTRL  = 0x00
	offsetSTAT  = 0x10
	offsetPCR   = 0x20
	offsetSQWC  = 0x30
	offsetRBSR  = 0x40
	offsetRBOR  = 0x50
	offsetSTADR = 0x60
)

func addressRegister(a *Address) storage.Funcs {
	return storage.Funcs{
		Read:  func() uint32 { return uint32(*a) },
		Write: func(v uint32) { *a = Address(v &^ 0xF) },
	}
}

func wordRegister(w *uint32, mask uint32) storage.Funcs {
	return storage.Funcs{
		Read:  func() uint32 { return *w },
		Write: func(v uint32) { *w = v & mask },
	}
}

// statRegister implements the clear / toggle store semantics of D_STAT
type statRegister struct {
	d *Controller
}

func (s statRegister) ReadWord() uint32 { return uint32(s.d.Stat) }

func (s statRegister) WriteWord(value, mask uint32) {
	s.d.Stat = s.d.Stat.write(value & mask)
}

// Storages returns the DMAC register blocks at their EE physical addresses,
// ready to be mapped into the EE PhysicalMMU
func (d *Controller) Storages() []storage.Storage {
	var blocks []storage.Storage
	for _, ch := range d.Channels {
		r := storage.NewRegisterMap("EE DMAC "+ch.Mnemonic, ch.Properties.Address, channelBlockSize)
		r.Add(offsetCHCR, storage.Funcs{
			Read:  func() uint32 { return uint32(ch.CHCR) },
			Write: ch.WriteCHCR,
		})
		r.Add(offsetMADR, addressRegister(&ch.MADR))
		r.Add(offsetQWC, wordRegister(&ch.QWC, 0xFFFF))
		r.Add(offsetTADR, addressRegister(&ch.TADR))
		r.Add(offsetASR0, addressRegister(&ch.ASR[0]))
		r.Add(offsetASR1, addressRegister(&ch.ASR[1]))
		r.Add(offsetSADR, wordRegister(&ch.SADR, scratchpadMask))
		blocks = append(blocks, r)
	}

	common := storage.NewRegisterMap("EE DMAC common", AddressCommon, commonBlockSize).
		Add(offsetCTRL, storage.Funcs{
			Read:  func() uint32 { return uint32(d.Ctrl) },
			Write: func(v uint32) { d.Ctrl = Ctrl(v) },
		}).
		Add(offsetSTAT, statRegister{d}).
		Add(offsetPCR, storage.Funcs{
			Read:  func() uint32 { return uint32(d.PCR) },
			Write: func(v uint32) { d.PCR = PCR(v) },
		}).
		Add(offsetSQWC, storage.Funcs{
			Read:  func() uint32 { return uint32(d.SQWC) },
			Write: func(v uint32) { d.SQWC = SQWC(v & 0x00FF00FF) },
		}).
		Add(offsetRBSR, wordRegister(&d.RBSR, 0x7FFFFFF0)).
		Add(offsetRBOR, wordRegister(&d.RBOR, 0x7FFFFFF0)).
		Add(offsetSTADR, addressRegister(&d.STADR))

	enabler := storage.NewRegisterMap("EE DMAC D_ENABLER", AddressENABLER, 0x10).
		Add(0, storage.Funcs{Read: func() uint32 { return uint32(d.Enable) }})
	enablew := storage.NewRegisterMap("EE DMAC D_ENABLEW", AddressENABLEW, 0x10).
		Add(0, storage.Funcs{
			Read:  func() uint32 { return uint32(d.Enable) },
			Write: func(v uint32) { d.Enable = Enable(v) },
		})

	return append(blocks, common, enabler, enablew)
}

// DumpRegisters prints all channel and controller registers
func (d *Controller) DumpRegisters(w io.Writer) {
	for _, ch := range d.Channels {
		fmt.Fprintln(w, ch)
	}
	fmt.Fprintf(w, "D_CTRL=%08x D_STAT=%08x D_PCR=%08x D_SQWC=%08x D_STADR=%08x D_ENABLE=%08x\n",
		uint32(d.Ctrl), uint32(d.Stat), uint32(d.PCR), uint32(d.SQWC), uint32(d.STADR), uint32(d.Enable))
	fmt.Fprintf(w, "DMAE=%t RELE=%t MFD=%d STS=%d STD=%d RCYC=%d SIS=%t MEIS=%t BEIS=%t\n",
		d.Ctrl.DMAE(), d.Ctrl.RELE(), d.Ctrl.MFD(), d.Ctrl.STS(), d.Ctrl.STD(), d.Ctrl.RCYC(),
		d.Stat.SIS(), d.Stat.MEIS(), d.Stat.BEIS())
}
