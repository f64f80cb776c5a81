package iopdmac

import "fmt"

// ChannelID indexes the 13 IOP DMA channels
type ChannelID int

const (
	FromMDEC ChannelID = iota
	ToMDEC
	GPU
	CDROM
	SPU2c1
	PIO
	OTClear
	SPU2c2
	DEV9
	SIF0
	SIF1
	FromSIO2
	ToSIO2

	NumChannels = 13
)

var mnemonics = [NumChannels]string{
	"fromMDEC", "toMDEC", "GPU", "CDROM", "SPU2c1", "PIO", "OTClear",
	"SPU2c2", "DEV9", "SIF0", "SIF1", "fromSIO2", "toSIO2",
}

func (id ChannelID) String() string {
	if id < 0 || id >= NumChannels {
		return fmt.Sprintf("Channel(%d)", int(id))
	}
	return mnemonics[id]
}

// channel register block addresses: 0-6 are the PS1 channels, 7-12 the
// second bank added for the PS2
func channelAddress(id ChannelID) uint32 {
	if id < SPU2c2 {
		return 0x1F801080 + uint32(id)*0x10
	}
	return 0x1F801500 + uint32(id-SPU2c2)*0x10
}

// Sync is the CHCR synchronisation mode
type Sync uint32

const (
	// SyncManual : BCR.BlockSize words in one go, started by CHCR.Trigger
	SyncManual Sync = 0
	// SyncRequest : BCR.BlockCount blocks of BCR.BlockSize words
	SyncRequest Sync = 1
	// SyncLinkedList : GPU command lists
	SyncLinkedList Sync = 2
	// SyncChain : SIF tag chains
	SyncChain Sync = 3
)

// CHCR - channel control
//
//	bit 0    direction, 1 = from RAM
//	bit 1    step, 1 = decrement
//	bit 8    chopping
//	bit 9-10 sync mode
//	bit 24   start / busy
//	bit 28   manual trigger
type CHCR uint32

const (
	chcrFromRAM   = 1 << 0
	chcrDecrement = 1 << 1
	chcrStart     = 1 << 24
	chcrTrigger   = 1 << 28
)

func (c CHCR) FromRAM() bool   { return c&chcrFromRAM != 0 }
func (c CHCR) Decrement() bool { return c&chcrDecrement != 0 }
func (c CHCR) Sync() Sync      { return Sync(c>>9) & 3 }
func (c CHCR) Start() bool     { return c&chcrStart != 0 }
func (c CHCR) Trigger() bool   { return c&chcrTrigger != 0 }

// Active is true once the channel has been started. In manual sync mode
// the trigger bit is needed as well.
func (c CHCR) Active() bool {
	if c.Sync() == SyncManual {
		return c.Start() && c.Trigger()
	}
	return c.Start()
}

// NewCHCR assembles a control value
func NewCHCR(sync Sync, fromRAM, decrement, start bool) CHCR {
	var c CHCR
	if fromRAM {
		c |= chcrFromRAM
	}
	if decrement {
		c |= chcrDecrement
	}
	c |= CHCR(sync&3) << 9
	if start {
		c |= chcrStart | chcrTrigger
	}
	return c
}

// Channel is one IOP DMA channel
type Channel struct {
	ID       ChannelID
	Mnemonic string
	Address  uint32

	MADR uint32
	BCR  uint32
	CHCR CHCR
	TADR uint32

	// Peripheral is the device side, word granular
	Peripheral Peripheral

	running   bool
	remaining uint32
	inBlock   uint32
}

func newChannel(id ChannelID) *Channel {
	return &Channel{ID: id, Mnemonic: mnemonics[id], Address: channelAddress(id)}
}

func (ch *Channel) BlockSize() uint32  { return ch.BCR & 0xFFFF }
func (ch *Channel) BlockCount() uint32 { return ch.BCR >> 16 }

// transferSize returns the number of words the transfer moves
func (ch *Channel) transferSize() (uint32, error) {
	switch s := ch.CHCR.Sync(); s {
	case SyncManual:
		return ch.BlockSize(), nil
	case SyncRequest:
		return ch.BlockSize() * ch.BlockCount(), nil
	default:
		return 0, fmt.Errorf("%w: %s sync mode %d", ErrUnsupportedSyncMode, ch.Mnemonic, s)
	}
}

// WriteCHCR applies a CPU store to CHCR
func (ch *Channel) WriteCHCR(value uint32) {
	ch.CHCR = CHCR(value)
	if !ch.CHCR.Start() {
		ch.running = false
	}
}

// done marks the channel complete
func (ch *Channel) done() {
	ch.CHCR &^= chcrStart | chcrTrigger
	ch.running = false
}

func (ch *Channel) String() string {
	return fmt.Sprintf("%-8s MADR=%06x BCR=%08x CHCR=%08x TADR=%06x",
		ch.Mnemonic, ch.MADR, ch.BCR, uint32(ch.CHCR), ch.TADR)
}
