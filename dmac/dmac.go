package dmac

import (
	"errors"
	"fmt"
	"log"

	"ps2/interrupts"
	"ps2/mmu"
	"ps2/storage"
)

/*
 The EE DMAC moves quadwords between main memory (or the scratchpad) and
 the peripherals. It is clocked by BUSCLK: every Tick lets a started
 channel move at most one quadword, after fetching a DMA tag first if it
 runs in chain mode.

 Channels are serviced in priority order (channel index). Slice channels
 stop after SliceQuota quadwords and have to be started again, burst
 channels run until QWC reaches zero.

 Not emulated: MFIFO, cycle stealing (RELE/RCYC), bus errors.
*/

var (
	// ErrUnsupportedChainInstruction : tag ID with no meaning in the channel's chain mode
	ErrUnsupportedChainInstruction = errors.New("unsupported chain instruction")

	// ErrUnsupportedLogicalMode : CHCR.MOD the channel can not run in
	ErrUnsupportedLogicalMode = errors.New("unsupported logical mode")

	// ErrCallStackOverflow : CALL with both ASR slots in use
	ErrCallStackOverflow = errors.New("chain call stack overflow")

	// ErrNoScratchpad : scratchpad access without a scratchpad attached
	ErrNoScratchpad = errors.New("no scratchpad attached")
)

// Arbitration decides how many channels are serviced per tick
type Arbitration int

const (
	// ArbitrateFirst : only the highest priority channel that can make
	// progress moves data. Stalled or waiting channels do not use up the tick.
	ArbitrateFirst Arbitration = iota
	// ArbitrateAll : every started channel gets a step, in priority order
	ArbitrateAll
)

// Controller is the EE DMAC
type Controller struct {
	Channels [NumChannels]*Channel

	Ctrl   Ctrl
	Stat   Stat
	PCR    PCR
	SQWC   SQWC
	RBSR   uint32
	RBOR   uint32
	STADR  Address
	Enable Enable

	Arbitration Arbitration

	mem        mmu.PhysicalMemory
	scratchpad storage.Storage
	sink       interrupts.Sink
	log        *log.Logger

	// interrupt conditions seen on the previous check, for edge detection
	channelIRQ [NumChannels]bool
	stallIRQ   bool
	mfifoWarn  bool
}

// New returns a DMAC transferring through mem. scratchpad may be nil when
// nothing uses the SPR channels or SPR addresses.
func New(mem mmu.PhysicalMemory, scratchpad storage.Storage, sink interrupts.Sink, log *log.Logger) *Controller {
	d := &Controller{
		mem:        mem,
		scratchpad: scratchpad,
		sink:       sink,
		log:        log,
	}
	for i := range d.Channels {
		d.Channels[i] = newChannel(ChannelID(i))
	}
	return d
}

// Channel returns the channel with the given id
func (d *Controller) Channel(id ChannelID) *Channel {
	return d.Channels[id]
}

// Reset clears all registers and transient state, peripherals stay attached
func (d *Controller) Reset() {
	for _, ch := range d.Channels {
		ch.Reset()
	}
	d.Ctrl, d.Stat, d.PCR, d.SQWC = 0, 0, 0, 0
	d.RBSR, d.RBOR, d.STADR, d.Enable = 0, 0, 0, 0
	d.channelIRQ = [NumChannels]bool{}
	d.stallIRQ = false
}

// Tick runs one BUSCLK cycle. A returned error is fatal: the channel it
// names was programmed with something the DMAC can not execute.
func (d *Controller) Tick() error {
	defer d.checkInterruptStatus()

	if !d.Ctrl.DMAE() || d.Enable.CPND() {
		return nil
	}
	if d.Ctrl.MFD() != 0 && !d.mfifoWarn {
		d.log.Printf("WARNING: D_CTRL.MFD=%d, MFIFO is not emulated\n", d.Ctrl.MFD())
		d.mfifoWarn = true
	}

	for _, ch := range d.Channels {
		if !ch.CHCR.STR() {
			continue
		}
		if d.PCR.PCE() && !d.PCR.CDE(ch.ID) {
			continue
		}

		progressed, err := d.step(ch)
		if err != nil {
			return fmt.Errorf("EE DMAC %s: %w", ch.Mnemonic, err)
		}
		if progressed && d.Arbitration == ArbitrateFirst {
			return nil
		}
	}
	return nil
}

// step dispatches on the logical mode. Reports whether the channel did
// anything (moved data, fetched a tag or finished).
func (d *Controller) step(ch *Channel) (bool, error) {
	switch mode := ch.CHCR.Mode(); mode {
	case Normal:
		return d.stepNormal(ch)
	case Chain:
		if !ch.Chain {
			return false, fmt.Errorf("%w: %s", ErrUnsupportedLogicalMode, mode)
		}
		if ch.Direction() == FromMemory {
			return d.stepSourceChain(ch)
		}
		return d.stepDestinationChain(ch)
	case Interleaved:
		if !ch.Interleave {
			return false, fmt.Errorf("%w: %s", ErrUnsupportedLogicalMode, mode)
		}
		return d.stepInterleaved(ch)
	default:
		return false, fmt.Errorf("%w: MOD=%d", ErrUnsupportedLogicalMode, int(mode))
	}
}

// suspend ends the transfer: STR cleared, CIS set
func (d *Controller) suspend(ch *Channel) {
	ch.CHCR = ch.CHCR.withSTR(false)
	d.Stat |= 1 << uint(ch.ID)
}

// checkSliceQuota pauses a slice channel after SliceQuota quadwords.
// Unlike suspend no CIS is raised, the transfer is not finished.
func (d *Controller) checkSliceQuota(ch *Channel) {
	if ch.Physical != Slice {
		return
	}
	ch.sliceCount++
	if ch.sliceCount >= SliceQuota {
		ch.CHCR = ch.CHCR.withSTR(false)
	}
}

// checkInterruptStatus signals every interrupt condition (CIS&CIM per
// channel, SIS&SIM) that became true since the previous check.
func (d *Controller) checkInterruptStatus() {
	for i, ch := range d.Channels {
		active := d.Stat.CIS(ch.ID) && d.Stat.CIM(ch.ID)
		if active && !d.channelIRQ[i] && d.sink != nil {
			d.sink.Send(interrupts.Interrupt{
				Source:  interrupts.EEDMAC,
				Channel: int(ch.ID),
				Cause:   interrupts.ChannelComplete,
			})
		}
		d.channelIRQ[i] = active
	}

	active := d.Stat.SIS() && d.Stat.SIM()
	if active && !d.stallIRQ && d.sink != nil {
		d.sink.Send(interrupts.Interrupt{
			Source:  interrupts.EEDMAC,
			Channel: -1,
			Cause:   interrupts.StallControl,
		})
	}
	d.stallIRQ = active
}

// Pending reports whether the DMAC holds the EE INT1 line
func (d *Controller) Pending() bool {
	for _, ch := range d.Channels {
		if d.Stat.CIS(ch.ID) && d.Stat.CIM(ch.ID) {
			return true
		}
	}
	return (d.Stat.SIS() && d.Stat.SIM()) || (d.Stat.MEIS() && d.Stat.MEIM())
}
