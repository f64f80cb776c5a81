package dmac

import (
	"fmt"

	"ps2/storage"
)

func (d *Controller) stepNormal(ch *Channel) (bool, error) {
	if ch.QWC == 0 {
		d.suspend(ch)
		return true, nil
	}
	if d.isDrainStallControlOn(ch) && d.drainStalled(ch) {
		return false, nil
	}

	moved, err := d.transferDataUnit(ch)
	if err != nil || !moved {
		return false, err
	}
	if d.isSourceStallControlOn(ch) {
		d.STADR = ch.MADR
	}

	if ch.QWC == 0 {
		d.suspend(ch)
		return true, nil
	}
	d.checkSliceQuota(ch)
	return true, nil
}

// stepInterleaved alternates between moving TQWC quadwords and skipping
// SQWC quadwords of main memory, one quadword per tick either way.
func (d *Controller) stepInterleaved(ch *Channel) (bool, error) {
	if ch.QWC == 0 {
		d.suspend(ch)
		return true, nil
	}

	il := &ch.interleave
	if il.skipping {
		ch.MADR = ch.MADR.Add(qwordSize)
		il.count++
		if il.count >= d.SQWC.SQWC() {
			il.skipping, il.count = false, 0
		}
		return true, nil
	}

	moved, err := d.transferDataUnit(ch)
	if err != nil || !moved {
		return false, err
	}
	if ch.QWC == 0 {
		d.suspend(ch)
		return true, nil
	}

	il.count++
	if tqwc := d.SQWC.TQWC(); tqwc > 0 && il.count >= tqwc {
		il.count = 0
		il.skipping = d.SQWC.SQWC() > 0
	}
	return true, nil
}

// transferDataUnit moves one quadword between memory (MADR) and the
// peripheral, or the scratchpad (SADR) for the SPR channels. Returns false
// when the peripheral can not take or give data this tick.
func (d *Controller) transferDataUnit(ch *Channel) (bool, error) {
	if ch.Direction() == FromMemory {
		q, err := d.readMemory(ch.MADR)
		if err != nil {
			return false, err
		}
		if ok, err := d.writeChannel(ch, q); err != nil || !ok {
			return false, err
		}
	} else {
		q, ok, err := d.readChannel(ch)
		if err != nil || !ok {
			return false, err
		}
		if err := d.writeMemory(ch.MADR, q); err != nil {
			return false, err
		}
	}

	ch.MADR = ch.MADR.Add(qwordSize)
	ch.QWC--
	return true, nil
}

// readChannel takes a quadword from the device side of the channel
func (d *Controller) readChannel(ch *Channel) (storage.Uint128, bool, error) {
	if ch.ID == FromSPR {
		if d.scratchpad == nil {
			return storage.Uint128{}, false, ErrNoScratchpad
		}
		q := d.scratchpad.Read128(ch.SADR & scratchpadMask)
		ch.SADR = (ch.SADR + qwordSize) & scratchpadMask
		return q, true, nil
	}
	if ch.Peripheral == nil {
		return storage.Uint128{}, false, nil
	}
	q, ok := ch.Peripheral.ReadQword()
	return q, ok, nil
}

// writeChannel hands a quadword to the device side of the channel
func (d *Controller) writeChannel(ch *Channel, q storage.Uint128) (bool, error) {
	if ch.ID == ToSPR {
		if d.scratchpad == nil {
			return false, ErrNoScratchpad
		}
		d.scratchpad.Write128(ch.SADR&scratchpadMask, q)
		ch.SADR = (ch.SADR + qwordSize) & scratchpadMask
		return true, nil
	}
	if ch.Peripheral == nil {
		return false, nil
	}
	return ch.Peripheral.WriteQword(q), nil
}

// The DMAC works on physical addresses, the EE TLB is not involved.

func (d *Controller) readMemory(a Address) (storage.Uint128, error) {
	if a.SPR() {
		if d.scratchpad == nil {
			return storage.Uint128{}, fmt.Errorf("%w: read at 0x%08x", ErrNoScratchpad, uint32(a))
		}
		return d.scratchpad.Read128(a.Address() & scratchpadMask), nil
	}
	return d.mem.ReadQword(a.Address())
}

func (d *Controller) writeMemory(a Address, q storage.Uint128) error {
	if a.SPR() {
		if d.scratchpad == nil {
			return fmt.Errorf("%w: write at 0x%08x", ErrNoScratchpad, uint32(a))
		}
		d.scratchpad.Write128(a.Address()&scratchpadMask, q)
		return nil
	}
	return d.mem.WriteQword(a.Address(), q)
}

// Stall control: a source channel (D_CTRL.STS) publishes how far it has
// written in STADR, a drain channel (D_CTRL.STD) may not read past it.

func (d *Controller) isSourceStallControlOn(ch *Channel) bool {
	return ch.StallSource != 0 && d.Ctrl.STS() == ch.StallSource && ch.Direction() == ToMemory
}

func (d *Controller) isDrainStallControlOn(ch *Channel) bool {
	return ch.StallDrain != 0 && d.Ctrl.STD() == ch.StallDrain && ch.Direction() == FromMemory
}

// drainStalled reports whether the next quadword lies beyond STADR and
// raises D_STAT.SIS if so. SIS stays set until software clears it.
func (d *Controller) drainStalled(ch *Channel) bool {
	if ch.MADR.Address()+qwordSize > d.STADR.Address() {
		d.Stat |= statSIS
		return true
	}
	return false
}
