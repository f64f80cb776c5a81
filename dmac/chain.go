package dmac

import (
	"fmt"

	"ps2/storage"
)

// tagHandler applies a tag to the channel registers. QWC and CHCR.TAG have
// already been loaded from the tag.
type tagHandler func(d *Controller, ch *Channel, tag Tag) error

// EE Users Manual p.59 - 61
var sourceChainTable = [8]tagHandler{
	TagREFE: srcREFE,
	TagCNT:  srcCNT,
	TagNEXT: srcNEXT,
	TagREF:  srcREF,
	TagREFS: srcREFS,
	TagCALL: srcCALL,
	TagRET:  srcRET,
	TagEND:  srcEND,
}

var destinationChainTable = [8]tagHandler{
	TagCNTS: dstCNTS,
	TagCNT:  dstCNT,
	2:       unsupportedTag,
	3:       unsupportedTag,
	4:       unsupportedTag,
	5:       unsupportedTag,
	6:       unsupportedTag,
	TagEND:  dstEND,
}

// stepSourceChain: tags are read from memory at TADR. A tag is fetched
// when the previous packet is exhausted, its first quadword moves in the
// same tick.
func (d *Controller) stepSourceChain(ch *Channel) (bool, error) {
	fetched := false
	if ch.QWC == 0 {
		q, err := d.readMemory(ch.TADR)
		if err != nil {
			return false, err
		}
		tag := Tag(q)
		if ch.CHCR.TTE() {
			ok, err := d.writeChannel(ch, q)
			if err != nil || !ok {
				return false, err
			}
		}
		if err := d.loadTag(ch, tag, sourceChainTable); err != nil {
			return false, err
		}
		if ch.QWC == 0 {
			d.checkEndOfPacket(ch)
			return true, nil
		}
		fetched = true
	}

	if ch.CHCR.TagID() == TagREFS && d.isDrainStallControlOn(ch) && d.drainStalled(ch) {
		return fetched, nil
	}

	moved, err := d.transferDataUnit(ch)
	if err != nil || !moved {
		return fetched, err
	}
	d.endChainTransfer(ch)
	return true, nil
}

// stepDestinationChain: tags arrive from the device ahead of their data
func (d *Controller) stepDestinationChain(ch *Channel) (bool, error) {
	fetched := false
	if ch.QWC == 0 {
		q, ok, err := d.readChannel(ch)
		if err != nil || !ok {
			return false, err
		}
		if err := d.loadTag(ch, Tag(q), destinationChainTable); err != nil {
			return false, err
		}
		if ch.QWC == 0 {
			d.checkEndOfPacket(ch)
			return true, nil
		}
		fetched = true
	}

	moved, err := d.transferDataUnit(ch)
	if err != nil || !moved {
		return fetched, err
	}
	if ch.CHCR.TagID() == TagCNTS && d.isSourceStallControlOn(ch) {
		d.STADR = ch.MADR
	}
	d.endChainTransfer(ch)
	return true, nil
}

// endChainTransfer runs after every quadword moved in chain mode. The
// quadword counts towards the slice quota even when it ends its packet.
func (d *Controller) endChainTransfer(ch *Channel) {
	if ch.QWC == 0 {
		d.checkEndOfPacket(ch)
	}
	if ch.CHCR.STR() {
		d.checkSliceQuota(ch)
	}
}

func (d *Controller) loadTag(ch *Channel, tag Tag, table [8]tagHandler) error {
	ch.CHCR = ch.CHCR.withTag(tag.Upper())
	ch.QWC = tag.QWC()
	ch.chainExit = false
	return table[tag.ID()](d, ch, tag)
}

// checkEndOfPacket runs once the packet's data is exhausted: the transfer
// ends on an exit tag, or on a tag IRQ while CHCR.TIE is set.
func (d *Controller) checkEndOfPacket(ch *Channel) {
	if ch.chainExit || (ch.CHCR.TIE() && ch.CHCR.TagIRQ()) {
		d.suspend(ch)
	}
}

func unsupportedTag(d *Controller, ch *Channel, tag Tag) error {
	return fmt.Errorf("%w: %s destination chain tag ID %d (%v)", ErrUnsupportedChainInstruction, ch.Mnemonic, tag.ID(), storage.Uint128(tag))
}

// data follows the tag, next tag follows the data
func srcCNT(d *Controller, ch *Channel, tag Tag) error {
	ch.MADR = ch.TADR.Add(qwordSize)
	ch.TADR = ch.MADR.Add(ch.QWC * qwordSize)
	return nil
}

// data follows the tag, next tag at ADDR
func srcNEXT(d *Controller, ch *Channel, tag Tag) error {
	ch.MADR = ch.TADR.Add(qwordSize)
	ch.TADR = tag.Addr()
	return nil
}

// data at ADDR, next tag follows this one
func srcREF(d *Controller, ch *Channel, tag Tag) error {
	ch.MADR = tag.Addr()
	ch.TADR = ch.TADR.Add(qwordSize)
	return nil
}

// as REF, with drain stall control
func srcREFS(d *Controller, ch *Channel, tag Tag) error {
	return srcREF(d, ch, tag)
}

// data at ADDR, then end
func srcREFE(d *Controller, ch *Channel, tag Tag) error {
	srcREF(d, ch, tag)
	ch.chainExit = true
	return nil
}

// data follows the tag, push the address after it, next tag at ADDR
func srcCALL(d *Controller, ch *Channel, tag Tag) error {
	asp := ch.CHCR.ASP()
	if asp >= len(ch.ASR) {
		return fmt.Errorf("%w: %s CALL with ASP=%d", ErrCallStackOverflow, ch.Mnemonic, asp)
	}
	ch.MADR = ch.TADR.Add(qwordSize)
	ch.ASR[asp] = ch.MADR.Add(ch.QWC * qwordSize)
	ch.CHCR = ch.CHCR.withASP(asp + 1)
	ch.TADR = tag.Addr()
	return nil
}

// data follows the tag, next tag popped from the address stack; end when empty
func srcRET(d *Controller, ch *Channel, tag Tag) error {
	asp := ch.CHCR.ASP()
	if asp > len(ch.ASR) {
		return fmt.Errorf("%w: %s RET with ASP=%d", ErrCallStackOverflow, ch.Mnemonic, asp)
	}
	ch.MADR = ch.TADR.Add(qwordSize)
	if asp > 0 {
		asp--
		ch.TADR = ch.ASR[asp]
		ch.CHCR = ch.CHCR.withASP(asp)
		return nil
	}
	ch.chainExit = true
	return nil
}

// data follows the tag, then end
func srcEND(d *Controller, ch *Channel, tag Tag) error {
	ch.MADR = ch.TADR.Add(qwordSize)
	ch.chainExit = true
	return nil
}

func dstCNT(d *Controller, ch *Channel, tag Tag) error {
	ch.MADR = tag.Addr()
	return nil
}

// as CNT, STADR follows MADR
func dstCNTS(d *Controller, ch *Channel, tag Tag) error {
	return dstCNT(d, ch, tag)
}

func dstEND(d *Controller, ch *Channel, tag Tag) error {
	ch.MADR = tag.Addr()
	ch.chainExit = true
	return nil
}
