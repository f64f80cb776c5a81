package dmac

import (
	"fmt"

	"ps2/storage"
)

// TagID is the 3 bit DMA tag instruction. Source and destination chain
// modes interpret the same values differently.
type TagID uint8

// source chain instructions
const (
	TagREFE TagID = iota
	TagCNT
	TagNEXT
	TagREF
	TagREFS
	TagCALL
	TagRET
	TagEND
)

// TagCNTS is the destination chain "count with stall address update"
const TagCNTS TagID = 0

var (
	sourceTagNames      = [8]string{"REFE", "CNT", "NEXT", "REF", "REFS", "CALL", "RET", "END"}
	destinationTagNames = [8]string{"CNTS", "CNT", "?", "?", "?", "?", "?", "END"}
)

// SourceName returns the source chain mnemonic
func (id TagID) SourceName() string { return sourceTagNames[id&7] }

// DestinationName returns the destination chain mnemonic, "?" if unsupported
func (id TagID) DestinationName() string { return destinationTagNames[id&7] }

/*
 Tag is a DMA tag, the lower doubleword of a tag quadword:

	bit 0-15  QWC  quadwords following the tag
	bit 26-27 PCE  priority control
	bit 28-30 ID   instruction
	bit 31    IRQ  interrupt request
	bit 32-62 ADDR address of the next tag or of the data
	bit 63    SPR  ADDR is in scratchpad

 The upper doubleword is kept as it may be transferred along with the tag.
*/
type Tag storage.Uint128

// NewTag assembles a tag
func NewTag(id TagID, qwc uint32, addr Address, irq bool) Tag {
	lo := uint64(qwc&0xFFFF) | uint64(id&7)<<28 | uint64(addr)<<32
	if irq {
		lo |= 1 << 31
	}
	return Tag{Lo: lo}
}

func (t Tag) QWC() uint32   { return uint32(t.Lo & 0xFFFF) }
func (t Tag) PCE() uint32   { return uint32(t.Lo>>26) & 3 }
func (t Tag) ID() TagID     { return TagID(t.Lo>>28) & 7 }
func (t Tag) IRQ() bool     { return t.Lo>>31&1 == 1 }
func (t Tag) Addr() Address { return Address(t.Lo >> 32) }

// Upper returns bits 16-31, which are copied into CHCR.TAG
func (t Tag) Upper() uint16 { return uint16(t.Lo >> 16) }

// Qword returns the tag as it sits in memory
func (t Tag) Qword() storage.Uint128 { return storage.Uint128(t) }

func (t Tag) String() string {
	return fmt.Sprintf("id=%d qwc=%d pce=%d addr=0x%08x irq=%t", t.ID(), t.QWC(), t.PCE(), uint32(t.Addr()), t.IRQ())
}
