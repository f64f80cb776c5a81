package system

import "ps2/storage"

// SIFCapacity is the depth of a SIF FIFO in words
const SIFCapacity = 128

/*
 SIF is one direction of the subsystem interface between the EE and the
 IOP. The IOP DMAC moves words through it, the EE DMAC quadwords, so it
 serves as the peripheral of a channel on either controller:

	SIF0: IOP SIF0 (from IOP RAM) -> EE SIF0 (to EE memory)
	SIF1: EE SIF1 (from EE memory) -> IOP SIF1 (to IOP RAM)
*/
type SIF struct {
	capacity int
	words    []uint32
}

func NewSIF(capacity int) *SIF {
	return &SIF{capacity: capacity}
}

func (f *SIF) WriteWord(w uint32) bool {
	if len(f.words) >= f.capacity {
		return false
	}
	f.words = append(f.words, w)
	return true
}

func (f *SIF) ReadWord() (uint32, bool) {
	if len(f.words) == 0 {
		return 0, false
	}
	w := f.words[0]
	f.words = f.words[1:]
	return w, true
}

// WriteQword queues the four words of q, lowest first
func (f *SIF) WriteQword(q storage.Uint128) bool {
	if len(f.words)+4 > f.capacity {
		return false
	}
	f.words = append(f.words, uint32(q.Lo), uint32(q.Lo>>32), uint32(q.Hi), uint32(q.Hi>>32))
	return true
}

// ReadQword waits until four words are queued
func (f *SIF) ReadQword() (storage.Uint128, bool) {
	if len(f.words) < 4 {
		return storage.Uint128{}, false
	}
	w := f.words[:4]
	q := storage.Uint128{
		Lo: uint64(w[0]) | uint64(w[1])<<32,
		Hi: uint64(w[2]) | uint64(w[3])<<32,
	}
	f.words = f.words[4:]
	return q, true
}

func (f *SIF) Len() int { return len(f.words) }

func (f *SIF) Reset() { f.words = nil }
