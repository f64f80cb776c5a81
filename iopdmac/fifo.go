package iopdmac

// Peripheral is the device end of a channel, see dmac.Peripheral.
// Transfers on the IOP side are 32 bit words.
type Peripheral interface {
	ReadWord() (uint32, bool)
	WriteWord(uint32) bool
}

// FIFO is an unbounded word queue standing in for a device
type FIFO struct {
	data []uint32
}

func (f *FIFO) ReadWord() (uint32, bool) {
	if len(f.data) == 0 {
		return 0, false
	}
	w := f.data[0]
	f.data = f.data[1:]
	return w, true
}

func (f *FIFO) WriteWord(w uint32) bool {
	f.data = append(f.data, w)
	return true
}

func (f *FIFO) Push(w ...uint32) { f.data = append(f.data, w...) }

func (f *FIFO) Drain() []uint32 {
	d := f.data
	f.data = nil
	return d
}

func (f *FIFO) Len() int { return len(f.data) }
