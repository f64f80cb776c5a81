package dmac

import "ps2/storage"

// Peripheral is the device end of a channel. Neither call may block: a
// peripheral that has nothing to give or no room reports false and the
// channel retries on a later tick.
type Peripheral interface {
	// ReadQword takes the next quadword from the device
	ReadQword() (storage.Uint128, bool)

	// WriteQword hands a quadword to the device
	WriteQword(storage.Uint128) bool
}

// FIFO is a quadword queue standing in for a device FIFO.
// A capacity of 0 means unbounded.
type FIFO struct {
	capacity int
	data     []storage.Uint128
}

func NewFIFO(capacity int) *FIFO {
	return &FIFO{capacity: capacity}
}

func (f *FIFO) ReadQword() (storage.Uint128, bool) {
	if len(f.data) == 0 {
		return storage.Uint128{}, false
	}
	q := f.data[0]
	f.data = f.data[1:]
	return q, true
}

func (f *FIFO) WriteQword(q storage.Uint128) bool {
	if f.Full() {
		return false
	}
	f.data = append(f.data, q)
	return true
}

// Push queues quadwords on the device side, ignoring the capacity
func (f *FIFO) Push(q ...storage.Uint128) {
	f.data = append(f.data, q...)
}

// Drain removes and returns everything queued
func (f *FIFO) Drain() []storage.Uint128 {
	d := f.data
	f.data = nil
	return d
}

func (f *FIFO) Len() int { return len(f.data) }

func (f *FIFO) Full() bool {
	return f.capacity > 0 && len(f.data) >= f.capacity
}
