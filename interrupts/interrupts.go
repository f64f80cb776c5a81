package interrupts

import "fmt"

/**
 * Separate package exists mainly in order to avoid cyclic imports
 * between the DMA controllers and whoever services their interrupts.
 */

// Source identifies the controller raising an interrupt
type Source int

const (
	// EEDMAC : EE DMA controller, delivered to the EE core as INT1
	EEDMAC Source = iota
	// IOPDMAC : IOP DMA controller
	IOPDMAC
)

func (s Source) String() string {
	switch s {
	case EEDMAC:
		return "EE DMAC"
	case IOPDMAC:
		return "IOP DMAC"
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

// Cause tells why the interrupt was raised
type Cause int

const (
	// ChannelComplete : a channel finished its transfer
	ChannelComplete Cause = iota
	// StallControl : a drain channel stalled on the stall address
	StallControl
	// MFIFOEmpty : memory FIFO ran empty
	MFIFOEmpty
)

func (c Cause) String() string {
	switch c {
	case ChannelComplete:
		return "channel complete"
	case StallControl:
		return "stall control"
	case MFIFOEmpty:
		return "MFIFO empty"
	}
	return fmt.Sprintf("Cause(%d)", int(c))
}

// Interrupt type - used to signal an interrupt request
// Channel is -1 for controller wide causes
type Interrupt struct {
	Source  Source
	Channel int
	Cause   Cause
}

func (i Interrupt) String() string {
	if i.Channel < 0 {
		return fmt.Sprintf("%s: %s", i.Source, i.Cause)
	}
	return fmt.Sprintf("%s channel %d: %s", i.Source, i.Channel, i.Cause)
}

// Sink receives interrupts raised by a controller
type Sink interface {
	Send(Interrupt)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Interrupt)

func (f SinkFunc) Send(i Interrupt) { f(i) }
