package dmac

import "fmt"

// ChannelID indexes the ten EE DMA channels, also the priority order
type ChannelID int

const (
	VIF0 ChannelID = iota
	VIF1
	GIF
	FromIPU
	ToIPU
	SIF0
	SIF1
	SIF2
	FromSPR
	ToSPR

	NumChannels = 10
)

func (id ChannelID) String() string {
	if id < 0 || id >= NumChannels {
		return fmt.Sprintf("Channel(%d)", int(id))
	}
	return ChannelTable[id].Mnemonic
}

// Direction of the data, seen from main memory
type Direction int

const (
	// ToMemory : peripheral -> memory (CHCR.DIR = 0)
	ToMemory Direction = iota
	// FromMemory : memory -> peripheral (CHCR.DIR = 1)
	FromMemory
	// Both : decided by CHCR.DIR at runtime
	Both
)

func (d Direction) String() string {
	return [...]string{"to memory", "from memory", "both"}[d]
}

// LogicalMode is CHCR.MOD
type LogicalMode int

const (
	Normal LogicalMode = iota
	Chain
	Interleaved
)

func (m LogicalMode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Chain:
		return "chain"
	case Interleaved:
		return "interleave"
	}
	return fmt.Sprintf("LogicalMode(%d)", int(m))
}

// PhysicalMode decides whether a channel gives the bus back while transferring
type PhysicalMode int

const (
	// Slice : at most SliceQuota quadwords, then wait for the next start
	Slice PhysicalMode = iota
	// Burst : everything at once
	Burst
)

// SliceQuota is the number of quadwords a slice channel moves per start
const SliceQuota = 8

// D_CTRL.STS values
const (
	StallSourceSIF0    = 1
	StallSourceFromSPR = 2
	StallSourceFromIPU = 3
)

// D_CTRL.STD values
const (
	StallDrainVIF1 = 1
	StallDrainGIF  = 2
	StallDrainSIF1 = 3
)

// Properties are the fixed attributes of a channel (EE Users Manual p.42)
type Properties struct {
	Mnemonic   string
	Address    uint32
	Direction  Direction
	Physical   PhysicalMode
	Chain      bool
	Interleave bool

	// D_CTRL.STS / D_CTRL.STD value selecting the channel, 0 if it can not be selected
	StallSource uint32
	StallDrain  uint32
}

// ChannelTable lists the EE DMA channels in priority order
var ChannelTable = [NumChannels]Properties{
	VIF0:    {Mnemonic: "VIF0", Address: 0x10008000, Direction: FromMemory, Physical: Slice, Chain: true},
	VIF1:    {Mnemonic: "VIF1", Address: 0x10009000, Direction: Both, Physical: Slice, Chain: true, StallDrain: StallDrainVIF1},
	GIF:     {Mnemonic: "GIF", Address: 0x1000A000, Direction: FromMemory, Physical: Slice, Chain: true, StallDrain: StallDrainGIF},
	FromIPU: {Mnemonic: "fromIPU", Address: 0x1000B000, Direction: ToMemory, Physical: Slice, StallSource: StallSourceFromIPU},
	ToIPU:   {Mnemonic: "toIPU", Address: 0x1000B400, Direction: FromMemory, Physical: Slice, Chain: true},
	SIF0:    {Mnemonic: "SIF0", Address: 0x1000C000, Direction: ToMemory, Physical: Burst, Chain: true, StallSource: StallSourceSIF0},
	SIF1:    {Mnemonic: "SIF1", Address: 0x1000C400, Direction: FromMemory, Physical: Burst, Chain: true, StallDrain: StallDrainSIF1},
	SIF2:    {Mnemonic: "SIF2", Address: 0x1000C800, Direction: Both, Physical: Burst},
	FromSPR: {Mnemonic: "fromSPR", Address: 0x1000D000, Direction: ToMemory, Physical: Burst, Chain: true, Interleave: true, StallSource: StallSourceFromSPR},
	ToSPR:   {Mnemonic: "toSPR", Address: 0x1000D400, Direction: FromMemory, Physical: Burst, Chain: true, Interleave: true},
}

// interleave progress, only meaningful while the channel runs
type interleaveState struct {
	skipping bool
	count    uint32
}

// Channel holds the registers of one DMA channel
type Channel struct {
	ID ChannelID
	*Properties

	CHCR CHCR
	MADR Address
	QWC  uint32
	TADR Address
	ASR  [2]Address
	SADR uint32

	// Peripheral is the device side FIFO, unused by the SPR channels
	Peripheral Peripheral

	sliceCount int
	interleave interleaveState

	// set by END, REFE and RET with an empty address stack
	chainExit bool
}

func newChannel(id ChannelID) *Channel {
	return &Channel{ID: id, Properties: &ChannelTable[id]}
}

// Direction returns the direction the channel currently transfers in
func (ch *Channel) Direction() Direction {
	if ch.Properties.Direction != Both {
		return ch.Properties.Direction
	}
	if ch.CHCR.DIR() {
		return FromMemory
	}
	return ToMemory
}

// Start sets CHCR.STR, as a CPU store to CHCR would
func (ch *Channel) Start() {
	ch.WriteCHCR(uint32(ch.CHCR.withSTR(true)))
}

// WriteCHCR applies a CPU store to CHCR. Setting STR restarts the
// channel's transient state (slice quota and interleave position).
func (ch *Channel) WriteCHCR(value uint32) {
	c := CHCR(value)
	if c.STR() && !ch.CHCR.STR() {
		ch.restart()
	}
	ch.CHCR = c
}

func (ch *Channel) restart() {
	ch.sliceCount = 0
	ch.interleave = interleaveState{}
}

// Reset clears all registers
func (ch *Channel) Reset() {
	p := ch.Peripheral
	*ch = *newChannel(ch.ID)
	ch.Peripheral = p
}

func (ch *Channel) String() string {
	return fmt.Sprintf("%-7s CHCR=%08x MADR=%08x QWC=%04x TADR=%08x ASR0=%08x ASR1=%08x SADR=%04x",
		ch.Mnemonic, uint32(ch.CHCR), uint32(ch.MADR), ch.QWC, uint32(ch.TADR),
		uint32(ch.ASR[0]), uint32(ch.ASR[1]), ch.SADR)
}
