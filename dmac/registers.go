package dmac

// Register bit layouts, EE Users Manual p.64 onwards.

// SPRBit marks a scratchpad address in MADR, TADR, ASR and DMA tags
const SPRBit = 1 << 31

const (
	qwordSize      = 16
	scratchpadMask = 0x3FF0
)

// Address is the MADR / TADR / ASR layout: 31 bit address + SPR flag
type Address uint32

func (a Address) SPR() bool       { return a&SPRBit != 0 }
func (a Address) Address() uint32 { return uint32(a) &^ SPRBit }

// Add advances the address part, leaving the SPR flag alone
func (a Address) Add(n uint32) Address {
	return a&SPRBit | Address((a.Address()+n)&^SPRBit)
}

// CHCR - channel control
//
//	bit 0     DIR  1 = from memory
//	bit 2-3   MOD  logical mode
//	bit 4-5   ASP  address stack pointer
//	bit 6     TTE  tag transfer enable
//	bit 7     TIE  tag interrupt enable
//	bit 8     STR  start
//	bit 16-31 TAG  bits 16-31 of the last DMA tag
type CHCR uint32

const (
	chcrDIR = 1 << 0
	chcrTTE = 1 << 6
	chcrTIE = 1 << 7
	chcrSTR = 1 << 8
)

func (c CHCR) DIR() bool         { return c&chcrDIR != 0 }
func (c CHCR) Mode() LogicalMode { return LogicalMode((c >> 2) & 3) }
func (c CHCR) ASP() int          { return int((c >> 4) & 3) }
func (c CHCR) TTE() bool         { return c&chcrTTE != 0 }
func (c CHCR) TIE() bool         { return c&chcrTIE != 0 }
func (c CHCR) STR() bool         { return c&chcrSTR != 0 }
func (c CHCR) Tag() uint16       { return uint16(c >> 16) }
func (c CHCR) TagID() TagID      { return TagID((c >> 28) & 7) }
func (c CHCR) TagIRQ() bool      { return c>>31 == 1 }

func (c CHCR) withSTR(on bool) CHCR {
	return setBit(c, chcrSTR, on)
}

func (c CHCR) withASP(asp int) CHCR {
	return c&^(3<<4) | CHCR(asp&3)<<4
}

func (c CHCR) withTag(tag uint16) CHCR {
	return c&0xFFFF | CHCR(tag)<<16
}

// NewCHCR assembles a control value, mostly for tests and bootstrap code
func NewCHCR(mode LogicalMode, fromMemory, tte, tie, start bool) CHCR {
	var c CHCR
	c = setBit(c, chcrDIR, fromMemory)
	c |= CHCR(mode&3) << 2
	c = setBit(c, chcrTTE, tte)
	c = setBit(c, chcrTIE, tie)
	return setBit(c, chcrSTR, start)
}

// Ctrl - D_CTRL
//
//	bit 0    DMAE DMA enable
//	bit 1    RELE cycle stealing
//	bit 2-3  MFD  memory FIFO drain channel
//	bit 4-5  STS  stall control source channel
//	bit 6-7  STD  stall control drain channel
//	bit 8-10 RCYC release cycle
type Ctrl uint32

func (c Ctrl) DMAE() bool   { return c&1 != 0 }
func (c Ctrl) RELE() bool   { return c&2 != 0 }
func (c Ctrl) MFD() uint32  { return uint32(c>>2) & 3 }
func (c Ctrl) STS() uint32  { return uint32(c>>4) & 3 }
func (c Ctrl) STD() uint32  { return uint32(c>>6) & 3 }
func (c Ctrl) RCYC() uint32 { return uint32(c>>8) & 7 }

// NewCtrl assembles a D_CTRL value
func NewCtrl(enable bool, sts, std uint32) Ctrl {
	var c Ctrl
	c = setBit(c, 1, enable)
	return c | Ctrl(sts&3)<<4 | Ctrl(std&3)<<6
}

// Stat - D_STAT
//
//	bit 0-9   CIS  channel interrupt status
//	bit 13    SIS  stall interrupt status
//	bit 14    MEIS MFIFO empty interrupt status
//	bit 15    BEIS bus error interrupt status
//	bit 16-25 CIM  channel interrupt mask
//	bit 29    SIM  stall interrupt mask
//	bit 30    MEIM MFIFO empty interrupt mask
//
// Writing 1 clears a status bit and toggles a mask bit.
type Stat uint32

const (
	statSIS  = 1 << 13
	statMEIS = 1 << 14
	statBEIS = 1 << 15
	statSIM  = 1 << 29
	statMEIM = 1 << 30
)

func (s Stat) CIS(ch ChannelID) bool { return s&(1<<uint(ch)) != 0 }
func (s Stat) CIM(ch ChannelID) bool { return s&(1<<(16+uint(ch))) != 0 }
func (s Stat) SIS() bool             { return s&statSIS != 0 }
func (s Stat) SIM() bool             { return s&statSIM != 0 }
func (s Stat) MEIS() bool            { return s&statMEIS != 0 }
func (s Stat) MEIM() bool            { return s&statMEIM != 0 }
func (s Stat) BEIS() bool            { return s&statBEIS != 0 }

// write applies a CPU store to D_STAT
func (s Stat) write(value uint32) Stat {
	s &^= Stat(value & 0xFFFF)
	return s ^ Stat(value&0xFFFF0000)
}

// PCR - D_PCR
//
//	bit 0-9   CPC COP control
//	bit 16-25 CDE channel DMA enable
//	bit 31    PCE priority control enable
type PCR uint32

func (p PCR) PCE() bool             { return p>>31 == 1 }
func (p PCR) CDE(ch ChannelID) bool { return p&(1<<(16+uint(ch))) != 0 }

// SQWC - D_SQWC, interleave skip and transfer sizes in quadwords
type SQWC uint32

func (s SQWC) SQWC() uint32 { return uint32(s) & 0xFF }
func (s SQWC) TQWC() uint32 { return uint32(s>>16) & 0xFF }

// NewSQWC assembles a D_SQWC value
func NewSQWC(skip, transfer uint32) SQWC {
	return SQWC(skip&0xFF | (transfer&0xFF)<<16)
}

// Enable - D_ENABLER / D_ENABLEW, bit 16 CPND holds all transfers
type Enable uint32

func (e Enable) CPND() bool { return e&(1<<16) != 0 }

type bits interface {
	~uint32
}

func setBit[T bits](v, bit T, on bool) T {
	if on {
		return v | bit
	}
	return v &^ bit
}
