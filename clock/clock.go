package clock

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/sarchlab/akita/v3/sim"
)

// Domain is a clock source derived from the PS2 master clock
type Domain int

const (
	// PS2CLK : EE core clock, everything else is derived from it
	PS2CLK Domain = iota
	// BUSCLK : EE bus, DMAC, INTC and timers
	BUSCLK
	// BUSCLK16 : timer prescaler
	BUSCLK16
	// BUSCLK256 : timer prescaler
	BUSCLK256
	// HBLNK : horizontal blank (NTSC)
	HBLNK
	// IOPCLK : IOP core and IOP DMAC
	IOPCLK

	numDomains
)

var frequencies = [numDomains]sim.Freq{
	PS2CLK:    294.912 * sim.MHz,
	BUSCLK:    147.456 * sim.MHz,
	BUSCLK16:  9.216 * sim.MHz,
	BUSCLK256: 576 * sim.KHz,
	HBLNK:     15734.2657 * sim.Hz,
	IOPCLK:    36.864 * sim.MHz,
}

var names = [numDomains]string{"PS2CLK", "BUSCLK", "BUSCLK16", "BUSCLK256", "HBLNK", "IOPCLK"}

func (d Domain) String() string {
	if d < 0 || d >= numDomains {
		return fmt.Sprintf("Domain(%d)", int(d))
	}
	return names[d]
}

// Frequency of the domain
func (d Domain) Frequency() sim.Freq { return frequencies[d] }

// Domains lists all clock domains
func Domains() []Domain {
	d := make([]Domain, numDomains)
	for i := range d {
		d[i] = Domain(i)
	}
	return d
}

/*
 Clock counts PS2CLK cycles and hands out the ticks of every derived domain.
 Ticks are consumed with IsTicked, so a component clocked by BUSCLK runs

	for c.IsTicked(clock.BUSCLK) {
		component.Tick()
	}

 after the core has added the cycles it spent.
*/
type Clock struct {
	cycles   uint64
	consumed [numDomains]uint64

	// frequencies in millihertz, keeps the tick arithmetic in integers
	milliHz [numDomains]uint64
}

func New() *Clock {
	c := new(Clock)
	for i, f := range frequencies {
		c.milliHz[i] = uint64(math.Round(float64(f) * 1000))
	}
	return c
}

// AddCycles advances the master clock
func (c *Clock) AddCycles(n uint64) {
	c.cycles += n
}

// Cycles returns the PS2CLK cycles so far
func (c *Clock) Cycles() uint64 { return c.cycles }

// Ticks returns how many ticks of d have elapsed in total
func (c *Clock) Ticks(d Domain) uint64 {
	hi, lo := bits.Mul64(c.cycles, c.milliHz[d])
	q, _ := bits.Div64(hi, lo, c.milliHz[PS2CLK])
	return q
}

// Pending returns the ticks of d not consumed yet
func (c *Clock) Pending(d Domain) uint64 {
	return c.Ticks(d) - c.consumed[d]
}

// IsTicked consumes one pending tick of d
func (c *Clock) IsTicked(d Domain) bool {
	if c.consumed[d] < c.Ticks(d) {
		c.consumed[d]++
		return true
	}
	return false
}

// Elapsed returns the emulated time
func (c *Clock) Elapsed() sim.VTimeInSec {
	return sim.VTimeInSec(float64(c.cycles) * float64(PS2CLK.Frequency().Period()))
}

func (c *Clock) Reset() {
	c.cycles = 0
	c.consumed = [numDomains]uint64{}
}
