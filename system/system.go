package system

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"ps2/clock"
	"ps2/console"
	"ps2/dmac"
	"ps2/interrupts"
	"ps2/iopdmac"
	"ps2/logger"
	"ps2/mmu"
	"ps2/statsview"
	"ps2/storage"

	"github.com/davecgh/go-spew/spew"
)

// ErrNoCore : Run was called before AttachCore
var ErrNoCore = errors.New("no core attached")

// Options configure the emulated machine
type Options struct {
	// LogPath is the debug log file, stdout when empty
	LogPath string
	// Quiet keeps the debug log in memory only
	Quiet bool
	// RecentLog is the number of log lines kept in memory
	RecentLog int

	// Console receives status messages, stdout when nil
	Console io.Writer

	Overlap     mmu.OverlapPolicy
	Arbitration dmac.Arbitration

	MainMemorySize uint32
	IOPMemorySize  uint32
	FIFOCapacity   int

	StatsView        bool
	StatsViewAddress string
}

// DefaultOptions returns the retail machine
func DefaultOptions() Options {
	return Options{
		RecentLog:      256,
		Overlap:        mmu.OverlapOverwrite,
		Arbitration:    dmac.ArbitrateFirst,
		MainMemorySize: SizeMainMemory,
		IOPMemorySize:  SizeIOPMemory,
		FIFOCapacity:   16,
	}
}

// Core is an instruction interpreter driven by Run. Step executes one
// instruction (or block) and returns the PS2CLK cycles it took.
type Core interface {
	Step() (cycles uint64, err error)
}

// System definition.
type System struct {
	Clock *clock.Clock

	MainMemory *storage.Memory
	BootROM    *storage.Memory
	Scratchpad *storage.Memory
	IOPMemory  *storage.Memory

	EEMMU  *mmu.PhysicalMMU
	IOPMMU *mmu.PhysicalMMU

	EEDMAC  *dmac.Controller
	IOPDMAC *iopdmac.Controller

	EEInterrupts  *interrupts.Queue
	IOPInterrupts *interrupts.Queue

	SIF0, SIF1 *SIF

	// Recent holds the tail of the debug log
	Recent *logger.Ring

	log       *log.Logger
	console   *console.Simple
	core      Core
	stopStats func()
}

// New builds the machine described by opts
func New(opts Options) (*System, error) {
	def := DefaultOptions()
	if opts.MainMemorySize == 0 {
		opts.MainMemorySize = def.MainMemorySize
	}
	if opts.IOPMemorySize == 0 {
		opts.IOPMemorySize = def.IOPMemorySize
	}
	if opts.FIFOCapacity == 0 {
		opts.FIFOCapacity = def.FIFOCapacity
	}

	s := &System{
		Clock:         clock.New(),
		EEInterrupts:  new(interrupts.Queue),
		IOPInterrupts: new(interrupts.Queue),
		SIF0:          NewSIF(SIFCapacity),
		SIF1:          NewSIF(SIFCapacity),
		Recent:        logger.NewRing(opts.RecentLog),
	}

	if opts.Quiet {
		s.log = logger.NewRingLogger(s.Recent)
	} else {
		base, err := logger.New(opts.LogPath)
		if err != nil {
			return nil, err
		}
		s.log = logger.Fanout(base, logger.NewRingLogger(s.Recent))
	}

	out := opts.Console
	if out == nil {
		out = os.Stdout
	}
	s.console = console.NewSimple(out)

	s.MainMemory = storage.NewMemory("EE RAM", AddressMainMemory, opts.MainMemorySize)
	s.BootROM = storage.NewMemory("Boot ROM", AddressBootROM, SizeBootROM)
	s.Scratchpad = storage.NewMemory("Scratchpad", AddressScratchpad, SizeScratchpad)
	s.IOPMemory = storage.NewMemory("IOP RAM", AddressMainMemory, opts.IOPMemorySize)

	var err error
	if s.EEMMU, err = mmu.New(mmu.EEGeometry, s.log); err != nil {
		return nil, err
	}
	if s.IOPMMU, err = mmu.New(mmu.IOPGeometry, s.log); err != nil {
		return nil, err
	}
	s.EEMMU.Policy = opts.Overlap
	s.IOPMMU.Policy = opts.Overlap

	s.EEDMAC = dmac.New(s.EEMMU, s.Scratchpad, s.EEInterrupts, s.log)
	s.EEDMAC.Arbitration = opts.Arbitration
	s.IOPDMAC = iopdmac.New(s.IOPMMU, s.IOPInterrupts, s.log)
	s.attachPeripherals(opts.FIFOCapacity)

	if err := s.buildEEMap(); err != nil {
		return nil, fmt.Errorf("EE memory map: %w", err)
	}
	if err := s.buildIOPMap(); err != nil {
		return nil, fmt.Errorf("IOP memory map: %w", err)
	}

	_ = s.console.WriteConsole("Initializing PS2 memory map.\n")
	for _, r := range s.EEMMU.Regions() {
		_ = s.console.WriteConsole("EE  " + r.String())
	}
	for _, r := range s.IOPMMU.Regions() {
		_ = s.console.WriteConsole("IOP " + r.String())
	}

	if opts.StatsView {
		s.stopStats = statsview.Launch(out, opts.StatsViewAddress)
	}
	return s, nil
}

// every channel gets a stand-in device, except the SPR channels which
// move data between memory and scratchpad, and the SIF pair which talk to
// each other
func (s *System) attachPeripherals(capacity int) {
	for _, ch := range s.EEDMAC.Channels {
		switch ch.ID {
		case dmac.FromSPR, dmac.ToSPR:
		case dmac.SIF0:
			ch.Peripheral = s.SIF0
		case dmac.SIF1:
			ch.Peripheral = s.SIF1
		default:
			ch.Peripheral = dmac.NewFIFO(capacity)
		}
	}
	for _, ch := range s.IOPDMAC.Channels {
		switch ch.ID {
		case iopdmac.OTClear:
		case iopdmac.SIF0:
			ch.Peripheral = s.SIF0
		case iopdmac.SIF1:
			ch.Peripheral = s.SIF1
		default:
			ch.Peripheral = new(iopdmac.FIFO)
		}
	}
}

// AttachCore sets the interpreter Run drives
func (s *System) AttachCore(c Core) {
	s.core = c
}

// Step advances the clock by cycles and runs the DMA controllers for the
// ticks of their domains. The first error stops the machine.
func (s *System) Step(cycles uint64) error {
	s.Clock.AddCycles(cycles)
	for s.Clock.IsTicked(clock.BUSCLK) {
		if err := s.EEDMAC.Tick(); err != nil {
			return s.stop(err)
		}
	}
	for s.Clock.IsTicked(clock.IOPCLK) {
		if err := s.IOPDMAC.Tick(); err != nil {
			return s.stop(err)
		}
	}
	return nil
}

// Run steps the attached core and the DMA controllers until ctx is done
// or something fails
func (s *System) Run(ctx context.Context) error {
	if s.core == nil {
		return ErrNoCore
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		cycles, err := s.core.Step()
		if err != nil {
			return s.stop(fmt.Errorf("core: %w", err))
		}
		if err := s.Step(cycles); err != nil {
			return err
		}
	}
}

func (s *System) stop(err error) error {
	s.log.Printf("machine stopped at cycle %d: %v\n", s.Clock.Cycles(), err)
	_ = s.console.WriteConsole(fmt.Sprintf("STOPPED: %v\n", err))
	return err
}

// Reset puts the machine back to power on state. Memory contents are
// cleared, except the boot ROM.
func (s *System) Reset() {
	s.Clock.Reset()
	s.MainMemory.Reset()
	s.Scratchpad.Reset()
	s.IOPMemory.Reset()
	s.EEDMAC.Reset()
	s.IOPDMAC.Reset()
	s.EEInterrupts.Clear()
	s.IOPInterrupts.Clear()
	s.SIF0.Reset()
	s.SIF1.Reset()
	for _, ch := range s.EEDMAC.Channels {
		if f, ok := ch.Peripheral.(*dmac.FIFO); ok {
			f.Drain()
		}
	}
	for _, ch := range s.IOPDMAC.Channels {
		if f, ok := ch.Peripheral.(*iopdmac.FIFO); ok {
			f.Drain()
		}
	}
	_ = s.console.WriteConsole("Reset.\n")
}

// Close stops the stats server if one was started
func (s *System) Close() {
	if s.stopStats != nil {
		s.stopStats()
		s.stopStats = nil
	}
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// snapshot of the controller state for DumpState
type dmacState struct {
	Cycles  uint64
	Elapsed float64

	EEChannels  []string
	EECtrl      dmac.Ctrl
	EEStat      dmac.Stat
	EEPCR       dmac.PCR
	EEPending   int
	IOPChannels []string
	IOPPCR      [2]uint32
	IOPICR      [2]iopdmac.ICR
	IOPPending  int
}

// DumpState writes the clock and every DMA register
func (s *System) DumpState(w io.Writer) {
	st := dmacState{
		Cycles:     s.Clock.Cycles(),
		Elapsed:    float64(s.Clock.Elapsed()),
		EECtrl:     s.EEDMAC.Ctrl,
		EEStat:     s.EEDMAC.Stat,
		EEPCR:      s.EEDMAC.PCR,
		EEPending:  s.EEInterrupts.Len(),
		IOPPCR:     [2]uint32{s.IOPDMAC.PCR0, s.IOPDMAC.PCR1},
		IOPICR:     [2]iopdmac.ICR{s.IOPDMAC.ICR0, s.IOPDMAC.ICR1},
		IOPPending: s.IOPInterrupts.Len(),
	}
	for _, ch := range s.EEDMAC.Channels {
		st.EEChannels = append(st.EEChannels, ch.String())
	}
	for _, ch := range s.IOPDMAC.Channels {
		st.IOPChannels = append(st.IOPChannels, ch.String())
	}
	dumpConfig.Fdump(w, st)
}
