package clock

import (
	"math"
	"testing"
)

func TestClock_Ticks(t *testing.T) {
	c := New()
	c.AddCycles(294912)

	tests := []struct {
		name   string
		domain Domain
		want   uint64
	}{
		{"master", PS2CLK, 294912},
		{"bus", BUSCLK, 147456},
		{"bus/16", BUSCLK16, 9216},
		{"bus/256", BUSCLK256, 576},
		{"iop", IOPCLK, 36864},
		{"hblank", HBLNK, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Ticks(tt.domain); got != tt.want {
				t.Errorf("Clock.Ticks(%s) = %d, want %d", tt.domain, got, tt.want)
			}
		})
	}
}

func TestClock_IsTicked(t *testing.T) {
	c := New()
	c.AddCycles(5)

	n := 0
	for c.IsTicked(BUSCLK) {
		n++
	}
	if n != 2 {
		t.Errorf("BUSCLK ticked %d times in 5 cycles, want 2", n)
	}

	// the odd cycle carries over
	c.AddCycles(1)
	if !c.IsTicked(BUSCLK) || c.IsTicked(BUSCLK) {
		t.Errorf("carried cycle not ticked exactly once")
	}
	if c.Pending(IOPCLK) != 0 {
		t.Errorf("Pending(IOPCLK) = %d after 6 cycles", c.Pending(IOPCLK))
	}

	c.Reset()
	if c.Cycles() != 0 || c.IsTicked(PS2CLK) {
		t.Errorf("Reset() left state behind")
	}
}

func TestClock_Elapsed(t *testing.T) {
	c := New()
	c.AddCycles(294912000)
	if got := float64(c.Elapsed()); math.Abs(got-1) > 1e-6 {
		t.Errorf("Clock.Elapsed() = %v, want 1s", got)
	}
	if len(Domains()) != 6 || Domains()[5] != IOPCLK {
		t.Errorf("Domains() = %v", Domains())
	}
}
