package gbcore

import "github.com/retrogb/gbcore/internal/host"

// FreqGovernor rate-limits the emulation loop to the configured target
// CPU frequency by measuring instructions-per-second over a sampling
// window and injecting a calibrated busy-delay, grounded on the
// reference implementation's FreqControl (spec §6.2, SPEC_FULL
// Supplemented feature 1). Disabled entirely when NativeSpeed is set.
type FreqGovernor struct {
	target    int
	sample    int
	delayUnit int
	native    bool

	count int
	delay int
	last  uint64
}

// NewFreqGovernor builds a governor from cfg, ready to call Adjust once
// per instruction.
func NewFreqGovernor(cfg Config) *FreqGovernor {
	return &FreqGovernor{
		target:    cfg.Freq,
		sample:    cfg.Sample,
		delayUnit: cfg.DelayUnit,
		native:    cfg.NativeSpeed,
	}
}

// Reset restarts the sampling window at the host's current clock.
func (g *FreqGovernor) Reset(clock host.Clock) {
	g.last = clock.Clock()
	g.count = 0
}

// Adjust should be called once per emulated instruction. Every sample
// window it measures elapsed wall-clock microseconds against the
// target instruction rate and grows or shrinks the busy-delay
// accordingly. Each call burns the current delay in spin, a counting
// loop that does not consult the host clock.
func (g *FreqGovernor) Adjust(clock host.Clock) {
	if g.native || g.sample <= 0 {
		return
	}
	g.count++
	g.spin(g.delay)
	if g.count%g.sample != 0 {
		return
	}
	now := clock.Clock()
	elapsed := now - g.last // wrap-tolerant: unsigned subtraction
	if elapsed == 0 {
		elapsed = 1
	}
	ips := uint64(g.sample) * 1000000 / elapsed
	if int(ips) > g.target {
		g.delay += g.delayUnit
	} else if g.delay > 0 {
		g.delay -= g.delayUnit
	}
	g.last = now
}

// spinBarrier accumulates busy-work so the compiler can't elide the
// loop in spin.
var spinBarrier uint64

// spin burns units iterations of trivial work, the reference
// implementation's proxy for a calibrated delay: the governor doesn't
// know the cost of one iteration in wall-clock terms, it only knows
// that more iterations take longer, and adjusts delayUnit-sized steps
// of it based on measured throughput.
func (g *FreqGovernor) spin(units int) {
	for i := 0; i < units; i++ {
		spinBarrier++
	}
}
