package apu

// sequencer is the shared 512 Hz frame sequencer that drives
// length/envelope/sweep clocks across all four channels (spec §4.4).
// It ticks a 512 Hz clock divided from the CPU clock and emits a step
// index 0..7 per tick.
type sequencer struct {
	acc  int
	step uint8
}

const sequencerPeriod = 4194304 / 512 // CPU cycles per frame-sequencer tick

// reset restarts the sequencer at step 0 (power-on, spec §4.4).
func (s *sequencer) reset() {
	s.acc = 0
	s.step = 0
}

// stepKind describes what a given frame-sequencer step clocks.
type stepKind struct {
	length, envelope, sweep bool
}

func kindOf(step uint8) stepKind {
	k := stepKind{}
	if step%2 == 0 {
		k.length = true
	}
	if step == 2 || step == 6 {
		k.sweep = true
	}
	if step == 7 {
		k.envelope = true
	}
	return k
}

// advance folds cycles into the sequencer and invokes onTick once per
// 512 Hz tick produced, in order.
func (s *sequencer) advance(cycles int, onTick func(step uint8, kind stepKind)) {
	s.acc += cycles
	for s.acc >= sequencerPeriod {
		s.acc -= sequencerPeriod
		onTick(s.step, kindOf(s.step))
		s.step = (s.step + 1) % 8
	}
}
