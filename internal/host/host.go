// Package host defines the capability contract a host environment must
// supply to run the core (spec §6.1). The core never reaches for a
// window, an audio device, or a filesystem directly; it only ever calls
// through a Host value it was constructed with.
package host

// Key identifies one of the eight physical buttons on the DMG.
type Key uint8

const (
	KeyRight Key = iota
	KeyLeft
	KeyUp
	KeyDown
	KeyA
	KeyB
	KeySelect
	KeyStart
)

// AllKeys enumerates every key, in joypad_pressed polling order.
var AllKeys = [8]Key{KeyRight, KeyLeft, KeyUp, KeyDown, KeyA, KeyB, KeySelect, KeyStart}

func (k Key) String() string {
	switch k {
	case KeyRight:
		return "Right"
	case KeyLeft:
		return "Left"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyA:
		return "A"
	case KeyB:
		return "B"
	case KeySelect:
		return "Select"
	case KeyStart:
		return "Start"
	default:
		return "Unknown"
	}
}

// Stream is the per-sample pull callback a sound sink hands to the APU:
// next(sampleRate) returns the next stereo logical sample pair.
type Stream interface {
	// Next returns the next (left, right) logical sample. sampleRate is
	// the host's output rate; the core's APU ignores it and returns its
	// latest mix, leaving rate conversion to the host. Logical samples
	// are unsigned with a known maximum of 2*8*4*15*2 (spec §4.4); the
	// host rescales them.
	Next(sampleRate uint32) (left, right uint16)
	// Max returns the maximum value Next can produce, for host-side
	// normalization.
	Max() uint16
	// On reports whether the stream still has anything to say; once it
	// returns false the sink may stop calling Next for this stream.
	On() bool
}

// Display receives one fully composed scanline at a time, in LY order,
// once per PPU VRAM->HBlank transition (spec §4.3).
type Display interface {
	// VRAMUpdate is called once per rendered scanline, with 160 packed
	// 0xRRGGBB colors for the given line index (0..143).
	VRAMUpdate(line int, pixels [160]uint32)
}

// Joypad is polled from inside the emulation loop once per joypad latch
// check; it never pushes state into the core (spec §2, §4.5 Joypad row).
type Joypad interface {
	JoypadPressed(key Key) bool
}

// SoundSink receives the APU's output Stream (spec §6.1 sound_play).
// The core calls this once at APU init with a single mixed Stream; hosts that want per-channel access may type-assert
// for a richer interface if they construct one themselves.
type SoundSink interface {
	SoundPlay(stream Stream)
}

// Clock supplies a monotonic microsecond counter used by the MBC3 RTC and
// the frequency governor. It is allowed to wrap; callers only ever take
// differences.
type Clock interface {
	Clock() uint64
}

// Serial models the point-to-point link. SendByte ships a byte out;
// RecvByte polls for an inbound byte without blocking (ok=false means
// nothing is waiting), matching the local-loopback-only contract in
// spec §1.
type Serial interface {
	SendByte(b uint8)
	RecvByte() (b uint8, ok bool)
}

// Scheduler is polled once per instruction; returning false asks the
// system loop to terminate at the next instruction boundary (spec §5).
type Scheduler interface {
	Sched() bool
}

// Battery persists cartridge RAM across runs (spec §6.1, §6.4).
type Battery interface {
	LoadRAM(size int) ([]byte, error)
	SaveRAM(data []byte) error
}

// Host bundles every capability the core requires. A host need not
// implement every capability meaningfully (e.g. a headless test harness
// may no-op Display), but the interface must be fully satisfied.
type Host interface {
	Display
	Joypad
	SoundSink
	Clock
	Serial
	Scheduler
	Battery
}
