// Package gbcore wires the CPU, MMU, PPU, APU, interrupt controller,
// timer, serial, joypad, and DMA engine into the top-level stepping
// loop described in spec §2 and §5, and exposes the public
// configuration and error surface for hosts.
package gbcore

// Config holds the frequency-governor tuning knobs from spec §6.2, set
// via functional options mirroring the teacher's options.Opt pattern.
type Config struct {
	Freq         int  // target CPU frequency in Hz
	Sample       int  // governor sample window in cycles
	DelayUnit    int  // busy-loop granularity in spin-loop iterations
	NativeSpeed  bool // if set, no rate limiting is applied
	Debug        bool   // enable the debugsrv websocket stream
	DebugAddr    string // listen address for the debugsrv stream
}

// DefaultConfig matches real DMG timing with a governor that adjusts its
// busy-delay in steps of 1000 spin-loop iterations, the values
// `cmd/gbrun` falls back to absent CLI flags.
func DefaultConfig() Config {
	return Config{
		Freq:      4194304,
		Sample:    4194304 / 60,
		DelayUnit: 1000,
	}
}

// Option mutates a Config at construction time.
type Option func(*Config)

// WithFreq overrides the governor's target CPU frequency.
func WithFreq(hz int) Option {
	return func(c *Config) { c.Freq = hz }
}

// WithSample overrides the governor's sampling window, in cycles.
func WithSample(cycles int) Option {
	return func(c *Config) { c.Sample = cycles }
}

// WithDelayUnit overrides the governor's busy-delay granularity, in
// spin-loop iterations.
func WithDelayUnit(units int) Option {
	return func(c *Config) { c.DelayUnit = units }
}

// WithNativeSpeed disables the frequency governor entirely.
func WithNativeSpeed() Option {
	return func(c *Config) { c.NativeSpeed = true }
}

// WithDebug enables the debugsrv websocket stream on addr.
func WithDebug(addr string) Option {
	return func(c *Config) { c.Debug = true; c.DebugAddr = addr }
}

// NewConfig applies opts over DefaultConfig.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
