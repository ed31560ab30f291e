package gbcore

import (
	"github.com/sirupsen/logrus"

	"github.com/retrogb/gbcore/internal/apu"
	"github.com/retrogb/gbcore/internal/cartridge"
	"github.com/retrogb/gbcore/internal/cpu"
	"github.com/retrogb/gbcore/internal/debugsrv"
	"github.com/retrogb/gbcore/internal/dma"
	"github.com/retrogb/gbcore/internal/host"
	"github.com/retrogb/gbcore/internal/interrupts"
	"github.com/retrogb/gbcore/internal/joypad"
	"github.com/retrogb/gbcore/internal/mmu"
	"github.com/retrogb/gbcore/internal/ppu"
	"github.com/retrogb/gbcore/internal/serial"
	"github.com/retrogb/gbcore/internal/timer"
	pkglog "github.com/retrogb/gbcore/pkg/log"
)

// System is the top-level scheduler: it fetches, executes, advances
// every peripheral by the cycles the instruction reported, services
// interrupts, and yields to the host between instructions (spec §2,
// §5).
type System struct {
	cpu  *cpu.CPU
	mmu  *mmu.MMU
	ppu  *ppu.PPU
	apu  *apu.APU
	irq  *interrupts.Service
	timer *timer.Controller
	joypad *joypad.Controller
	dma  *dma.Engine

	host host.Host
	gov  *FreqGovernor
	cfg  Config
	log  *logrus.Entry

	debug  *debugsrv.Hub
	lastLY uint8
}

// New builds a fully wired System from a ROM image and a host
// implementation. boot may be nil to skip the boot ROM overlay (spec
// §6.3: running without a supplied boot image).
func New(rom []byte, h host.Host, boot *mmu.BootROM, cfg Config, logger *logrus.Logger) (*System, error) {
	if logger == nil {
		logger = pkglog.New()
	}
	entry := pkglog.Component(logger, "gbcore")

	irq := interrupts.NewService()
	cart, err := cartridge.New(rom, h, logger)
	if err != nil {
		return nil, &FatalError{Kind: FatalUnsupportedMapper, Msg: err.Error()}
	}
	cart.OnRAMDisabled(func(image []byte) {
		if err := h.SaveRAM(image); err != nil {
			entry.WithError(err).Warn("save_ram failed")
		}
	})

	p := ppu.New(irq)
	a := apu.New()
	a.AttachSink(h)
	t := timer.New(irq)
	s := serial.New(irq)
	j := joypad.New(irq)
	d := &dma.Engine{}

	bus := mmu.New(cart, p, a, irq, t, s, j, d, boot, h)
	c := cpu.New(bus, irq)

	sys := &System{
		cpu: c, mmu: bus, ppu: p, apu: a, irq: irq,
		timer: t, joypad: j, dma: d,
		host: h, gov: NewFreqGovernor(cfg), cfg: cfg, log: entry,
	}

	if cfg.Debug {
		dbgLog := pkglog.Component(logger, "debugsrv")
		hub := debugsrv.New(dbgLog)
		addr := cfg.DebugAddr
		if addr == "" {
			addr = "localhost:8733"
		}
		go func() {
			if err := hub.Serve(addr); err != nil {
				entry.WithError(err).Warn("debugsrv: server stopped")
			}
		}()
		sys.debug = hub
		bus.SetTracer(debugsrv.NewLogTracer(dbgLog))
	}

	return sys, nil
}

// LoadRAM restores a previously saved cartridge RAM image via the
// host's load_ram hook (spec §6.1); a short or missing image is
// treated as zero-filled by the mapper.
func (s *System) LoadRAM(size int) {
	data, err := s.host.LoadRAM(size)
	if err != nil {
		s.log.WithError(err).Warn("load_ram failed, continuing with zero-filled RAM")
		return
	}
	s.mmu.Cart.LoadRAMImage(data)
}

// Run drives the system loop until the host's sched hook returns
// false, or a fatal condition occurs.
func (s *System) Run() error {
	s.gov.Reset(s.host)
	for s.host.Sched() {
		if err := s.stepOnce(); err != nil {
			return err
		}
	}
	return nil
}

// stepOnce executes exactly one CPU instruction (or interrupt service,
// or HALT idle tick) and advances every peripheral by the cycles it
// reported (spec §5: single-threaded cooperative, no preemption
// between peripherals).
func (s *System) stepOnce() error {
	cycles, err := s.cpu.Step()
	if err != nil {
		if oe, ok := err.(*cpu.FatalOpcodeError); ok {
			return &FatalError{Kind: FatalInvalidOpcode, PC: oe.PC, Msg: oe.Error()}
		}
		return err
	}

	s.joypad.Poll(s.host)
	s.timer.Step(cycles)
	s.mmu.Step(cycles)
	s.apu.Step(cycles)
	s.ppu.Step(cycles, s.host)

	if s.debug != nil {
		s.broadcastOnVBlank()
	}

	s.gov.Adjust(s.host)
	return nil
}

// broadcastOnVBlank streams one Snapshot per frame, on the HBlank->VBlank
// edge (LY 143 -> 144), rather than once per instruction.
func (s *System) broadcastOnVBlank() {
	ly := s.mmu.PPU.Read(0xFF44)
	if ly == 144 && s.lastLY != 144 {
		s.debug.Broadcast(debugsrv.Snapshot{
			PC: s.cpu.PC, SP: s.cpu.SP,
			A: s.cpu.A, F: s.cpu.F,
			B: s.cpu.B, C: s.cpu.C,
			D: s.cpu.D, E: s.cpu.E,
			H: s.cpu.H, L: s.cpu.L,
			LY:   ly,
			LCDC: s.mmu.PPU.Read(0xFF40),
			STAT: s.mmu.PPU.Read(0xFF41),
		})
	}
	s.lastLY = ly
}
