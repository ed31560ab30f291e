// Package mmu implements the address-space bus: range dispatch over
// cartridge, VRAM, WRAM, OAM, HRAM, and every MMIO register, plus the
// boot ROM overlay (spec §4.2).
package mmu

import (
	"github.com/retrogb/gbcore/internal/apu"
	"github.com/retrogb/gbcore/internal/cartridge"
	"github.com/retrogb/gbcore/internal/dma"
	"github.com/retrogb/gbcore/internal/host"
	"github.com/retrogb/gbcore/internal/interrupts"
	"github.com/retrogb/gbcore/internal/joypad"
	"github.com/retrogb/gbcore/internal/ppu"
	"github.com/retrogb/gbcore/internal/ram"
	"github.com/retrogb/gbcore/internal/serial"
	"github.com/retrogb/gbcore/internal/timer"
)

// BootROM is the 256-byte DMG boot image overlayed at 0x0000-0x00FF
// until 0xFF50 is written.
type BootROM [256]byte

// Tracer observes bus traffic without participating in it, the hook
// point the interactive debugger (out of scope) would have attached
// to; wired here so --debug can watch/break on memory access (spec §1
// excludes the debugger itself, not the hook point it needs).
type Tracer interface {
	OnRead(address uint16, value uint8)
	OnWrite(address uint16, value uint8)
}

// MMU owns every memory region and routes I/O register access to its
// owning subsystem.
type MMU struct {
	Cart *cartridge.Cartridge
	PPU  *ppu.PPU
	APU  *apu.APU
	IRQ  *interrupts.Service
	Timer *timer.Controller
	Serial *serial.Controller
	Joypad *joypad.Controller
	DMA  *dma.Engine

	wram *ram.Bank
	hram *ram.Bank

	boot        *BootROM
	bootEnabled bool

	serialHost host.Serial
	tracer      Tracer
}

// SetTracer installs or clears (pass nil) the bus observer used by the
// optional debug stream.
func (m *MMU) SetTracer(t Tracer) {
	m.tracer = t
}

// New builds an MMU wired to every subsystem. boot may be nil, in
// which case the overlay is skipped and execution starts directly in
// cartridge ROM (spec §6.3 run without a boot image).
func New(cart *cartridge.Cartridge, p *ppu.PPU, a *apu.APU, irq *interrupts.Service, t *timer.Controller, s *serial.Controller, j *joypad.Controller, d *dma.Engine, boot *BootROM, serialHost host.Serial) *MMU {
	return &MMU{
		Cart:        cart,
		PPU:         p,
		APU:         a,
		IRQ:         irq,
		Timer:       t,
		Serial:      s,
		Joypad:      j,
		DMA:         d,
		wram:        ram.New(0x2000),
		hram:        ram.New(0x7F),
		boot:        boot,
		bootEnabled: boot != nil,
		serialHost:  serialHost,
	}
}

// Step advances every cycle-driven peripheral owned through the MMU
// that isn't already stepped directly by the system loop. Serial is
// stepped here since it depends only on the host's loopback hooks.
func (m *MMU) Step(cycles int) {
	m.Serial.Step(cycles, m.serialHost)
}

// Read8 dispatches an 8-bit bus read.
func (m *MMU) Read8(address uint16) uint8 {
	v := m.read8(address)
	if m.tracer != nil {
		m.tracer.OnRead(address, v)
	}
	return v
}

func (m *MMU) read8(address uint16) uint8 {
	switch {
	case m.bootEnabled && address < 0x0100:
		return m.boot[address]
	case address <= 0x7FFF:
		return m.Cart.Read(address)
	case address <= 0x9FFF:
		return m.PPU.VRAMRead(address)
	case address <= 0xBFFF:
		return m.Cart.Read(address)
	case address <= 0xDFFF:
		return m.wram.Read(address - 0xC000)
	case address <= 0xFDFF:
		return m.wram.Read(address - 0xE000)
	case address <= 0xFE9F:
		return m.PPU.OAMRead(address)
	case address <= 0xFEFF:
		return 0xFF
	case address <= 0xFF7F:
		return m.readIO(address)
	case address <= 0xFFFE:
		return m.hram.Read(address - 0xFF80)
	default: // 0xFFFF
		return m.IRQ.Read(address)
	}
}

// Write8 dispatches an 8-bit bus write.
func (m *MMU) Write8(address uint16, value uint8) {
	if m.tracer != nil {
		m.tracer.OnWrite(address, value)
	}
	switch {
	case address <= 0x7FFF:
		m.Cart.Write(address, value)
	case address <= 0x9FFF:
		m.PPU.VRAMWrite(address, value)
	case address <= 0xBFFF:
		m.Cart.Write(address, value)
	case address <= 0xDFFF:
		m.wram.Write(address-0xC000, value)
	case address <= 0xFDFF:
		m.wram.Write(address-0xE000, value)
	case address <= 0xFE9F:
		m.PPU.OAMWrite(address, value)
	case address <= 0xFEFF:
		// unusable, writes are discarded
	case address <= 0xFF7F:
		m.writeIO(address, value)
	case address <= 0xFFFE:
		m.hram.Write(address-0xFF80, value)
	default: // 0xFFFF
		m.IRQ.Write(address, value)
	}
}

// Read16/Write16 are little-endian helpers the CPU uses for 16-bit
// loads, pushes, and pops.
func (m *MMU) Read16(address uint16) uint16 {
	lo := m.Read8(address)
	hi := m.Read8(address + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (m *MMU) Write16(address uint16, value uint16) {
	m.Write8(address, uint8(value))
	m.Write8(address+1, uint8(value>>8))
}

func (m *MMU) readIO(address uint16) uint8 {
	switch {
	case address == joypad.Register:
		return m.Joypad.Read(address)
	case address == serial.DataRegister || address == serial.CtrlRegister:
		return m.Serial.Read(address)
	case address == timer.DIV || address == timer.TIMA || address == timer.TMA || address == timer.TAC:
		return m.Timer.Read(address)
	case address == interrupts.FlagRegister:
		return m.IRQ.Read(address)
	case address >= 0xFF10 && address <= 0xFF3F:
		return m.APU.Read(address)
	case address == 0xFF46:
		return m.DMA.Register()
	case address >= 0xFF40 && address <= 0xFF4B:
		return m.PPU.Read(address)
	default:
		return 0xFF
	}
}

func (m *MMU) writeIO(address uint16, value uint8) {
	switch {
	case address == joypad.Register:
		m.Joypad.Write(address, value)
	case address == serial.DataRegister || address == serial.CtrlRegister:
		m.Serial.Write(address, value, m.serialHost)
	case address == timer.DIV || address == timer.TIMA || address == timer.TMA || address == timer.TAC:
		m.Timer.Write(address, value)
	case address == interrupts.FlagRegister:
		m.IRQ.Write(address, value)
	case address >= 0xFF10 && address <= 0xFF3F:
		m.APU.Write(address, value)
	case address == 0xFF46:
		m.DMA.Trigger(value, m.Read8NoIO, m.PPU.OAMBank())
	case address == 0xFF50:
		m.bootEnabled = false
	case address >= 0xFF40 && address <= 0xFF4B:
		m.PPU.Write(address, value)
	default:
		// unowned I/O register: discard
	}
}

// Read8NoIO is the DMA engine's source accessor: OAM DMA may source
// from ROM, VRAM, or WRAM, never from I/O or HRAM, so it reuses the
// general read path (the source page is under the caller's control).
func (m *MMU) Read8NoIO(address uint16) uint8 {
	return m.Read8(address)
}
