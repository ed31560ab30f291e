// Package ppu implements the DMG picture processing unit: the
// OAM/VRAM/HBlank/VBlank mode state machine, the background/window/
// sprite scanline compositor, and the LCDC/STAT/LY/LYC/BGP/OBPx/SCX/
// SCY/WX/WY register file (spec §4.3).
package ppu

import (
	"github.com/retrogb/gbcore/internal/host"
	"github.com/retrogb/gbcore/internal/interrupts"
	"github.com/retrogb/gbcore/internal/ram"
)

// Mode is the PPU's current scan phase.
type Mode uint8

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAM
	ModeVRAM
)

const (
	oamDots    = 80
	vramDots   = 172
	hblankDots = 204
	lineDots   = oamDots + vramDots + hblankDots // 456
	lastLine   = 153
)

var dmgPalette = [4]uint32{0xFFFFFF, 0xAAAAAA, 0x555555, 0x000000}

// PPU holds LCDC/STAT state, the dot counter, and the OAM/VRAM backing
// stores. It is driven purely by Step(cycles); it never reads the CPU
// or the cartridge directly.
type PPU struct {
	lcdc uint8
	stat uint8

	scy, scx   uint8
	ly, lyc    uint8
	wy, wx     uint8
	bgp, obp0, obp1 uint8

	mode     Mode
	dot      int
	disabled bool

	vram *ram.Bank
	oam  *ram.Bank

	line [160]uint32

	irq *interrupts.Service
}

// New returns a powered-on PPU with 8 KiB VRAM and 160-byte OAM.
func New(irq *interrupts.Service) *PPU {
	return &PPU{
		vram: ram.New(0x2000),
		oam:  ram.New(0xA0),
		mode: ModeOAM,
		irq:  irq,
	}
}

func (p *PPU) lcdEnabled() bool    { return p.lcdc&0x80 != 0 }
func (p *PPU) winTileMap() uint16  { if p.lcdc&0x40 != 0 { return 0x9C00 }; return 0x9800 }
func (p *PPU) winEnabled() bool    { return p.lcdc&0x20 != 0 }
func (p *PPU) tileDataBase() uint16 { if p.lcdc&0x10 != 0 { return 0x8000 }; return 0x8800 }
func (p *PPU) bgTileMap() uint16   { if p.lcdc&0x08 != 0 { return 0x9C00 }; return 0x9800 }
func (p *PPU) tallSprites() bool   { return p.lcdc&0x04 != 0 }
func (p *PPU) spritesEnabled() bool { return p.lcdc&0x02 != 0 }
func (p *PPU) bgEnabled() bool     { return p.lcdc&0x01 != 0 }

// VRAMRead/VRAMWrite expose VRAM (0x8000-0x9FFF) to the MMU.
func (p *PPU) VRAMRead(address uint16) uint8    { return p.vram.Read(address - 0x8000) }
func (p *PPU) VRAMWrite(address uint16, v uint8) { p.vram.Write(address-0x8000, v) }

// OAMRead/OAMWrite expose OAM (0xFE00-0xFE9F) to the MMU and the DMA engine.
func (p *PPU) OAMRead(address uint16) uint8    { return p.oam.Read(address - 0xFE00) }
func (p *PPU) OAMWrite(address uint16, v uint8) { p.oam.Write(address-0xFE00, v) }

// OAMBank exposes the raw OAM bank for the DMA engine's bulk writer.
func (p *PPU) OAMBank() *ram.Bank { return p.oam }

func (p *PPU) setMode(m Mode) {
	p.mode = m
	p.stat = p.stat&^0x03 | uint8(m)
	switch m {
	case ModeHBlank:
		if p.stat&0x08 != 0 {
			p.irq.Request(interrupts.LCDFlag)
		}
	case ModeVBlank:
		p.irq.Request(interrupts.VBlankFlag)
		if p.stat&0x10 != 0 {
			p.irq.Request(interrupts.LCDFlag)
		}
	case ModeOAM:
		if p.stat&0x20 != 0 {
			p.irq.Request(interrupts.LCDFlag)
		}
	}
}

func (p *PPU) checkLYC() {
	if p.ly == p.lyc {
		p.stat |= 0x04
		if p.stat&0x40 != 0 {
			p.irq.Request(interrupts.LCDFlag)
		}
	} else {
		p.stat &^= 0x04
	}
}

// Step advances the mode state machine by cycles CPU clocks and
// renders scanline LY into the line buffer on the VRAM->HBlank edge.
func (p *PPU) Step(cycles int, disp host.Display) {
	if !p.lcdEnabled() {
		if !p.disabled {
			p.disabled = true
			p.ly = 0
			p.dot = 0
			p.setMode(ModeHBlank)
		}
		return
	}
	if p.disabled {
		p.disabled = false
		p.ly = 0
		p.dot = 0
		p.setMode(ModeOAM)
		p.checkLYC()
	}

	p.dot += cycles
	for {
		switch p.mode {
		case ModeOAM:
			if p.dot < oamDots {
				return
			}
			p.dot -= oamDots
			p.setMode(ModeVRAM)
		case ModeVRAM:
			if p.dot < vramDots {
				return
			}
			p.dot -= vramDots
			p.renderScanline()
			disp.VRAMUpdate(int(p.ly), p.line)
			p.setMode(ModeHBlank)
		case ModeHBlank:
			if p.dot < hblankDots {
				return
			}
			p.dot -= hblankDots
			p.ly++
			p.checkLYC()
			if p.ly == 144 {
				p.setMode(ModeVBlank)
			} else {
				p.setMode(ModeOAM)
			}
		case ModeVBlank:
			if p.dot < lineDots {
				return
			}
			p.dot -= lineDots
			p.ly++
			if p.ly > lastLine {
				p.ly = 0
				p.checkLYC()
				p.setMode(ModeOAM)
			} else {
				p.checkLYC()
			}
		}
	}
}

// Read dispatches a read to LCDC/STAT/SCY/SCX/LY/LYC/BGP/OBP0/OBP1/WY/WX.
func (p *PPU) Read(address uint16) uint8 {
	switch address {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		return p.stat | 0x80
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

// Write dispatches a write to the same register file. Writes to LY are
// ignored; writing LYC re-checks the coincidence flag.
func (p *PPU) Write(address uint16, value uint8) {
	switch address {
	case 0xFF40:
		p.lcdc = value
	case 0xFF41:
		p.stat = p.stat&0x07 | value&0x78
	case 0xFF42:
		p.scy = value
	case 0xFF43:
		p.scx = value
	case 0xFF44:
		// read-only
	case 0xFF45:
		p.lyc = value
		if p.lcdEnabled() {
			p.checkLYC()
		}
	case 0xFF47:
		p.bgp = value
	case 0xFF48:
		p.obp0 = value
	case 0xFF49:
		p.obp1 = value
	case 0xFF4A:
		p.wy = value
	case 0xFF4B:
		p.wx = value
	}
}
