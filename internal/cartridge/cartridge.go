// Package cartridge decodes a ROM image's header and wraps the right
// mbc.MBC variant behind a single Read/Write surface (spec §3).
package cartridge

import (
	"fmt"

	"github.com/retrogb/gbcore/internal/cartridge/mbc"
	"github.com/sirupsen/logrus"
)

// Cartridge owns the ROM image, its parsed header, and the mapper that
// decodes CPU addresses into it.
type Cartridge struct {
	Header Header
	mapper mbc.MBC
	log    *logrus.Entry
}

// New parses rom's header and builds the matching mapper. A bad header
// checksum is logged as a warning, not fatal (spec §7); an unsupported
// mapper code is fatal and returned as an error.
func New(rom []byte, clock mbc.ClockSource, log *logrus.Logger) (*Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	entry := log.WithField("component", "cartridge").WithField("title", h.Title)

	if got := ComputeHeaderChecksum(rom); got != h.HeaderChecksum {
		entry.Warnf("bad header checksum: computed %#02x, header says %#02x", got, h.HeaderChecksum)
	}

	m, err := newMapper(h, rom, clock)
	if err != nil {
		return nil, err
	}
	return &Cartridge{Header: h, mapper: m, log: entry}, nil
}

func newMapper(h Header, rom []byte, clock mbc.ClockSource) (mbc.MBC, error) {
	ramSize := int(h.RAMSize)
	switch h.CartridgeType {
	case TypeROMOnly, TypeROMRAM, TypeROMRAMBattery:
		return mbc.NewNone(rom, ramSize), nil
	case TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBattery:
		return mbc.NewMBC1(rom, ramSize), nil
	case TypeMBC2, TypeMBC2Battery:
		return mbc.NewMBC2(rom), nil
	case TypeMBC3TimerBattery, TypeMBC3TimerRAMBattery, TypeMBC3, TypeMBC3RAM, TypeMBC3RAMBattery:
		return mbc.NewMBC3(rom, ramSize, clock), nil
	case TypeMBC5, TypeMBC5RAM, TypeMBC5RAMBattery, TypeMBC5Rumble, TypeMBC5RumbleRAM, TypeMBC5RumbleRAMBatt:
		return mbc.NewMBC5(rom, ramSize), nil
	case TypeHuC1RAMBattery:
		return mbc.NewHuC1(rom, ramSize), nil
	default:
		return nil, fmt.Errorf("cartridge: unsupported mapper code %#02x", byte(h.CartridgeType))
	}
}

// Battery reports whether this cartridge's mapper persists RAM.
func (c *Cartridge) Battery() bool {
	switch c.Header.CartridgeType {
	case TypeMBC1RAMBattery, TypeMBC2Battery, TypeMBC3TimerBattery, TypeMBC3TimerRAMBattery,
		TypeMBC3RAMBattery, TypeMBC5RAMBattery, TypeMBC5RumbleRAMBatt, TypeROMRAMBattery, TypeHuC1RAMBattery:
		return true
	default:
		return false
	}
}

// Read dispatches a bus read into ROM (0x0000-0x7FFF) or cartridge RAM
// (0xA000-0xBFFF) via the mapper.
func (c *Cartridge) Read(address uint16) uint8 {
	return c.mapper.Read(address)
}

// Write dispatches a bus write into the mapper's bank-select / RAM
// logic.
func (c *Cartridge) Write(address uint16, value uint8) {
	c.mapper.Write(address, value)
}

// RAMImage returns the full persisted-RAM image for the host's
// save_ram hook (spec §6.4).
func (c *Cartridge) RAMImage() []byte {
	return c.mapper.RAMImage()
}

// LoadRAMImage restores a previously saved RAM image (spec §6.1
// load_ram). A nil or short image is treated as zero-filled.
func (c *Cartridge) LoadRAMImage(data []byte) {
	c.mapper.LoadRAMImage(data)
}

// OnRAMDisabled registers the host save hook, called on the
// enabled->disabled edge of cartridge RAM for battery-backed mappers.
func (c *Cartridge) OnRAMDisabled(fn func(image []byte)) {
	if !c.Battery() {
		return
	}
	c.mapper.OnRAMDisabled(fn)
}

// RTC exposes the optional real-time-clock persistence hooks when the
// mapper is an MBC3 (spec §9).
func (c *Cartridge) RTC() (mbc.RTC, bool) {
	r, ok := c.mapper.(mbc.RTC)
	return r, ok
}
