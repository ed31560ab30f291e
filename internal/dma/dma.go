// Package dma implements the OAM DMA transfer engine (spec §4.2): a
// write to 0xFF46 latches a source page and copies 160 bytes into OAM.
// The transfer is modeled as instantaneous: the whole copy happens
// inside the triggering write, and no extra cycles are charged for it
// by the engine or by the system loop.
package dma

import "github.com/retrogb/gbcore/internal/ram"

// Cycles is the length of a real OAM DMA transfer in machine cycles.
// Nothing in the core charges it; a transfer here takes no emulated
// time.
const Cycles = 160

// Engine holds the DMA register's latched state.
type Engine struct {
	source uint8
}

// Register returns the last byte written to 0xFF46.
func (e *Engine) Register() uint8 {
	return e.source
}

// ReadByte is the bus accessor the engine needs to pull source bytes;
// supplied by the MMU so the engine never depends on it directly.
type ReadByte func(address uint16) uint8

// Trigger latches the source high byte and performs the 160-byte copy
// into oam immediately (spec §4.2).
func (e *Engine) Trigger(value uint8, read ReadByte, oam *ram.Bank) {
	e.source = value
	base := uint16(value) << 8
	for i := uint16(0); i < 160; i++ {
		oam.Write(i, read(base+i))
	}
}
