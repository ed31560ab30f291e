package ppu

import (
	"testing"

	"github.com/retrogb/gbcore/internal/interrupts"
	"github.com/stretchr/testify/assert"
)

type countingDisplay struct {
	calls int
}

func (d *countingDisplay) VRAMUpdate(line int, pixels [160]uint32) { d.calls++ }

func newTestPPU() (*PPU, *interrupts.Service) {
	irq := interrupts.NewService()
	p := New(irq)
	p.Write(0xFF40, 0x80) // LCD on, everything else off
	return p, irq
}

func TestOneFrameRenders144LinesOver70224Dots(t *testing.T) {
	p, _ := newTestPPU()
	disp := &countingDisplay{}

	const dotsPerFrame = 70224
	remaining := dotsPerFrame
	for remaining > 0 {
		step := 4
		if step > remaining {
			step = remaining
		}
		p.Step(step, disp)
		remaining -= step
	}
	assert.Equal(t, 144, disp.calls, "exactly one VRAMUpdate per visible scanline")
}

func TestModeSequenceWithinOneLine(t *testing.T) {
	p, _ := newTestPPU()
	disp := &countingDisplay{}
	assert.Equal(t, ModeOAM, p.mode)

	p.Step(oamDots, disp)
	assert.Equal(t, ModeVRAM, p.mode)

	p.Step(vramDots, disp)
	assert.Equal(t, ModeHBlank, p.mode)
	assert.Equal(t, 1, disp.calls)

	p.Step(hblankDots, disp)
	assert.Equal(t, ModeOAM, p.mode)
	assert.Equal(t, uint8(1), p.ly)
}

func TestLY144EntersVBlankAndRaisesInterrupt(t *testing.T) {
	p, irq := newTestPPU()
	irq.Enable = 1 << interrupts.VBlankFlag
	disp := &countingDisplay{}

	for p.ly < 144 {
		p.Step(lineDots, disp)
	}
	assert.Equal(t, ModeVBlank, p.mode)
	assert.True(t, irq.HasPending())
}

func TestLYWrapsAtLine153BackToZero(t *testing.T) {
	p, _ := newTestPPU()
	disp := &countingDisplay{}
	for i := 0; i < 154; i++ {
		p.Step(lineDots, disp)
	}
	assert.Equal(t, uint8(0), p.ly)
	assert.Equal(t, ModeOAM, p.mode)
}

func TestLYCCoincidenceSetsSTATBitAndRequestsInterrupt(t *testing.T) {
	p, irq := newTestPPU()
	irq.Enable = 1 << interrupts.LCDFlag
	p.Write(0xFF41, 0x40) // enable LYC=LY interrupt source
	p.Write(0xFF45, 0)    // LYC=0, matches LY=0 immediately

	assert.NotZero(t, p.Read(0xFF41)&0x04)
	assert.True(t, irq.HasPending())
}

func TestDisablingLCDFreezesLYAtZero(t *testing.T) {
	p, _ := newTestPPU()
	disp := &countingDisplay{}
	p.Step(lineDots*2, disp)
	assert.NotZero(t, p.ly)

	p.Write(0xFF40, 0x00)
	p.Step(lineDots, disp)
	assert.Zero(t, p.ly)
	assert.Equal(t, ModeHBlank, p.mode)
}

func TestWritingLYIsIgnored(t *testing.T) {
	p, _ := newTestPPU()
	p.Write(0xFF44, 42)
	assert.Zero(t, p.ly)
}

func TestSTATReadAlwaysHasBit7Set(t *testing.T) {
	p, _ := newTestPPU()
	assert.NotZero(t, p.Read(0xFF41)&0x80)
}
