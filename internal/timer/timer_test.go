package timer

import (
	"testing"

	"github.com/retrogb/gbcore/internal/interrupts"
	"github.com/stretchr/testify/assert"
)

func TestDIVIncrementsAndWrapsOnWrite(t *testing.T) {
	c := New(interrupts.NewService())
	c.Step(256)
	assert.Equal(t, uint8(1), c.Read(DIV))
	c.Write(DIV, 0xFF)
	assert.Equal(t, uint8(0), c.Read(DIV))
}

func TestTIMADisabledByDefault(t *testing.T) {
	c := New(interrupts.NewService())
	c.Step(10000)
	assert.Equal(t, uint8(0), c.Read(TIMA))
}

func TestTIMAOverflowReloadsFromTMAAndRaisesInterrupt(t *testing.T) {
	irq := interrupts.NewService()
	irq.Enable = 1 << interrupts.TimerFlag
	c := New(irq)
	c.Write(TAC, 0x05) // enabled, 16 cycles/tick (fastest)
	c.Write(TMA, 0x10)
	c.Write(TIMA, 0xFF)

	c.Step(16)
	assert.Equal(t, uint8(0x10), c.Read(TIMA))
	assert.True(t, irq.HasPending())
}

func TestTACReadMasksUnusedBits(t *testing.T) {
	c := New(interrupts.NewService())
	c.Write(TAC, 0xFF)
	assert.Equal(t, uint8(0xFF), c.Read(TAC))
}
