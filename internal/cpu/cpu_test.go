package cpu

import (
	"testing"

	"github.com/retrogb/gbcore/internal/interrupts"
	"github.com/stretchr/testify/assert"
)

// fakeBus is a flat 64KiB address space, enough to drive the
// fetch-decode-execute loop without the real MMU's range dispatch.
type fakeBus struct {
	mem [0x10000]byte
}

func (b *fakeBus) Read8(a uint16) uint8  { return b.mem[a] }
func (b *fakeBus) Write8(a uint16, v uint8) { b.mem[a] = v }
func (b *fakeBus) Read16(a uint16) uint16 {
	return uint16(b.mem[a]) | uint16(b.mem[a+1])<<8
}
func (b *fakeBus) Write16(a uint16, v uint16) {
	b.mem[a] = uint8(v)
	b.mem[a+1] = uint8(v >> 8)
}

func newTestCPU() (*CPU, *fakeBus, *interrupts.Service) {
	bus := &fakeBus{}
	irq := interrupts.NewService()
	return New(bus, irq), bus, irq
}

func TestAdd8SetsHalfCarryAndCarry(t *testing.T) {
	c, _, _ := newTestCPU()
	result := c.add8(0x0F, 0x01, false)
	assert.Equal(t, uint8(0x10), result)
	assert.True(t, c.flag(flagH))
	assert.False(t, c.flag(flagC))

	result = c.add8(0xFF, 0x01, false)
	assert.Equal(t, uint8(0x00), result)
	assert.True(t, c.flag(flagZ))
	assert.True(t, c.flag(flagC))
}

func TestSub8SetsBorrowFlags(t *testing.T) {
	c, _, _ := newTestCPU()
	result := c.sub8(0x10, 0x01, false)
	assert.Equal(t, uint8(0x0F), result)
	assert.True(t, c.flag(flagH))
	assert.False(t, c.flag(flagC))

	result = c.sub8(0x00, 0x01, false)
	assert.Equal(t, uint8(0xFF), result)
	assert.True(t, c.flag(flagC))
}

func TestFlagLowNibbleAlwaysZero(t *testing.T) {
	c, _, _ := newTestCPU()
	c.add8(0xFF, 0xFF, true)
	assert.Zero(t, c.F&0x0F, "F's low nibble is unused and must stay zero")

	c.SetAF(0xAB7F)
	assert.Zero(t, c.F&0x0F)
}

func TestIncDecLeaveCarryUntouched(t *testing.T) {
	c, _, _ := newTestCPU()
	c.setFlag(flagC, true)
	c.inc8(0x01)
	assert.True(t, c.flag(flagC), "INC must not affect the carry flag")
	c.dec8(0x01)
	assert.True(t, c.flag(flagC), "DEC must not affect the carry flag")
}

func TestDAACorrectsBCDAddition(t *testing.T) {
	c, _, _ := newTestCPU()
	c.A = 0x09
	c.A = c.add8(c.A, 0x01, false) // 0x0A, H clear
	c.daa()
	assert.Equal(t, uint8(0x10), c.A)
}

func TestRegisterPairPacking(t *testing.T) {
	c, _, _ := newTestCPU()
	c.SetBC(0x1234)
	assert.Equal(t, uint8(0x12), c.B)
	assert.Equal(t, uint8(0x34), c.C)
	assert.Equal(t, uint16(0x1234), c.BC())
}

func TestStepExecutesNOPAndAdvancesPC(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.mem[0] = 0x00
	cycles, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint16(1), c.PC)
}

func TestStepCyclesAreAlwaysPositiveMultiplesOfFour(t *testing.T) {
	c, bus, _ := newTestCPU()
	opcodes := []uint8{0x00, 0x18, 0x01, 0xC3, 0xCD, 0xC9, 0xF3, 0xFB, 0xC6}
	for i, op := range opcodes {
		bus.mem[c.PC] = op
		if op == 0x18 {
			bus.mem[c.PC+1] = 0x00
		}
		cycles, err := c.Step()
		assert.NoError(t, err, "opcode %#02x at index %d", op, i)
		assert.Greater(t, cycles, 0)
		assert.Zero(t, cycles%4, "opcode %#02x produced a non-multiple-of-4 cycle count", op)
	}
}

func TestUnknownOpcodeIsFatal(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.mem[0] = 0xED // never assigned in the main table
	_, err := c.Step()
	assert.Error(t, err)
	var fatal *FatalOpcodeError
	assert.ErrorAs(t, err, &fatal)
}

func TestHaltSuspendsFetchUntilInterruptPending(t *testing.T) {
	c, bus, irq := newTestCPU()
	bus.mem[0] = 0x76 // HALT
	c.Step()
	assert.True(t, c.Halted)

	cycles, _ := c.Step()
	assert.Equal(t, 4, cycles, "still halted: charges the idle cost without fetching")
	assert.Equal(t, uint16(1), c.PC)

	irq.Enable = 1 << interrupts.VBlankFlag
	irq.Request(interrupts.VBlankFlag)
	c.Step()
	assert.False(t, c.Halted)
}

func TestEIDelaysIMEByOneInstruction(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.mem[0] = 0xFB // EI
	bus.mem[1] = 0x00 // NOP
	c.Step()
	assert.False(t, c.IME, "IME should not be set until after the instruction following EI")
	c.Step()
	assert.True(t, c.IME)
}

func TestDIClearsIMEImmediately(t *testing.T) {
	c, _, _ := newTestCPU()
	c.IME = true
	c.di()
	assert.False(t, c.IME)
}

func TestServiceInterruptPushesPCAndClearsIME(t *testing.T) {
	c, bus, irq := newTestCPU()
	c.IME = true
	c.PC = 0x1234
	c.SP = 0xFFFE
	irq.Enable = 1 << interrupts.VBlankFlag
	irq.Request(interrupts.VBlankFlag)

	cycles, err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, 20, cycles)
	assert.False(t, c.IME)
	assert.Equal(t, interrupts.VBlank, c.PC)
	assert.Equal(t, uint16(0x1234), bus.Read16(c.SP))
	assert.False(t, irq.HasPending())
}
