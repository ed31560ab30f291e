// Package cpu implements the Sharp LR35902 core: register file,
// IME/HALT/STOP state, and fetch-decode-execute over the 256 main plus
// 256 CB-prefixed opcodes (spec §4.1).
package cpu

import (
	"fmt"

	"github.com/retrogb/gbcore/internal/interrupts"
)

// Bus is everything the CPU needs from the rest of the system: 8/16-bit
// memory access. Kept as an interface so the CPU doesn't need to know
// about the concrete MMU wiring.
type Bus interface {
	Read8(address uint16) uint8
	Write8(address uint16, value uint8)
	Read16(address uint16) uint16
	Write16(address uint16, value uint16)
}

// CPU holds the register file and the interrupt/HALT/STOP state
// machine described in spec §3 and §4.1.
type CPU struct {
	Registers
	PC, SP uint16

	IME bool
	// imeDelay counts the Step calls, EI's own included, left before IME
	// turns on; it reaches zero when the instruction after EI completes,
	// implementing EI's one-instruction delay (spec §4.1).
	imeDelay int

	Halted bool
	Stopped bool

	bus Bus
	irq *interrupts.Service
}

// New returns a powered-on CPU wired to bus and irq. Every register,
// PC and SP start at zero; New does not load the post-boot-ROM DMG
// register values.
func New(bus Bus, irq *interrupts.Service) *CPU {
	return &CPU{bus: bus, irq: irq}
}

// FatalOpcodeError reports an opcode with no decode table entry.
type FatalOpcodeError struct {
	Opcode uint16
	PC     uint16
}

func (e *FatalOpcodeError) Error() string {
	return fmt.Sprintf("cpu: unknown opcode %#04x at PC=%#04x", e.Opcode, e.PC)
}

// Step services a pending interrupt if IME and any are pending, then
// either charges HALT's idle cost or fetches, decodes, and executes one
// instruction, returning the number of CPU cycles consumed (spec
// §4.1).
func (c *CPU) Step() (int, error) {
	defer func() {
		if c.imeDelay > 0 {
			c.imeDelay--
			if c.imeDelay == 0 {
				c.IME = true
			}
		}
	}()

	if cycles, serviced := c.serviceInterrupt(); serviced {
		return cycles, nil
	}

	if c.Halted {
		if c.irq.HasPending() {
			c.Halted = false
		} else {
			return 4, nil
		}
	}

	opcode := c.fetch8()
	if opcode == 0xCB {
		sub := c.fetch8()
		entry := cbTable[sub]
		entry.execute(c)
		return int(entry.cycles), nil
	}

	entry := mainTable[opcode]
	if entry.execute == nil {
		return 0, &FatalOpcodeError{Opcode: uint16(opcode), PC: c.PC - 1}
	}
	taken := entry.execute(c)
	if taken {
		return int(entry.cyclesTaken), nil
	}
	return int(entry.cycles), nil
}

// serviceInterrupt pushes PC and jumps to the highest-priority pending
// vector when IME is set and IE&IF is non-empty (spec §3, §4.1): 5
// machine cycles (20 CPU cycles), IME cleared, the serviced IF bit
// cleared. HALT's wake condition is independent of IME and handled in
// Step.
func (c *CPU) serviceInterrupt() (int, bool) {
	if !c.IME {
		return 0, false
	}
	flag, vector, ok := c.irq.Highest()
	if !ok {
		return 0, false
	}
	c.IME = false
	c.irq.Clear(flag)
	c.push16(c.PC)
	c.PC = vector
	return 20, true
}

func (c *CPU) fetch8() uint8 {
	v := c.bus.Read8(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	v := c.bus.Read16(c.PC)
	c.PC += 2
	return v
}

func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.bus.Write16(c.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.bus.Read16(c.SP)
	c.SP += 2
	return v
}

// ei arms the one-instruction-delayed IME set.
func (c *CPU) ei() { c.imeDelay = 2 }

// di clears IME immediately and cancels any pending EI delay.
func (c *CPU) di() { c.IME = false; c.imeDelay = 0 }

// halt suspends fetch-decode-execute until IE&IF becomes non-empty.
func (c *CPU) halt() { c.Halted = true }

// stop is treated as a very low-power HALT for this core (spec §4.1).
// The DIV reset real hardware performs on STOP is not modeled: neither
// the CPU nor the system loop touches the timer on STOP (spec §1
// non-goals exclude CGB double speed).
func (c *CPU) stop() { c.Stopped = true; c.Halted = true }
