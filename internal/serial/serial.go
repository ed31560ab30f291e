// Package serial implements the 8-bit shift register link cable, in
// both internal- and external-clock modes (spec §2, §4 Serial row;
// local loopback only per spec §1).
package serial

import (
	"github.com/retrogb/gbcore/internal/host"
	"github.com/retrogb/gbcore/internal/interrupts"
)

const (
	DataRegister uint16 = 0xFF01 // SB
	CtrlRegister uint16 = 0xFF02 // SC
)

// internalClockCycles is how long an internal-clock transfer takes:
// 8192 Hz is 512 CPU cycles per bit, 8 bits per byte.
const internalClockCycles = 512 * 8

// Controller shifts one byte at a time out to, and in from, the host's
// loopback hooks.
type Controller struct {
	data uint8 // SB
	ctrl uint8 // SC
	recv uint8 // byte captured at transfer start, applied on completion

	clockLeft int

	irq *interrupts.Service
}

// New returns a serial controller wired to the given interrupt
// controller.
func New(irq *interrupts.Service) *Controller {
	return &Controller{irq: irq}
}

// Step advances an in-progress internal-clock transfer, or polls for an
// external-clock byte, by the given number of CPU cycles.
func (c *Controller) Step(cycles int, h host.Serial) {
	if c.ctrl&0x80 == 0 {
		return
	}
	if c.ctrl&0x01 != 0 {
		// internal clock: the transfer duration was latched when the
		// transfer started, and the inbound byte was captured then too.
		c.clockLeft -= cycles
		if c.clockLeft <= 0 {
			c.data = c.recv
			c.ctrl &^= 0x80
			c.irq.Request(interrupts.SerialFlag)
		}
		return
	}
	// external clock: complete as soon as a byte is available.
	if b, ok := h.RecvByte(); ok {
		h.SendByte(c.data)
		c.data = b
		c.ctrl &^= 0x80
		c.irq.Request(interrupts.SerialFlag)
	}
}

// Read implements the MMIO read side of SB/SC.
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case DataRegister:
		return c.data
	case CtrlRegister:
		return c.ctrl | 0x7E
	default:
		panic("serial: illegal read from address")
	}
}

// Write implements the MMIO write side. Writing SC with the start bit
// set to 1 begins a transfer; internal-clock transfers send the
// current byte immediately and schedule completion, external-clock
// transfers wait for Step to observe an inbound byte.
func (c *Controller) Write(address uint16, value uint8, h host.Serial) {
	switch address {
	case DataRegister:
		c.data = value
	case CtrlRegister:
		c.ctrl = value
		if c.ctrl&0x80 != 0 {
			if c.ctrl&0x01 != 0 {
				c.clockLeft = internalClockCycles
				h.SendByte(c.data)
				if b, ok := h.RecvByte(); ok {
					c.recv = b
				} else {
					c.recv = 0xFF
				}
			}
		}
	default:
		panic("serial: illegal write to address")
	}
}
