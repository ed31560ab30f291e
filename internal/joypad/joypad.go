// Package joypad emulates the Game Boy's button matrix: two selectable
// nibble groups (directions, buttons) multiplexed onto the same four
// input lines, polled from the host rather than pushed into the core
// (spec §2, §4.5 Joypad row).
package joypad

import (
	"github.com/retrogb/gbcore/internal/host"
	"github.com/retrogb/gbcore/internal/interrupts"
	"github.com/retrogb/gbcore/pkg/bits"
)

// Register is the joypad's single MMIO address.
const Register uint16 = 0xFF00

// Controller latches the select lines and, once per poll, asks the
// host which keys are currently held, raising the Joypad interrupt on
// a 0->1 edge of any key whose group is currently selected.
type Controller struct {
	selectDirections bool // true when P14 (directions) is selected (bit cleared)
	selectButtons    bool // true when P15 (buttons) is selected (bit cleared)

	pressed [8]bool // mirrors host.AllKeys order

	irq *interrupts.Service
}

// New returns a joypad controller wired to the given interrupt
// controller.
func New(irq *interrupts.Service) *Controller {
	return &Controller{irq: irq}
}

func isDirection(k host.Key) bool {
	return k == host.KeyRight || k == host.KeyLeft || k == host.KeyUp || k == host.KeyDown
}

func directionBit(k host.Key) uint8 {
	switch k {
	case host.KeyRight:
		return 0
	case host.KeyLeft:
		return 1
	case host.KeyUp:
		return 2
	default: // KeyDown
		return 3
	}
}

func buttonBit(k host.Key) uint8 {
	switch k {
	case host.KeyA:
		return 0
	case host.KeyB:
		return 1
	case host.KeySelect:
		return 2
	default: // KeyStart
		return 3
	}
}

// Poll asks the host for the current state of every key and raises the
// Joypad interrupt for any key that just transitioned from released to
// pressed while its group was selected.
func (c *Controller) Poll(h host.Joypad) {
	for i, k := range host.AllKeys {
		now := h.JoypadPressed(k)
		if now && !c.pressed[i] {
			if (isDirection(k) && c.selectDirections) || (!isDirection(k) && c.selectButtons) {
				c.irq.Request(interrupts.JoypadFlag)
			}
		}
		c.pressed[i] = now
	}
}

// Read implements the MMIO read side of the joypad register.
func (c *Controller) Read(address uint16) uint8 {
	if address != Register {
		panic("joypad: illegal read from address")
	}
	v := bits.SetIf(bits.SetIf(0xC0, 4, !c.selectDirections), 5, !c.selectButtons)
	low := uint8(0x0F)
	for i, k := range host.AllKeys {
		if !c.pressed[i] {
			continue
		}
		if isDirection(k) && c.selectDirections {
			low = bits.Reset(low, directionBit(k))
		} else if !isDirection(k) && c.selectButtons {
			low = bits.Reset(low, buttonBit(k))
		}
	}
	return v | low
}

// Write latches the select lines (bits 4-5); bits 0-3 are read-only.
func (c *Controller) Write(address uint16, value uint8) {
	if address != Register {
		panic("joypad: illegal write to address")
	}
	c.selectDirections = !bits.Test(value, 4)
	c.selectButtons = !bits.Test(value, 5)
}
