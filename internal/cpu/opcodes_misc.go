package cpu

// condition evaluates one of the four jump/call/return conditions.
func condition(c *CPU, code uint8) bool {
	switch code {
	case 0:
		return !c.flag(flagZ)
	case 1:
		return c.flag(flagZ)
	case 2:
		return !c.flag(flagC)
	default:
		return c.flag(flagC)
	}
}

func (c *CPU) jr(offset int8) { c.PC = uint16(int32(c.PC) + int32(offset)) }

// installMainMisc fills in every opcode that doesn't fit the regular
// row/column patterns handled by the loops in init (spec §4.1: control
// flow, zero-page loads, the HL-indirect A loads, and the standalone
// accumulator/flag operations).
func installMainMisc() {
	mainTable[0x00] = mainEntry{name: "NOP", cycles: 4, execute: always(func(c *CPU) {})}
	mainTable[0x10] = mainEntry{name: "STOP", cycles: 4, execute: always(func(c *CPU) { c.fetch8(); c.stop() })}

	mainTable[0x02] = mainEntry{name: "LD (BC),A", cycles: 8, execute: always(func(c *CPU) { c.bus.Write8(c.BC(), c.A) })}
	mainTable[0x12] = mainEntry{name: "LD (DE),A", cycles: 8, execute: always(func(c *CPU) { c.bus.Write8(c.DE(), c.A) })}
	mainTable[0x0A] = mainEntry{name: "LD A,(BC)", cycles: 8, execute: always(func(c *CPU) { c.A = c.bus.Read8(c.BC()) })}
	mainTable[0x1A] = mainEntry{name: "LD A,(DE)", cycles: 8, execute: always(func(c *CPU) { c.A = c.bus.Read8(c.DE()) })}
	mainTable[0x22] = mainEntry{name: "LD (HL+),A", cycles: 8, execute: always(func(c *CPU) { c.bus.Write8(c.HL(), c.A); c.SetHL(c.HL() + 1) })}
	mainTable[0x32] = mainEntry{name: "LD (HL-),A", cycles: 8, execute: always(func(c *CPU) { c.bus.Write8(c.HL(), c.A); c.SetHL(c.HL() - 1) })}
	mainTable[0x2A] = mainEntry{name: "LD A,(HL+)", cycles: 8, execute: always(func(c *CPU) { c.A = c.bus.Read8(c.HL()); c.SetHL(c.HL() + 1) })}
	mainTable[0x3A] = mainEntry{name: "LD A,(HL-)", cycles: 8, execute: always(func(c *CPU) { c.A = c.bus.Read8(c.HL()); c.SetHL(c.HL() - 1) })}

	mainTable[0x08] = mainEntry{name: "LD (a16),SP", cycles: 20, execute: always(func(c *CPU) { c.bus.Write16(c.fetch16(), c.SP) })}

	mainTable[0x07] = mainEntry{name: "RLCA", cycles: 4, execute: always((*CPU).rlca)}
	mainTable[0x0F] = mainEntry{name: "RRCA", cycles: 4, execute: always((*CPU).rrca)}
	mainTable[0x17] = mainEntry{name: "RLA", cycles: 4, execute: always((*CPU).rla)}
	mainTable[0x1F] = mainEntry{name: "RRA", cycles: 4, execute: always((*CPU).rra)}
	mainTable[0x27] = mainEntry{name: "DAA", cycles: 4, execute: always((*CPU).daa)}
	mainTable[0x2F] = mainEntry{name: "CPL", cycles: 4, execute: always((*CPU).cpl)}
	mainTable[0x37] = mainEntry{name: "SCF", cycles: 4, execute: always((*CPU).scf)}
	mainTable[0x3F] = mainEntry{name: "CCF", cycles: 4, execute: always((*CPU).ccf)}

	mainTable[0x18] = mainEntry{name: "JR r8", cycles: 12, execute: func(c *CPU) bool { c.jr(int8(c.fetch8())); return false }}
	for cc := uint8(0); cc < 4; cc++ {
		code := cc
		mainTable[0x20|code<<3] = mainEntry{name: "JR cc,r8", cycles: 8, cyclesTaken: 12, execute: func(c *CPU) bool {
			offset := int8(c.fetch8())
			if condition(c, code) {
				c.jr(offset)
				return true
			}
			return false
		}}
		mainTable[0xC2|code<<3] = mainEntry{name: "JP cc,a16", cycles: 12, cyclesTaken: 16, execute: func(c *CPU) bool {
			target := c.fetch16()
			if condition(c, code) {
				c.PC = target
				return true
			}
			return false
		}}
		mainTable[0xC4|code<<3] = mainEntry{name: "CALL cc,a16", cycles: 12, cyclesTaken: 24, execute: func(c *CPU) bool {
			target := c.fetch16()
			if condition(c, code) {
				c.push16(c.PC)
				c.PC = target
				return true
			}
			return false
		}}
		mainTable[0xC0|code<<3] = mainEntry{name: "RET cc", cycles: 8, cyclesTaken: 20, execute: func(c *CPU) bool {
			if condition(c, code) {
				c.PC = c.pop16()
				return true
			}
			return false
		}}
	}
	mainTable[0xC3] = mainEntry{name: "JP a16", cycles: 16, execute: always(func(c *CPU) { c.PC = c.fetch16() })}
	mainTable[0xCD] = mainEntry{name: "CALL a16", cycles: 24, execute: always(func(c *CPU) {
		target := c.fetch16()
		c.push16(c.PC)
		c.PC = target
	})}
	mainTable[0xC9] = mainEntry{name: "RET", cycles: 16, execute: always(func(c *CPU) { c.PC = c.pop16() })}
	mainTable[0xD9] = mainEntry{name: "RETI", cycles: 16, execute: always(func(c *CPU) { c.PC = c.pop16(); c.IME = true })}
	mainTable[0xE9] = mainEntry{name: "JP (HL)", cycles: 4, execute: always(func(c *CPU) { c.PC = c.HL() })}

	mainTable[0xC6] = mainEntry{name: "ADD A,d8", cycles: 8, execute: always(func(c *CPU) { c.A = c.add8(c.A, c.fetch8(), false) })}
	mainTable[0xCE] = mainEntry{name: "ADC A,d8", cycles: 8, execute: always(func(c *CPU) { c.A = c.add8(c.A, c.fetch8(), c.flag(flagC)) })}
	mainTable[0xD6] = mainEntry{name: "SUB d8", cycles: 8, execute: always(func(c *CPU) { c.A = c.sub8(c.A, c.fetch8(), false) })}
	mainTable[0xDE] = mainEntry{name: "SBC A,d8", cycles: 8, execute: always(func(c *CPU) { c.A = c.sub8(c.A, c.fetch8(), c.flag(flagC)) })}
	mainTable[0xE6] = mainEntry{name: "AND d8", cycles: 8, execute: always(func(c *CPU) { c.A = c.and8(c.A, c.fetch8()) })}
	mainTable[0xEE] = mainEntry{name: "XOR d8", cycles: 8, execute: always(func(c *CPU) { c.A = c.xor8(c.A, c.fetch8()) })}
	mainTable[0xF6] = mainEntry{name: "OR d8", cycles: 8, execute: always(func(c *CPU) { c.A = c.or8(c.A, c.fetch8()) })}
	mainTable[0xFE] = mainEntry{name: "CP d8", cycles: 8, execute: always(func(c *CPU) { c.sub8(c.A, c.fetch8(), false) })}

	mainTable[0xE0] = mainEntry{name: "LDH (a8),A", cycles: 12, execute: always(func(c *CPU) { c.bus.Write8(0xFF00+uint16(c.fetch8()), c.A) })}
	mainTable[0xF0] = mainEntry{name: "LDH A,(a8)", cycles: 12, execute: always(func(c *CPU) { c.A = c.bus.Read8(0xFF00 + uint16(c.fetch8())) })}
	mainTable[0xE2] = mainEntry{name: "LD (C),A", cycles: 8, execute: always(func(c *CPU) { c.bus.Write8(0xFF00+uint16(c.C), c.A) })}
	mainTable[0xF2] = mainEntry{name: "LD A,(C)", cycles: 8, execute: always(func(c *CPU) { c.A = c.bus.Read8(0xFF00 + uint16(c.C)) })}
	mainTable[0xEA] = mainEntry{name: "LD (a16),A", cycles: 16, execute: always(func(c *CPU) { c.bus.Write8(c.fetch16(), c.A) })}
	mainTable[0xFA] = mainEntry{name: "LD A,(a16)", cycles: 16, execute: always(func(c *CPU) { c.A = c.bus.Read8(c.fetch16()) })}

	mainTable[0xE8] = mainEntry{name: "ADD SP,r8", cycles: 16, execute: always(func(c *CPU) { c.SP = c.addSPSigned(c.SP, int8(c.fetch8())) })}
	mainTable[0xF8] = mainEntry{name: "LD HL,SP+r8", cycles: 12, execute: always(func(c *CPU) { c.SetHL(c.addSPSigned(c.SP, int8(c.fetch8()))) })}
	mainTable[0xF9] = mainEntry{name: "LD SP,HL", cycles: 8, execute: always(func(c *CPU) { c.SP = c.HL() })}

	mainTable[0xF3] = mainEntry{name: "DI", cycles: 4, execute: always((*CPU).di)}
	mainTable[0xFB] = mainEntry{name: "EI", cycles: 4, execute: always((*CPU).ei)}
}
