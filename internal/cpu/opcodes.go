package cpu

// mainEntry is one slot of the flat 256-opcode dispatch table (spec
// §4.1 decoding note). execute returns true when a conditional branch
// was taken, selecting cyclesTaken over cycles.
type mainEntry struct {
	name        string
	cycles      uint8
	cyclesTaken uint8
	execute     func(c *CPU) bool
}

var mainTable [256]mainEntry

func reg8Name(i uint8) string {
	return [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}[i]
}

func rpName(i uint8) string {
	return [4]string{"BC", "DE", "HL", "SP"}[i]
}

func always(fn func(c *CPU)) func(c *CPU) bool {
	return func(c *CPU) bool {
		fn(c)
		return false
	}
}

func init() {
	// 0x40-0x7F: LD r,r' (0x76 is HALT, handled as an override below).
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			if dst == 6 && src == 6 {
				continue // HALT
			}
			op := 0x40 | dst<<3 | src
			d, s := dst, src
			cycles := uint8(4)
			if d == 6 || s == 6 {
				cycles = 8
			}
			mainTable[op] = mainEntry{
				name: "LD " + reg8Name(d) + "," + reg8Name(s), cycles: cycles,
				execute: always(func(c *CPU) { c.writeR8(d, c.readR8(s)) }),
			}
		}
	}
	mainTable[0x76] = mainEntry{name: "HALT", cycles: 4, execute: always((*CPU).halt)}

	// 0x80-0xBF: ALU A,r' (ADD ADC SUB SBC AND XOR OR CP).
	type aluOp struct {
		name string
		fn   func(c *CPU, v uint8)
	}
	aluOps := [8]aluOp{
		{"ADD", func(c *CPU, v uint8) { c.A = c.add8(c.A, v, false) }},
		{"ADC", func(c *CPU, v uint8) { c.A = c.add8(c.A, v, c.flag(flagC)) }},
		{"SUB", func(c *CPU, v uint8) { c.A = c.sub8(c.A, v, false) }},
		{"SBC", func(c *CPU, v uint8) { c.A = c.sub8(c.A, v, c.flag(flagC)) }},
		{"AND", func(c *CPU, v uint8) { c.A = c.and8(c.A, v) }},
		{"XOR", func(c *CPU, v uint8) { c.A = c.xor8(c.A, v) }},
		{"OR", func(c *CPU, v uint8) { c.A = c.or8(c.A, v) }},
		{"CP", func(c *CPU, v uint8) { c.sub8(c.A, v, false) }},
	}
	for row := uint8(0); row < 8; row++ {
		for src := uint8(0); src < 8; src++ {
			op := 0x80 | row<<3 | src
			s := src
			fn := aluOps[row].fn
			cycles := uint8(4)
			if s == 6 {
				cycles = 8
			}
			mainTable[op] = mainEntry{
				name: aluOps[row].name + " A," + reg8Name(s), cycles: cycles,
				execute: always(func(c *CPU) { fn(c, c.readR8(s)) }),
			}
		}
	}

	// INC r / DEC r (row-aligned with the 0x04/0x05 pattern).
	for r := uint8(0); r < 8; r++ {
		reg := r
		incOp := uint8(0x04 | reg<<3)
		decOp := uint8(0x05 | reg<<3)
		cycles := uint8(4)
		if reg == 6 {
			cycles = 12
		}
		mainTable[incOp] = mainEntry{name: "INC " + reg8Name(reg), cycles: cycles,
			execute: always(func(c *CPU) { c.writeR8(reg, c.inc8(c.readR8(reg))) })}
		mainTable[decOp] = mainEntry{name: "DEC " + reg8Name(reg), cycles: cycles,
			execute: always(func(c *CPU) { c.writeR8(reg, c.dec8(c.readR8(reg))) })}
	}

	// LD r,d8.
	for r := uint8(0); r < 8; r++ {
		reg := r
		op := uint8(0x06 | reg<<3)
		cycles := uint8(8)
		if reg == 6 {
			cycles = 12
		}
		mainTable[op] = mainEntry{name: "LD " + reg8Name(reg) + ",d8", cycles: cycles,
			execute: always(func(c *CPU) { c.writeR8(reg, c.fetch8()) })}
	}

	// 16-bit register-pair group: INC rr/DEC rr/ADD HL,rr/LD rr,d16.
	for p := uint8(0); p < 4; p++ {
		pair := p
		mainTable[0x01|pair<<4] = mainEntry{name: "LD " + rpName(pair) + ",d16", cycles: 12,
			execute: always(func(c *CPU) { _, set := c.regPair(pair); set(c.fetch16()) })}
		mainTable[0x03|pair<<4] = mainEntry{name: "INC " + rpName(pair), cycles: 8,
			execute: always(func(c *CPU) { get, set := c.regPair(pair); set(get() + 1) })}
		mainTable[0x0B|pair<<4] = mainEntry{name: "DEC " + rpName(pair), cycles: 8,
			execute: always(func(c *CPU) { get, set := c.regPair(pair); set(get() - 1) })}
		mainTable[0x09|pair<<4] = mainEntry{name: "ADD HL," + rpName(pair), cycles: 8,
			execute: always(func(c *CPU) { get, _ := c.regPair(pair); c.addHL(get()) })}
	}

	// PUSH rr / POP rr (rp2 table: BC DE HL AF).
	rp2Names := [4]string{"BC", "DE", "HL", "AF"}
	for p := uint8(0); p < 4; p++ {
		pair := p
		mainTable[0xC1|pair<<4] = mainEntry{name: "POP " + rp2Names[pair], cycles: 12,
			execute: always(func(c *CPU) { _, set := c.regPairStack(pair); set(c.pop16()) })}
		mainTable[0xC5|pair<<4] = mainEntry{name: "PUSH " + rp2Names[pair], cycles: 16,
			execute: always(func(c *CPU) { get, _ := c.regPairStack(pair); c.push16(get()) })}
	}

	// RST n.
	for i := uint8(0); i < 8; i++ {
		target := uint16(i) * 8
		mainTable[0xC7|i<<3] = mainEntry{name: "RST", cycles: 16,
			execute: always(func(c *CPU) { c.push16(c.PC); c.PC = target })}
	}

	installMainMisc()
}
