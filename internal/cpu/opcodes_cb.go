package cpu

// cbEntry is one slot of the CB-prefixed dispatch table. Every
// CB-prefixed instruction has a fixed cycle cost; none are conditional
// (spec §4.1).
type cbEntry struct {
	name    string
	cycles  uint8
	execute func(c *CPU)
}

var cbTable [256]cbEntry

// cbShiftOps is the row order of the CB table's shift/rotate block
// (0x00-0x3F): RLC RRC RL RR SLA SRA SWAP SRL.
var cbShiftOps = [8]func(c *CPU, v uint8) uint8{
	(*CPU).rlc, (*CPU).rrc, (*CPU).rl, (*CPU).rr,
	(*CPU).sla, (*CPU).sra, (*CPU).swap, (*CPU).srl,
}

var cbShiftNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}

func init() {
	for row := uint8(0); row < 8; row++ {
		op := cbShiftOps[row]
		name := cbShiftNames[row]
		for r := uint8(0); r < 8; r++ {
			index := row<<3 | r
			reg := r
			cycles := uint8(8)
			if reg == 6 {
				cycles = 16
			}
			cbTable[index] = cbEntry{name: name + " " + reg8Name(reg), cycles: cycles,
				execute: func(c *CPU) { c.writeR8(reg, op(c, c.readR8(reg))) }}
		}
	}

	// 0x40-0x7F: BIT n,r (no write-back, shorter cycle count on (HL)).
	for n := uint8(0); n < 8; n++ {
		for r := uint8(0); r < 8; r++ {
			index := 0x40 | n<<3 | r
			bitN, reg := n, r
			cycles := uint8(8)
			if reg == 6 {
				cycles = 12
			}
			cbTable[index] = cbEntry{name: "BIT", cycles: cycles,
				execute: func(c *CPU) { c.bit(bitN, c.readR8(reg)) }}
		}
	}

	// 0x80-0xBF: RES n,r.
	for n := uint8(0); n < 8; n++ {
		for r := uint8(0); r < 8; r++ {
			index := 0x80 | n<<3 | r
			bitN, reg := n, r
			cycles := uint8(8)
			if reg == 6 {
				cycles = 16
			}
			cbTable[index] = cbEntry{name: "RES", cycles: cycles,
				execute: func(c *CPU) { c.writeR8(reg, c.res(bitN, c.readR8(reg))) }}
		}
	}

	// 0xC0-0xFF: SET n,r.
	for n := uint8(0); n < 8; n++ {
		for r := uint8(0); r < 8; r++ {
			index := 0xC0 | n<<3 | r
			bitN, reg := n, r
			cycles := uint8(8)
			if reg == 6 {
				cycles = 16
			}
			cbTable[index] = cbEntry{name: "SET", cycles: cycles,
				execute: func(c *CPU) { c.writeR8(reg, c.set(bitN, c.readR8(reg))) }}
		}
	}
}
