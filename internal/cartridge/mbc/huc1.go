package mbc

// HuC1 is a stub mapper (spec §3: "HuC1: stub"). It implements MBC1-like
// ROM banking so HuC1 titles at least boot and run, without the IR
// blaster the real chip exposes — that peripheral has no SPEC_FULL
// component to serve it.
type HuC1 struct {
	battery
	rom []byte
	ram []byte

	bank     uint8
	romBanks int
}

func NewHuC1(rom []byte, ramSize int) *HuC1 {
	return &HuC1{rom: rom, ram: make([]byte, ramSize), bank: 1, romBanks: romBankCount(len(rom))}
}

func (m *HuC1) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		if int(address) < len(m.rom) {
			return m.rom[address]
		}
		return 0xFF
	case address < 0x8000:
		bank := int(m.bank) % m.romBanks
		off := bank*0x4000 + int(address-0x4000)
		if off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case address >= 0xA000 && address < 0xC000:
		if !m.enabled || len(m.ram) == 0 {
			return 0xFF
		}
		off := int(address - 0xA000)
		if off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	}
	return 0xFF
}

func (m *HuC1) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.setEnabled(value&0x0F == 0x0A, m.RAMImage)
	case address < 0x4000:
		v := value & 0x3F
		if v == 0 {
			v = 1
		}
		m.bank = v
	case address >= 0xA000 && address < 0xC000:
		if !m.enabled || len(m.ram) == 0 {
			return
		}
		off := int(address - 0xA000)
		if off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

func (m *HuC1) RAMImage() []byte { return m.ram }

func (m *HuC1) LoadRAMImage(data []byte) {
	copy(m.ram, data)
}
