package mbc

import "encoding/binary"

// ClockSource supplies wall-clock microseconds for the MBC3 RTC; it is
// satisfied structurally by host.Clock without importing the host
// package here.
type ClockSource interface {
	Clock() uint64
}

// MBC3 adds a real-time clock alongside MBC1-style banking: 7-bit ROM
// bank, and either a 2-bit RAM bank or one of five RTC registers
// selected by the same write range (spec §3 MBC3, §4.7).
type MBC3 struct {
	battery
	rom []byte
	ram []byte

	bank    uint8 // 7 bits, zero-adjusted to 1
	ramSel  uint8 // RAM bank (0-3) or RTC register select (0x08-0x0C)
	latchIn uint8 // tracks the 0->1 latch sequence on 0x6000-0x7FFF

	romBanks int

	clock ClockSource
	rt    rtcState
}

type rtcState struct {
	seconds, minutes, hours uint8
	days                    uint16 // 9 bits
	halt                    bool
	carry                   bool

	latched                         bool
	lS, lM, lH, lDL, lDH            uint8

	lastUs uint64
	accUs  uint64
}

func NewMBC3(rom []byte, ramSize int, clock ClockSource) *MBC3 {
	m := &MBC3{
		rom:      rom,
		ram:      make([]byte, ramSize),
		bank:     1,
		romBanks: romBankCount(len(rom)),
		clock:    clock,
	}
	if clock != nil {
		m.rt.lastUs = clock.Clock()
	}
	return m
}

// advance folds elapsed wall-clock time into the running RTC counters.
func (m *MBC3) advance() {
	if m.clock == nil || m.rt.halt {
		return
	}
	now := m.clock.Clock()
	delta := now - m.rt.lastUs // wrap-tolerant: unsigned subtraction
	m.rt.lastUs = now
	m.rt.accUs += delta

	secs := m.rt.accUs / 1_000_000
	m.rt.accUs %= 1_000_000
	for secs > 0 {
		step := secs
		if step > 1<<20 {
			step = 1 << 20
		}
		m.tickSeconds(uint32(step))
		secs -= step
	}
}

func (m *MBC3) tickSeconds(n uint32) {
	total := uint32(m.rt.seconds) + n
	m.rt.seconds = uint8(total % 60)
	carryMin := total / 60

	total = uint32(m.rt.minutes) + carryMin
	m.rt.minutes = uint8(total % 60)
	carryHour := total / 60

	total = uint32(m.rt.hours) + carryHour
	m.rt.hours = uint8(total % 24)
	carryDay := total / 24

	days := uint32(m.rt.days) + carryDay
	if days >= 512 {
		m.rt.carry = true
		days %= 512
	}
	m.rt.days = uint16(days)
}

func (m *MBC3) romBank() int {
	return int(m.bank) % m.romBanks
}

func (m *MBC3) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		if int(address) < len(m.rom) {
			return m.rom[address]
		}
		return 0xFF
	case address < 0x8000:
		off := m.romBank()*0x4000 + int(address-0x4000)
		if off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case address >= 0xA000 && address < 0xC000:
		if !m.enabled {
			return 0xFF
		}
		if m.ramSel >= 0x08 && m.ramSel <= 0x0C {
			m.advance()
			s := &m.rt
			if s.latched {
				switch m.ramSel {
				case 0x08:
					return s.lS
				case 0x09:
					return s.lM
				case 0x0A:
					return s.lH
				case 0x0B:
					return s.lDL
				case 0x0C:
					return s.lDH
				}
			}
			switch m.ramSel {
			case 0x08:
				return s.seconds
			case 0x09:
				return s.minutes
			case 0x0A:
				return s.hours
			case 0x0B:
				return uint8(s.days)
			case 0x0C:
				return dayHigh(s)
			}
		}
		off := int(m.ramSel)*0x2000 + int(address-0xA000)
		if off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	}
	return 0xFF
}

func dayHigh(s *rtcState) uint8 {
	v := uint8(s.days >> 8 & 0x01)
	if s.halt {
		v |= 0x40
	}
	if s.carry {
		v |= 0x80
	}
	return v
}

func (m *MBC3) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.setEnabled(value&0x0F == 0x0A, m.RAMImage)
	case address < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.bank = v
	case address < 0x6000:
		m.ramSel = value
	case address < 0x8000:
		if m.latchIn == 0 && value == 1 {
			m.advance()
			s := &m.rt
			s.lS, s.lM, s.lH, s.lDL, s.lDH = s.seconds, s.minutes, s.hours, uint8(s.days), dayHigh(s)
			s.latched = true
		}
		m.latchIn = value
	case address >= 0xA000 && address < 0xC000:
		if !m.enabled {
			return
		}
		if m.ramSel >= 0x08 && m.ramSel <= 0x0C {
			m.advance()
			s := &m.rt
			switch m.ramSel {
			case 0x08:
				s.seconds = value % 60
			case 0x09:
				s.minutes = value % 60
			case 0x0A:
				s.hours = value % 24
			case 0x0B:
				s.days = s.days&0x100 | uint16(value)
			case 0x0C:
				s.days = s.days&0x0FF | uint16(value&0x01)<<8
				s.halt = value&0x40 != 0
				s.carry = value&0x80 != 0
			}
			return
		}
		off := int(m.ramSel)*0x2000 + int(address-0xA000)
		if off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

func (m *MBC3) RAMImage() []byte { return m.ram }

func (m *MBC3) LoadRAMImage(data []byte) {
	copy(m.ram, data)
}

// SaveRTC serializes the live RTC counters (spec §9 open question:
// persistence is opt-in, not part of the core save-RAM contract).
func (m *MBC3) SaveRTC() []byte {
	m.advance()
	s := &m.rt
	buf := make([]byte, 16)
	buf[0] = s.seconds
	buf[1] = s.minutes
	buf[2] = s.hours
	binary.LittleEndian.PutUint16(buf[3:5], s.days)
	flags := uint8(0)
	if s.halt {
		flags |= 0x01
	}
	if s.carry {
		flags |= 0x02
	}
	buf[5] = flags
	binary.LittleEndian.PutUint64(buf[6:14], m.rt.lastUs)
	return buf
}

func (m *MBC3) LoadRTC(data []byte) {
	if len(data) < 14 {
		return
	}
	s := &m.rt
	s.seconds = data[0]
	s.minutes = data[1]
	s.hours = data[2]
	s.days = binary.LittleEndian.Uint16(data[3:5])
	s.halt = data[5]&0x01 != 0
	s.carry = data[5]&0x02 != 0
	s.lastUs = binary.LittleEndian.Uint64(data[6:14])
}

var _ RTC = (*MBC3)(nil)
