package cartridge

import "fmt"

// Type is the cartridge hardware code at header offset 0x0147.
type Type uint8

const (
	TypeROMOnly             Type = 0x00
	TypeMBC1                Type = 0x01
	TypeMBC1RAM             Type = 0x02
	TypeMBC1RAMBattery      Type = 0x03
	TypeMBC2                Type = 0x05
	TypeMBC2Battery         Type = 0x06
	TypeROMRAM              Type = 0x08
	TypeROMRAMBattery       Type = 0x09
	TypeMBC3TimerBattery    Type = 0x0F
	TypeMBC3TimerRAMBattery Type = 0x10
	TypeMBC3                Type = 0x11
	TypeMBC3RAM             Type = 0x12
	TypeMBC3RAMBattery      Type = 0x13
	TypeMBC5                Type = 0x19
	TypeMBC5RAM             Type = 0x1A
	TypeMBC5RAMBattery      Type = 0x1B
	TypeMBC5Rumble          Type = 0x1C
	TypeMBC5RumbleRAM       Type = 0x1D
	TypeMBC5RumbleRAMBatt   Type = 0x1E
	TypeHuC1RAMBattery      Type = 0xFF
)

// ramSizes maps the RAM-size header code (offset 0x0149) to a byte count.
var ramSizes = [...]uint{0x0000, 0x0800, 0x2000, 0x8000, 0x20000, 0x10000}

// Header is the parsed cartridge header (spec §3, 0x0100-0x014F).
type Header struct {
	Title           string
	CGBFlag         uint8
	SGBFlag         bool
	CartridgeType   Type
	ROMSize         uint
	RAMSize         uint
	Destination     uint8
	OldLicenseeCode uint8
	MaskROMVersion  uint8
	HeaderChecksum  uint8
	GlobalChecksum  uint16
}

// ParseHeader parses the 0x150-byte header starting at ROM offset
// 0x0000 (the header itself occupies 0x0100-0x014F, but bank 0 up to
// that point is read along with it for convenience).
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x150 {
		return Header{}, fmt.Errorf("cartridge: rom too small to contain a header: %d bytes", len(rom))
	}
	h := Header{}
	h.CGBFlag = rom[0x0143]
	titleEnd := 0x0144
	if h.CGBFlag == 0x80 || h.CGBFlag == 0xC0 {
		titleEnd = 0x0143
	}
	h.Title = trimTitle(rom[0x0134:titleEnd])
	h.SGBFlag = rom[0x0146] == 0x03
	h.CartridgeType = Type(rom[0x0147])
	h.ROMSize = 32 * 1024 * (1 << rom[0x0148])
	if int(rom[0x0149]) < len(ramSizes) {
		h.RAMSize = ramSizes[rom[0x0149]]
	}
	h.Destination = rom[0x014A]
	h.OldLicenseeCode = rom[0x014B]
	h.MaskROMVersion = rom[0x014C]
	h.HeaderChecksum = rom[0x014D]
	h.GlobalChecksum = uint16(rom[0x014E])<<8 | uint16(rom[0x014F])
	return h, nil
}

func trimTitle(b []byte) string {
	n := len(b)
	for i, c := range b {
		if c == 0 {
			n = i
			break
		}
	}
	return string(b[:n])
}

// ComputeHeaderChecksum reproduces the checksum the boot ROM verifies,
// over bytes 0x0134..0x014C inclusive (spec §8, scenario 1).
func ComputeHeaderChecksum(rom []byte) uint8 {
	var sum uint8
	for i := 0x0134; i <= 0x014C; i++ {
		sum = sum - rom[i] - 1
	}
	return sum
}

// CGB reports whether the header marks the cartridge as CGB-capable.
// The core runs it in DMG compatibility mode regardless (spec §1).
func (h Header) CGB() bool {
	return h.CGBFlag == 0x80 || h.CGBFlag == 0xC0
}

func (h Header) String() string {
	return fmt.Sprintf("%s (type=%#02x rom=%dKiB ram=%dKiB)", h.Title, h.CartridgeType, h.ROMSize/1024, h.RAMSize/1024)
}
