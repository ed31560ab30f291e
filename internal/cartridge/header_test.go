package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeROM() []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x0134:], "TETRIS")
	rom[0x0143] = 0x00 // not CGB
	rom[0x0147] = byte(TypeMBC1RAMBattery)
	rom[0x0148] = 0x01 // 64KiB
	rom[0x0149] = 0x02 // 8KiB RAM
	rom[0x014A] = 0x01
	rom[0x014B] = 0x33
	rom[0x014C] = 0x00
	rom[0x014D] = ComputeHeaderChecksum(rom)
	rom[0x014E] = 0x12
	rom[0x014F] = 0x34
	return rom
}

func TestParseHeaderFieldsRoundTrip(t *testing.T) {
	rom := makeROM()
	h, err := ParseHeader(rom)
	assert.NoError(t, err)
	assert.Equal(t, "TETRIS", h.Title)
	assert.Equal(t, TypeMBC1RAMBattery, h.CartridgeType)
	assert.Equal(t, uint(64*1024), h.ROMSize)
	assert.Equal(t, uint(8*1024), h.RAMSize)
	assert.Equal(t, uint16(0x1234), h.GlobalChecksum)
	assert.False(t, h.CGB())
}

func TestParseHeaderRejectsShortROM(t *testing.T) {
	_, err := ParseHeader(make([]byte, 0x10))
	assert.Error(t, err)
}

func TestTitleStopsAtNulTerminator(t *testing.T) {
	rom := makeROM()
	assert.Equal(t, "TETRIS", trimTitle(rom[0x0134:0x0144]))
}

func TestCGBTitleWindowExcludesFlagByte(t *testing.T) {
	rom := makeROM()
	copy(rom[0x0134:], "ABCDEFGHIJKLMNO") // fills 0x0134-0x0142
	rom[0x0143] = 0x80
	h, err := ParseHeader(rom)
	assert.NoError(t, err)
	assert.True(t, h.CGB())
	assert.Equal(t, "ABCDEFGHIJKLMNO", h.Title)
}

func TestComputeHeaderChecksumMatchesWrittenValue(t *testing.T) {
	rom := makeROM()
	assert.Equal(t, rom[0x014D], ComputeHeaderChecksum(rom))
}
