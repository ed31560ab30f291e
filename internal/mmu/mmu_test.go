package mmu

import (
	"testing"

	"github.com/retrogb/gbcore/internal/apu"
	"github.com/retrogb/gbcore/internal/cartridge"
	"github.com/retrogb/gbcore/internal/dma"
	"github.com/retrogb/gbcore/internal/interrupts"
	"github.com/retrogb/gbcore/internal/joypad"
	"github.com/retrogb/gbcore/internal/ppu"
	"github.com/retrogb/gbcore/internal/serial"
	"github.com/retrogb/gbcore/internal/timer"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testROM() []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x0134:], "TEST")
	rom[0x0147] = 0x00 // ROM only
	rom[0x0148] = 0x00
	rom[0x0149] = 0x00
	rom[0x014D] = cartridge.ComputeHeaderChecksum(rom)
	return rom
}

func newTestMMU() *MMU {
	irq := interrupts.NewService()
	cart, err := cartridge.New(testROM(), nil, logrus.New())
	if err != nil {
		panic(err)
	}
	p := ppu.New(irq)
	a := apu.New()
	t := timer.New(irq)
	s := serial.New(irq)
	j := joypad.New(irq)
	d := &dma.Engine{}
	return New(cart, p, a, irq, t, s, j, d, nil, nil)
}

func TestWRAMReadAfterWrite(t *testing.T) {
	m := newTestMMU()
	m.Write8(0xC000, 0x42)
	assert.Equal(t, uint8(0x42), m.Read8(0xC000))
}

func TestEchoRAMMirrorsWRAM(t *testing.T) {
	m := newTestMMU()
	m.Write8(0xC010, 0x99)
	assert.Equal(t, uint8(0x99), m.Read8(0xE010), "0xE000-0xFDFF mirrors 0xC000-0xDDFF")
}

func TestHRAMReadAfterWrite(t *testing.T) {
	m := newTestMMU()
	m.Write8(0xFF90, 0xAB)
	assert.Equal(t, uint8(0xAB), m.Read8(0xFF90))
}

func TestVRAMReadAfterWrite(t *testing.T) {
	m := newTestMMU()
	m.Write8(0x8500, 0x11)
	assert.Equal(t, uint8(0x11), m.Read8(0x8500))
}

func TestOAMReadAfterWrite(t *testing.T) {
	m := newTestMMU()
	m.Write8(0xFE10, 0x22)
	assert.Equal(t, uint8(0x22), m.Read8(0xFE10))
}

func TestUnusableRangeReadsHighAndDiscardsWrites(t *testing.T) {
	m := newTestMMU()
	m.Write8(0xFEA0, 0x55)
	assert.Equal(t, uint8(0xFF), m.Read8(0xFEA0))
}

func TestBootROMOverlayDisengagesOnFF50(t *testing.T) {
	boot := &BootROM{}
	boot[0] = 0xAA
	irq := interrupts.NewService()
	cart, _ := cartridge.New(testROM(), nil, logrus.New())
	p := ppu.New(irq)
	a := apu.New()
	tm := timer.New(irq)
	s := serial.New(irq)
	j := joypad.New(irq)
	d := &dma.Engine{}
	m := New(cart, p, a, irq, tm, s, j, d, boot, nil)

	assert.Equal(t, uint8(0xAA), m.Read8(0x0000))
	m.Write8(0xFF50, 1)
	assert.NotEqual(t, uint8(0xAA), m.Read8(0x0000), "cartridge ROM should show through once the boot overlay is disabled")
}

func TestReadWriteIsTraced(t *testing.T) {
	m := newTestMMU()
	var reads, writes []uint16
	m.SetTracer(tracerFuncs{
		onRead:  func(a uint16, v uint8) { reads = append(reads, a) },
		onWrite: func(a uint16, v uint8) { writes = append(writes, a) },
	})

	m.Write8(0xC000, 1)
	m.Read8(0xC000)
	assert.Equal(t, []uint16{0xC000}, writes)
	assert.Equal(t, []uint16{0xC000}, reads)
}

type tracerFuncs struct {
	onRead  func(uint16, uint8)
	onWrite func(uint16, uint8)
}

func (t tracerFuncs) OnRead(a uint16, v uint8)  { t.onRead(a, v) }
func (t tracerFuncs) OnWrite(a uint16, v uint8) { t.onWrite(a, v) }

func TestDMATriggerCopies160BytesIntoOAM(t *testing.T) {
	m := newTestMMU()
	for i := uint16(0); i < 160; i++ {
		m.Write8(0xC000+i, uint8(i))
	}
	m.Write8(0xFF46, 0xC0) // source page 0xC000
	for i := uint16(0); i < 160; i++ {
		assert.Equal(t, uint8(i), m.Read8(0xFE00+i))
	}
}

func TestReadWrite16LittleEndian(t *testing.T) {
	m := newTestMMU()
	m.Write16(0xC000, 0x1234)
	assert.Equal(t, uint8(0x34), m.Read8(0xC000))
	assert.Equal(t, uint8(0x12), m.Read8(0xC001))
	assert.Equal(t, uint16(0x1234), m.Read16(0xC000))
}
