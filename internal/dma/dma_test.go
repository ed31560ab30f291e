package dma

import (
	"testing"

	"github.com/retrogb/gbcore/internal/ram"
	"github.com/stretchr/testify/assert"
)

func TestTriggerCopies160BytesFromSourcePage(t *testing.T) {
	source := make([]byte, 0x10000)
	for i := range source[:160] {
		source[0xC000+i] = byte(i + 1)
	}
	read := func(address uint16) uint8 { return source[address] }

	oam := ram.New(0xA0)
	e := &Engine{}
	e.Trigger(0xC0, read, oam)

	for i := uint16(0); i < 160; i++ {
		assert.Equal(t, source[0xC000+i], oam.Read(i))
	}
	assert.Equal(t, uint8(0xC0), e.Register())
}

func TestTriggerOverwritesPreviousTransfer(t *testing.T) {
	source := make([]byte, 0x10000)
	source[0xC000] = 0x11
	source[0xD000] = 0x22
	read := func(address uint16) uint8 { return source[address] }

	oam := ram.New(0xA0)
	e := &Engine{}
	e.Trigger(0xC0, read, oam)
	assert.Equal(t, uint8(0x11), oam.Read(0))

	e.Trigger(0xD0, read, oam)
	assert.Equal(t, uint8(0x22), oam.Read(0))
}
