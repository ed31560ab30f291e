package ram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadAfterWrite(t *testing.T) {
	b := New(0x100)
	for off := uint16(0); off < 0x100; off++ {
		b.Write(off, uint8(off))
	}
	for off := uint16(0); off < 0x100; off++ {
		assert.Equal(t, uint8(off), b.Read(off))
	}
}

func TestZeroFilledOnCreate(t *testing.T) {
	b := New(16)
	for i := 0; i < 16; i++ {
		assert.Zero(t, b.Read(uint16(i)))
	}
}

func TestOutOfBoundsPanics(t *testing.T) {
	b := New(4)
	assert.Panics(t, func() { b.Read(4) })
	assert.Panics(t, func() { b.Write(100, 1) })
}

func TestRawSharesBackingStore(t *testing.T) {
	b := New(4)
	b.Raw()[2] = 0xAB
	assert.Equal(t, uint8(0xAB), b.Read(2))
}
