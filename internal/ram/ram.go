// Package ram provides the plain, range-checked byte arrays backing
// WRAM, HRAM, OAM and VRAM (spec §3). Access outside the declared range
// is a programming error in the owning bus logic, so it panics rather
// than silently wrapping.
package ram

import "fmt"

// Bank is a fixed-size block of bytes addressed relative to its own
// base (the owner is responsible for translating bus addresses).
type Bank struct {
	data []byte
}

// New returns a zero-filled bank of the given size.
func New(size int) *Bank {
	return &Bank{data: make([]byte, size)}
}

// Read returns the byte at the given offset.
func (b *Bank) Read(offset uint16) uint8 {
	if int(offset) >= len(b.data) {
		panic(fmt.Sprintf("ram: read out of bounds: offset %#x, size %#x", offset, len(b.data)))
	}
	return b.data[offset]
}

// Write stores a byte at the given offset.
func (b *Bank) Write(offset uint16, value uint8) {
	if int(offset) >= len(b.data) {
		panic(fmt.Sprintf("ram: write out of bounds: offset %#x, size %#x", offset, len(b.data)))
	}
	b.data[offset] = value
}

// Len returns the bank's size in bytes.
func (b *Bank) Len() int {
	return len(b.data)
}

// Raw exposes the backing slice directly, for components (PPU, DMA)
// that need bulk or cross-region access without per-byte range checks.
func (b *Bank) Raw() []byte {
	return b.data
}
