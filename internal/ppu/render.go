package ppu

// palette decodes a 2-bit color index through one of BGP/OBP0/OBP1.
func palette(reg uint8, index uint8) uint32 {
	shade := (reg >> (index * 2)) & 0x03
	return dmgPalette[shade]
}

// tileRow returns the 8 2-bit color indices for one row of the tile at
// tileIndex, fetched from base with signed indexing when base is 0x8800
// (spec §4.3).
func (p *PPU) tileRow(base uint16, tileIndex uint8, row uint8) [8]uint8 {
	var addr uint16
	if base == 0x8000 {
		addr = base + uint16(tileIndex)*16
	} else {
		addr = uint16(int32(base) + int32(int8(tileIndex))*16 + 0x800)
	}
	addr += uint16(row) * 2
	lo := p.VRAMRead(addr)
	hi := p.VRAMRead(addr + 1)

	var out [8]uint8
	for i := 0; i < 8; i++ {
		bit := uint(7 - i)
		b0 := (lo >> bit) & 1
		b1 := (hi >> bit) & 1
		out[i] = b0 | b1<<1
	}
	return out
}

// spriteTileRow always fetches from 0x8000 unsigned, per the sprite
// exception called out in spec §4.3.
func (p *PPU) spriteTileRow(tileIndex uint8, row uint8) [8]uint8 {
	addr := 0x8000 + uint16(tileIndex)*16 + uint16(row)*2
	lo := p.VRAMRead(addr)
	hi := p.VRAMRead(addr + 1)
	var out [8]uint8
	for i := 0; i < 8; i++ {
		bit := uint(7 - i)
		b0 := (lo >> bit) & 1
		b1 := (hi >> bit) & 1
		out[i] = b0 | b1<<1
	}
	return out
}

type spriteEntry struct {
	y, x      uint8
	tile      uint8
	flags     uint8
}

func (e spriteEntry) yFlip() bool     { return e.flags&0x40 != 0 }
func (e spriteEntry) xFlip() bool     { return e.flags&0x20 != 0 }
func (e spriteEntry) behindBG() bool  { return e.flags&0x80 != 0 }
func (e spriteEntry) palette1() bool  { return e.flags&0x10 != 0 }

// renderScanline composes background, window, and sprites for the
// current LY into p.line (spec §4.3).
func (p *PPU) renderScanline() {
	var bgIndex [160]uint8 // 2-bit color index before palette lookup, for sprite priority

	if p.bgEnabled() {
		base := p.tileDataBase()
		mapBase := p.bgTileMap()
		yy := p.ly + p.scy
		tileRowIdx := yy / 8
		rowInTile := yy % 8
		for x := 0; x < 160; x++ {
			xx := uint8(x) + p.scx
			tileColIdx := xx / 8
			colInTile := xx % 8
			mapAddr := mapBase + uint16(tileRowIdx)*32 + uint16(tileColIdx)
			tileIdx := p.VRAMRead(mapAddr)
			row := p.tileRow(base, tileIdx, rowInTile)
			idx := row[colInTile]
			bgIndex[x] = idx
			p.line[x] = palette(p.bgp, idx)
		}
	} else {
		for x := 0; x < 160; x++ {
			p.line[x] = dmgPalette[0]
		}
	}

	if p.winEnabled() && p.ly >= p.wy {
		base := p.tileDataBase()
		mapBase := p.winTileMap()
		winY := p.ly - p.wy
		tileRowIdx := winY / 8
		rowInTile := winY % 8
		startCol := int(p.wx) - 7
		for x := 0; x < 160; x++ {
			wx := x - startCol
			if wx < 0 {
				continue
			}
			tileColIdx := uint8(wx) / 8
			colInTile := uint8(wx) % 8
			mapAddr := mapBase + uint16(tileRowIdx)*32 + uint16(tileColIdx)
			tileIdx := p.VRAMRead(mapAddr)
			row := p.tileRow(base, tileIdx, rowInTile)
			idx := row[colInTile]
			bgIndex[x] = idx
			p.line[x] = palette(p.bgp, idx)
		}
	}

	if p.spritesEnabled() {
		height := uint8(8)
		if p.tallSprites() {
			height = 16
		}
		var entries []spriteEntry
		for i := 0; i < 40 && len(entries) < 10; i++ {
			base := uint16(i * 4)
			y := p.OAMRead(0xFE00+base) - 16
			if p.ly < y || p.ly >= y+height {
				continue
			}
			entries = append(entries, spriteEntry{
				y:     y,
				x:     p.OAMRead(0xFE00+base+1) - 8,
				tile:  p.OAMRead(0xFE00 + base + 2),
				flags: p.OAMRead(0xFE00 + base + 3),
			})
		}
		// OAM order determines tie-breaking; later entries in this slice
		// were found later in OAM, so draw in reverse so index 0 wins ties.
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			row := p.ly - e.y
			if e.yFlip() {
				row = height - 1 - row
			}
			tile := e.tile
			if height == 16 {
				tile &^= 0x01
				if row >= 8 {
					tile |= 0x01
					row -= 8
				}
			}
			pix := p.spriteTileRow(tile, row)
			for c := 0; c < 8; c++ {
				sx := int(e.x) + c
				if sx < 0 || sx >= 160 {
					continue
				}
				col := c
				if e.xFlip() {
					col = 7 - c
				}
				idx := pix[col]
				if idx == 0 {
					continue
				}
				if e.behindBG() && bgIndex[sx] != 0 {
					continue
				}
				obp := p.obp0
				if e.palette1() {
					obp = p.obp1
				}
				p.line[sx] = palette(obp, idx)
			}
		}
	}
}
