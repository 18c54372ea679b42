package ppu

// A tile is 8x8 pixels of 2 bit colour numbers, stored as 16 bytes.
// Each row is 2 bytes, the first holding the low bit of each pixel
// and the second the high bit, with the leftmost pixel in bit 7.
const tileSize = 16

// tileIndex returns the tile at row, col of the tile map at
// mapAddress, as an index into the 384 tiles of VRAM. Signed tile
// numbers address the tiles from 0x9000.
func (p *PPU) tileIndex(mapAddress uint16, row, col uint8) int {
	n := p.vram[mapAddress&0x1FFF+uint16(row)<<5+uint16(col)]
	if p.lcdc.UsingSignedTileData() {
		return 0x100 + int(int8(n))
	}
	return int(n)
}

// tilePixel returns the colour number of the pixel at row, col of
// the given tile.
func (p *PPU) tilePixel(tile int, row, col uint8) uint8 {
	addr := tile*tileSize + int(row)*2
	lo, hi := p.vram[addr], p.vram[addr+1]
	bit := 7 - col
	return (hi>>bit&1)<<1 | lo>>bit&1
}

// renderLine draws the background of the current line into the
// frame buffer.
func (p *PPU) renderLine() {
	line := &p.buffer[p.ly]
	if !p.lcdc.BackgroundEnabled {
		for i := range line {
			line[i] = p.bgp.Grey(0)
		}
		return
	}

	y := p.ly + p.scy // wraps around the 256x256 map
	for i := uint8(0); i < ScreenWidth; i++ {
		x := i + p.scx
		tile := p.tileIndex(p.lcdc.BackgroundTileMapAddress, y>>3, x>>3)
		line[i] = p.bgp.Grey(p.tilePixel(tile, y&7, x&7))
	}
}
