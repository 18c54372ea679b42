// Package ppu provides the video controller. It keeps the video
// registers and memories, and steps through the modes of each line
// once per M-cycle, requesting the VBlank and STAT interrupts.
package ppu

import (
	"github.com/cespare/xxhash"
	"github.com/thelolagemann/sm83/internal/interrupts"
	"github.com/thelolagemann/sm83/internal/ppu/lcd"
	"github.com/thelolagemann/sm83/internal/ppu/palette"
	"github.com/thelolagemann/sm83/internal/types"
)

const (
	// ScreenWidth is the width of the screen in pixels.
	ScreenWidth = 160
	// ScreenHeight is the height of the screen in pixels.
	ScreenHeight = 144
	// Lines is the number of lines in a frame, the last 10 of
	// which are VBlank.
	Lines = 154
	// FrameCycles is the number of M-cycles to draw a frame.
	FrameCycles = Lines * lcd.LineCycles
)

// PPU implements the Game Boy's (P)ixel (P)rocessing (U)nit.
//
// Each line starts with an OAM scan, followed by drawing and then
// HBlank, for a fixed lcd.LineCycles. While drawing, VRAM and OAM
// are locked, and during the OAM scan OAM is locked. Locked memory
// reads 0xFF and ignores writes.
//
// Only the background is drawn, once per line as drawing ends.
//
// References:
//   - [Pan Docs](https://gbdev.io/pandocs/Graphics.html)
type PPU struct {
	lcdc lcd.Controller
	stat lcd.Status

	ly, lyc  uint8
	scy, scx uint8 // Background viewport position
	wy, wx   uint8 // Window Position

	bgp, obp0, obp1 palette.Palette

	vram [0x2000]uint8
	oam  [0xA0]uint8

	cycles     uint8 // M-cycles left in the current mode
	frames     uint64
	frameReady bool

	buffer [ScreenHeight][ScreenWidth]uint8

	irq *interrupts.Service
}

// New returns a new PPU, with the LCD off, that requests its
// interrupts from irq.
func New(irq *interrupts.Service) *PPU {
	p := &PPU{irq: irq}
	p.lcdc.Write(0x00)
	return p
}

// Tick advances the PPU by one M-cycle.
func (p *PPU) Tick() {
	if !p.lcdc.Enabled {
		return
	}
	p.cycles--
	if p.cycles > 0 {
		return
	}

	switch p.stat.Mode {
	case lcd.OAM:
		p.setMode(lcd.VRAM)
	case lcd.VRAM:
		p.renderLine()
		p.setMode(lcd.HBlank)
	case lcd.HBlank:
		p.ly++
		p.checkCoincidence()
		if p.ly < ScreenHeight {
			p.setMode(lcd.OAM)
		} else {
			p.irq.Request(interrupts.VBlankFlag)
			p.setMode(lcd.VBlank)
		}
	case lcd.VBlank:
		p.ly++
		if p.ly == Lines {
			p.ly = 0
			p.frames++
			p.frameReady = true
			p.checkCoincidence()
			p.setMode(lcd.OAM)
		} else {
			p.checkCoincidence()
			p.cycles = lcd.LineCycles
		}
	}
}

// setMode enters mode and requests the STAT interrupt if it has
// been selected for mode.
func (p *PPU) setMode(mode lcd.Mode) {
	p.stat.Mode = mode
	switch mode {
	case lcd.OAM:
		p.cycles = lcd.OAMCycles
	case lcd.VRAM:
		p.cycles = lcd.VRAMCycles
	case lcd.HBlank:
		p.cycles = lcd.HBlankCycles
	case lcd.VBlank:
		p.cycles = lcd.LineCycles
	}
	if p.stat.ModeInterrupt(mode) {
		p.irq.Request(interrupts.LCDFlag)
	}
}

// checkCoincidence updates the LY=LYC flag, requesting the STAT
// interrupt as it becomes set.
func (p *PPU) checkCoincidence() {
	coincidence := p.ly == p.lyc
	if coincidence && !p.stat.Coincidence && p.stat.CoincidenceInterrupt {
		p.irq.Request(interrupts.LCDFlag)
	}
	p.stat.Coincidence = coincidence
}

func (p *PPU) vramLocked() bool {
	return p.stat.Mode == lcd.VRAM
}

func (p *PPU) oamLocked() bool {
	return p.stat.Mode == lcd.VRAM || p.stat.Mode == lcd.OAM
}

// Read returns the value at the given address, which must be in
// VRAM, OAM or the video registers.
func (p *PPU) Read(address uint16) uint8 {
	switch {
	case address >= types.VRAMStart && address <= types.VRAMEnd:
		if p.vramLocked() {
			return 0xFF
		}
		return p.vram[address&0x1FFF]
	case address >= types.OAMStart && address <= types.OAMEnd:
		if p.oamLocked() {
			return 0xFF
		}
		return p.oam[address-types.OAMStart]
	}

	switch address {
	case types.LCDC:
		return p.lcdc.Read()
	case types.STAT:
		return p.stat.Read()
	case types.SCY:
		return p.scy
	case types.SCX:
		return p.scx
	case types.LY:
		return p.ly
	case types.LYC:
		return p.lyc
	case types.BGP:
		return uint8(p.bgp)
	case types.OBP0:
		return uint8(p.obp0)
	case types.OBP1:
		return uint8(p.obp1)
	case types.WY:
		return p.wy
	case types.WX:
		return p.wx
	}
	// DMA is write only
	return 0xFF
}

// Write writes the value to the given address, which must be in
// VRAM, OAM or the video registers. LY is read only and DMA
// transfers are not emulated.
func (p *PPU) Write(address uint16, value uint8) {
	switch {
	case address >= types.VRAMStart && address <= types.VRAMEnd:
		if !p.vramLocked() {
			p.vram[address&0x1FFF] = value
		}
		return
	case address >= types.OAMStart && address <= types.OAMEnd:
		if !p.oamLocked() {
			p.oam[address-types.OAMStart] = value
		}
		return
	}

	switch address {
	case types.LCDC:
		enabled := p.lcdc.Enabled
		p.lcdc.Write(value)
		switch {
		case !enabled && p.lcdc.Enabled:
			p.ly = 0
			p.checkCoincidence()
			p.setMode(lcd.OAM)
		case enabled && !p.lcdc.Enabled:
			p.ly = 0
			p.cycles = 0
			p.stat.Mode = lcd.HBlank
		}
	case types.STAT:
		p.stat.Write(value)
	case types.SCY:
		p.scy = value
	case types.SCX:
		p.scx = value
	case types.LYC:
		p.lyc = value
		if p.lcdc.Enabled {
			p.checkCoincidence()
		}
	case types.BGP:
		p.bgp = palette.Palette(value)
	case types.OBP0:
		p.obp0 = palette.Palette(value)
	case types.OBP1:
		p.obp1 = palette.Palette(value)
	case types.WY:
		p.wy = value
	case types.WX:
		p.wx = value
	}
}

// LY returns the line currently being drawn.
func (p *PPU) LY() uint8 {
	return p.ly
}

// Mode returns the current mode of the LCD.
func (p *PPU) Mode() lcd.Mode {
	return p.stat.Mode
}

// Frame returns the number of frames completed since power on.
func (p *PPU) Frame() uint64 {
	return p.frames
}

// HasFrame returns true once a frame has been completed since the
// last call to ClearFrame.
func (p *PPU) HasFrame() bool {
	return p.frameReady
}

// ClearFrame acknowledges the completed frame.
func (p *PPU) ClearFrame() {
	p.frameReady = false
}

// Buffer returns the last drawn image, as greyscale intensities.
func (p *PPU) Buffer() *[ScreenHeight][ScreenWidth]uint8 {
	return &p.buffer
}

// Digest returns a hash of the contents of VRAM.
func (p *PPU) Digest() uint64 {
	return xxhash.Sum64(p.vram[:])
}

var _ types.Stater = (*PPU)(nil)

// Load implements the types.Stater interface.
func (p *PPU) Load(s *types.State) {
	p.lcdc.Write(s.Read8())
	stat := s.Read8()
	p.stat.Write(stat)
	p.stat.Coincidence = stat&types.Bit2 != 0
	p.stat.Mode = stat & 0x03
	p.ly = s.Read8()
	p.lyc = s.Read8()
	p.scy = s.Read8()
	p.scx = s.Read8()
	p.wy = s.Read8()
	p.wx = s.Read8()
	p.bgp = palette.Palette(s.Read8())
	p.obp0 = palette.Palette(s.Read8())
	p.obp1 = palette.Palette(s.Read8())
	p.cycles = s.Read8()
	p.frames = s.Read64()
	p.frameReady = s.ReadBool()
	s.ReadData(p.vram[:])
	s.ReadData(p.oam[:])
}

// Save implements the types.Stater interface.
func (p *PPU) Save(s *types.State) {
	s.Write8(p.lcdc.Read())
	s.Write8(p.stat.Read())
	s.Write8(p.ly)
	s.Write8(p.lyc)
	s.Write8(p.scy)
	s.Write8(p.scx)
	s.Write8(p.wy)
	s.Write8(p.wx)
	s.Write8(uint8(p.bgp))
	s.Write8(uint8(p.obp0))
	s.Write8(uint8(p.obp1))
	s.Write8(p.cycles)
	s.Write64(p.frames)
	s.WriteBool(p.frameReady)
	s.WriteData(p.vram[:])
	s.WriteData(p.oam[:])
}
