// Package cartridge provides the game cartridges the machine can run.
// The cartridge holds the game ROM and any external RAM, and is mapped
// at 0x0000 - 0x7FFF and 0xA000 - 0xBFFF.
package cartridge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thelolagemann/sm83/internal/types"
)

// ErrTooSmall is returned when a ROM is too small to hold a header.
var ErrTooSmall = errors.New("cartridge: rom too small")

// UnsupportedType is returned by New for cartridges that use a
// memory bank controller that isn't emulated.
type UnsupportedType struct {
	Type Type
}

func (e UnsupportedType) Error() string {
	return fmt.Sprintf("cartridge: type 0x%02X (%s) is not supported", uint8(e.Type), e.Type)
}

// Cartridge represents a basic game cartridge.
type Cartridge interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)

	Header() Header
	Title() string
	// RAM returns the external RAM of the cartridge, which is
	// empty for cartridges without any.
	RAM() []byte

	types.Stater
}

// New parses the header of rom and returns the cartridge that
// matches its type.
func New(rom []byte) (Cartridge, error) {
	if len(rom) < 0x150 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, len(rom))
	}

	// parse the cartridge header (0x0100 - 0x014F)
	header := parseHeader(rom[0x100:0x150])
	base := baseCartridge{
		rom:    rom,
		ram:    make([]byte, header.RAMSize),
		header: header,
	}
	switch header.CartridgeType {
	case ROM, ROMRAM, ROMRAMBATT:
		return &ROMCartridge{baseCartridge: base}, nil
	case MBC1, MBC1RAM, MBC1RAMBATT:
		return NewMemoryBankedCartridge1(base), nil
	}

	return nil, UnsupportedType{Type: header.CartridgeType}
}

type baseCartridge struct {
	rom    []byte
	ram    []byte
	header Header
}

func (c *baseCartridge) Header() Header {
	return c.header
}

// Title returns the cartridge title without its padding.
func (c *baseCartridge) Title() string {
	return strings.TrimRight(c.header.Title, "\x00 ")
}

func (c *baseCartridge) RAM() []byte {
	return c.ram
}

// readROM returns the ROM byte at offset, or 0xFF past the end of
// the image.
func (c *baseCartridge) readROM(offset int) uint8 {
	if offset >= len(c.rom) {
		return 0xFF
	}
	return c.rom[offset]
}

// readRAM returns the RAM byte at offset, or 0xFF past the end of
// the RAM.
func (c *baseCartridge) readRAM(offset int) uint8 {
	if offset >= len(c.ram) {
		return 0xFF
	}
	return c.ram[offset]
}

func (c *baseCartridge) writeRAM(offset int, value uint8) {
	if offset < len(c.ram) {
		c.ram[offset] = value
	}
}
