package cartridge

import "github.com/thelolagemann/sm83/internal/types"

// ROMCartridge represents a ROM cartridge. This cartridge type is the
// simplest cartridge type and has no MBC, only up to 32kB of ROM and
// optionally 8kB of RAM.
type ROMCartridge struct {
	baseCartridge
}

// Read returns the value at the given address.
func (r *ROMCartridge) Read(address uint16) uint8 {
	if address >= types.ERAMStart && address <= types.ERAMEnd {
		return r.readRAM(int(address & 0x1FFF))
	}
	return r.readROM(int(address))
}

// Write writes to the external RAM, if there is any. Writes to the
// ROM are ignored.
func (r *ROMCartridge) Write(address uint16, value uint8) {
	if address >= types.ERAMStart && address <= types.ERAMEnd {
		r.writeRAM(int(address&0x1FFF), value)
	}
}

var _ types.Stater = (*ROMCartridge)(nil)

// Load implements the types.Stater interface.
func (r *ROMCartridge) Load(s *types.State) {
	s.ReadData(r.ram)
}

// Save implements the types.Stater interface.
func (r *ROMCartridge) Save(s *types.State) {
	s.WriteData(r.ram)
}
