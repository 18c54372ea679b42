package cartridge

import "github.com/thelolagemann/sm83/internal/types"

// MemoryBankedCartridge1 represents a MemoryBankedCartridge1 cartridge.
// This cartridge type supports up to 2MB of ROM and 32kB of RAM,
// switched through 4 registers written at 0x0000 - 0x7FFF:
//
//	0x0000 - 0x1FFF  RAM enable, 0x0A in the low nibble enables
//	0x2000 - 0x3FFF  low 5 bits of the ROM bank, 0 selects 1
//	0x4000 - 0x5FFF  high 2 bits of the ROM bank, or the RAM bank
//	0x6000 - 0x7FFF  banking mode
type MemoryBankedCartridge1 struct {
	baseCartridge

	ramEnabled bool
	lowBank    uint8
	highBank   uint8
	bankMode   bool
	romBanks   int
}

// NewMemoryBankedCartridge1 returns a new MemoryBankedCartridge1 cartridge.
func NewMemoryBankedCartridge1(base baseCartridge) *MemoryBankedCartridge1 {
	banks := int(base.header.ROMSize / 0x4000)
	if banks < 2 {
		banks = 2
	}
	return &MemoryBankedCartridge1{
		baseCartridge: base,
		lowBank:       1,
		romBanks:      banks,
	}
}

// Read returns the value from the cartridges ROM or RAM, depending on
// the bank selected.
func (m *MemoryBankedCartridge1) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		if m.bankMode {
			return m.readROM(int(m.highBank)<<19 | int(address&0x3FFF))
		}
		return m.readROM(int(address))
	case address < 0x8000:
		bank := int(m.lowBank) & (m.romBanks - 1)
		return m.readROM(int(m.highBank)<<19 | bank<<14 | int(address&0x3FFF))
	case address >= types.ERAMStart && address <= types.ERAMEnd:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.readRAM(m.ramOffset(address))
	}
	return 0xFF
}

// Write sets one of the banking registers, or writes to the selected
// RAM bank.
func (m *MemoryBankedCartridge1) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x4000:
		m.lowBank = value & 0x1F
		if m.lowBank == 0 {
			m.lowBank = 1
		}
	case address < 0x6000:
		m.highBank = value & 0x03
	case address < 0x8000:
		m.bankMode = value&0x01 == 0x01
	case address >= types.ERAMStart && address <= types.ERAMEnd:
		if m.ramEnabled {
			m.writeRAM(m.ramOffset(address), value)
		}
	}
}

// ramOffset maps an address in 0xA000 - 0xBFFF into the RAM, using
// the high bank register as the RAM bank in banking mode 1.
func (m *MemoryBankedCartridge1) ramOffset(address uint16) int {
	if m.bankMode {
		return int(m.highBank)<<13 | int(address&0x1FFF)
	}
	return int(address & 0x1FFF)
}

var _ types.Stater = (*MemoryBankedCartridge1)(nil)

// Load implements the types.Stater interface.
func (m *MemoryBankedCartridge1) Load(s *types.State) {
	m.ramEnabled = s.ReadBool()
	m.lowBank = s.Read8()
	m.highBank = s.Read8()
	m.bankMode = s.ReadBool()
	s.ReadData(m.ram)
}

// Save implements the types.Stater interface.
func (m *MemoryBankedCartridge1) Save(s *types.State) {
	s.WriteBool(m.ramEnabled)
	s.Write8(m.lowBank)
	s.Write8(m.highBank)
	s.WriteBool(m.bankMode)
	s.WriteData(m.ram)
}
