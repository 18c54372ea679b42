// Package ram provides the fixed high RAM block.
package ram

import "github.com/thelolagemann/sm83/internal/types"

// HRAMSize is the size of the high RAM, 0xFF80 - 0xFFFE.
const HRAMSize = 0x7F

// HRAM is the 127 bytes of RAM mapped at 0xFF80 - 0xFFFE. Addresses
// are reduced to their low 7 bits, so the block works the same no
// matter which base it is mapped at.
type HRAM struct {
	data [HRAMSize + 1]uint8
}

// NewHRAM returns a new, zeroed HRAM.
func NewHRAM() *HRAM {
	return &HRAM{}
}

// Read returns the value at the given address.
func (r *HRAM) Read(address uint16) uint8 {
	return r.data[address&HRAMSize]
}

// Write writes the value to the given address.
func (r *HRAM) Write(address uint16, value uint8) {
	r.data[address&HRAMSize] = value
}

var _ types.Stater = (*HRAM)(nil)

// Load implements the types.Stater interface.
func (r *HRAM) Load(s *types.State) {
	s.ReadData(r.data[:])
}

// Save implements the types.Stater interface.
func (r *HRAM) Save(s *types.State) {
	s.WriteData(r.data[:])
}
