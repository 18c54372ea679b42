package cpu

import (
	"fmt"

	"github.com/thelolagemann/sm83/internal/types"
)

// Registers is the register file of the CPU. The 8-bit registers
// are stored individually, the 16-bit pairs AF, BC, DE and HL are
// views over them, high byte first.
type Registers struct {
	A uint8
	F uint8 // flags, the low nibble always reads as zero
	B uint8
	C uint8
	D uint8
	E uint8
	H uint8
	L uint8

	// SP is the stack pointer, it points to the top of the stack.
	SP uint16
	// PC is the program counter, it points to the next byte to be fetched.
	PC uint16
}

// AF returns the AF register pair.
func (r *Registers) AF() uint16 {
	return uint16(r.A)<<8 | uint16(r.F)
}

// BC returns the BC register pair.
func (r *Registers) BC() uint16 {
	return uint16(r.B)<<8 | uint16(r.C)
}

// DE returns the DE register pair.
func (r *Registers) DE() uint16 {
	return uint16(r.D)<<8 | uint16(r.E)
}

// HL returns the HL register pair.
func (r *Registers) HL() uint16 {
	return uint16(r.H)<<8 | uint16(r.L)
}

// SetAF sets the AF register pair. The low nibble of F is
// discarded, as it is not backed by any storage.
func (r *Registers) SetAF(v uint16) {
	r.A = uint8(v >> 8)
	r.F = uint8(v) & 0xF0
}

// SetBC sets the BC register pair.
func (r *Registers) SetBC(v uint16) {
	r.B = uint8(v >> 8)
	r.C = uint8(v)
}

// SetDE sets the DE register pair.
func (r *Registers) SetDE(v uint16) {
	r.D = uint8(v >> 8)
	r.E = uint8(v)
}

// SetHL sets the HL register pair.
func (r *Registers) SetHL(v uint16) {
	r.H = uint8(v >> 8)
	r.L = uint8(v)
}

// String renders the register file on a single line.
func (r *Registers) String() string {
	return fmt.Sprintf("A:%02X F:%02X B:%02X C:%02X D:%02X E:%02X H:%02X L:%02X SP:%04X PC:%04X [%s]",
		r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L, r.SP, r.PC, r.flagString())
}

func (r *Registers) flagString() string {
	b := []byte("----")
	for i, f := range []Flag{FlagZero, FlagSubtract, FlagHalfCarry, FlagCarry} {
		if r.isFlagSet(f) {
			b[i] = "ZNHC"[i]
		}
	}
	return string(b)
}

// postBoot puts the register file into the state the DMG boot
// ROM leaves it in when handing control to the cartridge.
func (r *Registers) postBoot() {
	r.SetAF(0x01B0)
	r.SetBC(0x0013)
	r.SetDE(0x00D8)
	r.SetHL(0x014D)
	r.SP = 0xFFFE
	r.PC = 0x0100
}

var _ types.Stater = (*Registers)(nil)

// Load implements the types.Stater interface.
func (r *Registers) Load(s *types.State) {
	r.SetAF(s.Read16())
	r.SetBC(s.Read16())
	r.SetDE(s.Read16())
	r.SetHL(s.Read16())
	r.SP = s.Read16()
	r.PC = s.Read16()
}

// Save implements the types.Stater interface.
func (r *Registers) Save(s *types.State) {
	s.Write16(r.AF())
	s.Write16(r.BC())
	s.Write16(r.DE())
	s.Write16(r.HL())
	s.Write16(r.SP)
	s.Write16(r.PC)
}
