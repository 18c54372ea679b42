package cpu

import "github.com/thelolagemann/sm83/pkg/bits"

// Flag is the bit index of a flag in the F register.
type Flag = uint8

const (
	FlagZero      Flag = 7
	FlagSubtract  Flag = 6
	FlagHalfCarry Flag = 5
	FlagCarry     Flag = 4
)

// setFlag sets or clears a single flag in the F register.
func (r *Registers) setFlag(flag Flag, value bool) {
	if value {
		r.F = bits.Set(r.F, flag)
	} else {
		r.F = bits.Reset(r.F, flag)
	}
}

// isFlagSet returns true if the given flag is set.
func (r *Registers) isFlagSet(flag Flag) bool {
	return bits.Test(r.F, flag)
}

// setFlags sets all four flags at once.
func (r *Registers) setFlags(zero, subtract, halfCarry, carry bool) {
	r.setFlag(FlagZero, zero)
	r.setFlag(FlagSubtract, subtract)
	r.setFlag(FlagHalfCarry, halfCarry)
	r.setFlag(FlagCarry, carry)
}

// ZF returns the zero flag.
func (r *Registers) ZF() bool { return r.isFlagSet(FlagZero) }

// NF returns the subtract flag.
func (r *Registers) NF() bool { return r.isFlagSet(FlagSubtract) }

// HF returns the half carry flag.
func (r *Registers) HF() bool { return r.isFlagSet(FlagHalfCarry) }

// CF returns the carry flag.
func (r *Registers) CF() bool { return r.isFlagSet(FlagCarry) }

func (r *Registers) SetZF(v bool) { r.setFlag(FlagZero, v) }
func (r *Registers) SetNF(v bool) { r.setFlag(FlagSubtract, v) }
func (r *Registers) SetHF(v bool) { r.setFlag(FlagHalfCarry, v) }
func (r *Registers) SetCF(v bool) { r.setFlag(FlagCarry, v) }

// condition is the flag condition of a conditional jump, call
// or return.
type condition uint8

const (
	always condition = iota
	condNZ
	condZ
	condNC
	condC
)

// check returns true if the condition holds for the current flags.
func (r *Registers) check(cc condition) bool {
	switch cc {
	case condNZ:
		return !r.ZF()
	case condZ:
		return r.ZF()
	case condNC:
		return !r.CF()
	case condC:
		return r.CF()
	}
	return true
}
