package cpu

import "fmt"

// testBitOf tests bit b of op. Unlike the other 0xCB instructions
// nothing is written back, so (HL) only costs one extra cycle.
//
//	BIT b, r
//	b = 0-7
//	r = A, B, C, D, E, H, L, (HL)
func testBitOf(b uint8, op Operand) func(*CPU) error {
	return func(c *CPU) error {
		v, ok, err := c.read8(op)
		if !ok {
			return err
		}
		c.testBit(v, b)
		c.complete()
		return nil
	}
}

// shifts are ordered as encoded in bits 3-5 of 0xCB 0x00 - 0x3F.
var shifts = [8]struct {
	name string
	fn   func(c *CPU, n uint8) uint8
}{
	{"RLC", (*CPU).rotateLeftCarry},
	{"RRC", (*CPU).rotateRightCarry},
	{"RL", (*CPU).rotateLeftThroughCarry},
	{"RR", (*CPU).rotateRightThroughCarry},
	{"SLA", (*CPU).shiftLeftArithmetic},
	{"SRA", (*CPU).shiftRightArithmetic},
	{"SWAP", (*CPU).swap},
	{"SRL", (*CPU).shiftRightLogical},
}

func init() {
	for r := 0; r < 8; r++ {
		op := r8Operands[r]
		for i, s := range shifts {
			DefineInstructionCB(uint8(i<<3|r), fmt.Sprintf("%s %s", s.name, r8Names[r]), readModifyWrite(op, s.fn))
		}

		for b := uint8(0); b < 8; b++ {
			mask := uint8(1) << b
			DefineInstructionCB(0x40|b<<3|uint8(r), fmt.Sprintf("BIT %d, %s", b, r8Names[r]), testBitOf(b, op))
			DefineInstructionCB(0x80|b<<3|uint8(r), fmt.Sprintf("RES %d, %s", b, r8Names[r]),
				readModifyWrite(op, func(_ *CPU, n uint8) uint8 { return n &^ mask }))
			DefineInstructionCB(0xC0|b<<3|uint8(r), fmt.Sprintf("SET %d, %s", b, r8Names[r]),
				readModifyWrite(op, func(_ *CPU, n uint8) uint8 { return n | mask }))
		}
	}
}
