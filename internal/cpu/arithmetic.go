package cpu

import "fmt"

// readModifyWrite reads op, replaces it with fn of its value and
// writes it back. Memory operands cost a cycle for each access.
func readModifyWrite(op Operand, fn func(c *CPU, n uint8) uint8) func(*CPU) error {
	return func(c *CPU) error {
		switch c.exec.step {
		case 0:
			v, ok, err := c.read8(op)
			if !ok {
				return err
			}
			c.exec.val8 = fn(c, v)
			c.exec.step = 1
			fallthrough
		case 1:
			ok, err := c.write8(op, c.exec.val8)
			if !ok {
				return err
			}
			c.complete()
		}
		return nil
	}
}

// accumulate reads op and applies fn to it with the A Register.
//
//	ADD, ADC, SUB, SBC, AND, XOR, OR, CP
func accumulate(op Operand, fn func(c *CPU, n uint8)) func(*CPU) error {
	return func(c *CPU) error {
		v, ok, err := c.read8(op)
		if !ok {
			return err
		}
		fn(c, v)
		c.complete()
		return nil
	}
}

// step16 adds delta to a 16-bit register, taking an extra internal
// cycle.
//
//	INC nn
//	DEC nn
//	nn = BC, DE, HL, SP
//
// Flags affected: none.
func step16(op Operand, delta uint16) func(*CPU) error {
	return func(c *CPU) error {
		if !c.internal() {
			return nil
		}
		v, _, err := c.read16(op)
		if err != nil {
			return err
		}
		if _, err := c.write16(op, v+delta); err != nil {
			return err
		}
		c.complete()
		return nil
	}
}

// addHL adds a 16-bit register to HL, taking an extra internal
// cycle.
//
//	ADD HL, nn
//	nn = BC, DE, HL, SP
func addHL(r Register16) func(*CPU) error {
	return func(c *CPU) error {
		if c.internal() {
			c.SetHL(c.addUint16(c.HL(), c.get16(r)))
			c.complete()
		}
		return nil
	}
}

// addSP adds a signed immediate to SP. The addition takes two
// internal cycles after the immediate has been read.
//
//	ADD SP, e
//	e = 8-bit signed immediate value
func (c *CPU) addSP() error {
	switch c.exec.step {
	case 0:
		e, ok := c.readImm()
		if !ok {
			return nil
		}
		c.exec.val8 = e
		c.exec.step = 1
		fallthrough
	case 1:
		if !c.internal() {
			return nil
		}
		c.exec.val16 = c.addSPSigned(c.exec.val8)
		c.exec.step = 2
		fallthrough
	case 2:
		if !c.internal() {
			return nil
		}
		c.SP = c.exec.val16
		c.complete()
	}
	return nil
}

// aluOps are ordered as encoded in bits 3-5 of the ALU opcodes.
var aluOps = [8]struct {
	name string
	fn   func(c *CPU, n uint8)
}{
	{"ADD A,", func(c *CPU, n uint8) { c.add(n, false) }},
	{"ADC A,", func(c *CPU, n uint8) { c.add(n, true) }},
	{"SUB", func(c *CPU, n uint8) { c.sub(n, false) }},
	{"SBC A,", func(c *CPU, n uint8) { c.sub(n, true) }},
	{"AND", (*CPU).and},
	{"XOR", (*CPU).xor},
	{"OR", (*CPU).or},
	{"CP", (*CPU).compare},
}

func init() {
	for r := 0; r < 8; r++ {
		// INC r, DEC r
		DefineInstruction(uint8(r<<3|0x04), fmt.Sprintf("INC %s", r8Names[r]), readModifyWrite(r8Operands[r], (*CPU).increment))
		DefineInstruction(uint8(r<<3|0x05), fmt.Sprintf("DEC %s", r8Names[r]), readModifyWrite(r8Operands[r], (*CPU).decrement))
	}

	for i, rr := range r16Registers {
		// INC rr, DEC rr, ADD HL, rr
		DefineInstruction(uint8(i<<4|0x03), fmt.Sprintf("INC %s", r16Names[i]), step16(Reg16(rr), 1))
		DefineInstruction(uint8(i<<4|0x0B), fmt.Sprintf("DEC %s", r16Names[i]), step16(Reg16(rr), 0xFFFF))
		DefineInstruction(uint8(i<<4|0x09), fmt.Sprintf("ADD HL, %s", r16Names[i]), addHL(rr))
	}

	for i, op := range aluOps {
		// 0x80 - 0xBF ALU A, r
		for r := 0; r < 8; r++ {
			DefineInstruction(uint8(0x80|i<<3|r), fmt.Sprintf("%s %s", op.name, r8Names[r]), accumulate(r8Operands[r], op.fn))
		}
		// ALU A, d8
		DefineInstruction(uint8(0xC6|i<<3), fmt.Sprintf("%s d8", op.name), accumulate(Imm8, op.fn))
	}

	DefineInstruction(0xE8, "ADD SP, e", (*CPU).addSP)
}
