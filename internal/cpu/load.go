package cpu

import "fmt"

// load8 copies the 8-bit src operand into dst. The source is read
// first, stalling until it is available, then the destination is
// written.
//
//	LD dst, src
//
// Flags affected: none.
func load8(dst, src Operand) func(*CPU) error {
	return func(c *CPU) error {
		switch c.exec.step {
		case 0:
			v, ok, err := c.read8(src)
			if !ok {
				return err
			}
			c.exec.val8 = v
			c.exec.step = 1
			fallthrough
		case 1:
			ok, err := c.write8(dst, c.exec.val8)
			if !ok {
				return err
			}
			c.complete()
		}
		return nil
	}
}

// load16 copies the 16-bit src operand into dst.
//
//	LD dst, src
//
// Flags affected: none.
func load16(dst, src Operand) func(*CPU) error {
	return func(c *CPU) error {
		switch c.exec.step {
		case 0:
			v, ok, err := c.read16(src)
			if !ok {
				return err
			}
			c.exec.val16 = v
			c.exec.step = 1
			fallthrough
		case 1:
			ok, err := c.write16(dst, c.exec.val16)
			if !ok {
				return err
			}
			c.complete()
		}
		return nil
	}
}

// loadSPHL copies HL into SP, taking an extra internal cycle.
//
//	LD SP, HL
func (c *CPU) loadSPHL() error {
	if c.internal() {
		c.SP = c.HL()
		c.complete()
	}
	return nil
}

// loadHLSPSigned loads SP plus a signed immediate into HL.
//
//	LD HL, SP+e
//	e = 8-bit signed immediate value
//
// Flags affected:
//
//	Z - Reset.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) loadHLSPSigned() error {
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
		c.SetHL(c.addSPSigned(c.exec.val8))
		c.complete()
	}
	return nil
}

func init() {
	// 0x40 - 0x7F LD r, r'
	for opcode := 0x40; opcode < 0x80; opcode++ {
		if opcode == 0x76 {
			continue // HALT
		}
		dst, src := opcode>>3&7, opcode&7
		DefineInstruction(uint8(opcode), fmt.Sprintf("LD %s, %s", r8Names[dst], r8Names[src]),
			load8(r8Operands[dst], r8Operands[src]))
	}

	// LD r, d8
	for r := 0; r < 8; r++ {
		DefineInstruction(uint8(r<<3|0x06), fmt.Sprintf("LD %s, d8", r8Names[r]), load8(r8Operands[r], Imm8))
	}

	// LD rr, d16
	for i, rr := range r16Registers {
		DefineInstruction(uint8(i<<4|0x01), fmt.Sprintf("LD %s, d16", r16Names[i]), load16(Reg16(rr), Imm16))
	}

	a := Reg8(RegA)
	DefineInstruction(0x02, "LD (BC), A", load8(Ind(PtrBC), a))
	DefineInstruction(0x12, "LD (DE), A", load8(Ind(PtrDE), a))
	DefineInstruction(0x22, "LD (HL+), A", load8(Ind(PtrHLI), a))
	DefineInstruction(0x32, "LD (HL-), A", load8(Ind(PtrHLD), a))
	DefineInstruction(0x0A, "LD A, (BC)", load8(a, Ind(PtrBC)))
	DefineInstruction(0x1A, "LD A, (DE)", load8(a, Ind(PtrDE)))
	DefineInstruction(0x2A, "LD A, (HL+)", load8(a, Ind(PtrHLI)))
	DefineInstruction(0x3A, "LD A, (HL-)", load8(a, Ind(PtrHLD)))

	DefineInstruction(0x08, "LD (a16), SP", load16(Direct16, Reg16(RegSP)))
	DefineInstruction(0xE0, "LDH (a8), A", load8(High8, a))
	DefineInstruction(0xF0, "LDH A, (a8)", load8(a, High8))
	DefineInstruction(0xE2, "LD (C), A", load8(Ind(PtrCFF), a))
	DefineInstruction(0xF2, "LD A, (C)", load8(a, Ind(PtrCFF)))
	DefineInstruction(0xEA, "LD (a16), A", load8(Direct8, a))
	DefineInstruction(0xFA, "LD A, (a16)", load8(a, Direct8))
	DefineInstruction(0xF8, "LD HL, SP+e", (*CPU).loadHLSPSigned)
	DefineInstruction(0xF9, "LD SP, HL", (*CPU).loadSPHL)
}
