package cpu

import "fmt"

// jumpRelative reads a signed offset and adds it to PC if the
// condition holds. It takes the same number of cycles whether the
// jump is taken or not.
//
//	JR e
//	JR cc, e
//	cc = NZ, Z, NC, C
//	e = 8-bit signed immediate value
func jumpRelative(cc condition) func(*CPU) error {
	return func(c *CPU) error {
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
			if c.check(cc) {
				c.PC = uint16(int32(c.PC) + int32(int8(c.exec.val8)))
			}
			c.complete()
		}
		return nil
	}
}

// jumpAbsolute reads an address and jumps to it if the condition
// holds.
//
//	JP nn
//	JP cc, nn
//	cc = NZ, Z, NC, C
//	nn = 16-bit immediate value
func jumpAbsolute(cc condition) func(*CPU) error {
	return func(c *CPU) error {
		switch c.exec.step {
		case 0:
			nn, ok, err := c.read16(Imm16)
			if !ok {
				return err
			}
			c.exec.val16 = nn
			if !c.check(cc) {
				c.complete()
				return nil
			}
			c.exec.step = 1
			fallthrough
		case 1:
			if !c.internal() {
				return nil
			}
			c.PC = c.exec.val16
			c.complete()
		}
		return nil
	}
}

// call reads an address and, if the condition holds, pushes the
// address of the next instruction onto the stack and jumps to it.
//
//	CALL nn
//	CALL cc, nn
//	cc = NZ, Z, NC, C
//	nn = 16-bit immediate value
func call(cc condition) func(*CPU) error {
	return func(c *CPU) error {
		switch c.exec.step {
		case 0:
			nn, ok, err := c.read16(Imm16)
			if !ok {
				return err
			}
			c.exec.val16 = nn
			if !c.check(cc) {
				c.complete()
				return nil
			}
			c.exec.step = 1
			fallthrough
		case 1:
			if !c.push16(c.PC) {
				return nil
			}
			c.PC = c.exec.val16
			c.complete()
		}
		return nil
	}
}

// ret pops the top two bytes off the stack and jumps to that
// address. A conditional return spends an extra cycle evaluating
// its condition, RETI enables interrupts immediately.
//
//	RET
//	RET cc
//	RETI
//	cc = NZ, Z, NC, C
func ret(cc condition, enableInterrupts bool) func(*CPU) error {
	return func(c *CPU) error {
		switch c.exec.step {
		case 0:
			if cc != always {
				if !c.internal() {
					return nil
				}
				if !c.check(cc) {
					c.complete()
					return nil
				}
			}
			c.exec.step = 1
			fallthrough
		case 1:
			v, ok := c.pop16()
			if !ok {
				return nil
			}
			c.exec.val16 = v
			c.exec.step = 2
			fallthrough
		case 2:
			if !c.internal() {
				return nil
			}
			c.PC = c.exec.val16
			if enableInterrupts {
				c.IRQ.IME = true
			}
			c.complete()
		}
		return nil
	}
}

// restart pushes the address of the next instruction onto the
// stack and jumps to one of the fixed restart vectors.
//
//	RST n
//	n = 0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38
func restart(vector uint16) func(*CPU) error {
	return func(c *CPU) error {
		if c.push16(c.PC) {
			c.PC = vector
			c.complete()
		}
		return nil
	}
}

// push pushes a register pair onto the stack.
//
//	PUSH nn
//	nn = AF, BC, DE, HL
func push(r Register16) func(*CPU) error {
	return func(c *CPU) error {
		if c.push16(c.get16(r)) {
			c.complete()
		}
		return nil
	}
}

// pop pops a register pair off the stack. Popping AF discards the
// low nibble of F.
//
//	POP nn
//	nn = AF, BC, DE, HL
func pop(r Register16) func(*CPU) error {
	return func(c *CPU) error {
		if v, ok := c.pop16(); ok {
			c.set16(r, v)
			c.complete()
		}
		return nil
	}
}

func init() {
	DefineInstruction(0x18, "JR e", jumpRelative(always))
	DefineInstruction(0xC3, "JP nn", jumpAbsolute(always))
	DefineInstruction(0xCD, "CALL nn", call(always))
	DefineInstruction(0xC9, "RET", ret(always, false))
	DefineInstruction(0xD9, "RETI", ret(always, true))
	DefineInstruction(0xE9, "JP HL", single(func(c *CPU) {
		c.PC = c.HL()
	}))

	for i, cc := range conditions {
		name := conditionNames[i]
		DefineInstruction(uint8(0x20|i<<3), fmt.Sprintf("JR %s, e", name), jumpRelative(cc))
		DefineInstruction(uint8(0xC2|i<<3), fmt.Sprintf("JP %s, nn", name), jumpAbsolute(cc))
		DefineInstruction(uint8(0xC4|i<<3), fmt.Sprintf("CALL %s, nn", name), call(cc))
		DefineInstruction(uint8(0xC0|i<<3), fmt.Sprintf("RET %s", name), ret(cc, false))
	}

	for i := 0; i < 8; i++ {
		DefineInstruction(uint8(0xC7|i<<3), fmt.Sprintf("RST %02XH", i*8), restart(uint16(i*8)))
	}

	stackRegisters := [4]Register16{RegBC, RegDE, RegHL, RegAF}
	for i, rr := range stackRegisters {
		name := [4]string{"BC", "DE", "HL", "AF"}[i]
		DefineInstruction(uint8(0xC5|i<<4), fmt.Sprintf("PUSH %s", name), push(rr))
		DefineInstruction(uint8(0xC1|i<<4), fmt.Sprintf("POP %s", name), pop(rr))
	}
}
