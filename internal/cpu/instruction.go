package cpu

// Instruction is a decoded opcode. fn advances the instruction's
// micro-op by one M-cycle and calls complete when it is done.
type Instruction struct {
	name string
	fn   func(*CPU) error
}

// Name returns the mnemonic of the instruction.
func (i Instruction) Name() string {
	return i.name
}

var (
	// InstructionSet holds the instructions of the base opcode table.
	InstructionSet [256]Instruction
	// InstructionSetCB holds the instructions of the 0xCB opcode table.
	InstructionSetCB [256]Instruction
)

// DefineInstruction defines the instruction in the InstructionSet,
// with the provided opcode.
func DefineInstruction(opcode uint8, name string, fn func(*CPU) error) {
	InstructionSet[opcode] = Instruction{
		name: name,
		fn:   fn,
	}
}

// DefineInstructionCB defines the instruction in the InstructionSetCB,
// with the provided opcode.
func DefineInstructionCB(opcode uint8, name string, fn func(*CPU) error) {
	InstructionSetCB[opcode] = Instruction{
		name: name,
		fn:   fn,
	}
}

// single wraps work that finishes within the cycle it starts in.
func single(fn func(c *CPU)) func(*CPU) error {
	return func(c *CPU) error {
		fn(c)
		c.complete()
		return nil
	}
}

var (
	conditionNames = [4]string{"NZ", "Z", "NC", "C"}
	conditions     = [4]condition{condNZ, condZ, condNC, condC}
	r16Names       = [4]string{"BC", "DE", "HL", "SP"}
	r16Registers   = [4]Register16{RegBC, RegDE, RegHL, RegSP}
)

func init() {
	DefineInstruction(0x00, "NOP", single(func(c *CPU) {}))
	DefineInstruction(0x76, "HALT", single(func(c *CPU) {
		// no HALT bug, an interrupt already pending skips the halt
		if !c.IRQ.HasInterrupts() {
			c.exec.halted = true
		}
	}))
	DefineInstruction(0xF3, "DI", single(func(c *CPU) {
		c.IRQ.IME = false
		c.exec.enableIME = false
	}))
	DefineInstruction(0xFB, "EI", single(func(c *CPU) {
		c.exec.enableIME = true
	}))
	DefineInstruction(0x27, "DAA", single((*CPU).decimalAdjust))
	DefineInstruction(0x2F, "CPL", single(func(c *CPU) {
		c.A = ^c.A
		c.setFlag(FlagSubtract, true)
		c.setFlag(FlagHalfCarry, true)
	}))
	DefineInstruction(0x37, "SCF", single(func(c *CPU) {
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, false)
		c.setFlag(FlagCarry, true)
	}))
	DefineInstruction(0x3F, "CCF", single(func(c *CPU) {
		c.setFlag(FlagSubtract, false)
		c.setFlag(FlagHalfCarry, false)
		c.setFlag(FlagCarry, !c.CF())
	}))
}
