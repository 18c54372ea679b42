package cpu

// operandKind identifies the addressing mode of an Operand.
type operandKind uint8

const (
	kindReg8 operandKind = iota
	kindReg16
	kindImm8
	kindImm16
	kindIndirect
	kindDirect8
	kindDirect16
	kindHigh8
)

// Register8 selects one of the 8-bit registers.
type Register8 uint8

const (
	RegA Register8 = iota
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
)

// Register16 selects one of the 16-bit registers.
type Register16 uint8

const (
	RegAF Register16 = iota
	RegBC
	RegDE
	RegHL
	RegSP
)

// Pointer selects the address used by an indirect operand.
type Pointer uint8

const (
	PtrBC  Pointer = iota // (BC)
	PtrDE                 // (DE)
	PtrHL                 // (HL)
	PtrHLI                // (HL+), HL is incremented after the access
	PtrHLD                // (HL-), HL is decremented after the access
	PtrCFF                // (C), the high page at 0xFF00 | C
)

// Operand is the source or destination of an instruction. Reading
// or writing an operand costs as many M-cycles as it needs bus
// accesses, one per cycle:
//
//	Reg8, Reg16           0
//	Imm8                  1   byte at PC, PC+1
//	Imm16                 2   two Imm8, low byte first
//	Ind                   1   byte at the pointer
//	Direct8               3   Imm16 address, then the access
//	Direct16 (write)      4   Imm16 address, then low and high byte
//	High8                 2   Imm8 offset into 0xFF00, then the access
//
// An access that cannot be made in the current cycle reports "not
// yet" and has no side effects. Progress through a multi-cycle
// operand is kept in the CPU's execution state.
type Operand struct {
	kind  operandKind
	index uint8
}

var (
	Imm8     = Operand{kind: kindImm8}
	Imm16    = Operand{kind: kindImm16}
	Direct8  = Operand{kind: kindDirect8}
	Direct16 = Operand{kind: kindDirect16}
	High8    = Operand{kind: kindHigh8}
)

// Reg8 returns an operand for the given 8-bit register.
func Reg8(r Register8) Operand { return Operand{kind: kindReg8, index: uint8(r)} }

// Reg16 returns an operand for the given 16-bit register.
func Reg16(r Register16) Operand { return Operand{kind: kindReg16, index: uint8(r)} }

// Ind returns an operand for the memory addressed by p.
func Ind(p Pointer) Operand { return Operand{kind: kindIndirect, index: uint8(p)} }

// r8Operands maps the 3-bit register field of an opcode to its operand.
var r8Operands = [8]Operand{
	Reg8(RegB), Reg8(RegC), Reg8(RegD), Reg8(RegE),
	Reg8(RegH), Reg8(RegL), Ind(PtrHL), Reg8(RegA),
}

var r8Names = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// register returns a pointer to the storage of an 8-bit register.
func (c *CPU) register(r Register8) *uint8 {
	switch r {
	case RegA:
		return &c.A
	case RegB:
		return &c.B
	case RegC:
		return &c.C
	case RegD:
		return &c.D
	case RegE:
		return &c.E
	case RegH:
		return &c.H
	default:
		return &c.L
	}
}

func (c *CPU) get16(r Register16) uint16 {
	switch r {
	case RegAF:
		return c.AF()
	case RegBC:
		return c.BC()
	case RegDE:
		return c.DE()
	case RegHL:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU) set16(r Register16, v uint16) {
	switch r {
	case RegAF:
		c.SetAF(v)
	case RegBC:
		c.SetBC(v)
	case RegDE:
		c.SetDE(v)
	case RegHL:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

// pointer resolves the address of an indirect operand, applying
// the post increment or decrement of HL.
func (c *CPU) pointer(p Pointer) uint16 {
	switch p {
	case PtrBC:
		return c.BC()
	case PtrDE:
		return c.DE()
	case PtrHLI:
		hl := c.HL()
		c.SetHL(hl + 1)
		return hl
	case PtrHLD:
		hl := c.HL()
		c.SetHL(hl - 1)
		return hl
	case PtrCFF:
		return 0xFF00 | uint16(c.C)
	default:
		return c.HL()
	}
}

// readImm reads the byte at PC and advances PC, if the bus is
// free this cycle.
func (c *CPU) readImm() (uint8, bool) {
	if c.exec.busy {
		return 0, false
	}
	v := c.readBus(c.PC)
	c.PC++
	return v, true
}

// address16 assembles a little endian word from the two bytes at
// PC into exec.addr, one byte per cycle. It returns true once both
// bytes have been read.
func (c *CPU) address16() bool {
	switch c.exec.opStep {
	case 0:
		lo, ok := c.readImm()
		if !ok {
			return false
		}
		c.exec.lo = lo
		c.exec.opStep = 1
		fallthrough
	case 1:
		hi, ok := c.readImm()
		if !ok {
			return false
		}
		c.exec.addr = uint16(hi)<<8 | uint16(c.exec.lo)
		c.exec.opStep = 2
	}
	return true
}

// highAddress assembles 0xFF00 | n from the byte at PC into
// exec.addr. It returns true once the byte has been read.
func (c *CPU) highAddress() bool {
	if c.exec.opStep == 0 {
		n, ok := c.readImm()
		if !ok {
			return false
		}
		c.exec.addr = 0xFF00 | uint16(n)
		c.exec.opStep = 1
	}
	return true
}

// read8 reads an 8-bit operand, returning false while the read
// needs more cycles.
func (c *CPU) read8(op Operand) (uint8, bool, error) {
	switch op.kind {
	case kindReg8:
		return *c.register(Register8(op.index)), true, nil
	case kindImm8:
		v, ok := c.readImm()
		return v, ok, nil
	case kindIndirect:
		if c.exec.busy {
			return 0, false, nil
		}
		return c.readBus(c.pointer(Pointer(op.index))), true, nil
	case kindDirect8:
		if !c.address16() || c.exec.busy {
			return 0, false, nil
		}
		c.exec.opStep = 0
		return c.readBus(c.exec.addr), true, nil
	case kindHigh8:
		if !c.highAddress() || c.exec.busy {
			return 0, false, nil
		}
		c.exec.opStep = 0
		return c.readBus(c.exec.addr), true, nil
	}
	return 0, false, c.unimplemented()
}

// write8 writes an 8-bit operand, returning false while the write
// needs more cycles.
func (c *CPU) write8(op Operand, v uint8) (bool, error) {
	switch op.kind {
	case kindReg8:
		*c.register(Register8(op.index)) = v
		return true, nil
	case kindIndirect:
		if c.exec.busy {
			return false, nil
		}
		c.writeBus(c.pointer(Pointer(op.index)), v)
		return true, nil
	case kindDirect8:
		if !c.address16() || c.exec.busy {
			return false, nil
		}
		c.exec.opStep = 0
		c.writeBus(c.exec.addr, v)
		return true, nil
	case kindHigh8:
		if !c.highAddress() || c.exec.busy {
			return false, nil
		}
		c.exec.opStep = 0
		c.writeBus(c.exec.addr, v)
		return true, nil
	}
	return false, c.unimplemented()
}

// read16 reads a 16-bit operand, returning false while the read
// needs more cycles.
func (c *CPU) read16(op Operand) (uint16, bool, error) {
	switch op.kind {
	case kindReg16:
		return c.get16(Register16(op.index)), true, nil
	case kindImm16:
		if !c.address16() {
			return 0, false, nil
		}
		c.exec.opStep = 0
		return c.exec.addr, true, nil
	}
	return 0, false, c.unimplemented()
}

// write16 writes a 16-bit operand, returning false while the write
// needs more cycles.
func (c *CPU) write16(op Operand, v uint16) (bool, error) {
	switch op.kind {
	case kindReg16:
		c.set16(Register16(op.index), v)
		return true, nil
	case kindDirect16:
		if !c.address16() || c.exec.busy {
			return false, nil
		}
		if c.exec.opStep == 2 {
			c.writeBus(c.exec.addr, uint8(v))
			c.exec.opStep = 3
			return false, nil
		}
		c.writeBus(c.exec.addr+1, uint8(v>>8))
		c.exec.opStep = 0
		return true, nil
	}
	return false, c.unimplemented()
}
