package cpu

// rotateAccumulator applies a rotate to the A Register. Unlike
// their 0xCB counterparts, the accumulator rotates always reset
// the zero flag.
//
//	RLCA, RRCA, RLA, RRA
//
// Flags affected:
//
//	Z - Reset.
//	N - Reset.
//	H - Reset.
//	C - Contains the bit shifted out.
func rotateAccumulator(fn func(c *CPU, n uint8) uint8) func(*CPU) error {
	return single(func(c *CPU) {
		c.A = fn(c, c.A)
		c.setFlag(FlagZero, false)
	})
}

func init() {
	DefineInstruction(0x07, "RLCA", rotateAccumulator((*CPU).rotateLeftCarry))
	DefineInstruction(0x0F, "RRCA", rotateAccumulator((*CPU).rotateRightCarry))
	DefineInstruction(0x17, "RLA", rotateAccumulator((*CPU).rotateLeftThroughCarry))
	DefineInstruction(0x1F, "RRA", rotateAccumulator((*CPU).rotateRightThroughCarry))
}
