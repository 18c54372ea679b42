package cpu

import "fmt"

// UnimplementedOpcode is returned when the CPU decodes an opcode
// it has no instruction for. It is fatal, the CPU refuses to
// step any further once it has been returned.
type UnimplementedOpcode struct {
	Opcode   uint8
	Extended bool   // decoded from the 0xCB table
	PC       uint16 // address the opcode was fetched from
}

// Error implements the error interface.
func (e UnimplementedOpcode) Error() string {
	if e.Extended {
		return fmt.Sprintf("0xCB 0x%02X is an unimplemented opcode (PC 0x%04X)", e.Opcode, e.PC)
	}
	return fmt.Sprintf("0x%02X is an unimplemented opcode (PC 0x%04X)", e.Opcode, e.PC)
}
