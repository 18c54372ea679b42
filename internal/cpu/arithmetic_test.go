package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestInstruction_IncrementDecrement(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for v := 0; v < 256; v++ {
			c, _ := newTestCPU(0x04, 0x05) // INC B; DEC B
			c.B = uint8(v)
			runInstruction(t, c)
			runInstruction(t, c)
			if c.B != uint8(v) {
				t.Fatalf("INC/DEC of 0x%02X gave 0x%02X", v, c.B)
			}
		}
	})
	t.Run("INC flags", func(t *testing.T) {
		c, _ := newTestCPU(0x3C) // INC A
		c.A = 0xFF
		c.SetCF(true)
		runInstruction(t, c)
		if c.A != 0x00 || !c.ZF() || c.NF() || !c.HF() || !c.CF() {
			t.Errorf("expected A=00 Z-HC, got A=%02X %s", c.A, c.flagString())
		}
	})
	t.Run("DEC flags", func(t *testing.T) {
		c, _ := newTestCPU(0x0D) // DEC C
		c.C = 0x10
		runInstruction(t, c)
		if c.C != 0x0F || c.ZF() || !c.NF() || !c.HF() || c.CF() {
			t.Errorf("expected C=0F -NH-, got C=%02X %s", c.C, c.flagString())
		}
	})
	t.Run("INC (HL)", func(t *testing.T) {
		c, bus := newTestCPU(0x34)
		c.SetHL(0xC000)
		bus.mem[0xC000] = 0x41
		runInstruction(t, c)
		if bus.mem[0xC000] != 0x42 {
			t.Errorf("expected (HL) to be 0x42, got 0x%02X", bus.mem[0xC000])
		}
	})
	t.Run("16-bit", func(t *testing.T) {
		c, _ := newTestCPU(0x03, 0x1B, 0x33) // INC BC; DEC DE; INC SP
		c.SetBC(0xFFFF)
		c.SetDE(0x0000)
		c.F = 0xF0
		runInstruction(t, c)
		runInstruction(t, c)
		runInstruction(t, c)
		if c.BC() != 0x0000 || c.DE() != 0xFFFF || c.SP != 0xFFFF {
			t.Errorf("unexpected result\n%s", spew.Sdump(c.Registers))
		}
		if c.F != 0xF0 {
			t.Errorf("expected flags to be untouched, got 0x%02X", c.F)
		}
	})
}

func TestInstruction_ALU(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint8
		a, n   uint8
		carry  bool
		result uint8
		flags  string
	}{
		{"ADD", 0xC6, 0x3A, 0xC6, false, 0x00, "Z-HC"},
		{"ADD half carry", 0xC6, 0x0F, 0x01, false, 0x10, "--H-"},
		{"ADC", 0xCE, 0xE1, 0x1E, true, 0x00, "Z-HC"},
		{"ADC no carry in", 0xCE, 0x01, 0x01, false, 0x02, "----"},
		{"SUB", 0xD6, 0x3E, 0x3E, false, 0x00, "ZN--"},
		{"SUB borrow", 0xD6, 0x3E, 0x40, false, 0xFE, "-N-C"},
		{"SBC", 0xDE, 0x3B, 0x2A, true, 0x10, "-N--"},
		{"SBC half borrow", 0xDE, 0x3B, 0x4F, true, 0xEB, "-NHC"},
		{"AND", 0xE6, 0x5A, 0x38, false, 0x18, "--H-"},
		{"XOR", 0xEE, 0xFF, 0xFF, true, 0x00, "Z---"},
		{"OR", 0xF6, 0x5A, 0x03, true, 0x5B, "----"},
		{"CP equal", 0xFE, 0x3C, 0x3C, false, 0x3C, "ZN--"},
		{"CP less", 0xFE, 0x3C, 0x40, false, 0x3C, "-N-C"},
		{"CP half", 0xFE, 0x3C, 0x2F, false, 0x3C, "-NH-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCPU(tt.opcode, tt.n)
			c.A = tt.a
			c.SetCF(tt.carry)
			runInstruction(t, c)
			if c.A != tt.result {
				t.Errorf("expected A=0x%02X, got 0x%02X", tt.result, c.A)
			}
			if c.flagString() != tt.flags {
				t.Errorf("expected flags %s, got %s", tt.flags, c.flagString())
			}
		})
	}
}

func TestInstruction_ALURegisters(t *testing.T) {
	c, bus := newTestCPU(0x80, 0x86, 0x97) // ADD A, B; ADD A, (HL); SUB A
	c.A, c.B = 0x01, 0x02
	c.SetHL(0xC000)
	bus.mem[0xC000] = 0x04
	runInstruction(t, c)
	runInstruction(t, c)
	if c.A != 0x07 {
		t.Errorf("expected A=0x07, got 0x%02X", c.A)
	}
	runInstruction(t, c)
	if c.A != 0x00 || !c.ZF() || !c.NF() {
		t.Errorf("expected SUB A to clear A, got A=%02X %s", c.A, c.flagString())
	}
}

func TestInstruction_DecimalAdjust(t *testing.T) {
	tests := []struct {
		name    string
		program []uint8
		a, n    uint8
		result  uint8
		carry   bool
	}{
		{"add", []uint8{0xC6, 0, 0x27}, 0x45, 0x38, 0x83, false},
		{"add carry", []uint8{0xC6, 0, 0x27}, 0x99, 0x01, 0x00, true},
		{"sub", []uint8{0xD6, 0, 0x27}, 0x83, 0x38, 0x45, false},
		{"sub borrow", []uint8{0xD6, 0, 0x27}, 0x10, 0x20, 0x90, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.program[1] = tt.n
			c, _ := newTestCPU(tt.program...)
			c.A = tt.a
			runInstruction(t, c)
			runInstruction(t, c)
			if c.A != tt.result || c.CF() != tt.carry {
				t.Errorf("expected A=%02X C=%v, got A=%02X C=%v", tt.result, tt.carry, c.A, c.CF())
			}
			if c.HF() {
				t.Errorf("expected half carry to be reset")
			}
		})
	}
}

func TestInstruction_Add16(t *testing.T) {
	t.Run("ADD HL, DE", func(t *testing.T) {
		c, _ := newTestCPU(0x19)
		c.SetHL(0x8A23)
		c.SetDE(0x0605)
		c.SetZF(true)
		runInstruction(t, c)
		if c.HL() != 0x9028 || c.flagString() != "Z-H-" {
			t.Errorf("expected HL=9028 Z-H-, got HL=%04X %s", c.HL(), c.flagString())
		}
	})
	t.Run("ADD HL, HL", func(t *testing.T) {
		c, _ := newTestCPU(0x29)
		c.SetHL(0x8A23)
		runInstruction(t, c)
		if c.HL() != 0x1446 || c.flagString() != "--HC" {
			t.Errorf("expected HL=1446 --HC, got HL=%04X %s", c.HL(), c.flagString())
		}
	})
	t.Run("ADD SP, e", func(t *testing.T) {
		c, _ := newTestCPU(0xE8, 0xFE) // ADD SP, -2
		c.SP = 0xFFF8
		c.SetZF(true)
		runInstruction(t, c)
		if c.SP != 0xFFF6 || c.flagString() != "--HC" {
			t.Errorf("expected SP=FFF6 --HC, got SP=%04X %s", c.SP, c.flagString())
		}
	})
	t.Run("LD HL, SP+e", func(t *testing.T) {
		c, _ := newTestCPU(0xF8, 0x02)
		c.SP = 0xFFF8
		runInstruction(t, c)
		if c.HL() != 0xFFFA || c.SP != 0xFFF8 || c.flagString() != "----" {
			t.Errorf("expected HL=FFFA ----, got HL=%04X %s", c.HL(), c.flagString())
		}
	})
}
