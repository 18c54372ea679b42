package cpu

import "testing"

func TestInstruction_Jumps(t *testing.T) {
	tests := []struct {
		name    string
		program []uint8
		flags   uint8
		next    uint16
	}{
		{"JR e forward", []uint8{0x18, 0x03}, 0x00, 0x0105},
		{"JR e backward", []uint8{0x18, 0xFE}, 0x00, 0x0100},
		{"JR NZ, e taken", []uint8{0x20, 0x10}, 0x00, 0x0112},
		{"JR NZ, e not taken", []uint8{0x20, 0x10}, 0x80, 0x0102},
		{"JR Z, e taken", []uint8{0x28, 0x10}, 0x80, 0x0112},
		{"JR NC, e not taken", []uint8{0x30, 0x10}, 0x10, 0x0102},
		{"JR C, e taken", []uint8{0x38, 0x80}, 0x10, 0x0082},
		{"JP nn", []uint8{0xC3, 0x50, 0x01}, 0x00, 0x0150},
		{"JP NZ, nn not taken", []uint8{0xC2, 0x50, 0x01}, 0x80, 0x0103},
		{"JP C, nn taken", []uint8{0xDA, 0x50, 0x01}, 0x10, 0x0150},
		{"RST 08H", []uint8{0xCF}, 0x00, 0x0008},
		{"RST 38H", []uint8{0xFF}, 0x00, 0x0038},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCPU(tt.program...)
			c.F = tt.flags
			runInstruction(t, c)
			if _, pc := c.Fetched(); pc != tt.next {
				t.Errorf("expected next instruction at 0x%04X, got 0x%04X", tt.next, pc)
			}
		})
	}
}

func TestInstruction_JumpHL(t *testing.T) {
	c, _ := newTestCPU(0xE9)
	c.SetHL(0x4000)
	runInstruction(t, c)
	if _, pc := c.Fetched(); pc != 0x4000 {
		t.Errorf("expected to jump to 0x4000, got 0x%04X", pc)
	}
}

func TestInstruction_Calls(t *testing.T) {
	t.Run("CALL Z, nn not taken", func(t *testing.T) {
		c, _ := newTestCPU(0xCC, 0x00, 0x02)
		runInstruction(t, c)
		if _, pc := c.Fetched(); pc != 0x0103 || c.SP != 0xFFFE {
			t.Errorf("expected to continue at 0x0103 with SP=FFFE, got 0x%04X SP=%04X", pc, c.SP)
		}
	})
	t.Run("CALL C, nn taken", func(t *testing.T) {
		c, bus := newTestCPU(0xDC, 0x00, 0x02)
		c.SetCF(true)
		runInstruction(t, c)
		if _, pc := c.Fetched(); pc != 0x0200 || c.SP != 0xFFFC {
			t.Errorf("expected to call 0x0200 with SP=FFFC, got 0x%04X SP=%04X", pc, c.SP)
		}
		if bus.mem[0xFFFD] != 0x01 || bus.mem[0xFFFC] != 0x03 {
			t.Errorf("expected return address 0x0103, got 0x%02X%02X", bus.mem[0xFFFD], bus.mem[0xFFFC])
		}
	})
	t.Run("RET NC", func(t *testing.T) {
		for _, carry := range []bool{false, true} {
			c, bus := newTestCPU(0xD0)
			c.SP = 0xC000
			bus.mem[0xC000], bus.mem[0xC001] = 0x00, 0x30
			c.SetCF(carry)
			runInstruction(t, c)

			_, pc := c.Fetched()
			if carry && (pc != 0x0101 || c.SP != 0xC000) {
				t.Errorf("expected RET NC not to return with carry set, got 0x%04X SP=%04X", pc, c.SP)
			}
			if !carry && (pc != 0x3000 || c.SP != 0xC002) {
				t.Errorf("expected RET NC to return to 0x3000, got 0x%04X SP=%04X", pc, c.SP)
			}
		}
	})
}
