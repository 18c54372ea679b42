package cpu

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
	"github.com/thelolagemann/sm83/internal/interrupts"
	"github.com/thelolagemann/sm83/internal/types"
)

// testBus is a flat 64 KiB address space that counts its accesses.
type testBus struct {
	mem      [0x10000]uint8
	accesses int
}

func (b *testBus) Read(address uint16) uint8 {
	b.accesses++
	return b.mem[address]
}

func (b *testBus) Write(address uint16, value uint8) {
	b.accesses++
	b.mem[address] = value
}

// newTestCPU creates a CPU with program loaded at 0x0100 and the
// first opcode already fetched.
func newTestCPU(program ...uint8) (*CPU, *testBus) {
	bus := &testBus{}
	copy(bus.mem[0x0100:], program)
	c := New(bus, interrupts.NewService())
	c.PC = 0x0100
	c.SP = 0xFFFE
	c.Fetch()
	return c, bus
}

// runInstruction steps c until the instruction in flight completes
// and returns the number of M-cycles it took.
func runInstruction(t *testing.T, c *CPU) int {
	t.Helper()
	for cycles := 1; cycles <= 16; cycles++ {
		if err := c.Step(); err != nil {
			t.Fatalf("unexpected error: %v\n%s", err, spew.Sdump(c.Registers))
		}
		if c.Idle() {
			return cycles
		}
	}
	t.Fatalf("instruction did not complete\n%s", spew.Sdump(c.exec))
	return 0
}

func TestCPU_CallReturn(t *testing.T) {
	bus := &testBus{}
	copy(bus.mem[0x0150:], []uint8{0xCD, 0x00, 0x02}) // CALL 0x0200
	bus.mem[0x0200] = 0xC9                             // RET
	c := New(bus, interrupts.NewService())
	c.PC = 0x0150
	c.SP = 0xFFFE
	c.Fetch()

	runInstruction(t, c)
	if _, pc := c.Fetched(); pc != 0x0200 {
		t.Fatalf("expected to be at 0x0200 after CALL, got 0x%04X", pc)
	}
	if c.SP != 0xFFFC {
		t.Errorf("expected SP to be 0xFFFC, got 0x%04X", c.SP)
	}
	if bus.mem[0xFFFD] != 0x01 || bus.mem[0xFFFC] != 0x53 {
		t.Errorf("expected return address 0x0153 on the stack, got 0x%02X%02X", bus.mem[0xFFFD], bus.mem[0xFFFC])
	}

	runInstruction(t, c)
	if _, pc := c.Fetched(); pc != 0x0153 {
		t.Errorf("expected to return to 0x0153, got 0x%04X", pc)
	}
	if c.PC != 0x0154 {
		t.Errorf("expected PC to be past the fetched opcode at 0x0154, got 0x%04X", c.PC)
	}
	if c.SP != 0xFFFE {
		t.Errorf("expected SP to be restored to 0xFFFE, got 0x%04X", c.SP)
	}
}

func TestCPU_LoadCompare(t *testing.T) {
	c, _ := newTestCPU(0x3E, 0x05, 0xFE, 0x05) // LD A, 0x05; CP 0x05
	runInstruction(t, c)
	runInstruction(t, c)

	if c.A != 0x05 {
		t.Errorf("expected A to be 0x05, got 0x%02X", c.A)
	}
	if !c.ZF() || !c.NF() || c.CF() {
		t.Errorf("expected Z=1 N=1 C=0, got %s", c.flagString())
	}
}

func TestCPU_Interrupt(t *testing.T) {
	c, bus := newTestCPU(0x00)
	c.IRQ.IME = true
	c.IRQ.Enable = interrupts.VBlankFlag
	c.IRQ.Request(interrupts.VBlankFlag)
	c.PC = 0x0100
	c.Fetch() // fetch again now the interrupt is actionable

	if c.PC != 0x0100 {
		t.Fatalf("expected PC to stay on the interrupted opcode, got 0x%04X", c.PC)
	}
	if cycles := runInstruction(t, c); cycles != 4 {
		t.Errorf("expected dispatch to take 4 cycles, took %d", cycles)
	}
	if _, pc := c.Fetched(); pc != 0x0040 {
		t.Errorf("expected to fetch from 0x0040, got 0x%04X", pc)
	}
	if c.IRQ.IME {
		t.Errorf("expected IME to be cleared")
	}
	if c.IRQ.Flag != 0 {
		t.Errorf("expected no pending interrupts, got 0x%02X", c.IRQ.Flag)
	}
	if c.SP != 0xFFFC || bus.mem[0xFFFD] != 0x01 || bus.mem[0xFFFC] != 0x00 {
		t.Errorf("expected 0x0100 pushed at 0xFFFC, got SP 0x%04X stack 0x%02X%02X", c.SP, bus.mem[0xFFFD], bus.mem[0xFFFC])
	}
}

func TestCPU_InterruptCancelled(t *testing.T) {
	c, _ := newTestCPU(0x00)
	c.IRQ.IME = true
	c.IRQ.Enable = interrupts.TimerFlag
	c.IRQ.Request(interrupts.TimerFlag)
	c.PC = 0x0100
	c.Fetch()

	// IE is cleared while PC is being pushed
	if err := c.Step(); err != nil {
		t.Fatal(err)
	}
	c.IRQ.Enable = 0
	runInstruction(t, c)

	if _, pc := c.Fetched(); pc != 0x0000 {
		t.Errorf("expected dispatch to 0x0000, got 0x%04X", pc)
	}
	if c.IRQ.Flag != interrupts.TimerFlag {
		t.Errorf("expected timer to remain pending, got 0x%02X", c.IRQ.Flag)
	}
}

func TestCPU_EnableInterruptsDelay(t *testing.T) {
	c, bus := newTestCPU(0xFB, 0x00, 0x00) // EI; NOP; NOP
	c.IRQ.Enable = interrupts.VBlankFlag
	c.IRQ.Request(interrupts.VBlankFlag)

	runInstruction(t, c) // EI
	if !c.IRQ.IME {
		t.Fatalf("expected IME to be set once EI has completed")
	}
	if c.exec.interrupt {
		t.Fatalf("expected the instruction after EI to run before the interrupt")
	}

	runInstruction(t, c) // NOP, interrupt latched on completion
	if !c.exec.interrupt {
		t.Fatalf("expected the interrupt to be latched after the NOP")
	}
	runInstruction(t, c)
	if _, pc := c.Fetched(); pc != 0x0040 {
		t.Errorf("expected to dispatch to 0x0040, got 0x%04X", pc)
	}
	if ret := uint16(bus.mem[c.SP+1])<<8 | uint16(bus.mem[c.SP]); ret != 0x0102 {
		t.Errorf("expected return address 0x0102, got 0x%04X", ret)
	}
}

func TestCPU_DisableInterrupts(t *testing.T) {
	c, _ := newTestCPU(0xFB, 0xF3, 0x00) // EI; DI; NOP
	c.IRQ.Enable = interrupts.VBlankFlag
	c.IRQ.Request(interrupts.VBlankFlag)

	runInstruction(t, c)
	runInstruction(t, c) // DI executes before the interrupt can be latched
	runInstruction(t, c)

	if c.IRQ.IME {
		t.Errorf("expected IME to be cleared by DI")
	}
	if _, pc := c.Fetched(); pc != 0x0103 {
		t.Errorf("expected to continue at 0x0103, got 0x%04X", pc)
	}
}

func TestCPU_ReturnFromInterrupt(t *testing.T) {
	c, bus := newTestCPU(0xD9) // RETI
	c.SP = 0xFFFC
	bus.mem[0xFFFC], bus.mem[0xFFFD] = 0x34, 0x12

	if cycles := runInstruction(t, c); cycles != 4 {
		t.Errorf("expected RETI to take 4 cycles, took %d", cycles)
	}
	if !c.IRQ.IME {
		t.Errorf("expected IME to be set by RETI")
	}
	if _, pc := c.Fetched(); pc != 0x1234 {
		t.Errorf("expected to return to 0x1234, got 0x%04X", pc)
	}
}

func TestCPU_Halt(t *testing.T) {
	for _, ime := range []bool{false, true} {
		t.Run(map[bool]string{false: "IME clear", true: "IME set"}[ime], func(t *testing.T) {
			c, bus := newTestCPU(0x76, 0x00) // HALT; NOP
			c.IRQ.IME = ime
			c.IRQ.Enable = interrupts.JoypadFlag

			runInstruction(t, c)
			for i := 0; i < 8; i++ {
				if err := c.Step(); err != nil {
					t.Fatal(err)
				}
				if !c.Halted() {
					t.Fatalf("expected CPU to stay halted without an interrupt")
				}
			}

			c.IRQ.Request(interrupts.JoypadFlag)
			if err := c.Step(); err != nil {
				t.Fatal(err)
			}
			if c.Halted() {
				t.Fatalf("expected CPU to wake up")
			}
			if _, pc := c.Fetched(); pc != 0x0101 {
				t.Errorf("expected to resume at 0x0101, got 0x%04X", pc)
			}

			if !ime {
				if c.exec.interrupt {
					t.Errorf("expected no dispatch while IME is clear")
				}
				return
			}
			runInstruction(t, c)
			if _, pc := c.Fetched(); pc != 0x0060 {
				t.Errorf("expected to dispatch to 0x0060, got 0x%04X", pc)
			}
			if ret := uint16(bus.mem[c.SP+1])<<8 | uint16(bus.mem[c.SP]); ret != 0x0101 {
				t.Errorf("expected return address 0x0101, got 0x%04X", ret)
			}
		})
	}
}

func TestCPU_UnimplementedOpcode(t *testing.T) {
	for _, opcode := range []uint8{0x10, 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		c, _ := newTestCPU(opcode)
		err := c.Step()

		var unimplemented UnimplementedOpcode
		if !errors.As(err, &unimplemented) {
			t.Fatalf("0x%02X: expected UnimplementedOpcode, got %v", opcode, err)
		}
		if unimplemented.Opcode != opcode || unimplemented.Extended || unimplemented.PC != 0x0100 {
			t.Errorf("0x%02X: unexpected error contents %+v", opcode, unimplemented)
		}
		if err := c.Step(); !errors.Is(err, unimplemented) {
			t.Errorf("0x%02X: expected the error to be sticky, got %v", opcode, err)
		}
		if c.Err() == nil {
			t.Errorf("0x%02X: expected Err to report the failure", opcode)
		}
	}
}

func TestCPU_Coverage(t *testing.T) {
	illegal := map[uint8]bool{0x10: true, 0xCB: true, 0xD3: true, 0xDB: true, 0xDD: true,
		0xE3: true, 0xE4: true, 0xEB: true, 0xEC: true, 0xED: true, 0xF4: true, 0xFC: true, 0xFD: true}
	for i := 0; i < 256; i++ {
		if InstructionSet[i].fn == nil && !illegal[uint8(i)] {
			t.Errorf("0x%02X has no instruction", i)
		}
		if InstructionSetCB[i].fn == nil {
			t.Errorf("0xCB 0x%02X has no instruction", i)
		}
	}
}

// TestCPU_OneAccessPerCycle runs a program touching every kind of
// operand and checks that no cycle makes more than one bus access.
func TestCPU_OneAccessPerCycle(t *testing.T) {
	c, bus := newTestCPU(
		0x21, 0x00, 0xC0, // LD HL, 0xC000
		0x36, 0x42, // LD (HL), 0x42
		0x34,             // INC (HL)
		0xCB, 0x16, // RL (HL)
		0xEA, 0x10, 0xC0, // LD (0xC010), A
		0xFA, 0x10, 0xC0, // LD A, (0xC010)
		0x08, 0x20, 0xC0, // LD (0xC020), SP
		0xE0, 0x80, // LDH (0x80), A
		0xCD, 0x20, 0x01, // CALL 0x0120
	)
	copy(bus.mem[0x0120:], []uint8{0xC5, 0xC1, 0xE8, 0x02, 0xE8, 0xFE, 0xC9}) // PUSH BC; POP BC; ADD SP, 2; ADD SP, -2; RET

	for i := 0; i < 64; i++ {
		bus.accesses = 0
		if err := c.Step(); err != nil {
			t.Fatal(err)
		}
		if bus.accesses > 1 {
			t.Fatalf("cycle %d made %d bus accesses\n%s", i, bus.accesses, spew.Sdump(c.exec))
		}
	}
	if bus.mem[0xC000] != 0x86 {
		t.Errorf("expected (HL) to be 0x86, got 0x%02X", bus.mem[0xC000])
	}
	if bus.mem[0xC020] != 0xFE || bus.mem[0xC021] != 0xFF {
		t.Errorf("expected SP stored little endian at 0xC020, got %02X %02X", bus.mem[0xC020], bus.mem[0xC021])
	}
}

// TestCPU_Instances interleaves two CPUs cycle by cycle and expects
// the same result as running each on its own.
func TestCPU_Instances(t *testing.T) {
	program := []uint8{0xFA, 0x00, 0xC0, 0xCD, 0x10, 0x01, 0x00, 0x00}
	alone, aloneBus := newTestCPU(program...)
	aloneBus.mem[0xC000] = 0x99
	for i := 0; i < 12; i++ {
		if err := alone.Step(); err != nil {
			t.Fatal(err)
		}
	}

	a, busA := newTestCPU(program...)
	b, busB := newTestCPU(0x06, 0x10, 0x05, 0x20, 0xFD)
	busA.mem[0xC000] = 0x99
	for i := 0; i < 12; i++ {
		if err := a.Step(); err != nil {
			t.Fatal(err)
		}
		if err := b.Step(); err != nil {
			t.Fatal(err)
		}
	}

	if diff := deep.Equal(alone.Registers, a.Registers); diff != nil {
		t.Errorf("interleaved CPU diverged: %v", diff)
	}
	if busB.mem[0xC000] != 0 {
		t.Errorf("second CPU wrote to the first CPU's bus")
	}
}

func TestCPU_State(t *testing.T) {
	program := []uint8{0xCD, 0x00, 0x02}
	c, bus := newTestCPU(program...)
	bus.mem[0x0200] = 0x3C // INC A

	// stop in the middle of the CALL
	for i := 0; i < 3; i++ {
		if err := c.Step(); err != nil {
			t.Fatal(err)
		}
	}
	s := types.NewState()
	c.Save(s)

	restoredBus := &testBus{mem: bus.mem}
	restored := New(restoredBus, interrupts.NewService())
	restored.Load(types.StateFromBytes(s.Bytes()))

	for i := 0; i < 5; i++ {
		if err := c.Step(); err != nil {
			t.Fatal(err)
		}
		if err := restored.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if diff := deep.Equal(c.Registers, restored.Registers); diff != nil {
		t.Errorf("restored CPU diverged: %v", diff)
	}
	if restored.A != 1 {
		t.Errorf("expected INC A to have run, A is 0x%02X", restored.A)
	}
}
