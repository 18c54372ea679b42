package cpu

import (
	"github.com/thelolagemann/sm83/internal/interrupts"
	"github.com/thelolagemann/sm83/internal/types"
	"github.com/thelolagemann/sm83/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the CPU in T-cycles.
	ClockSpeed = 4194304
	// MCycleRate is the number of M-cycles per second, each
	// M-cycle being four T-cycles.
	MCycleRate = ClockSpeed / 4
)

// Bus is the address space the CPU reads and writes. Every call is
// one memory access, the CPU never performs more than one per
// M-cycle.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// execution is the state of the instruction currently in flight.
// It survives between calls to Step and has no meaning once the
// instruction completes.
type execution struct {
	opcode    uint8
	pc        uint16 // address opcode was fetched from
	cb        bool   // opcode comes from the 0xCB table
	interrupt bool   // an interrupt was latched at fetch
	inFlight  bool
	instr     *Instruction

	step  uint8 // micro-op progress
	val8  uint8
	val16 uint16

	opStep uint8 // operand progress
	lo     uint8
	addr   uint16

	busy         bool // the bus has been used this cycle
	fetchPending bool
	halted       bool
	enableIME    bool // EI waiting for the next fetch

	err error
}

// CPU is the SM83 CPU. Each call to Step advances it by exactly one
// M-cycle.
type CPU struct {
	// Registers contains the 8-bit registers, the 16-bit register
	// pairs, SP and PC.
	Registers

	IRQ *interrupts.Service

	bus    Bus
	exec   execution
	cycles uint64

	log   log.Logger
	trace bool
}

// Opt configures a CPU.
type Opt func(c *CPU)

// WithLogger sets the logger used by the CPU.
func WithLogger(l log.Logger) Opt {
	return func(c *CPU) {
		c.log = l
	}
}

// WithTrace logs every instruction as it is decoded, at debug level.
func WithTrace() Opt {
	return func(c *CPU) {
		c.trace = true
	}
}

// WithPostBoot starts the CPU in the state the boot ROM leaves
// it in, at 0x0100.
func WithPostBoot() Opt {
	return func(c *CPU) {
		c.Registers.postBoot()
	}
}

// New creates a new CPU on the given bus. The first call to
// Step fetches the opcode at PC.
func New(bus Bus, irq *interrupts.Service, opts ...Opt) *CPU {
	c := &CPU{
		IRQ: irq,
		bus: bus,
		log: log.NewNullLogger(),
	}
	c.exec.fetchPending = true
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Cycles returns the number of M-cycles the CPU has been stepped.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Idle returns true when no instruction is in flight, which is
// directly after an opcode has been fetched.
func (c *CPU) Idle() bool {
	return !c.exec.inFlight
}

// Halted returns true while the CPU is waiting for an interrupt.
func (c *CPU) Halted() bool {
	return c.exec.halted
}

// Err returns the fatal error that stopped the CPU, if any.
func (c *CPU) Err() error {
	return c.exec.err
}

// Fetch reads the opcode at PC, priming the next instruction or
// interrupt dispatch. PC is left on the opcode when an interrupt
// is latched, so that it is the address pushed by dispatch.
func (c *CPU) Fetch() {
	c.exec.pc = c.PC
	c.exec.opcode = c.readBus(c.PC)
	c.exec.interrupt = c.IRQ.Actionable()
	if !c.exec.interrupt {
		c.PC++
	}
	if c.exec.enableIME {
		c.IRQ.IME = true
		c.exec.enableIME = false
	}
	c.exec.cb = false
	c.exec.inFlight = false
	c.exec.instr = nil
	c.exec.step = 0
	c.exec.opStep = 0
	c.exec.fetchPending = false
}

// Step advances the CPU by one M-cycle. The returned error is fatal,
// once returned every further call returns it again.
func (c *CPU) Step() error {
	if c.exec.err != nil {
		return c.exec.err
	}
	c.cycles++
	c.exec.busy = false

	switch {
	case c.exec.fetchPending:
		c.Fetch()
	case c.exec.halted:
		if c.IRQ.HasInterrupts() {
			// wake up, fetching the opcode after HALT again so that a
			// latched interrupt returns to it
			c.exec.halted = false
			c.PC--
			c.Fetch()
		}
	case c.exec.interrupt:
		c.serviceInterrupt()
	default:
		if err := c.execute(); err != nil {
			c.exec.err = err
			c.log.Errorf("cpu: %s", err)
			return err
		}
	}
	return nil
}

// execute decodes the fetched opcode, if it hasn't been already,
// and advances its micro-op.
func (c *CPU) execute() error {
	c.exec.inFlight = true
	if c.exec.instr == nil {
		if c.exec.opcode == 0xCB && !c.exec.cb {
			opcode, ok := c.readImm()
			if !ok {
				return nil
			}
			c.exec.opcode = opcode
			c.exec.cb = true
		}

		instr := &InstructionSet[c.exec.opcode]
		if c.exec.cb {
			instr = &InstructionSetCB[c.exec.opcode]
		}
		if instr.fn == nil {
			return c.unimplemented()
		}
		c.exec.instr = instr
		if c.trace {
			c.log.Debugf("%04X  %-14s %s", c.exec.pc, instr.name, c.Registers.String())
		}
	}

	return c.exec.instr.fn(c)
}

// complete finishes the current instruction, fetching the next
// opcode in this cycle if the bus is still free, otherwise in the
// next.
func (c *CPU) complete() {
	if c.exec.busy {
		c.exec.fetchPending = true
		return
	}
	c.Fetch()
}

// internal claims the current cycle for work that doesn't touch the
// bus. It returns false if the cycle has already been used.
func (c *CPU) internal() bool {
	if c.exec.busy {
		return false
	}
	c.exec.busy = true
	return true
}

func (c *CPU) readBus(address uint16) uint8 {
	c.exec.busy = true
	return c.bus.Read(address)
}

func (c *CPU) writeBus(address uint16, value uint8) {
	c.exec.busy = true
	c.bus.Write(address, value)
}

// push16 pushes v onto the stack over three cycles, an internal
// delay followed by the high and low byte. It returns true once
// the low byte has been written.
func (c *CPU) push16(v uint16) bool {
	switch c.exec.opStep {
	case 0:
		if !c.internal() {
			return false
		}
		c.exec.opStep = 1
	case 1:
		if c.exec.busy {
			return false
		}
		c.SP--
		c.writeBus(c.SP, uint8(v>>8))
		c.exec.opStep = 2
	case 2:
		if c.exec.busy {
			return false
		}
		c.SP--
		c.writeBus(c.SP, uint8(v))
		c.exec.opStep = 0
		return true
	}
	return false
}

// pop16 pops a word off the stack over two cycles, low byte first.
func (c *CPU) pop16() (uint16, bool) {
	if c.exec.busy {
		return 0, false
	}
	v := c.readBus(c.SP)
	c.SP++
	if c.exec.opStep == 0 {
		c.exec.lo = v
		c.exec.opStep = 1
		return 0, false
	}
	c.exec.opStep = 0
	return uint16(v)<<8 | uint16(c.exec.lo), true
}

// serviceInterrupt runs the interrupt dispatch latched at fetch.
// PC is pushed over three cycles, then the highest priority
// interrupt is acknowledged and its vector fetched from in the
// fourth. If IE was cleared in the meantime the vector is 0x0000.
func (c *CPU) serviceInterrupt() {
	c.exec.inFlight = true
	switch c.exec.step {
	case 0:
		if c.push16(c.PC) {
			c.exec.step = 1
		}
	case 1:
		vector := c.IRQ.Vector()
		if c.trace {
			c.log.Debugf("%04X  interrupt -> %04X", c.PC, vector)
		}
		c.PC = vector
		c.complete()
	}
}

// unimplemented builds the error for the opcode in flight.
func (c *CPU) unimplemented() error {
	return UnimplementedOpcode{
		Opcode:   c.exec.opcode,
		Extended: c.exec.cb,
		PC:       c.exec.pc,
	}
}

var _ types.Stater = (*CPU)(nil)

// Load implements the types.Stater interface. The interrupt
// service is loaded by its owner.
func (c *CPU) Load(s *types.State) {
	c.Registers.Load(s)
	c.cycles = s.Read64()
	c.exec = execution{
		opcode:       s.Read8(),
		pc:           s.Read16(),
		cb:           s.ReadBool(),
		interrupt:    s.ReadBool(),
		inFlight:     s.ReadBool(),
		step:         s.Read8(),
		val8:         s.Read8(),
		val16:        s.Read16(),
		opStep:       s.Read8(),
		lo:           s.Read8(),
		addr:         s.Read16(),
		fetchPending: s.ReadBool(),
		halted:       s.ReadBool(),
		enableIME:    s.ReadBool(),
	}
	if decoded := s.ReadBool(); decoded {
		c.exec.instr = &InstructionSet[c.exec.opcode]
		if c.exec.cb {
			c.exec.instr = &InstructionSetCB[c.exec.opcode]
		}
	}
}

// Save implements the types.Stater interface.
func (c *CPU) Save(s *types.State) {
	c.Registers.Save(s)
	s.Write64(c.cycles)
	s.Write8(c.exec.opcode)
	s.Write16(c.exec.pc)
	s.WriteBool(c.exec.cb)
	s.WriteBool(c.exec.interrupt)
	s.WriteBool(c.exec.inFlight)
	s.Write8(c.exec.step)
	s.Write8(c.exec.val8)
	s.Write16(c.exec.val16)
	s.Write8(c.exec.opStep)
	s.Write8(c.exec.lo)
	s.Write16(c.exec.addr)
	s.WriteBool(c.exec.fetchPending)
	s.WriteBool(c.exec.halted)
	s.WriteBool(c.exec.enableIME)
	s.WriteBool(c.exec.instr != nil)
}

// Fetched returns the opcode that was last fetched and the address
// it was fetched from. Once an instruction has completed this is
// the next instruction to run, PC already points past it.
func (c *CPU) Fetched() (opcode uint8, pc uint16) {
	return c.exec.opcode, c.exec.pc
}
