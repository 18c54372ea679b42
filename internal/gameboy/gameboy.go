// Package gameboy provides an emulation of a Nintendo Game Boy, built
// around the cycle stepped CPU. Each step advances every component by
// one M-cycle.
package gameboy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/thelolagemann/sm83/internal/boot"
	"github.com/thelolagemann/sm83/internal/cartridge"
	"github.com/thelolagemann/sm83/internal/cpu"
	"github.com/thelolagemann/sm83/internal/interrupts"
	"github.com/thelolagemann/sm83/internal/mmu"
	"github.com/thelolagemann/sm83/internal/ppu"
	"github.com/thelolagemann/sm83/internal/types"
	"github.com/thelolagemann/sm83/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the Game Boy.
	ClockSpeed = cpu.ClockSpeed // 4.194304 MHz
	// CyclesPerFrame is the number of M-cycles per frame.
	CyclesPerFrame = ppu.FrameCycles // 17556
	// FrameTime is the time it takes for a frame to be drawn.
	FrameTime = time.Second * CyclesPerFrame / cpu.MCycleRate
)

// ErrInvalidState is returned when a save state doesn't belong to
// the running cartridge.
var ErrInvalidState = errors.New("gameboy: invalid save state")

// stateMagic starts every save state.
const stateMagic = "SM83"

// GameBoy represents a Game Boy. It contains all the components of the Game Boy.
// It is the main entry point for the emulator.
type GameBoy struct {
	CPU        *cpu.CPU
	MMU        *mmu.MMU
	PPU        *ppu.PPU
	Interrupts *interrupts.Service

	log.Logger

	bootROM []byte
	noBoot  bool
	trace   bool
	speed   float64
	state   []byte
}

// NewGameBoy returns a new GameBoy running the given ROM.
func NewGameBoy(rom []byte, opts ...Opt) (*GameBoy, error) {
	g := &GameBoy{
		Logger: log.NewNullLogger(),
		speed:  1,
	}
	for _, opt := range opts {
		opt(g)
	}

	cart, err := cartridge.New(rom)
	if err != nil {
		return nil, err
	}
	header := cart.Header()
	g.Infof("cartridge: %s", header.String())
	if !header.ValidChecksum {
		g.Infof("cartridge: header checksum 0x%02X does not match", header.HeaderChecksum)
	}

	g.Interrupts = interrupts.NewService()
	g.PPU = ppu.New(g.Interrupts)
	g.MMU = mmu.NewMMU(cart, g.PPU, g.Interrupts, g.Logger)

	cpuOpts := []cpu.Opt{cpu.WithLogger(g.Logger)}
	if g.trace {
		cpuOpts = append(cpuOpts, cpu.WithTrace())
	}
	if g.bootROM != nil && !g.noBoot {
		b, err := boot.Load(g.bootROM)
		if err != nil {
			return nil, err
		}
		g.MMU.SetBootROM(b)
		g.Infof("boot: %s (%s)", b.Model(), b.Checksum())
	} else {
		// leave the machine as the boot rom would have
		cpuOpts = append(cpuOpts, cpu.WithPostBoot())
		g.PPU.Write(types.LCDC, 0x91)
		g.PPU.Write(types.BGP, 0xFC)
	}
	g.CPU = cpu.New(g.MMU, g.Interrupts, cpuOpts...)

	if g.state != nil {
		if err := g.LoadState(g.state); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Step advances the Game Boy by one M-cycle, the CPU first and then
// the PPU. The returned error is fatal.
func (g *GameBoy) Step() error {
	if err := g.CPU.Step(); err != nil {
		return err
	}
	g.PPU.Tick()
	return g.MMU.Err()
}

// RunFrame steps the emulation until the PPU has finished drawing
// the current frame. With the LCD off it returns after a frame's
// worth of cycles instead.
func (g *GameBoy) RunFrame() error {
	return g.runFrame(0)
}

// runFrame is RunFrame, stopping early once the CPU has been
// stepped limit cycles if limit is non zero.
func (g *GameBoy) runFrame(limit uint64) error {
	g.PPU.ClearFrame()
	for i := 0; i < CyclesPerFrame; i++ {
		if limit != 0 && g.CPU.Cycles() >= limit {
			return nil
		}
		if err := g.Step(); err != nil {
			return err
		}
		if g.PPU.HasFrame() {
			return nil
		}
	}
	return nil
}

// Run runs the emulation a frame at a time until maxCycles M-cycles
// have been stepped, a fatal error occurs or ctx is done. A
// maxCycles of 0 runs forever. Frames are paced to FrameTime divided
// by the speed, unless the speed is 0.
func (g *GameBoy) Run(ctx context.Context, maxCycles uint64) error {
	var tick <-chan time.Time
	if g.speed > 0 {
		t := time.NewTicker(time.Duration(float64(FrameTime) / g.speed))
		defer t.Stop()
		tick = t.C
	}

	start := time.Now()
	for maxCycles == 0 || g.CPU.Cycles() < maxCycles {
		if err := g.runFrame(maxCycles); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}
	}
	g.Debugf("gameboy: ran %d cycles in %s", g.CPU.Cycles(), time.Since(start))

	return nil
}

// SaveState returns the brotli compressed state of the Game Boy.
func (g *GameBoy) SaveState() ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	if _, err := w.Write(g.rawState()); err != nil {
		return nil, fmt.Errorf("gameboy: compressing state: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gameboy: compressing state: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadState restores a state returned by SaveState.
func (g *GameBoy) LoadState(b []byte) error {
	raw, err := io.ReadAll(brotli.NewReader(bytes.NewReader(b)))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidState, err)
	}

	// the state of a machine is always the same size, a mismatch
	// means another cartridge or a corrupt state
	if !bytes.HasPrefix(raw, []byte(stateMagic)) || len(raw) != len(g.rawState()) {
		return ErrInvalidState
	}

	s := types.StateFromBytes(raw[len(stateMagic):])
	g.Load(s)
	return nil
}

func (g *GameBoy) rawState() []byte {
	s := types.NewState()
	s.WriteData([]byte(stateMagic))
	g.Save(s)
	return s.Bytes()
}

var _ types.Stater = (*GameBoy)(nil)

// Load implements the types.Stater interface.
func (g *GameBoy) Load(s *types.State) {
	g.CPU.Load(s)
	g.Interrupts.Load(s)
	g.MMU.Load(s)
}

// Save implements the types.Stater interface.
func (g *GameBoy) Save(s *types.State) {
	g.CPU.Save(s)
	g.Interrupts.Save(s)
	g.MMU.Save(s)
}
