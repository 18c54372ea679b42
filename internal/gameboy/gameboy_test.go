package gameboy

import (
	"context"
	"errors"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelolagemann/sm83/internal/boot"
	"github.com/thelolagemann/sm83/internal/cartridge"
	"github.com/thelolagemann/sm83/internal/cpu"
	"github.com/thelolagemann/sm83/internal/types"
)

// counter increments A and stores it in HRAM forever.
var counter = []byte{
	0x3C,       // INC A
	0xE0, 0x80, // LDH (0x80),A
	0x18, 0xFB, // JR -5
}

// newROM returns a 32kB ROM of the given type with program at 0x0100.
func newROM(t cartridge.Type, ramSize uint8, program ...byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x0100:], program)
	copy(rom[0x0134:], "GAMEBOY TEST")
	rom[0x0147] = byte(t)
	rom[0x0149] = ramSize
	return rom
}

func TestNewGameBoy_Errors(t *testing.T) {
	_, err := NewGameBoy(make([]byte, 0x100))
	assert.True(t, errors.Is(err, cartridge.ErrTooSmall))

	_, err = NewGameBoy(newROM(cartridge.ROM, 0), WithBootROM(make([]byte, 0x10)))
	assert.True(t, errors.Is(err, boot.ErrInvalidLength))

	_, err = NewGameBoy(newROM(cartridge.ROM, 0), WithState([]byte{0x01, 0x02}))
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestGameBoy_PostBoot(t *testing.T) {
	gb, err := NewGameBoy(newROM(cartridge.ROM, 0, counter...), WithBootROM(make([]byte, boot.Size)), NoBios())
	require.NoError(t, err)

	assert.Equal(t, uint16(0x0100), gb.CPU.PC)
	assert.Equal(t, uint16(0x01B0), gb.CPU.AF())
	assert.Equal(t, uint16(0xFFFE), gb.CPU.SP)
	assert.False(t, gb.MMU.BootROMActive())
	assert.Equal(t, uint8(0x91), gb.MMU.Read(types.LCDC))
	assert.Equal(t, "GAMEBOY TEST", gb.MMU.Cart.Title())
}

func TestGameBoy_BootROM(t *testing.T) {
	raw := make([]byte, boot.Size)
	copy(raw, []byte{
		0x3E, 0x01, // LD A,1
		0xE0, 0x50, // LDH (0x50),A
	})
	gb, err := NewGameBoy(newROM(cartridge.ROM, 0, counter...), WithBootROM(raw), Speed(0))
	require.NoError(t, err)
	assert.True(t, gb.MMU.BootROMActive())
	assert.Equal(t, uint16(0x0000), gb.CPU.PC)

	// slides through the cartridge NOPs into the counter
	for i := 0; i < 400; i++ {
		require.NoError(t, gb.Step())
	}
	assert.False(t, gb.MMU.BootROMActive())
	assert.Greater(t, gb.MMU.Read(0xFF80), uint8(1))
}

func TestGameBoy_RunFrame(t *testing.T) {
	gb, err := NewGameBoy(newROM(cartridge.ROM, 0, counter...))
	require.NoError(t, err)

	require.NoError(t, gb.RunFrame())
	assert.Equal(t, uint64(1), gb.PPU.Frame())
	assert.Equal(t, uint64(CyclesPerFrame), gb.CPU.Cycles())

	require.NoError(t, gb.RunFrame())
	assert.Equal(t, uint64(2), gb.PPU.Frame())
	assert.Equal(t, uint64(2*CyclesPerFrame), gb.CPU.Cycles())
}

func TestGameBoy_Run(t *testing.T) {
	gb, err := NewGameBoy(newROM(cartridge.ROM, 0, counter...), Speed(0))
	require.NoError(t, err)

	require.NoError(t, gb.Run(context.Background(), 3*CyclesPerFrame+5))
	assert.Equal(t, uint64(3*CyclesPerFrame+5), gb.CPU.Cycles())
	assert.Equal(t, uint64(3), gb.PPU.Frame())
}

func TestGameBoy_RunCancelled(t *testing.T) {
	gb, err := NewGameBoy(newROM(cartridge.ROM, 0, counter...))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = gb.Run(ctx, 0)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, uint64(CyclesPerFrame), gb.CPU.Cycles())
}

func TestGameBoy_UnimplementedOpcode(t *testing.T) {
	gb, err := NewGameBoy(newROM(cartridge.ROM, 0, 0x00, 0xD3), Speed(0))
	require.NoError(t, err)

	err = gb.Run(context.Background(), 0)
	var unimplemented cpu.UnimplementedOpcode
	require.True(t, errors.As(err, &unimplemented), "got %v", err)
	assert.Equal(t, uint8(0xD3), unimplemented.Opcode)
	assert.Equal(t, uint16(0x0101), unimplemented.PC)

	// the error sticks
	assert.Equal(t, err, gb.Step())
}

func TestGameBoy_State(t *testing.T) {
	rom := newROM(cartridge.ROM, 0, counter...)
	gb, err := NewGameBoy(rom)
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		require.NoError(t, gb.Step())
	}

	state, err := gb.SaveState()
	require.NoError(t, err)

	for i := 0; i < 5000; i++ {
		require.NoError(t, gb.Step())
	}

	restored, err := NewGameBoy(rom, WithState(state))
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), restored.CPU.Cycles())
	for i := 0; i < 5000; i++ {
		require.NoError(t, restored.Step())
	}

	if diff := deep.Equal(gb.CPU.Registers, restored.CPU.Registers); diff != nil {
		t.Error(diff)
	}
	assert.Equal(t, gb.CPU.Cycles(), restored.CPU.Cycles())
	assert.Equal(t, gb.MMU.Read(0xFF80), restored.MMU.Read(0xFF80))
	assert.Equal(t, gb.PPU.LY(), restored.PPU.LY())
	assert.Equal(t, gb.PPU.Digest(), restored.PPU.Digest())

	// a state only fits machines with the same cartridge type
	other, err := NewGameBoy(newROM(cartridge.MBC1RAM, 2))
	require.NoError(t, err)
	assert.True(t, errors.Is(other.LoadState(state), ErrInvalidState))
}
