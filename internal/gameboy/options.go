package gameboy

import "github.com/thelolagemann/sm83/pkg/log"

// Opt is a function that modifies a GameBoy
// instance.
type Opt func(gb *GameBoy)

// WithBootROM sets the boot ROM for the emulator. The CPU starts
// at 0x0000 in the boot ROM, with every register cleared.
func WithBootROM(rom []byte) Opt {
	return func(gb *GameBoy) {
		gb.bootROM = rom
	}
}

// NoBios skips the boot ROM, even if one is set, starting the CPU
// at 0x0100 with the registers the boot ROM would have left.
func NoBios() Opt {
	return func(gb *GameBoy) {
		gb.noBoot = true
	}
}

func WithLogger(log log.Logger) Opt {
	return func(gb *GameBoy) {
		gb.Logger = log
	}
}

// WithTrace logs every instruction executed at debug level.
func WithTrace() Opt {
	return func(gb *GameBoy) {
		gb.trace = true
	}
}

// Speed sets the speed multiplier Run paces frames to. A speed of
// 0 runs as fast as possible.
func Speed(speed float64) Opt {
	return func(gb *GameBoy) {
		gb.speed = speed
	}
}

// WithState restores a state returned by GameBoy.SaveState once
// the Game Boy has been created.
func WithState(b []byte) Opt {
	return func(gb *GameBoy) {
		gb.state = b
	}
}
