package lcd

// Mode represents a mode of the LCD, as reported in the low 2 bits
// of the status register.
type Mode = uint8

const (
	// HBlank is the horizontal blanking mode. The CPU can access both the display RAM and OAM.
	HBlank Mode = iota
	// VBlank is the vertical blanking mode. The CPU can access both the display RAM and OAM.
	VBlank
	// OAM is the OAM scan mode. The CPU can access the display RAM but not OAM.
	OAM
	// VRAM is the drawing mode. The CPU can access neither the display RAM nor OAM.
	VRAM
)

// Durations of each mode in M-cycles. A visible line takes
// OAMCycles + VRAMCycles + HBlankCycles, the same as each of the
// 10 VBlank lines.
const (
	OAMCycles    = 20
	VRAMCycles   = 43
	HBlankCycles = 51
	LineCycles   = OAMCycles + VRAMCycles + HBlankCycles
)
