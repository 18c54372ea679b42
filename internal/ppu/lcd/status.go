package lcd

import "github.com/thelolagemann/sm83/pkg/bits"

// Status represents the LCD status register. It contains information about the
// current state of the LCD controller. Its value is stored in the status register
// (0xFF41) as follows:
//
//	Bit 6 - LYC=LY Coincidence Interrupt (1=Enable) (Read/Write)
//	Bit 5 - Mode 2 OAM Interrupt         (1=Enable) (Read/Write)
//	Bit 4 - Mode 1 V-Blank Interrupt     (1=Enable) (Read/Write)
//	Bit 3 - Mode 0 H-Blank Interrupt     (1=Enable) (Read/Write)
//	Bit 2 - Coincidence Flag  (0:LYC<>LY, 1:LYC=LY) (Read Only)
//	Bit 1-0 - Mode Flag       (Mode 0-3, see below) (Read Only)
//		0: During H-Blank
//		1: During V-Blank
//		2: During Searching OAM-RAM
//		3: During Transferring Data to LCD Driver
type Status struct {
	CoincidenceInterrupt bool
	OAMInterrupt         bool
	VBlankInterrupt      bool
	HBlankInterrupt      bool
	// Coincidence is set while LY equals LYC.
	Coincidence bool
	// Mode is the current mode of the LCD controller.
	Mode Mode
}

// Write writes the interrupt selection bits, the coincidence flag
// and mode are read only.
func (s *Status) Write(value uint8) {
	s.CoincidenceInterrupt = bits.Test(value, 6)
	s.OAMInterrupt = bits.Test(value, 5)
	s.VBlankInterrupt = bits.Test(value, 4)
	s.HBlankInterrupt = bits.Test(value, 3)
}

// Read returns the value of the status register.
func (s *Status) Read() uint8 {
	var value uint8
	if s.CoincidenceInterrupt {
		value |= 1 << 6
	}
	if s.OAMInterrupt {
		value |= 1 << 5
	}
	if s.VBlankInterrupt {
		value |= 1 << 4
	}
	if s.HBlankInterrupt {
		value |= 1 << 3
	}
	if s.Coincidence {
		value |= 1 << 2
	}
	value |= s.Mode & 0x03
	return value | 0b10000000 // bit 7 is always set
}

// ModeInterrupt returns true if entering mode should raise the
// STAT interrupt.
func (s *Status) ModeInterrupt(mode Mode) bool {
	switch mode {
	case HBlank:
		return s.HBlankInterrupt
	case VBlank:
		return s.VBlankInterrupt
	case OAM:
		return s.OAMInterrupt
	}
	return false
}
