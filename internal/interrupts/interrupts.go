package interrupts

import (
	"fmt"

	"github.com/thelolagemann/sm83/internal/types"
)

const (
	// VBlankFlag is the VBlank interrupt flag (bit 0),
	// which is requested every time the video controller
	// enters VBlank mode.
	VBlankFlag = types.Bit0
	// LCDFlag is the LCD interrupt flag (bit 1), which
	// is requested by the LCD STAT register (types.STAT),
	// when certain conditions are met.
	LCDFlag = types.Bit1
	// TimerFlag is the Timer interrupt flag (bit 2),
	// which is requested when the timer overflows.
	TimerFlag = types.Bit2
	// SerialFlag is the Serial interrupt flag (bit 3),
	// which is requested when a serial transfer is
	// completed.
	SerialFlag = types.Bit3
	// JoypadFlag is the Joypad interrupt Flag (bit 4),
	// which is requested when a selected button line
	// goes from high to low.
	JoypadFlag = types.Bit4
)

// InvalidRegisterAddress is returned when the interrupt
// controller is addressed outside of types.IF and types.IE.
type InvalidRegisterAddress struct {
	Address uint16
}

// Error implements the error interface.
func (e InvalidRegisterAddress) Error() string {
	return fmt.Sprintf("0x%04X is not an interrupt register", e.Address)
}

// Service is the interrupt service, used to request
// interrupts and to get the current interrupt vector.
//
// When an interrupt is requested, the corresponding bit
// in the Flag register is set. When an interrupt is
// enabled, the corresponding bit in the Enable register
// is set. When an interrupt is requested and enabled,
// and the IME is set, the CPU will jump to the interrupt
// vector, and the corresponding bit in the Flag register
// will be cleared.
//
// The IME is set by the EI and RETI instructions, and
// cleared by DI and by interrupt dispatch.
type Service struct {
	IME    bool  // interrupt master enable
	Flag   uint8 // interrupt Flag (types.IF)
	Enable uint8 // interrupt Enable (types.IE)
}

// NewService returns a new Service with every interrupt
// disabled and nothing pending.
func NewService() *Service {
	return &Service{}
}

// Request requests the specified interrupt, by setting
// the corresponding bit in the Flag register.
func (s *Service) Request(flag uint8) {
	s.Flag |= flag
}

// HighestPending returns the interrupts that are both
// requested and enabled. The lowest set bit has the
// highest priority.
func (s *Service) HighestPending() uint8 {
	return s.Flag & s.Enable & types.InterruptMask
}

// HasInterrupts returns true if there are any interrupts
// that are requested and enabled, regardless of the IME.
func (s *Service) HasInterrupts() bool {
	return s.HighestPending() != 0
}

// Actionable returns true if the CPU should dispatch an
// interrupt at its next opportunity.
func (s *Service) Actionable() bool {
	return s.IME && s.HasInterrupts()
}

// Vector acknowledges the highest priority interrupt that is
// requested and enabled, clearing its bit in the Flag register
// and the IME, and returns its vector. If nothing is pending,
// which happens when IE is overwritten during dispatch, the
// IME is still cleared and 0x0000 is returned.
func (s *Service) Vector() uint16 {
	s.IME = false
	pending := s.HighestPending()
	for i := uint8(0); i < 5; i++ {
		flag := uint8(1 << i)
		if pending&flag != 0 {
			s.Flag &^= flag
			return uint16(0x0040 + uint16(i)*8)
		}
	}

	return 0
}

// Read returns the value of the register at the given address.
func (s *Service) Read(address uint16) (uint8, error) {
	switch address {
	case types.IF:
		return s.Flag, nil
	case types.IE:
		return s.Enable, nil
	}
	return 0, InvalidRegisterAddress{Address: address}
}

// Write sets the register at the given address.
func (s *Service) Write(address uint16, value uint8) error {
	switch address {
	case types.IF:
		s.Flag = value
	case types.IE:
		s.Enable = value
	default:
		return InvalidRegisterAddress{Address: address}
	}
	return nil
}

var _ types.Stater = (*Service)(nil)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - IME (bool)
//   - Flag (uint8)
//   - Enable (uint8)
func (s *Service) Load(st *types.State) {
	s.IME = st.ReadBool()
	s.Flag = st.Read8()
	s.Enable = st.Read8()
}

// Save implements the types.Stater interface.
//
// The values are saved in the following order:
//   - IME (bool)
//   - Flag (uint8)
//   - Enable (uint8)
func (s *Service) Save(st *types.State) {
	st.WriteBool(s.IME)
	st.Write8(s.Flag)
	st.Write8(s.Enable)
}
