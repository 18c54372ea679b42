package types

// Address represents a memory address which can be read from or
// written to. It is used to abstract away the component behind
// an address, so that the bus can dispatch through a lookup table.
type Address struct {
	// Read is a function that is called when the CPU reads from
	// the address.
	Read func(address uint16) uint8
	// Write is a function that is called when the CPU writes to
	// the address.
	Write func(address uint16, value uint8)
}

// HardwareAddress represents the address of a hardware
// register. The hardware registers are mapped to memory
// addresses 0xFF00 - 0xFF7F & 0xFFFF.
type HardwareAddress = uint16

const (
	// IF is the address of the IF hardware register. The IF
	// hardware register holds the pending interrupt requests.
	// Writing a 1 to a bit in IF requests an interrupt, and
	// writing a 0 clears the request.
	//
	//  Bit 0: V-Blank Interrupt Request (INT 40h)  (1=Request)
	//  Bit 1: LCD STAT Interrupt Request (INT 48h) (1=Request)
	//  Bit 2: Timer Interrupt Request (INT 50h)    (1=Request)
	//  Bit 3: Serial Interrupt Request (INT 58h)   (1=Request)
	//  Bit 4: Joypad Interrupt Request (INT 60h)   (1=Request)
	IF HardwareAddress = 0xFF0F
	// LCDC is the address of the LCDC hardware register. The LCDC
	// hardware register controls the video controller, bit 7
	// switches the display on and off.
	LCDC HardwareAddress = 0xFF40
	// STAT is the address of the STAT hardware register. The STAT
	// hardware register holds the current video mode, the LY=LYC
	// coincidence flag and the interrupt source selection.
	STAT HardwareAddress = 0xFF41
	// SCY is the address of the SCY hardware register, the
	// vertical scroll of the background.
	SCY HardwareAddress = 0xFF42
	// SCX is the address of the SCX hardware register, the
	// horizontal scroll of the background.
	SCX HardwareAddress = 0xFF43
	// LY is the address of the LY hardware register. LY holds
	// the line currently being drawn, 0 - 153. Read only.
	LY HardwareAddress = 0xFF44
	// LYC is the address of the LYC hardware register. When LY
	// equals LYC the coincidence flag in STAT is set.
	LYC HardwareAddress = 0xFF45
	// DMA is the address of the DMA hardware register. OAM DMA
	// transfers are not emulated.
	DMA HardwareAddress = 0xFF46
	// BGP is the address of the background palette register.
	BGP HardwareAddress = 0xFF47
	// OBP0 is the address of the first object palette register.
	OBP0 HardwareAddress = 0xFF48
	// OBP1 is the address of the second object palette register.
	OBP1 HardwareAddress = 0xFF49
	// WY is the address of the window Y position register.
	WY HardwareAddress = 0xFF4A
	// WX is the address of the window X position register.
	WX HardwareAddress = 0xFF4B
	// BDIS is the address of the BDIS hardware register. Writing
	// any value to BDIS unmaps the boot ROM for good.
	BDIS HardwareAddress = 0xFF50
	// IE is the address of the IE hardware register. The IE
	// hardware register selects which interrupt sources may
	// reach the CPU. It uses the same bit layout as IF.
	IE HardwareAddress = 0xFFFF
)

// Memory regions, as inclusive start and end addresses.
const (
	BootStart uint16 = 0x0000
	BootEnd   uint16 = 0x00FF
	ROMStart  uint16 = 0x0000
	ROMEnd    uint16 = 0x7FFF
	VRAMStart uint16 = 0x8000
	VRAMEnd   uint16 = 0x9FFF
	ERAMStart uint16 = 0xA000
	ERAMEnd   uint16 = 0xBFFF
	OAMStart  uint16 = 0xFE00
	OAMEnd    uint16 = 0xFE9F
	HRAMStart uint16 = 0xFF80
	HRAMEnd   uint16 = 0xFFFE
)
