// Package palette maps the 2 bit colour numbers of the DMG to shades.
package palette

// Palette is the value of a DMG palette register (BGP, OBP0 or
// OBP1). Each pair of bits selects the shade of one colour number:
//
//	Bit 7-6 - Shade for Colour Number 3
//	Bit 5-4 - Shade for Colour Number 2
//	Bit 3-2 - Shade for Colour Number 1
//	Bit 1-0 - Shade for Colour Number 0
type Palette uint8

// Shade returns the shade (0-3) of the given colour number.
func (p Palette) Shade(colour uint8) uint8 {
	return uint8(p>>((colour&3)*2)) & 0x03
}

// Greyscale is the intensity of each shade, from white to black.
var Greyscale = [4]uint8{0xFF, 0xAA, 0x55, 0x00}

// Grey returns the greyscale intensity of the given colour number.
func (p Palette) Grey(colour uint8) uint8 {
	return Greyscale[p.Shade(colour)]
}
