// Package boot provides the boot ROM overlay. The boot ROM is optional,
// without it the CPU starts in the state the boot ROM would have left
// it in.
package boot

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
)

// Size is the size of a boot ROM for the DMG family.
const Size = 0x100

// ErrInvalidLength is returned when a boot ROM is not Size bytes long.
var ErrInvalidLength = errors.New("boot: invalid boot rom length")

// ROM represents a boot ROM. When the Game Boy first powers on, the
// boot ROM is mapped over memory addresses 0x0000 - 0x00FF.
//
// Once the boot ROM has completed its tasks, it is unmapped from memory
// by writing to the types.BDIS register, uncovering the cartridge and
// preventing the boot ROM from being executed again.
type ROM struct {
	raw      [Size]byte // the raw boot rom
	checksum string     // the MD5 checksum of the boot rom
}

// Load returns a ROM holding b, which must be exactly Size bytes.
func Load(b []byte) (*ROM, error) {
	if len(b) != Size {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, len(b))
	}

	sum := md5.Sum(b)
	r := &ROM{checksum: hex.EncodeToString(sum[:])}
	copy(r.raw[:], b)
	return r, nil
}

// Read returns the byte at the given address, which must be
// below Size.
func (b *ROM) Read(addr uint16) byte {
	return b.raw[addr&(Size-1)]
}

// Checksum returns the MD5 checksum of the boot rom.
func (b *ROM) Checksum() string {
	if b == nil {
		return ""
	}
	return b.checksum
}

// Model returns the model of the boot rom. The model
// is determined by the checksum of the boot rom.
func (b *ROM) Model() string {
	if b == nil {
		return "none"
	}
	if model, ok := knownBootROMChecksums[b.checksum]; ok {
		return model
	}
	return "unknown"
}

// knownBootROMChecksums is a map of known boot rom checksums,
// with the key being the checksum, and the value being the
// model of the boot rom.
var knownBootROMChecksums = map[string]string{
	DMG0: "Game Boy (DMG-0)",
	DMG:  "Game Boy (DMG-01)",
	MGB:  "Game Boy Pocket",
	SGB:  "Super Game Boy",
	SGB2: "Super Game Boy 2",
}

const (
	// DMG0 is the checksum of the DMG early boot ROM, only
	// ever sold in Japan. On a boot failure it flashes the
	// screen rather than hanging after the logo.
	DMG0 = "a8f84a0ac44da5d3f0ee19f9cea80a8c"
	// DMG is the checksum of the DMG boot rom found in most
	// DMG-01 units.
	DMG = "32fbbd84168d3482956eb3c5051637f5"
	// MGB is the checksum of the MGB boot ROM. It differs by a
	// single byte, loading 0xFF into A rather than 0x01.
	MGB = "71a378e71ff30b2d8a1f02bf5c7896aa"
	// SGB is the checksum of the SGB boot ROM, which hands the
	// cartridge header to the SNES instead of animating a logo.
	SGB = "d574d4f9c12f305074798f54c091a8b4"
	// SGB2 is the checksum of the SGB2 boot ROM, which loads
	// 0xFF into A like the MGB.
	SGB2 = "e0430bca9925fb9882148fd2dc2418c1"
)
