package chip8

import (
	"fmt"
	"strings"
)

// Variant selects the CHIP-8 dialect that a Machine emulates.
type Variant int

// Supported variants.
const (
	CHIP8 Variant = iota
	SCHIPLegacy
	SCHIPModern
	XOCHIP
)

// Memory layout constants shared by all variants.
const (
	// FontAddress is where the small 4x5 font is stored.
	FontAddress = 0x050
	// BigFontAddress is where the 8x10 SUPER-CHIP font is stored.
	BigFontAddress = FontAddress + len(smallFont)
	// ProgramStart is where ROMs are loaded and execution begins.
	ProgramStart = 0x200
)

const (
	loresWidth  = 64
	loresHeight = 32
	hiresWidth  = 128
	hiresHeight = 64

	stackDepth = 16
)

var variantNames = map[Variant]string{
	CHIP8:       "chip8",
	SCHIPLegacy: "schip-legacy",
	SCHIPModern: "schip-modern",
	XOCHIP:      "xochip",
}

var variantAliases = map[string]Variant{
	"chip8":        CHIP8,
	"chip-8":       CHIP8,
	"schip-legacy": SCHIPLegacy,
	"schip1.1":     SCHIPLegacy,
	"superchip":    SCHIPLegacy,
	"schip":        SCHIPModern,
	"schip-modern": SCHIPModern,
	"xochip":       XOCHIP,
	"xo-chip":      XOCHIP,
}

// String returns the canonical name of the variant.
func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// ParseVariant returns the variant for the given name. Names are case
// insensitive, underscores and hyphens are interchangeable and common aliases
// like "xo-chip" or "schip1.1" are accepted.
func ParseVariant(name string) (Variant, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	v, ok := variantAliases[key]
	if !ok {
		return CHIP8, fmt.Errorf("unsupported variant '%s'", name)
	}
	return v, nil
}

// MemorySize returns the addressable memory size in bytes.
func (v Variant) MemorySize() int {
	if v == XOCHIP {
		return 0x10000
	}
	return 0x1000
}

// MaxROMSize returns the largest ROM that fits into program space.
func (v Variant) MaxROMSize() int {
	return v.MemorySize() - ProgramStart
}

// SupportsHires returns whether the variant has the 128x64 display mode.
func (v Variant) SupportsHires() bool {
	return v != CHIP8
}

// planes returns the number of display bitplanes.
func (v Variant) planes() int {
	if v == XOCHIP {
		return 4
	}
	return 1
}
