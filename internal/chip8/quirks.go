package chip8

// JumpMode selects the register that BNNN adds to its target address.
type JumpMode int

const (
	// JumpV0 is BNNN: jump to NNN + V0.
	JumpV0 JumpMode = iota
	// JumpVX is BXNN: jump to XNN + VX.
	JumpVX
)

// Quirks contains the behavioral switches that differ between the variants.
// A Quirks value is resolved once per Machine and never changes afterwards.
type Quirks struct {
	// LogicResetsVF clears VF after 8XY1, 8XY2 and 8XY3.
	LogicResetsVF bool
	// LoadStoreIncrementsIndex advances I by X+1 after FX55 and FX65.
	LoadStoreIncrementsIndex bool
	// ShiftUsesVY makes 8XY6 and 8XYE shift VY into VX instead of shifting VX in place.
	ShiftUsesVY bool
	// Jump selects the offset register of BNNN.
	Jump JumpMode
	// DisplayWait makes the host end the current frame after an instruction
	// that drew a sprite. The machine itself never stalls.
	DisplayWait bool
	// ClipSprites clips sprite pixels at the screen edges instead of wrapping them.
	ClipSprites bool
	// ResolutionSwitchClears clears the display on 00FE and 00FF.
	ResolutionSwitchClears bool
	// LoresHalfScroll scrolls by half lo-res pixels while in lo-res mode.
	LoresHalfScroll bool
	// LoresBigSprite8x16 draws DXY0 in lo-res mode as an 8x16 sprite instead of 16x16.
	LoresBigSprite8x16 bool
	// CollisionCountsRows sets VF in hi-res mode to the number of sprite rows
	// that collided or were clipped at the bottom edge.
	CollisionCountsRows bool
	// FlagRegisters is the number of persistent user flags for FX75 and FX85.
	FlagRegisters int
}

var quirksTable = map[Variant]Quirks{
	CHIP8: {
		LogicResetsVF:            true,
		LoadStoreIncrementsIndex: true,
		ShiftUsesVY:              true,
		Jump:                     JumpV0,
		DisplayWait:              true,
		ClipSprites:              true,
	},
	SCHIPLegacy: {
		Jump:                JumpVX,
		DisplayWait:         true,
		ClipSprites:         true,
		LoresHalfScroll:     true,
		LoresBigSprite8x16:  true,
		CollisionCountsRows: true,
		FlagRegisters:       8,
	},
	SCHIPModern: {
		Jump:                   JumpVX,
		ClipSprites:            true,
		ResolutionSwitchClears: true,
		FlagRegisters:          8,
	},
	XOCHIP: {
		LoadStoreIncrementsIndex: true,
		ShiftUsesVY:              true,
		Jump:                     JumpV0,
		ResolutionSwitchClears:   true,
		FlagRegisters:            16,
	},
}

// QuirksFor returns the quirks table of the given variant.
func QuirksFor(v Variant) Quirks {
	return quirksTable[v]
}
