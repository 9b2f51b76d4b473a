// Package options contains the program options.
package options

import (
	"github.com/retroenv/retrochip8/internal/chip8"
)

// Front-end names.
const (
	FrontendWindow   = "window"
	FrontendTerminal = "terminal"
	FrontendHeadless = "headless"
)

// Frontends lists all supported front-end names.
var Frontends = []string{FrontendWindow, FrontendTerminal, FrontendHeadless}

// DefaultHeadlessFrames is the frame limit of headless runs if none is given.
const DefaultHeadlessFrames = 600

// Parameters contains file path options.
type Parameters struct {
	Input string `arg:"positional" usage:"ROM file to run"`
	Batch string `flag:"batch" usage:"smoke run all ROMs matching pattern headless (e.g. roms/*.ch8)"`
	Wav   string `flag:"wav" usage:"record the buzzer to a WAV file"`
}

// Flags contains behavior options.
type Flags struct {
	System               string `flag:"s" usage:"variant: chip8, schip-legacy, schip-modern, xochip (default: auto-detect)"`
	Frontend             string `flag:"f" usage:"front-end: window, terminal, headless" default:"terminal"`
	InstructionsPerFrame int    `flag:"ipf" usage:"instructions per frame (default: variant specific)"`
	Frames               int    `flag:"frames" usage:"stop after this many frames"`
	Freeze               bool   `flag:"freeze" usage:"keep showing the last frame after a fault"`
	Debug                bool   `flag:"debug" usage:"enable debug logging"`
	Quiet                bool   `flag:"q" usage:"quiet mode"`
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Flags
}

// Session defines options to control the frame loop of a machine.
type Session struct {
	InstructionsPerFrame int  // upper limit of instructions executed per 60Hz frame
	Frames               int  // stop after this many frames, 0 runs until the front-end quits
	Freeze               bool // keep presenting the frozen frame after a fault
	Throttle             bool // pace frames at 60Hz
}

// NewSession returns the session options for a program run on the given variant.
func NewSession(opts Program, variant chip8.Variant) Session {
	s := Session{
		InstructionsPerFrame: opts.InstructionsPerFrame,
		Frames:               opts.Frames,
		Freeze:               opts.Freeze,
		Throttle:             opts.Frontend != FrontendHeadless,
	}
	if s.InstructionsPerFrame <= 0 {
		s.InstructionsPerFrame = DefaultInstructionsPerFrame(variant)
	}
	if s.Frames <= 0 && opts.Frontend == FrontendHeadless {
		s.Frames = DefaultHeadlessFrames
	}
	if s.Freeze && opts.Frontend == FrontendHeadless {
		s.Freeze = false
	}
	return s
}

// DefaultInstructionsPerFrame returns the typical speed of the variant.
func DefaultInstructionsPerFrame(variant chip8.Variant) int {
	switch variant {
	case chip8.SCHIPLegacy, chip8.SCHIPModern:
		return 30
	case chip8.XOCHIP:
		return 1000
	default:
		return 11
	}
}
