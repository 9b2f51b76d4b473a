package session

import (
	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrochip8/internal/chip8"
)

// KeyEvent is a change of a keypad key.
type KeyEvent struct {
	Key     int
	Pressed bool
}

// Input is the user input collected by a front-end since the last poll.
type Input struct {
	Keys []KeyEvent
	Quit bool
}

// Frame is a display snapshot handed to a front-end.
type Frame struct {
	Variant chip8.Variant
	Pixels  []byte // one byte per pixel, bit n is set if plane n is lit
	Width   int
	Height  int
	Sound   bool // buzzer is active
}

// Frontend presents frames and collects user input.
type Frontend interface {
	// Poll returns the input since the last call. It must not block.
	Poll() (Input, error)
	// Render presents a frame.
	Render(frame Frame) error
	// Close releases the device of the front-end.
	Close() error
}

// AudioSink receives the buzzer tone once per frame.
type AudioSink interface {
	Frame(tone audio.Tone) error
}
