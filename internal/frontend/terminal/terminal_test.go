package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/session"
	"github.com/retroenv/retrogolib/assert"
)

type fakeTerminal struct {
	in  bytes.Buffer
	out bytes.Buffer
}

func (t *fakeTerminal) Read(p []byte) (int, error) {
	return t.in.Read(p)
}

func (t *fakeTerminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

func TestPollKeyHold(t *testing.T) {
	tty := &fakeTerminal{}
	f := newFrontend(tty)

	tty.in.WriteString("w")
	input, err := f.Poll()
	assert.NoError(t, err)
	assert.Len(t, input.Keys, 1)
	assert.Equal(t, session.KeyEvent{Key: 0x5, Pressed: true}, input.Keys[0])

	// key repeat keeps the key held without a new press
	tty.in.WriteString("w")
	input, err = f.Poll()
	assert.NoError(t, err)
	assert.Empty(t, input.Keys)

	for range keyHoldFrames - 1 {
		input, err = f.Poll()
		assert.NoError(t, err)
		assert.Empty(t, input.Keys)
	}

	input, err = f.Poll()
	assert.NoError(t, err)
	assert.Len(t, input.Keys, 1)
	assert.Equal(t, session.KeyEvent{Key: 0x5, Pressed: false}, input.Keys[0])
}

func TestPollQuit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		quit  bool
	}{
		{"escape", "\x1b", true},
		{"ctrl c", "\x03", true},
		{"arrow key", "\x1b[A", false},
		{"unmapped", "p", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tty := &fakeTerminal{}
			f := newFrontend(tty)
			tty.in.WriteString(tt.input)

			input, err := f.Poll()
			assert.NoError(t, err)
			assert.Equal(t, tt.quit, input.Quit)
			assert.Empty(t, input.Keys)
		})
	}
}

func TestRender(t *testing.T) {
	tty := &fakeTerminal{}
	f := newFrontend(tty)

	pixels := make([]byte, 64*32)
	pixels[0] = 1
	frame := session.Frame{Variant: chip8.CHIP8, Pixels: pixels, Width: 64, Height: 32, Sound: true}
	assert.NoError(t, f.Render(frame))

	out := tty.out.String()
	assert.True(t, strings.HasPrefix(out, "\x1b[H"))
	assert.Equal(t, 16*64, strings.Count(out, upperHalfBlock))
	assert.Contains(t, out, "\x1b[38;5;252m\x1b[48;5;234m")
	assert.Contains(t, out, "chip8 64x32")
	assert.Equal(t, 1, strings.Count(out, "\a"))

	// the bell rings only when the buzzer starts
	tty.out.Reset()
	assert.NoError(t, f.Render(frame))
	assert.Equal(t, 0, strings.Count(tty.out.String(), "\a"))
}

func TestClose(t *testing.T) {
	tty := &fakeTerminal{}
	f := newFrontend(tty)

	assert.NoError(t, f.Close())
	assert.Contains(t, tty.out.String(), "\x1b[?25h")
}
