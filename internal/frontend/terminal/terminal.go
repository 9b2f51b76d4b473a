// Package terminal implements a front-end that renders to a terminal in raw
// mode. Two pixel rows share one text row using half block characters.
package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pkg/term"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/keymap"
	"github.com/retroenv/retrochip8/internal/session"
)

// DefaultDevice is the terminal device opened by New.
const DefaultDevice = "/dev/tty"

const (
	ctrlC = 0x03
	esc   = 0x1b

	// terminals only report key presses, a key counts as held for this many
	// frames after its last repeat
	keyHoldFrames = 6

	upperHalfBlock = "▀"
)

// palette maps the combined plane bits of a pixel to 256 color terminal colors.
var palette = [16]int{
	234, 252, 208, 130, 39, 45, 81, 117,
	196, 202, 214, 226, 46, 82, 118, 231,
}

// Frontend renders frames to a terminal and reads keys from it.
type Frontend struct {
	rw      io.ReadWriter
	restore func() error

	buf   []byte
	held  [chip8.KeyCount]int
	sound bool
	out   bytes.Buffer
}

// New opens the terminal device in raw mode with non-blocking reads.
func New(device string) (*Frontend, error) {
	t, err := term.Open(device, term.RawMode, term.ReadTimeout(0))
	if err != nil {
		return nil, fmt.Errorf("opening terminal %s: %w", device, err)
	}

	f := newFrontend(t)
	f.restore = func() error {
		return errors.Join(t.Restore(), t.Close())
	}

	// clear screen and hide the cursor
	if _, err := io.WriteString(t, "\x1b[2J\x1b[?25l"); err != nil {
		_ = f.restore()
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	return f, nil
}

func newFrontend(rw io.ReadWriter) *Frontend {
	return &Frontend{
		rw:  rw,
		buf: make([]byte, 64),
	}
}

// Poll reads the pending key presses. A key is released when it was not
// repeated for a few frames. Escape or Ctrl+C quit.
func (f *Frontend) Poll() (session.Input, error) {
	var input session.Input

	n, err := f.rw.Read(f.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return input, fmt.Errorf("reading terminal: %w", err)
	}

	var pressed [chip8.KeyCount]bool
	data := f.buf[:n]
scan:
	for i, b := range data {
		switch b {
		case ctrlC:
			input.Quit = true
		case esc:
			// a lone escape quits, escape sequences like arrow keys are ignored
			if i == len(data)-1 {
				input.Quit = true
			}
			break scan
		default:
			if key, ok := keymap.Lookup(rune(b)); ok {
				pressed[key] = true
			}
		}
	}

	for key := range f.held {
		switch {
		case pressed[key]:
			if f.held[key] == 0 {
				input.Keys = append(input.Keys, session.KeyEvent{Key: key, Pressed: true})
			}
			f.held[key] = keyHoldFrames

		case f.held[key] > 0:
			f.held[key]--
			if f.held[key] == 0 {
				input.Keys = append(input.Keys, session.KeyEvent{Key: key, Pressed: false})
			}
		}
	}
	return input, nil
}

// Render draws the frame at the top left corner of the terminal. The bell
// rings when the buzzer starts.
func (f *Frontend) Render(frame session.Frame) error {
	f.out.Reset()
	f.out.WriteString("\x1b[H")

	for y := 0; y < frame.Height; y += 2 {
		fg, bg := -1, -1
		for x := range frame.Width {
			top := palette[frame.Pixels[y*frame.Width+x]&0xF]
			bottom := palette[0]
			if y+1 < frame.Height {
				bottom = palette[frame.Pixels[(y+1)*frame.Width+x]&0xF]
			}
			if top != fg || bottom != bg {
				fg, bg = top, bottom
				fmt.Fprintf(&f.out, "\x1b[38;5;%dm\x1b[48;5;%dm", fg, bg)
			}
			f.out.WriteString(upperHalfBlock)
		}
		f.out.WriteString("\x1b[0m\x1b[K\r\n")
	}
	fmt.Fprintf(&f.out, "%s %dx%d  ESC to quit\x1b[K\r\n", frame.Variant, frame.Width, frame.Height)

	if frame.Sound && !f.sound {
		f.out.WriteByte('\a')
	}
	f.sound = frame.Sound

	if _, err := f.rw.Write(f.out.Bytes()); err != nil {
		return fmt.Errorf("writing terminal: %w", err)
	}
	return nil
}

// Close shows the cursor again and restores the terminal mode.
func (f *Frontend) Close() error {
	_, errWrite := io.WriteString(f.rw, "\x1b[0m\x1b[?25h\r\n")
	var errRestore error
	if f.restore != nil {
		errRestore = f.restore()
	}
	return errors.Join(errWrite, errRestore)
}
