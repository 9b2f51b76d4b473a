// Package headless implements a front-end without any device. It replays
// queued input and keeps the last rendered frame.
package headless

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/session"
)

// Frontend is a front-end that needs no terminal or window.
type Frontend struct {
	inputs  []session.Input
	last    session.Frame
	renders int
	closed  bool
}

// New returns a new headless front-end.
func New() *Frontend {
	return &Frontend{}
}

// Queue adds inputs that are returned by the following Poll calls, one per frame.
func (f *Frontend) Queue(inputs ...session.Input) {
	f.inputs = append(f.inputs, inputs...)
}

// Poll returns the next queued input.
func (f *Frontend) Poll() (session.Input, error) {
	if len(f.inputs) == 0 {
		return session.Input{}, nil
	}
	input := f.inputs[0]
	f.inputs = f.inputs[1:]
	return input, nil
}

// Render stores a copy of the frame.
func (f *Frontend) Render(frame session.Frame) error {
	if f.closed {
		return errors.New("render on closed front-end")
	}
	frame.Pixels = append([]byte(nil), frame.Pixels...)
	f.last = frame
	f.renders++
	return nil
}

// Close marks the front-end as closed.
func (f *Frontend) Close() error {
	f.closed = true
	return nil
}

// Renders returns the number of rendered frames.
func (f *Frontend) Renders() int {
	return f.renders
}

// Last returns the last rendered frame.
func (f *Frontend) Last() session.Frame {
	return f.last
}

// WriteFrame writes the last frame as text, one line per pixel row. Lit
// pixels are printed as the hexadecimal plane bits, dark pixels as '.'.
func (f *Frontend) WriteFrame(w io.Writer) error {
	buf := bufio.NewWriter(w)
	frame := f.last
	for y := range frame.Height {
		for x := range frame.Width {
			p := frame.Pixels[y*frame.Width+x]
			if p == 0 {
				_ = buf.WriteByte('.')
				continue
			}
			_, _ = fmt.Fprintf(buf, "%X", p&0xF)
		}
		_ = buf.WriteByte('\n')
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}
