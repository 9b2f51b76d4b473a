// Package session runs the host frame loop that drives a machine.
//
// Every 60Hz frame the session applies the front-end input, executes up to
// the configured number of instructions, ticks the timers, feeds the audio
// sinks and redraws the front-end if the display changed.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

const frameDuration = time.Second / audio.FramesPerSecond

// Result contains statistics of a finished session.
type Result struct {
	Frames       int  // frames run
	Instructions int  // Run calls on the machine
	Exited       bool // the program executed the exit instruction
}

// Session drives a machine frame by frame.
type Session struct {
	logger   *log.Logger
	machine  *chip8.Machine
	frontend Frontend
	sinks    []AudioSink
	opts     options.Session

	frozen bool
	sound  bool
	result Result
}

// New returns a new session. The machine has to be loaded already.
func New(logger *log.Logger, machine *chip8.Machine, frontend Frontend,
	opts options.Session, sinks ...AudioSink) *Session {

	return &Session{
		logger:   logger,
		machine:  machine,
		frontend: frontend,
		sinks:    sinks,
		opts:     opts,
	}
}

// Run executes frames until the front-end quits, the frame limit is reached,
// the context is canceled or the machine halts. A program that exits with
// the SUPER-CHIP exit instruction ends the session without error.
func (s *Session) Run(ctx context.Context) (Result, error) {
	var ticker *time.Ticker
	if s.opts.Throttle {
		ticker = time.NewTicker(frameDuration)
		defer ticker.Stop()
	}

	s.logger.Debug("Starting session",
		log.Stringer("variant", s.machine.Variant()),
		log.Int("ipf", s.opts.InstructionsPerFrame),
		log.Int("frames", s.opts.Frames))

	if err := s.render(); err != nil {
		return s.result, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return s.result, err
		}

		done, err := s.frame()
		if err != nil || done {
			return s.result, err
		}
		if s.opts.Frames > 0 && s.result.Frames >= s.opts.Frames {
			return s.result, nil
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return s.result, ctx.Err()
			case <-ticker.C:
			}
		}
	}
}

// frame runs a single 60Hz frame and returns whether the session is done.
func (s *Session) frame() (bool, error) {
	input, err := s.frontend.Poll()
	if err != nil {
		return false, fmt.Errorf("polling input: %w", err)
	}
	if input.Quit {
		s.logger.Debug("Quit requested", log.Int("frame", s.result.Frames))
		return true, nil
	}
	for _, event := range input.Keys {
		if err := s.machine.SetKey(event.Key, event.Pressed); err != nil {
			return false, err
		}
	}

	if !s.frozen {
		if err := s.step(); err != nil {
			done, err := s.handleHalt(err)
			if done || err != nil {
				return done, errors.Join(err, s.redraw())
			}
		}
	}

	s.machine.DecrementTimers()

	tone := audio.ToneOf(s.machine)
	for _, sink := range s.sinks {
		if err := sink.Frame(tone); err != nil {
			return false, err
		}
	}

	s.result.Frames++
	if err := s.redraw(); err != nil {
		return false, err
	}
	return false, nil
}

// step runs up to the configured number of instructions. It stops early when
// the machine waits for a key, or after a sprite draw on variants with the
// display wait quirk.
func (s *Session) step() error {
	displayWait := s.machine.Quirks().DisplayWait
	for range s.opts.InstructionsPerFrame {
		s.result.Instructions++
		if err := s.machine.Run(); err != nil {
			return err
		}
		if s.machine.State() == chip8.WaitingForKey {
			return nil
		}
		if displayWait && s.machine.DrewSprite() {
			return nil
		}
	}
	return nil
}

func (s *Session) handleHalt(err error) (bool, error) {
	if errors.Is(err, chip8.ErrProgramExit) {
		s.logger.Info("Program exited", log.Int("frame", s.result.Frames))
		s.result.Exited = true
		return true, nil
	}

	var haltErr *chip8.HaltError
	if !errors.As(err, &haltErr) {
		return true, err
	}
	if !s.opts.Freeze {
		return true, fmt.Errorf("executing %s: %w", Mnemonic(haltErr.Opcode), err)
	}

	s.logger.Error("Machine halted, freezing display",
		log.Hex("pc", haltErr.PC),
		log.Hex("opcode", haltErr.Opcode),
		log.String("instruction", Mnemonic(haltErr.Opcode)),
		log.Err(haltErr.Err))
	s.frozen = true
	return false, nil
}

// redraw renders the display if it changed or the buzzer toggled.
func (s *Session) redraw() error {
	sound := s.machine.SoundTimer() > 0
	if !s.machine.DisplayedThisFrame() && sound == s.sound {
		return nil
	}
	return s.render()
}

func (s *Session) render() error {
	s.sound = s.machine.SoundTimer() > 0
	frame := Frame{
		Variant: s.machine.Variant(),
		Pixels:  s.machine.Display(),
		Width:   s.machine.Width(),
		Height:  s.machine.Height(),
		Sound:   s.sound,
	}
	if err := s.frontend.Render(frame); err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	return nil
}
