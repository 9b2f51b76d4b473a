// Package pipeline orchestrates the stages of running a ROM.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/session"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete workflow of running a ROM.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute detects the variant, loads the ROM and runs it on the front-end.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program,
	frontend session.Frontend) (session.Result, error) {

	variant, err := p.detector.Detect(opts)
	if err != nil {
		return session.Result{}, fmt.Errorf("detecting variant: %w", err)
	}

	rom, err := p.loader.Load(opts.Input, variant)
	if err != nil {
		return session.Result{}, fmt.Errorf("loading rom: %w", err)
	}

	machine, err := p.createMachine(variant, rom)
	if err != nil {
		return session.Result{}, fmt.Errorf("creating machine: %w", err)
	}

	return p.ExecuteWithMachine(ctx, machine, opts, frontend)
}

// ExecuteWithMachine runs the pipeline with a pre-loaded machine.
// This is useful for testing and programmatic usage where the ROM is already in memory.
func (p *Pipeline) ExecuteWithMachine(ctx context.Context, machine *chip8.Machine, opts options.Program,
	frontend session.Frontend) (result session.Result, err error) {

	var sinks []session.AudioSink
	if opts.Wav != "" {
		recorder, errRecorder := audio.NewRecorder(opts.Wav)
		if errRecorder != nil {
			return result, fmt.Errorf("creating audio recorder: %w", errRecorder)
		}
		defer func() {
			if errClose := recorder.Close(); errClose != nil {
				err = errors.Join(err, fmt.Errorf("closing audio recorder: %w", errClose))
			}
		}()
		sinks = append(sinks, recorder)
	}

	sessionOpts := options.NewSession(opts, machine.Variant())
	p.printInfo(opts, machine.Variant(), sessionOpts)

	s := session.New(p.logger, machine, frontend, sessionOpts, sinks...)
	result, err = s.Run(ctx)
	if err != nil {
		return result, fmt.Errorf("running session: %w", err)
	}
	return result, nil
}

func (p *Pipeline) createMachine(variant chip8.Variant, rom []byte) (*chip8.Machine, error) {
	machine := chip8.New(variant, chip8.WithLogger(p.logger))
	machine.LoadFont()
	if err := machine.LoadROM(rom); err != nil {
		return nil, fmt.Errorf("loading rom into memory: %w", err)
	}
	return machine, nil
}

// printInfo prints information about the ROM being run.
func (p *Pipeline) printInfo(opts options.Program, variant chip8.Variant, sessionOpts options.Session) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Running ROM",
		log.String("file", opts.Input),
		log.Stringer("variant", variant),
		log.String("frontend", opts.Frontend),
		log.Int("ipf", sessionOpts.InstructionsPerFrame),
	)
}
