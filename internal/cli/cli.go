// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Batch == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if opts.Batch == "" {
		opts.Input = args[0]
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Println(e.msg)
		fmt.Println()
	}
	fmt.Printf("usage: retrochip8 [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i == 0 {
			continue
		}
		if arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
		return &UsageError{
			msg: fmt.Sprintf("Unexpected argument %s, only one ROM file can be run", arg),
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	if opts.System != "" {
		variant, err := chip8.ParseVariant(opts.System)
		if err != nil {
			return fmt.Errorf("invalid system option: %w", err)
		}
		opts.System = variant.String()
	}

	// batch runs have nobody watching
	if opts.Batch != "" {
		opts.Frontend = options.FrontendHeadless
	}

	opts.Frontend = strings.ToLower(opts.Frontend)
	if !slices.Contains(options.Frontends, opts.Frontend) {
		return fmt.Errorf("unsupported front-end: %s. Valid options: %s",
			opts.Frontend, strings.Join(options.Frontends, ", "))
	}

	if opts.InstructionsPerFrame < 0 {
		return fmt.Errorf("instructions per frame must not be negative: %d", opts.InstructionsPerFrame)
	}
	if opts.Frames < 0 {
		return fmt.Errorf("frame limit must not be negative: %d", opts.Frames)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Batch, "batch", "", "smoke run a batch of ROMs matching the given path and file mask headless, for example roms/*.ch8")
	flags.StringVar(&opts.Wav, "wav", "", "name of a .wav file to record the buzzer to")
	flags.StringVar(&opts.System, "s", "", "variant to emulate (chip8, schip-legacy, schip-modern, xochip) - if not auto-detected from file extension")
	flags.StringVar(&opts.Frontend, "f", options.FrontendTerminal, "front-end to use (window/terminal/headless)")
	flags.IntVar(&opts.InstructionsPerFrame, "ipf", 0, "instructions executed per 60Hz frame, 0 uses the variant default")
	flags.IntVar(&opts.Frames, "frames", 0, "stop after the given number of frames, 0 runs until quit (headless default 600)")
	flags.BoolVar(&opts.Freeze, "freeze", false, "keep presenting the frozen frame after a fault instead of exiting")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
