// Package detector handles variant detection.
package detector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Detector handles variant detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new variant detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the variant from options or file auto-detection.
// It first checks if a variant is explicitly specified in options, otherwise
// attempts to detect the variant from the input filename extension.
func (d *Detector) Detect(opts options.Program) (chip8.Variant, error) {
	if opts.System != "" {
		variant, err := chip8.ParseVariant(opts.System)
		if err != nil {
			return chip8.CHIP8, fmt.Errorf("parsing system option: %w", err)
		}
		return variant, nil
	}

	variant := d.detectFromFile(opts.Input)
	d.logger.Debug("Auto-detected variant",
		log.Stringer("variant", variant),
		log.String("file", opts.Input))
	return variant, nil
}

// detectFromFile determines the variant based on file extension.
func (d *Detector) detectFromFile(filename string) chip8.Variant {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".sc8":
		return chip8.SCHIPModern
	case ".xo8":
		return chip8.XOCHIP
	default:
		// .ch8, .c8 and unknown extensions
		return chip8.CHIP8
	}
}
