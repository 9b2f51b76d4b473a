// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// ErrEmptyROM is returned for ROM files without any content.
var ErrEmptyROM = errors.New("rom is empty")

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the ROM file and validates that it fits into the program space
// of the variant.
func (l *Loader) Load(path string, variant chip8.Variant) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	// read at most one byte more than fits to detect oversized files
	limit := int64(variant.MaxROMSize()) + 1
	rom, err := io.ReadAll(io.LimitReader(file, limit))
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	switch {
	case len(rom) == 0:
		return nil, fmt.Errorf("loading %s: %w", path, ErrEmptyROM)
	case len(rom) > variant.MaxROMSize():
		return nil, fmt.Errorf("loading %s: %w: maximum for %s is %d bytes",
			path, chip8.ErrRomTooLarge, variant, variant.MaxROMSize())
	}
	return rom, nil
}
