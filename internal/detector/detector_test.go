package detector

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name        string
		inputFile   string
		systemOpt   string
		wantVariant chip8.Variant
	}{
		{
			name:        "explicit system overrides extension",
			inputFile:   "game.ch8",
			systemOpt:   "xochip",
			wantVariant: chip8.XOCHIP,
		},
		{
			name:        "explicit legacy superchip",
			inputFile:   "game.sc8",
			systemOpt:   "schip_legacy",
			wantVariant: chip8.SCHIPLegacy,
		},
		{
			name:        "auto-detect from extension",
			inputFile:   "game.sc8",
			wantVariant: chip8.SCHIPModern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.Program{
				Parameters: options.Parameters{Input: tt.inputFile},
				Flags:      options.Flags{System: tt.systemOpt},
			}

			got, err := d.Detect(opts)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantVariant, got)
		})
	}
}

func TestDetectInvalidSystem(t *testing.T) {
	d := New(log.NewTestLogger(t))

	opts := options.Program{
		Parameters: options.Parameters{Input: "game.ch8"},
		Flags:      options.Flags{System: "gameboy"},
	}
	_, err := d.Detect(opts)
	assert.ErrorContains(t, err, "unsupported variant")
}

func TestDetectFromFile(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name        string
		filename    string
		wantVariant chip8.Variant
	}{
		{
			name:        ".ch8 extension",
			filename:    "pong.ch8",
			wantVariant: chip8.CHIP8,
		},
		{
			name:        ".SC8 extension (uppercase)",
			filename:    "ANT.SC8",
			wantVariant: chip8.SCHIPModern,
		},
		{
			name:        ".xo8 extension",
			filename:    "t8nks.xo8",
			wantVariant: chip8.XOCHIP,
		},
		{
			name:        "no extension",
			filename:    "game",
			wantVariant: chip8.CHIP8,
		},
		{
			name:        ".rom extension",
			filename:    "game.rom",
			wantVariant: chip8.CHIP8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.detectFromFile(tt.filename)
			assert.Equal(t, tt.wantVariant, got)
		})
	}
}
