package config

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/frontend/headless"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestCreateLogger(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		quiet bool
	}{
		{"default", false, false},
		{"debug", true, false},
		{"quiet", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, CreateLogger(tt.debug, tt.quiet))
		})
	}
}

func TestCreateFrontend(t *testing.T) {
	t.Run("headless", func(t *testing.T) {
		opts := options.Program{Flags: options.Flags{Frontend: options.FrontendHeadless}}
		f, err := CreateFrontend(opts)
		assert.NoError(t, err)
		_, ok := f.(*headless.Frontend)
		assert.True(t, ok)
		assert.NoError(t, f.Close())
	})

	t.Run("unsupported", func(t *testing.T) {
		opts := options.Program{Flags: options.Flags{Frontend: "sdl"}}
		_, err := CreateFrontend(opts)
		assert.ErrorContains(t, err, "unsupported front-end")
	})
}
