// Package config handles application configuration and setup
package config

import (
	"fmt"
	"path/filepath"

	"github.com/retroenv/retrochip8/internal/frontend/headless"
	"github.com/retroenv/retrochip8/internal/frontend/terminal"
	"github.com/retroenv/retrochip8/internal/frontend/window"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/session"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateFrontend creates the front-end selected in the options
func CreateFrontend(opts options.Program) (session.Frontend, error) {
	switch opts.Frontend {
	case options.FrontendWindow:
		f, err := window.New("retrochip8 - " + filepath.Base(opts.Input))
		if err != nil {
			return nil, fmt.Errorf("creating window: %w", err)
		}
		return f, nil

	case options.FrontendTerminal:
		f, err := terminal.New(terminal.DefaultDevice)
		if err != nil {
			return nil, fmt.Errorf("creating terminal: %w", err)
		}
		return f, nil

	case options.FrontendHeadless:
		return headless.New(), nil

	default:
		return nil, fmt.Errorf("unsupported front-end '%s'", opts.Frontend)
	}
}
