// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/frontend/headless"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/pipeline"
	"github.com/retroenv/retrochip8/internal/session"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete workflow of running a single ROM file
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) (err error) {
	frontend, err := config.CreateFrontend(opts)
	if err != nil {
		return fmt.Errorf("creating front-end: %w", err)
	}
	defer func() {
		if errClose := frontend.Close(); errClose != nil {
			err = errors.Join(err, fmt.Errorf("closing front-end: %w", errClose))
		}
	}()

	return RunWithFrontend(ctx, logger, opts, frontend, os.Stdout)
}

// RunWithFrontend runs a ROM file on an existing front-end. In debug mode the
// last frame of a headless run is written to w.
func RunWithFrontend(ctx context.Context, logger *log.Logger, opts options.Program,
	frontend session.Frontend, w io.Writer) error {

	p := pipeline.New(logger)
	result, err := p.Execute(ctx, opts, frontend)
	if err != nil {
		return fmt.Errorf("running %s: %w", opts.Input, err)
	}

	if !opts.Quiet {
		logger.Info("Finished",
			log.String("file", opts.Input),
			log.Int("frames", result.Frames),
			log.Int("instructions", result.Instructions),
		)
	}

	if h, ok := frontend.(*headless.Frontend); ok && opts.Debug {
		if err := h.WriteFrame(w); err != nil {
			return fmt.Errorf("writing last frame: %w", err)
		}
	}
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("retrochip8", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
