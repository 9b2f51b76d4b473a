package fileprocessor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/frontend/headless"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestProcessFileHeadless(t *testing.T) {
	logger := log.NewTestLogger(t)

	opts := options.Program{
		Parameters: options.Parameters{Input: createTempFile(t, t.TempDir(), "loop.ch8", []byte{0x12, 0x00})},
		Flags:      options.Flags{Frontend: options.FrontendHeadless, Frames: 5},
	}
	assert.NoError(t, ProcessFile(context.Background(), logger, opts))
}

func TestProcessFileMissing(t *testing.T) {
	logger := log.NewTestLogger(t)

	opts := options.Program{
		Parameters: options.Parameters{Input: filepath.Join(t.TempDir(), "missing.ch8")},
		Flags:      options.Flags{Frontend: options.FrontendHeadless},
	}
	err := ProcessFile(context.Background(), logger, opts)
	assert.ErrorContains(t, err, "missing.ch8")
}

func TestRunWithFrontendDebugFrame(t *testing.T) {
	logger := log.NewTestLogger(t)

	rom := []byte{
		0x60, 0x00, // LD V0, 0
		0xF0, 0x29, // LD F, V0
		0xD0, 0x05, // DRW V0, V0, 5
		0x12, 0x06, // JP 0x206
	}
	opts := options.Program{
		Parameters: options.Parameters{Input: createTempFile(t, t.TempDir(), "zero.ch8", rom)},
		Flags:      options.Flags{Frontend: options.FrontendHeadless, Frames: 2, Debug: true},
	}

	var buf bytes.Buffer
	assert.NoError(t, RunWithFrontend(context.Background(), logger, opts, headless.New(), &buf))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 32)
	assert.True(t, strings.HasPrefix(lines[0], "1111...."))
	assert.True(t, strings.HasPrefix(lines[1], "1..1...."))
}

func TestRunWithFrontendCanceled(t *testing.T) {
	logger := log.NewTestLogger(t)

	opts := options.Program{
		Parameters: options.Parameters{Input: createTempFile(t, t.TempDir(), "loop.ch8", []byte{0x12, 0x00})},
		Flags:      options.Flags{Frontend: options.FrontendHeadless},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := RunWithFrontend(ctx, logger, opts, headless.New(), &buf)
	assert.ErrorContains(t, err, context.Canceled.Error())
	assert.Equal(t, 0, buf.Len())
}

func TestGetFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	createTempFile(t, dir, "a.ch8", []byte{0x00, 0xE0})
	createTempFile(t, dir, "b.ch8", []byte{0x00, 0xE0})
	createTempFile(t, dir, "c.txt", []byte{0x00})

	t.Run("single input", func(t *testing.T) {
		opts := options.Program{Parameters: options.Parameters{Input: "game.ch8"}}
		files, err := GetFilesToProcess(&opts)
		assert.NoError(t, err)
		assert.Len(t, files, 1)
		assert.Equal(t, "game.ch8", files[0])
	})

	t.Run("batch pattern", func(t *testing.T) {
		opts := options.Program{Parameters: options.Parameters{Batch: filepath.Join(dir, "*.ch8")}}
		files, err := GetFilesToProcess(&opts)
		assert.NoError(t, err)
		assert.Len(t, files, 2)
		assert.Equal(t, filepath.Join(dir, "a.ch8"), files[0])
	})

	t.Run("invalid pattern", func(t *testing.T) {
		opts := options.Program{Parameters: options.Parameters{Batch: "[-"}}
		_, err := GetFilesToProcess(&opts)
		assert.ErrorContains(t, err, "globbing batch pattern")
	})
}

func createTempFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	tmpFile := filepath.Join(dir, name)
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
