package audio

import (
	"errors"
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE format tag for uncompressed PCM data.
const wavFormatPCM = 1

// Recorder writes the synthesized buzzer to a WAV file.
type Recorder struct {
	file    *os.File
	encoder *wav.Encoder
	synth   *Synth
	format  *goaudio.Format
	frames  int
}

// NewRecorder creates the WAV file at path.
func NewRecorder(path string) (*Recorder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating wav file %s: %w", path, err)
	}

	return &Recorder{
		file:    file,
		encoder: wav.NewEncoder(file, SampleRate, BitDepth, Channels, wavFormatPCM),
		synth:   NewSynth(),
		format: &goaudio.Format{
			NumChannels: Channels,
			SampleRate:  SampleRate,
		},
	}, nil
}

// Frame synthesizes and writes one frame of the given tone.
func (r *Recorder) Frame(t Tone) error {
	buf := &goaudio.IntBuffer{
		Format:         r.format,
		Data:           r.synth.Frame(t),
		SourceBitDepth: BitDepth,
	}
	if err := r.encoder.Write(buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	r.frames++
	return nil
}

// Frames returns the number of frames written.
func (r *Recorder) Frames() int {
	return r.frames
}

// Close finalizes the WAV header and closes the file.
func (r *Recorder) Close() error {
	errEncoder := r.encoder.Close()
	errFile := r.file.Close()
	if err := errors.Join(errEncoder, errFile); err != nil {
		return fmt.Errorf("closing wav file: %w", err)
	}
	return nil
}
