// Package audio synthesizes the buzzer of a machine and records it to WAV files.
package audio

import (
	"github.com/retroenv/retrochip8/internal/chip8"
)

// Output format of the synthesized buzzer.
const (
	SampleRate      = 44100
	BitDepth        = 16
	Channels        = 1
	FramesPerSecond = 60

	// SamplesPerFrame is the number of samples produced per 60Hz frame.
	SamplesPerFrame = SampleRate / FramesPerSecond

	buzzerFrequency = 440
	amplitude       = 0x2000
	patternBits     = 128
)

// Tone describes what the buzzer plays during one frame.
type Tone struct {
	Active     bool     // sound timer is not zero
	UsePattern bool     // play the XO-CHIP pattern instead of a square wave
	Pattern    [16]byte // XO-CHIP 1 bit audio pattern
	Rate       float64  // pattern playback rate in bits per second
}

// ToneOf returns the tone of the current machine state.
func ToneOf(m *chip8.Machine) Tone {
	t := Tone{
		Active: m.SoundTimer() > 0,
	}
	if m.Variant() == chip8.XOCHIP {
		t.UsePattern = true
		t.Pattern = m.AudioPattern()
		t.Rate = m.PlaybackRate()
	}
	return t
}

// Synth generates buzzer samples frame by frame. The phase is kept between
// frames so that a continuous tone has no clicks at frame boundaries.
type Synth struct {
	phase float64
}

// NewSynth returns a new buzzer synthesizer.
func NewSynth() *Synth {
	return &Synth{}
}

// Frame returns the 16 bit samples for one frame of the given tone.
func (s *Synth) Frame(t Tone) []int {
	samples := make([]int, SamplesPerFrame)
	if !t.Active {
		s.phase = 0
		return samples
	}

	if !t.UsePattern {
		step := float64(buzzerFrequency) / SampleRate
		for i := range samples {
			if s.phase < 0.5 {
				samples[i] = amplitude
			} else {
				samples[i] = -amplitude
			}
			s.phase += step
			if s.phase >= 1 {
				s.phase--
			}
		}
		return samples
	}

	step := t.Rate / SampleRate
	for i := range samples {
		bit := int(s.phase) % patternBits
		if t.Pattern[bit/8]&(0x80>>(bit%8)) != 0 {
			samples[i] = amplitude
		} else {
			samples[i] = -amplitude
		}
		s.phase += step
		if s.phase >= patternBits {
			s.phase -= patternBits
		}
	}
	return samples
}
