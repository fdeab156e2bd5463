// Package audio produces the CHIP-8 buzzer tone.
package audio

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

// Output format of the tone.
const (
	SampleRate = 44100
	Frequency  = 440

	amplitude = math.MaxInt16 / 5
)

// Tone is a square wave generator that produces signed 16 bit little endian
// mono samples, or silence while switched off. SetTone may be called while
// another goroutine reads samples.
type Tone struct {
	on     atomic.Bool
	period int
	phase  int
}

// NewTone returns a switched off tone generator.
func NewTone(sampleRate, frequency int) *Tone {
	period := sampleRate / frequency
	if period < 2 {
		period = 2
	}
	return &Tone{
		period: period,
	}
}

// SetTone switches the tone on or off.
func (t *Tone) SetTone(on bool) {
	t.on.Store(on)
}

// Playing returns whether the tone is switched on.
func (t *Tone) Playing() bool {
	return t.on.Load()
}

// Read fills p with whole samples.
func (t *Tone) Read(p []byte) (int, error) {
	on := t.on.Load()
	samples := len(p) / 2

	for i := range samples {
		var sample int16
		if on {
			sample = amplitude
			if t.phase >= t.period/2 {
				sample = -amplitude
			}
		}
		binary.LittleEndian.PutUint16(p[i*2:], uint16(sample))
		t.phase = (t.phase + 1) % t.period
	}
	return samples * 2, nil
}
