//go:build !headless

package audio

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
)

// Beeper plays the tone on the default audio device.
type Beeper struct {
	tone   *Tone
	player *oto.Player
}

// NewBeeper opens the audio device and starts the silent tone stream.
func NewBeeper() (*Beeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}
	<-ready

	tone := NewTone(SampleRate, Frequency)
	player := ctx.NewPlayer(tone)
	player.Play()

	return &Beeper{
		tone:   tone,
		player: player,
	}, nil
}

// SetTone switches the tone on or off.
func (b *Beeper) SetTone(on bool) {
	b.tone.SetTone(on)
}

// Close stops the audio stream.
func (b *Beeper) Close() error {
	return b.player.Close()
}
