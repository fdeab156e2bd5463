//go:build headless

package audio

// Beeper keeps the tone state without an audio device.
type Beeper struct {
	tone *Tone
}

// NewBeeper returns a beeper that never produces sound.
func NewBeeper() (*Beeper, error) {
	return &Beeper{
		tone: NewTone(SampleRate, Frequency),
	}, nil
}

// SetTone switches the tone on or off.
func (b *Beeper) SetTone(on bool) {
	b.tone.SetTone(on)
}

// Close implements io.Closer.
func (b *Beeper) Close() error {
	return nil
}
