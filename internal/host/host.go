// Package host implements the loop that drives the interpreter core: instructions
// at the configured rate, timers at 60 Hz, key input and frame output.
package host

import (
	"errors"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// FrameRate is the timer and display cadence in Hz.
const FrameRate = 60

var (
	// ErrStopped is returned by frontends when the user asks to quit.
	ErrStopped = errors.New("stopped by frontend")
	// ErrRestart is returned by frontends when the user asks to restart the program.
	ErrRestart = errors.New("restart requested")
	// ErrBreakpoint is returned when execution reaches a breakpoint address.
	ErrBreakpoint = errors.New("breakpoint reached")
	// ErrCycleLimit is returned when the configured number of instructions was executed.
	ErrCycleLimit = errors.New("cycle limit reached")
)

// KeyFunc updates the state of a hex key.
type KeyFunc func(key uint8, pressed bool) error

// Frontend connects the runner to the user.
type Frontend interface {
	// PollKeys reports all key changes since the last call through setKey.
	// It returns ErrStopped or ErrRestart to control the runner.
	PollKeys(setKey KeyFunc) error
	// Render displays a frame.
	Render(fb *chip8.Framebuffer) error
}

// Speaker plays the tone while the sound timer is active.
type Speaker interface {
	SetTone(on bool)
}

// Headless is a frontend without input and output, used for batch runs.
type Headless struct {
	frames int
}

// PollKeys implements Frontend.
func (h *Headless) PollKeys(KeyFunc) error {
	return nil
}

// Render implements Frontend.
func (h *Headless) Render(*chip8.Framebuffer) error {
	h.frames++
	return nil
}

// Frames returns the number of rendered frames.
func (h *Headless) Frames() int {
	return h.frames
}

// NopSpeaker is a speaker that stays silent.
type NopSpeaker struct{}

// SetTone implements Speaker.
func (NopSpeaker) SetTone(bool) {}
