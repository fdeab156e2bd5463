package chip8

import (
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"
)

const noKey = -1

// Machine is the cycle engine that executes instructions on its State.
// It is not safe for concurrent use, the host loop has to be its only caller.
type Machine struct {
	state State

	quirks Quirks
	random RandomSource
	logger *log.Logger
	trace  bool

	// key wait state of FX0A
	waiting      bool
	waitRegister uint8
	pressedKey   int

	halted error
}

// New returns a machine with the font loaded and the program counter at ProgramStart.
func New(options ...Option) *Machine {
	m := &Machine{
		random: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, option := range options {
		option(m)
	}
	m.Reset()
	return m
}

// Reset restores the construction state: memory zeroed except for the font,
// registers, stack, screen, timers and keys cleared and the engine ready to fetch.
func (m *Machine) Reset() {
	m.state.Reset()
	m.waiting = false
	m.waitRegister = 0
	m.pressedKey = noKey
	m.halted = nil
}

// LoadProgram copies the program into memory at ProgramStart and points the
// program counter at it. Memory outside the program bytes is not modified.
func (m *Machine) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, len(program), MaxProgramSize)
	}
	copy(m.state.Memory[ProgramStart:], program)
	m.state.PC = ProgramStart
	return nil
}

// SetKey updates the latch of a hex key. A press while the engine is awaiting a
// key completes the wait on the next Tick.
func (m *Machine) SetKey(key uint8, pressed bool) error {
	if key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	if m.waiting && pressed && !m.state.Keys[key] && m.pressedKey == noKey {
		m.pressedKey = int(key)
	}
	m.state.Keys[key] = pressed
	return nil
}

// DecrementTimers counts both timers down by one, stopping at zero.
// The host has to call it at 60 Hz independent of the instruction rate.
func (m *Machine) DecrementTimers() {
	if m.state.DelayTimer > 0 {
		m.state.DelayTimer--
	}
	if m.state.SoundTimer > 0 {
		m.state.SoundTimer--
	}
}

// State returns a copy of the complete machine state.
func (m *Machine) State() State {
	return m.state
}

// Framebuffer returns a copy of the screen.
func (m *Machine) Framebuffer() Framebuffer {
	return m.state.Screen
}

// Registers returns a copy of V0-VF.
func (m *Machine) Registers() [RegisterCount]uint8 {
	return m.state.V
}

// Index returns the index register I.
func (m *Machine) Index() uint16 {
	return m.state.I
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.state.PC
}

// DelayTimer returns the current delay timer value.
func (m *Machine) DelayTimer() uint8 {
	return m.state.DelayTimer
}

// SoundTimer returns the current sound timer value.
func (m *Machine) SoundTimer() uint8 {
	return m.state.SoundTimer
}

// SoundActive returns whether the tone should be playing.
func (m *Machine) SoundActive() bool {
	return m.state.SoundTimer > 0
}

// Waiting returns whether the engine is blocked on the key wait instruction.
func (m *Machine) Waiting() bool {
	return m.waiting
}

// Err returns the fatal error that halted the engine, or nil.
func (m *Machine) Err() error {
	return m.halted
}
