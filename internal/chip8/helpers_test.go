package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type fixedRandom uint32

func (r fixedRandom) Uint32() uint32 {
	return uint32(r)
}

// newTestMachine returns a machine with the given opcode words loaded at ProgramStart.
func newTestMachine(t *testing.T, program ...uint16) *Machine {
	t.Helper()

	m := New(
		WithLogger(log.NewTestLogger(t)),
		WithTrace(true),
		WithRandom(fixedRandom(0xA5)),
	)
	loadWords(t, m, program...)
	return m
}

func loadWords(t *testing.T, m *Machine, program ...uint16) {
	t.Helper()

	rom := make([]byte, 0, len(program)*2)
	for _, word := range program {
		rom = append(rom, byte(word>>8), byte(word))
	}
	assert.NoError(t, m.LoadProgram(rom))
}

func tick(t *testing.T, m *Machine, count int) {
	t.Helper()

	for range count {
		assert.NoError(t, m.Tick())
	}
}
