package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	ins := decode(0xD3A7)

	assert.Equal(t, uint8(0xD), ins.op)
	assert.Equal(t, uint8(0x3), ins.x)
	assert.Equal(t, uint8(0xA), ins.y)
	assert.Equal(t, uint8(0x7), ins.n)
	assert.Equal(t, uint8(0xA7), ins.nn)
	assert.Equal(t, uint16(0x3A7), ins.nnn)
}

func TestClearLoadAddScenario(t *testing.T) {
	m := newTestMachine(t,
		0x00E0, // CLS
		0x6005, // LD V0, $05
		0x7005, // ADD V0, $05
	)
	m.state.V[flagRegister] = 0x42
	m.state.Screen[0] = true

	tick(t, m, 3)

	assert.Equal(t, uint8(10), m.Registers()[0])
	assert.Equal(t, uint8(0x42), m.Registers()[flagRegister])
	fb := m.Framebuffer()
	assert.Equal(t, 0, fb.Lit())
	assert.Equal(t, uint16(ProgramStart+6), m.PC())
}

func TestKeyWaitScenario(t *testing.T) {
	m := newTestMachine(t,
		0xF50A, // LD V5, K
		0x6101, // LD V1, $01
	)

	for range 5 {
		assert.NoError(t, m.Tick())
		assert.Equal(t, uint16(ProgramStart), m.PC())
		assert.True(t, m.Waiting())
	}

	assert.NoError(t, m.SetKey(3, true))
	assert.NoError(t, m.Tick())

	assert.False(t, m.Waiting())
	assert.Equal(t, uint16(ProgramStart+2), m.PC())
	assert.Equal(t, uint8(3), m.Registers()[5])

	tick(t, m, 1)
	assert.Equal(t, uint8(1), m.Registers()[1])
}

func TestKeyWaitNeedsPressTransition(t *testing.T) {
	m := newTestMachine(t, 0xF00A) // LD V0, K
	assert.NoError(t, m.SetKey(4, true))

	tick(t, m, 2)
	assert.True(t, m.Waiting())

	// a key held before the wait started does not count until pressed again
	assert.NoError(t, m.SetKey(4, true))
	tick(t, m, 1)
	assert.True(t, m.Waiting())

	assert.NoError(t, m.SetKey(4, false))
	tick(t, m, 1)
	assert.True(t, m.Waiting())

	assert.NoError(t, m.SetKey(4, true))
	tick(t, m, 1)
	assert.False(t, m.Waiting())
	assert.Equal(t, uint8(4), m.Registers()[0])
}

func TestKeyWaitTimersKeepRunning(t *testing.T) {
	m := newTestMachine(t,
		0x6003, // LD V0, $03
		0xF015, // LD DT, V0
		0xF10A, // LD V1, K
	)
	tick(t, m, 3)
	assert.True(t, m.Waiting())

	m.DecrementTimers()
	tick(t, m, 1)
	assert.Equal(t, uint8(2), m.DelayTimer())
}

func TestSkipInstructions(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(m *Machine)
		opcode uint16
		skips  bool
	}{
		{"SE byte equal", func(m *Machine) { m.state.V[1] = 0x22 }, 0x3122, true},
		{"SE byte not equal", func(m *Machine) { m.state.V[1] = 0x21 }, 0x3122, false},
		{"SNE byte not equal", func(m *Machine) { m.state.V[1] = 0x21 }, 0x4122, true},
		{"SNE byte equal", func(m *Machine) { m.state.V[1] = 0x22 }, 0x4122, false},
		{"SE register equal", func(m *Machine) { m.state.V[1], m.state.V[2] = 9, 9 }, 0x5120, true},
		{"SE register not equal", func(m *Machine) { m.state.V[1], m.state.V[2] = 9, 8 }, 0x5120, false},
		{"SNE register not equal", func(m *Machine) { m.state.V[1], m.state.V[2] = 9, 8 }, 0x9120, true},
		{"SNE register equal", func(m *Machine) { m.state.V[1], m.state.V[2] = 9, 9 }, 0x9120, false},
		{"SKP pressed", func(m *Machine) { m.state.V[1] = 0xA; m.state.Keys[0xA] = true }, 0xE19E, true},
		{"SKP released", func(m *Machine) { m.state.V[1] = 0xA }, 0xE19E, false},
		{"SKNP released", func(m *Machine) { m.state.V[1] = 0xA }, 0xE1A1, true},
		{"SKNP pressed", func(m *Machine) { m.state.V[1] = 0xA; m.state.Keys[0xA] = true }, 0xE1A1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.opcode)
			tt.setup(m)
			tick(t, m, 1)

			want := uint16(ProgramStart + 2)
			if tt.skips {
				want += 2
			}
			assert.Equal(t, want, m.PC())
		})
	}
}

func TestJumpCallReturn(t *testing.T) {
	m := newTestMachine(t,
		0x2206, // $200 CALL $206
		0x6107, // $202 LD V1, $07
		0x1202, // $204 JP $202
		0x6001, // $206 LD V0, $01
		0x00EE, // $208 RET
	)

	tick(t, m, 1)
	assert.Equal(t, uint16(0x206), m.PC())
	assert.Equal(t, uint8(1), m.State().SP)
	assert.Equal(t, uint16(0x202), m.State().Stack[0])

	tick(t, m, 2)
	assert.Equal(t, uint16(0x202), m.PC())
	assert.Equal(t, uint8(0), m.State().SP)

	tick(t, m, 2)
	assert.Equal(t, uint16(0x202), m.PC())
	assert.Equal(t, uint8(7), m.Registers()[1])
}

func TestJumpWithOffset(t *testing.T) {
	t.Run("V0", func(t *testing.T) {
		m := newTestMachine(t, 0xB300)
		m.state.V[0] = 0x10
		m.state.V[3] = 0x20
		tick(t, m, 1)
		assert.Equal(t, uint16(0x310), m.PC())
	})

	t.Run("VX quirk", func(t *testing.T) {
		m := newTestMachine(t, 0xB300)
		m.quirks.JumpUsesVX = true
		m.state.V[0] = 0x10
		m.state.V[3] = 0x20
		tick(t, m, 1)
		assert.Equal(t, uint16(0x320), m.PC())
	})
}

func TestStackOverflowHaltsEngine(t *testing.T) {
	m := newTestMachine(t, 0x2200) // CALL $200, recursing forever

	tick(t, m, StackSize)
	assert.Equal(t, uint8(StackSize), m.State().SP)

	err := m.Tick()
	assert.True(t, errors.Is(err, ErrStackOverflow))

	var opErr *OpcodeError
	assert.True(t, errors.As(err, &opErr))
	assert.Equal(t, uint16(0x2200), opErr.Opcode)
	assert.Equal(t, uint16(0x200), opErr.Address)

	pc := m.PC()
	assert.Equal(t, err, m.Tick())
	assert.Equal(t, pc, m.PC())
	assert.Equal(t, err, m.Err())

	m.Reset()
	assert.Nil(t, m.Err())
}

func TestStackUnderflow(t *testing.T) {
	m := newTestMachine(t, 0x00EE) // RET

	err := m.Tick()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestUnknownOpcodes(t *testing.T) {
	opcodes := []uint16{
		0x0000, 0x0123, 0x00E1, 0x5121, 0x8128, 0x812F, 0x9121,
		0xE19F, 0xE1A2, 0xF100, 0xF1FF, 0xF156,
	}

	for _, opcode := range opcodes {
		m := newTestMachine(t, opcode)

		err := m.Tick()
		assert.True(t, errors.Is(err, ErrUnknownOpcode))

		var opErr *OpcodeError
		assert.True(t, errors.As(err, &opErr))
		assert.Equal(t, opcode, opErr.Opcode)
	}
}

func TestFetchOutOfRange(t *testing.T) {
	m := newTestMachine(t, 0x1FFF) // JP $FFF

	tick(t, m, 1)
	assert.Equal(t, uint16(0xFFF), m.PC())

	err := m.Tick()
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))
}
