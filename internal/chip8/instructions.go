package chip8

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// executeSystem handles the 0 family. 0NNN machine code routines can not be
// emulated and are reported as unknown.
func (m *Machine) executeSystem(ins instruction) error {
	switch ins.opcode {
	case 0x00E0: // CLS
		m.state.Screen = Framebuffer{}

	case 0x00EE: // RET
		address, err := m.state.Pop()
		if err != nil {
			return err
		}
		m.state.PC = address

	default:
		return ErrUnknownOpcode
	}
	return nil
}

// executeArithmetic handles the 8XYN register to register operations.
// Both operands are read first, the result is written to VX and the flag to VF
// last, so that VF holds the flag when it is also the destination.
func (m *Machine) executeArithmetic(ins instruction) error {
	v := &m.state.V
	vx, vy := v[ins.x], v[ins.y]

	switch ins.n {
	case 0x0: // LD Vx, Vy
		v[ins.x] = vy

	case 0x1: // OR Vx, Vy
		v[ins.x] = vx | vy

	case 0x2: // AND Vx, Vy
		v[ins.x] = vx & vy

	case 0x3: // XOR Vx, Vy
		v[ins.x] = vx ^ vy

	case 0x4: // ADD Vx, Vy
		sum := uint16(vx) + uint16(vy)
		v[ins.x] = uint8(sum)
		v[flagRegister] = flag(sum > 0xFF)

	case 0x5: // SUB Vx, Vy
		v[ins.x] = vx - vy
		v[flagRegister] = flag(vx >= vy)

	case 0x6: // SHR Vx
		if m.quirks.ShiftLoadsVY {
			vx = vy
		}
		v[ins.x] = vx >> 1
		v[flagRegister] = vx & 0x01

	case 0x7: // SUBN Vx, Vy
		v[ins.x] = vy - vx
		v[flagRegister] = flag(vy >= vx)

	case 0xE: // SHL Vx
		if m.quirks.ShiftLoadsVY {
			vx = vy
		}
		v[ins.x] = vx << 1
		v[flagRegister] = vx >> 7

	default:
		return ErrUnknownOpcode
	}
	return nil
}

// draw XORs an N row sprite read from I onto the screen at (VX, VY).
// Every pixel wraps around the screen edges. VF is set to 1 if any lit pixel
// was turned off.
func (m *Machine) draw(ins instruction) error {
	rows := int(ins.n)
	if err := m.checkIndexRange(rows); err != nil {
		return err
	}

	originX := int(m.state.V[ins.x]) % ScreenWidth
	originY := int(m.state.V[ins.y]) % ScreenHeight
	collision := false

	for row := range rows {
		bits := m.state.Memory[int(m.state.I)+row]
		y := (originY + row) % ScreenHeight
		for col := range 8 {
			if bits&(0x80>>col) == 0 {
				continue
			}
			x := (originX + col) % ScreenWidth
			pixel := &m.state.Screen[y*ScreenWidth+x]
			if *pixel {
				collision = true
			}
			*pixel = !*pixel
		}
	}

	m.state.V[flagRegister] = flag(collision)
	return nil
}

// executeKeySkip handles SKP and SKNP.
func (m *Machine) executeKeySkip(ins instruction) error {
	key := m.state.V[ins.x] & 0x0F

	switch ins.nn {
	case 0x9E: // SKP Vx
		m.skipIf(m.state.Keys[key])
	case 0xA1: // SKNP Vx
		m.skipIf(!m.state.Keys[key])
	default:
		return ErrUnknownOpcode
	}
	return nil
}

// executeMisc handles the FXNN timer, key wait and index register instructions.
func (m *Machine) executeMisc(ins instruction) error {
	v := &m.state.V

	switch ins.nn {
	case 0x07: // LD Vx, DT
		v[ins.x] = m.state.DelayTimer

	case 0x0A: // LD Vx, K
		m.beginKeyWait(ins.x)

	case 0x15: // LD DT, Vx
		m.state.DelayTimer = v[ins.x]

	case 0x18: // LD ST, Vx
		m.state.SoundTimer = v[ins.x]

	case 0x1E: // ADD I, Vx
		m.state.I += uint16(v[ins.x])

	case 0x29: // LD F, Vx
		m.state.I = FontAddress + uint16(v[ins.x]&0x0F)*GlyphSize

	case 0x33: // LD B, Vx
		if err := m.checkIndexRange(3); err != nil {
			return err
		}
		value := v[ins.x]
		m.state.Memory[m.state.I] = value / 100
		m.state.Memory[m.state.I+1] = value / 10 % 10
		m.state.Memory[m.state.I+2] = value % 10

	case 0x55: // LD [I], Vx
		count := int(ins.x) + 1
		if err := m.checkIndexRange(count); err != nil {
			return err
		}
		copy(m.state.Memory[m.state.I:], v[:count])
		if m.quirks.LoadStoreIncrementsIndex {
			m.state.I += uint16(count)
		}

	case 0x65: // LD Vx, [I]
		count := int(ins.x) + 1
		if err := m.checkIndexRange(count); err != nil {
			return err
		}
		copy(v[:count], m.state.Memory[m.state.I:])
		if m.quirks.LoadStoreIncrementsIndex {
			m.state.I += uint16(count)
		}

	default:
		return ErrUnknownOpcode
	}
	return nil
}

// checkIndexRange verifies that length bytes starting at I are inside memory.
func (m *Machine) checkIndexRange(length int) error {
	if int(m.state.I)+length > MemorySize {
		return fmt.Errorf("%w: %d bytes at $%04X", ErrAddressOutOfRange, length, m.state.I)
	}
	return nil
}

// beginKeyWait blocks the engine until a key is pressed. The program counter is
// moved back to the wait instruction so it stays in place while blocked.
func (m *Machine) beginKeyWait(register uint8) {
	m.state.PC -= 2
	m.waiting = true
	m.waitRegister = register
	m.pressedKey = noKey

	if m.logger != nil {
		m.logger.Debug("Waiting for key press", log.Hex("address", m.state.PC))
	}
}

// resumeKeyWait completes the key wait once a key press was observed.
func (m *Machine) resumeKeyWait() {
	if m.pressedKey == noKey {
		return
	}

	m.state.V[m.waitRegister] = uint8(m.pressedKey)
	m.state.PC += 2
	m.waiting = false
	m.pressedKey = noKey
}
