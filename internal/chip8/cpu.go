package chip8

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// instruction is a decoded opcode word.
type instruction struct {
	opcode uint16
	op     uint8  // bits 12-15
	x      uint8  // bits 8-11
	y      uint8  // bits 4-7
	n      uint8  // bits 0-3
	nn     uint8  // bits 0-7
	nnn    uint16 // bits 0-11
}

func decode(opcode uint16) instruction {
	return instruction{
		opcode: opcode,
		op:     uint8(opcode >> 12),
		x:      uint8(opcode>>8) & 0x0F,
		y:      uint8(opcode>>4) & 0x0F,
		n:      uint8(opcode) & 0x0F,
		nn:     uint8(opcode),
		nnn:    opcode & 0x0FFF,
	}
}

// Tick executes a single instruction. While the engine awaits a key it only
// checks for a key press and returns. A fatal error halts the engine and is
// returned by all following calls until Reset.
func (m *Machine) Tick() error {
	if m.halted != nil {
		return m.halted
	}
	if m.waiting {
		m.resumeKeyWait()
		return nil
	}

	address := m.state.PC
	opcode, err := m.fetch()
	if err != nil {
		return m.halt(err)
	}

	if m.trace && m.logger != nil {
		m.logger.Debug("Executing instruction",
			log.Hex("address", address),
			log.Hex("opcode", opcode),
			log.String("instruction", Mnemonic(opcode)))
	}

	if err := m.execute(decode(opcode)); err != nil {
		return m.halt(&OpcodeError{
			Opcode:  opcode,
			Address: address,
			Err:     err,
		})
	}
	return nil
}

// fetch reads the big-endian opcode word at the program counter and advances
// the program counter past it.
func (m *Machine) fetch() (uint16, error) {
	pc := m.state.PC
	if int(pc)+1 >= MemorySize {
		return 0, fmt.Errorf("fetching opcode at $%04X: %w", pc, ErrAddressOutOfRange)
	}
	opcode := uint16(m.state.Memory[pc])<<8 | uint16(m.state.Memory[pc+1])
	m.state.PC += 2
	return opcode, nil
}

func (m *Machine) halt(err error) error {
	m.halted = err
	if m.logger != nil {
		m.logger.Debug("Machine halted", log.Err(err))
	}
	return err
}

func (m *Machine) execute(ins instruction) error {
	v := &m.state.V

	switch ins.op {
	case 0x0:
		return m.executeSystem(ins)

	case 0x1: // JP addr
		m.state.PC = ins.nnn

	case 0x2: // CALL addr
		if err := m.state.Push(m.state.PC); err != nil {
			return err
		}
		m.state.PC = ins.nnn

	case 0x3: // SE Vx, byte
		m.skipIf(v[ins.x] == ins.nn)

	case 0x4: // SNE Vx, byte
		m.skipIf(v[ins.x] != ins.nn)

	case 0x5: // SE Vx, Vy
		if ins.n != 0 {
			return ErrUnknownOpcode
		}
		m.skipIf(v[ins.x] == v[ins.y])

	case 0x6: // LD Vx, byte
		v[ins.x] = ins.nn

	case 0x7: // ADD Vx, byte
		v[ins.x] += ins.nn

	case 0x8:
		return m.executeArithmetic(ins)

	case 0x9: // SNE Vx, Vy
		if ins.n != 0 {
			return ErrUnknownOpcode
		}
		m.skipIf(v[ins.x] != v[ins.y])

	case 0xA: // LD I, addr
		m.state.I = ins.nnn

	case 0xB: // JP V0, addr
		if m.quirks.JumpUsesVX {
			m.state.PC = ins.nnn + uint16(v[ins.x])
		} else {
			m.state.PC = ins.nnn + uint16(v[0])
		}

	case 0xC: // RND Vx, byte
		v[ins.x] = uint8(m.random.Uint32()) & ins.nn

	case 0xD:
		return m.draw(ins)

	case 0xE:
		return m.executeKeySkip(ins)

	case 0xF:
		return m.executeMisc(ins)

	default:
		return ErrUnknownOpcode
	}
	return nil
}

func (m *Machine) skipIf(condition bool) {
	if condition {
		m.state.PC += 2
	}
}

func flag(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}
