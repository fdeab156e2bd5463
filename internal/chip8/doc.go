// Package chip8 implements the CHIP-8 interpreter core.
//
// # Machine State
//
// State holds every architectural register of the virtual machine:
//
//	0x000-0x04F: built-in hex font, 16 glyphs of 5 bytes each
//	0x050-0x1FF: interpreter area, unused by the core
//	0x200-0xFFF: program and data space
//
// Besides the 4KB of memory the machine has 16 8-bit registers V0-VF, a 16-bit
// index register I, a program counter, a 16 entry call stack, a 64x32 monochrome
// framebuffer, the delay and sound timers and a latch of 16 hex keys.
// VF doubles as the carry, borrow and collision flag.
//
// # Cycle Engine
//
// Machine drives the state. The host calls Tick at the instruction rate and
// DecrementTimers at 60 Hz, the two cadences are independent:
//
//	m := chip8.New(chip8.WithLogger(logger))
//	if err := m.LoadProgram(rom); err != nil {
//		return err
//	}
//	for {
//		for range cyclesPerFrame {
//			if err := m.Tick(); err != nil {
//				return err
//			}
//		}
//		m.DecrementTimers()
//		render(m.Framebuffer())
//	}
//
// The key wait instruction FX0A never blocks the caller. It holds the program
// counter in place and every Tick returns immediately until SetKey reports a key
// press.
//
// # Errors
//
// Stack overflow and underflow, unknown opcodes and memory accesses beyond 0xFFF
// halt the engine. The error is returned by the failing Tick and by every Tick
// after it until Reset is called.
package chip8
