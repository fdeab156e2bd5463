package chip8

import "fmt"

// Machine dimensions.
const (
	MemorySize    = 4096
	RegisterCount = 16
	StackSize     = 16
	KeyCount      = 16

	ScreenWidth  = 64
	ScreenHeight = 32

	// ProgramStart is the address programs are loaded to and executed from.
	ProgramStart = 0x200
	// MaxProgramSize is the space available between ProgramStart and the end of memory.
	MaxProgramSize = MemorySize - ProgramStart

	// FontAddress is the address of the glyph for hex digit 0.
	FontAddress = 0x000
	// GlyphSize is the number of bytes, and rows, of one font glyph.
	GlyphSize = 5

	flagRegister = 0xF
)

var font = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Font returns a copy of the built-in hex digit glyphs.
func Font() [16 * GlyphSize]byte {
	return font
}

// Framebuffer is the monochrome display, one bool per pixel indexed y*ScreenWidth+x.
type Framebuffer [ScreenWidth * ScreenHeight]bool

// Pixel returns whether the pixel at the given coordinates is lit.
// Coordinates wrap around the screen edges like sprite drawing does.
func (f *Framebuffer) Pixel(x, y int) bool {
	x %= ScreenWidth
	if x < 0 {
		x += ScreenWidth
	}
	y %= ScreenHeight
	if y < 0 {
		y += ScreenHeight
	}
	return f[y*ScreenWidth+x]
}

// Lit returns the number of lit pixels.
func (f *Framebuffer) Lit() int {
	var count int
	for _, on := range f {
		if on {
			count++
		}
	}
	return count
}

// State contains all mutable architectural state of the machine.
// The zero value is not usable, call Reset first.
type State struct {
	Memory [MemorySize]byte
	V      [RegisterCount]uint8
	I      uint16
	PC     uint16

	Stack [StackSize]uint16
	SP    uint8

	Screen Framebuffer

	DelayTimer uint8
	SoundTimer uint8

	Keys [KeyCount]bool
}

// Reset zeroes all state in place, reloads the font and points the program
// counter at ProgramStart. Loaded programs are wiped.
func (s *State) Reset() {
	*s = State{}
	copy(s.Memory[FontAddress:], font[:])
	s.PC = ProgramStart
}

// Push stores a return address on the call stack.
func (s *State) Push(value uint16) error {
	if int(s.SP) >= StackSize {
		return fmt.Errorf("%w: pushing %04X with %d entries", ErrStackOverflow, value, s.SP)
	}
	s.Stack[s.SP] = value
	s.SP++
	return nil
}

// Pop removes and returns the most recently pushed return address.
func (s *State) Pop() (uint16, error) {
	if s.SP == 0 {
		return 0, ErrStackUnderflow
	}
	s.SP--
	return s.Stack[s.SP], nil
}
