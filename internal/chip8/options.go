package chip8

import (
	"github.com/retroenv/retrogolib/log"
)

// RandomSource provides the random numbers for the CXNN instruction.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Uint32() uint32
}

// Quirks select between the conventions that CHIP-8 interpreters disagree on.
// The zero value follows the common modern behavior.
type Quirks struct {
	// ShiftLoadsVY makes 8XY6 and 8XYE shift VY and store the result in VX,
	// like the original COSMAC VIP interpreter. Otherwise VX is shifted in place.
	ShiftLoadsVY bool
	// LoadStoreIncrementsIndex makes FX55 and FX65 leave I pointing past the last
	// register transferred. Otherwise I is unchanged.
	LoadStoreIncrementsIndex bool
	// JumpUsesVX makes BXNN jump to XNN plus VX instead of NNN plus V0.
	JumpUsesVX bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithTrace enables logging of every executed instruction at debug level.
func WithTrace(enabled bool) Option {
	return func(m *Machine) {
		m.trace = enabled
	}
}

// WithRandom sets the random number source, for example a seeded generator
// for reproducible runs.
func WithRandom(source RandomSource) Option {
	return func(m *Machine) {
		m.random = source
	}
}

// WithQuirks selects the instruction conventions.
func WithQuirks(quirks Quirks) Option {
	return func(m *Machine) {
		m.quirks = quirks
	}
}
