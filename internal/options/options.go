// Package options contains the program options.
package options

// Frontend names.
const (
	FrontendWindow   = "window"
	FrontendTerminal = "terminal"
	FrontendHeadless = "headless"
)

// DefaultRate is the default number of instructions executed per second.
const DefaultRate = 700

// Positional contains positional arguments.
type Positional struct {
	File string `arg:"positional" usage:"CHIP-8 program file to run"`
}

// Parameters contains file path options.
type Parameters struct {
	Input string `flag:"i" usage:"input CHIP-8 program file"`
}

// Flags contains behavior options.
type Flags struct {
	Frontend string `flag:"f" usage:"frontend: window, terminal, headless" default:"window"`
	Rate     int    `flag:"rate" usage:"instructions executed per second" default:"700"`
	Cycles   int    `flag:"cycles" usage:"stop after this many instructions, 0 for no limit"`
	Break    string `flag:"break" usage:"comma separated hex addresses to stop at, for example 2A0,$300"`
	Seed     uint64 `flag:"seed" usage:"random number seed, 0 for a random seed"`
	Scale    int    `flag:"scale" usage:"window pixel scale" default:"10"`
	Mute     bool   `flag:"mute" usage:"disable sound"`
	Trace    bool   `flag:"trace" usage:"log every executed instruction, needs -debug"`
	Debug    bool   `flag:"debug" usage:"enable debugging options for extended logging"`
	Quiet    bool   `flag:"q" usage:"perform operations quietly"`
}

// Quirks contains the instruction convention options.
type Quirks struct {
	ShiftLoadsVY             bool `flag:"quirk-shift" usage:"8XY6/8XYE shift VY and store the result in VX"`
	LoadStoreIncrementsIndex bool `flag:"quirk-loadstore" usage:"FX55/FX65 increment I past the last register"`
	JumpUsesVX               bool `flag:"quirk-jump" usage:"BXNN jumps to XNN plus VX"`
}

// Program options of the interpreter.
type Program struct {
	Positional
	Parameters
	Flags
	Quirks

	Breakpoints []uint16 // parsed from Flags.Break
}

// CyclesPerFrame returns the number of instructions to execute per 60 Hz frame.
func (p Program) CyclesPerFrame() int {
	cycles := p.Rate / 60
	if cycles < 1 {
		return 1
	}
	return cycles
}
