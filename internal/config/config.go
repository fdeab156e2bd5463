// Package config handles application configuration and setup
package config

import (
	"math/rand/v2"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/host"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateMachine creates the interpreter core configured from the program options.
func CreateMachine(logger *log.Logger, opts options.Program) *chip8.Machine {
	machineOptions := []chip8.Option{
		chip8.WithLogger(logger),
		chip8.WithTrace(opts.Trace),
		chip8.WithQuirks(chip8.Quirks{
			ShiftLoadsVY:             opts.ShiftLoadsVY,
			LoadStoreIncrementsIndex: opts.LoadStoreIncrementsIndex,
			JumpUsesVX:               opts.JumpUsesVX,
		}),
	}
	if opts.Seed != 0 {
		machineOptions = append(machineOptions, chip8.WithRandom(rand.New(rand.NewPCG(opts.Seed, opts.Seed))))
	}
	return chip8.New(machineOptions...)
}

// CreateRunnerConfig creates the host loop configuration from the program options.
func CreateRunnerConfig(opts options.Program) host.Config {
	return host.Config{
		CyclesPerFrame: opts.CyclesPerFrame(),
		MaxCycles:      opts.Cycles,
		Breakpoints:    opts.Breakpoints,
	}
}
