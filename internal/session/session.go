// Package session runs a CHIP-8 program with the frontend selected by the options.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/frontend/terminal"
	"github.com/retroenv/retrochip8/internal/host"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// Run loads the program file and executes it until the frontend stops, a stop
// condition is reached or the machine halts with an error.
func Run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	program, err := loader.New().Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	logger.Info("Loaded program",
		log.String("file", filepath.Base(opts.Input)),
		log.Int("size", len(program)))

	machine := config.CreateMachine(logger, opts)
	cfg := config.CreateRunnerConfig(opts)

	var runner *host.Runner
	switch opts.Frontend {
	case options.FrontendHeadless:
		cfg.Unpaced = true
		runner, err = host.New(logger, machine, program, &host.Headless{}, host.NopSpeaker{}, cfg)
		if err == nil {
			err = runner.Run(ctx)
		}

	case options.FrontendTerminal:
		speaker, closeSpeaker := createSpeaker(logger, opts)
		defer closeSpeaker()
		runner, err = runTerminal(ctx, logger, machine, program, speaker, cfg)

	default:
		speaker, closeSpeaker := createSpeaker(logger, opts)
		defer closeSpeaker()
		title := "retrochip8 - " + filepath.Base(opts.Input)
		runner, err = runWindow(ctx, logger, machine, program, speaker, cfg, title, opts.Scale)
	}

	return finish(logger, runner, err)
}

func runTerminal(ctx context.Context, logger *log.Logger, machine *chip8.Machine, program []byte,
	speaker host.Speaker, cfg host.Config) (*host.Runner, error) {

	term := terminal.New(os.Stdin, os.Stdout)
	if err := term.Start(); err != nil {
		return nil, fmt.Errorf("starting terminal: %w", err)
	}
	defer func() {
		if err := term.Close(); err != nil {
			logger.Error("Closing terminal failed", log.Err(err))
		}
	}()

	runner, err := host.New(logger, machine, program, term, speaker, cfg)
	if err != nil {
		return nil, err
	}
	return runner, runner.Run(ctx)
}

// createSpeaker returns the audio output, a failing audio device only disables sound.
func createSpeaker(logger *log.Logger, opts options.Program) (host.Speaker, func()) {
	if opts.Mute {
		return host.NopSpeaker{}, func() {}
	}

	beeper, err := audio.NewBeeper()
	if err != nil {
		logger.Warn("Audio disabled", log.Err(err))
		return host.NopSpeaker{}, func() {}
	}
	return beeper, func() {
		if err := beeper.Close(); err != nil {
			logger.Error("Closing audio failed", log.Err(err))
		}
	}
}

// finish logs the final machine state and filters out expected stop conditions.
func finish(logger *log.Logger, runner *host.Runner, err error) error {
	if runner != nil {
		machine := runner.Machine()
		logger.Info("Execution finished",
			log.Hex("pc", machine.PC()),
			log.Hex("index", machine.Index()),
			log.Int("cycles", runner.Cycles()),
			log.Int("frames", runner.Frames()))
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, host.ErrCycleLimit), errors.Is(err, host.ErrBreakpoint):
		logger.Info("Execution stopped", log.Err(err))
		if runner != nil {
			logRegisters(logger, runner.Machine())
		}
		return nil
	default:
		return err
	}
}

func logRegisters(logger *log.Logger, machine *chip8.Machine) {
	registers := machine.Registers()
	for i, value := range registers {
		logger.Debug("Register", log.String("name", fmt.Sprintf("V%X", i)), log.Hex("value", value))
	}
}

// PrintBanner prints the application banner with version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("retrochip8", log.String("version", buildinfo.Version(version, commit, date)))
}
