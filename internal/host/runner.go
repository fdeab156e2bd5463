package host

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const noBreakpoint = -1

// Config controls the pacing and stop conditions of a Runner.
type Config struct {
	CyclesPerFrame int      // instructions executed per 60 Hz frame
	MaxCycles      int      // stop after this many instructions, 0 for no limit
	Breakpoints    []uint16 // addresses to stop at before executing them
	Unpaced        bool     // run frames back to back instead of at FrameRate
}

// Runner owns a machine and drives it for a frontend.
type Runner struct {
	logger   *log.Logger
	machine  *chip8.Machine
	program  []byte
	frontend Frontend
	speaker  Speaker
	config   Config

	breakpoints set.Set[uint16]
	resumeAt    int // breakpoint address to step over once after a stop

	cycles int
	frames int
	tone   bool
}

// New returns a runner with the program loaded into the machine.
func New(logger *log.Logger, machine *chip8.Machine, program []byte,
	frontend Frontend, speaker Speaker, config Config) (*Runner, error) {

	if config.CyclesPerFrame < 1 {
		return nil, fmt.Errorf("invalid cycles per frame %d", config.CyclesPerFrame)
	}
	if speaker == nil {
		speaker = NopSpeaker{}
	}

	r := &Runner{
		logger:      logger,
		machine:     machine,
		program:     program,
		frontend:    frontend,
		speaker:     speaker,
		config:      config,
		breakpoints: set.NewFromSlice(config.Breakpoints),
		resumeAt:    noBreakpoint,
	}

	if err := r.Restart(); err != nil {
		return nil, err
	}
	return r, nil
}

// Restart resets the machine and loads the program again.
func (r *Runner) Restart() error {
	r.machine.Reset()
	if err := r.machine.LoadProgram(r.program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	r.resumeAt = noBreakpoint
	r.setTone(false)

	r.logger.Debug("Program loaded",
		log.Int("size", len(r.program)),
		log.Hex("address", chip8.ProgramStart))
	return nil
}

// Run executes frames until the context is canceled or a frame fails.
// A stop requested by the frontend ends the run without error.
func (r *Runner) Run(ctx context.Context) error {
	err := r.run(ctx)
	r.setTone(false)
	if errors.Is(err, ErrStopped) {
		return nil
	}
	return err
}

func (r *Runner) run(ctx context.Context) error {
	if r.config.Unpaced {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.Frame(); err != nil {
				return err
			}
		}
	}

	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Frame(); err != nil {
				return err
			}
		}
	}
}

// Frame runs one 60 Hz frame: it applies the pending key changes, executes
// CyclesPerFrame instructions, decrements the timers once, updates the tone
// and renders the screen.
func (r *Runner) Frame() error {
	if err := r.frontend.PollKeys(r.machine.SetKey); err != nil {
		if !errors.Is(err, ErrRestart) {
			return err
		}
		r.logger.Info("Restarting program")
		if err := r.Restart(); err != nil {
			return err
		}
	}

	for range r.config.CyclesPerFrame {
		if err := r.step(); err != nil {
			return err
		}
	}

	r.machine.DecrementTimers()
	r.setTone(r.machine.SoundActive())
	r.frames++

	fb := r.machine.Framebuffer()
	if err := r.frontend.Render(&fb); err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	return nil
}

func (r *Runner) step() error {
	if r.config.MaxCycles > 0 && r.cycles >= r.config.MaxCycles {
		return fmt.Errorf("%w: %d instructions", ErrCycleLimit, r.cycles)
	}

	if !r.machine.Waiting() {
		pc := r.machine.PC()
		if int(pc) == r.resumeAt {
			r.resumeAt = noBreakpoint
		} else if r.breakpoints.Contains(pc) {
			r.resumeAt = int(pc)
			return fmt.Errorf("%w at $%03X", ErrBreakpoint, pc)
		}
	}

	if err := r.machine.Tick(); err != nil {
		return fmt.Errorf("executing instruction: %w", err)
	}
	r.cycles++
	return nil
}

func (r *Runner) setTone(on bool) {
	if on == r.tone {
		return
	}
	r.tone = on
	r.speaker.SetTone(on)
}

// Machine returns the machine driven by the runner.
func (r *Runner) Machine() *chip8.Machine {
	return r.machine
}

// Cycles returns the number of instructions executed.
func (r *Runner) Cycles() int {
	return r.cycles
}

// Frames returns the number of frames run.
func (r *Runner) Frames() int {
	return r.frames
}
