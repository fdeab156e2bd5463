package host

import (
	"context"
	"errors"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type keyEvent struct {
	key     uint8
	pressed bool
}

// scriptedFrontend replays key events and control errors frame by frame.
type scriptedFrontend struct {
	keys     map[int][]keyEvent
	controls map[int]error
	polls    int
	frames   []chip8.Framebuffer
}

func (f *scriptedFrontend) PollKeys(setKey KeyFunc) error {
	poll := f.polls
	f.polls++
	for _, event := range f.keys[poll] {
		if err := setKey(event.key, event.pressed); err != nil {
			return err
		}
	}
	return f.controls[poll]
}

func (f *scriptedFrontend) Render(fb *chip8.Framebuffer) error {
	f.frames = append(f.frames, *fb)
	return nil
}

type recordingSpeaker struct {
	changes []bool
}

func (s *recordingSpeaker) SetTone(on bool) {
	s.changes = append(s.changes, on)
}

func program(words ...uint16) []byte {
	data := make([]byte, 0, len(words)*2)
	for _, word := range words {
		data = append(data, byte(word>>8), byte(word))
	}
	return data
}

func newTestRunner(t *testing.T, frontend Frontend, speaker Speaker, config Config, words ...uint16) *Runner {
	t.Helper()

	logger := log.NewTestLogger(t)
	machine := chip8.New(chip8.WithLogger(logger))
	r, err := New(logger, machine, program(words...), frontend, speaker, config)
	assert.NoError(t, err)
	return r
}

func TestNewValidatesConfig(t *testing.T) {
	logger := log.NewTestLogger(t)
	_, err := New(logger, chip8.New(), program(0x1200), &Headless{}, nil, Config{})
	assert.Error(t, err)

	_, err = New(logger, chip8.New(), make([]byte, chip8.MaxProgramSize+1), &Headless{}, nil, Config{CyclesPerFrame: 1})
	assert.True(t, errors.Is(err, chip8.ErrProgramTooLarge))
}

func TestFrame(t *testing.T) {
	frontend := &scriptedFrontend{}
	r := newTestRunner(t, frontend, nil, Config{CyclesPerFrame: 3},
		0x6005, // LD V0, $05
		0xF015, // LD DT, V0
		0xA000, // LD I, $000
		0xD015, // DRW V0, V1, 5
		0x1208, // JP $208
	)

	assert.NoError(t, r.Frame())
	assert.Equal(t, 3, r.Cycles())
	assert.Equal(t, uint8(4), r.Machine().DelayTimer())
	assert.Len(t, frontend.frames, 1)
	assert.Equal(t, 0, frontend.frames[0].Lit())

	assert.NoError(t, r.Frame())
	assert.Equal(t, 6, r.Cycles())
	assert.Equal(t, uint8(3), r.Machine().DelayTimer())
	assert.True(t, frontend.frames[1].Pixel(5, 0))
	assert.Equal(t, 2, r.Frames())
}

func TestFrameForwardsKeys(t *testing.T) {
	frontend := &scriptedFrontend{
		keys: map[int][]keyEvent{
			2: {{key: 0xB, pressed: true}},
		},
	}
	r := newTestRunner(t, frontend, nil, Config{CyclesPerFrame: 2},
		0xF30A, // LD V3, K
		0x1202, // JP $202
	)

	assert.NoError(t, r.Frame())
	assert.NoError(t, r.Frame())
	assert.True(t, r.Machine().Waiting())

	assert.NoError(t, r.Frame())
	assert.False(t, r.Machine().Waiting())
	assert.Equal(t, uint8(0xB), r.Machine().Registers()[3])
}

func TestFrameTone(t *testing.T) {
	speaker := &recordingSpeaker{}
	r := newTestRunner(t, &scriptedFrontend{}, speaker, Config{CyclesPerFrame: 2},
		0x6002, // LD V0, $02
		0xF018, // LD ST, V0
		0x1204, // JP $204
	)

	for range 4 {
		assert.NoError(t, r.Frame())
	}
	assert.Equal(t, []bool{true, false}, speaker.changes)
}

func TestFrameRestart(t *testing.T) {
	frontend := &scriptedFrontend{
		controls: map[int]error{1: ErrRestart},
	}
	r := newTestRunner(t, frontend, nil, Config{CyclesPerFrame: 1},
		0x7001, // ADD V0, $01
		0x1200, // JP $200
	)

	assert.NoError(t, r.Frame())
	assert.Equal(t, uint8(1), r.Machine().Registers()[0])

	assert.NoError(t, r.Frame())
	assert.Equal(t, uint8(1), r.Machine().Registers()[0])
	assert.Equal(t, uint16(0x202), r.Machine().PC())
}

func TestRunStopsOnFrontendStop(t *testing.T) {
	frontend := &scriptedFrontend{
		controls: map[int]error{3: ErrStopped},
	}
	r := newTestRunner(t, frontend, nil, Config{CyclesPerFrame: 1, Unpaced: true}, 0x1200)

	assert.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 3, r.Frames())
}

func TestRunCycleLimit(t *testing.T) {
	r := newTestRunner(t, &Headless{}, nil, Config{CyclesPerFrame: 10, MaxCycles: 25, Unpaced: true}, 0x1200)

	err := r.Run(context.Background())
	assert.True(t, errors.Is(err, ErrCycleLimit))
	assert.Equal(t, 25, r.Cycles())
}

func TestRunBreakpoint(t *testing.T) {
	r := newTestRunner(t, &Headless{}, nil, Config{CyclesPerFrame: 10, Breakpoints: []uint16{0x204}, Unpaced: true},
		0x6001, // LD V0, $01
		0x6102, // LD V1, $02
		0x6203, // LD V2, $03
		0x1200, // JP $200
	)

	err := r.Run(context.Background())
	assert.True(t, errors.Is(err, ErrBreakpoint))
	assert.Equal(t, uint16(0x204), r.Machine().PC())
	assert.Equal(t, 2, r.Cycles())

	// resuming steps over the breakpoint once and stops on the next visit
	err = r.Run(context.Background())
	assert.True(t, errors.Is(err, ErrBreakpoint))
	assert.Equal(t, uint16(0x204), r.Machine().PC())
	assert.Equal(t, 6, r.Cycles())
}

func TestRunMultipleBreakpoints(t *testing.T) {
	r := newTestRunner(t, &Headless{}, nil, Config{CyclesPerFrame: 10, Breakpoints: []uint16{0x206, 0x202}, Unpaced: true},
		0x6001, // LD V0, $01
		0x6102, // LD V1, $02
		0x6203, // LD V2, $03
		0x1200, // JP $200
	)

	err := r.Run(context.Background())
	assert.True(t, errors.Is(err, ErrBreakpoint))
	assert.Equal(t, uint16(0x202), r.Machine().PC())
	assert.Equal(t, 1, r.Cycles())

	err = r.Run(context.Background())
	assert.True(t, errors.Is(err, ErrBreakpoint))
	assert.Equal(t, uint16(0x206), r.Machine().PC())
	assert.Equal(t, 3, r.Cycles())
}

func TestRunMachineError(t *testing.T) {
	r := newTestRunner(t, &Headless{}, nil, Config{CyclesPerFrame: 1, Unpaced: true}, 0x00EE)

	err := r.Run(context.Background())
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTestRunner(t, &Headless{}, nil, Config{CyclesPerFrame: 1}, 0x1200)
	err := r.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
