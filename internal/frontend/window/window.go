//go:build !headless

// Package window implements a desktop window frontend based on ebiten.
// Ebiten owns the main loop and calls Update at 60 ticks per second, each
// tick runs one host frame.
package window

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/host"
)

// Pixel colors in RGBA.
var (
	colorOn  = [4]byte{0xE8, 0xF0, 0xD8, 0xFF}
	colorOff = [4]byte{0x10, 0x18, 0x10, 0xFF}
)

// keymap maps the left side of a QWERTY keyboard to the hex keypad.
var keymap = [chip8.KeyCount]ebiten.Key{
	0x1: ebiten.Key1, 0x2: ebiten.Key2, 0x3: ebiten.Key3, 0xC: ebiten.Key4,
	0x4: ebiten.KeyQ, 0x5: ebiten.KeyW, 0x6: ebiten.KeyE, 0xD: ebiten.KeyR,
	0x7: ebiten.KeyA, 0x8: ebiten.KeyS, 0x9: ebiten.KeyD, 0xE: ebiten.KeyF,
	0xA: ebiten.KeyZ, 0x0: ebiten.KeyX, 0xB: ebiten.KeyC, 0xF: ebiten.KeyV,
}

var (
	_ host.Frontend = (*Window)(nil)
	_ ebiten.Game   = (*Window)(nil)
)

// Window is a frontend that shows the screen in a desktop window.
type Window struct {
	ctx    context.Context
	runner *host.Runner
	scale  int
	title  string

	pixels []byte
	keys   [chip8.KeyCount]bool
	err    error
}

// New returns a window frontend that scales every CHIP-8 pixel by scale.
func New(title string, scale int) *Window {
	if scale < 1 {
		scale = 1
	}
	w := &Window{
		scale:  scale,
		title:  title,
		pixels: make([]byte, chip8.ScreenWidth*chip8.ScreenHeight*4),
	}
	var fb chip8.Framebuffer
	fillPixels(w.pixels, &fb)
	return w
}

// Run opens the window and drives the runner until the window is closed,
// the context is canceled or a frame fails.
func (w *Window) Run(ctx context.Context, runner *host.Runner) error {
	w.ctx = ctx
	w.runner = runner

	ebiten.SetWindowSize(chip8.ScreenWidth*w.scale, chip8.ScreenHeight*w.scale)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetTPS(host.FrameRate)

	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	return w.err
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if err := w.ctx.Err(); err != nil {
		w.err = err
		return ebiten.Termination
	}

	err := w.runner.Frame()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, host.ErrStopped):
		return ebiten.Termination
	default:
		w.err = err
		return ebiten.Termination
	}
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.WritePixels(w.pixels)
}

// Layout implements ebiten.Game, ebiten scales the CHIP-8 resolution to the window.
func (w *Window) Layout(_, _ int) (int, int) {
	return chip8.ScreenWidth, chip8.ScreenHeight
}

// PollKeys implements host.Frontend. Esc stops, Backspace restarts.
func (w *Window) PollKeys(setKey host.KeyFunc) error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return host.ErrStopped
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		return host.ErrRestart
	}

	for key, physical := range keymap {
		pressed := ebiten.IsKeyPressed(physical)
		if pressed == w.keys[key] {
			continue
		}
		w.keys[key] = pressed
		if err := setKey(uint8(key), pressed); err != nil {
			return err
		}
	}
	return nil
}

// Render implements host.Frontend.
func (w *Window) Render(fb *chip8.Framebuffer) error {
	fillPixels(w.pixels, fb)
	return nil
}

// fillPixels converts the framebuffer to RGBA pixels.
func fillPixels(dst []byte, fb *chip8.Framebuffer) {
	for i, on := range fb {
		color := colorOff
		if on {
			color = colorOn
		}
		copy(dst[i*4:], color[:])
	}
}
