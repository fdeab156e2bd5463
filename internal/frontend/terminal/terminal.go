// Package terminal implements a text frontend that renders the screen with
// half block characters and reads the keypad from raw stdin.
package terminal

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/host"
	"golang.org/x/term"
)

const (
	keyCtrlC     = 0x03
	keyEscape    = 0x1B
	keyBackspace = 0x7F

	// terminals only report key presses, a key counts as released after this many frames
	holdFrames = 6

	eventBuffer = 64
)

// keymap maps the left side of a QWERTY keyboard to the hex keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R      4 5 6 D
//	A S D F  ->  7 8 9 E
//	Z X C V      A 0 B F
var keymap = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

var _ host.Frontend = (*Terminal)(nil)

// Terminal is a frontend for ANSI terminals.
type Terminal struct {
	in  io.Reader
	out *bufio.Writer

	fd       int
	oldState *term.State

	events    chan byte
	done      chan struct{}
	closeOnce sync.Once
	held      [chip8.KeyCount]int

	last     chip8.Framebuffer
	rendered bool
	line     bytes.Buffer
}

// New returns a terminal frontend reading keys from in and drawing to out.
func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:     in,
		out:    bufio.NewWriter(out),
		fd:     -1,
		events: make(chan byte, eventBuffer),
		done:   make(chan struct{}),
	}
}

// Start switches the input to raw mode if it is a terminal and starts reading keys.
func (t *Terminal) Start() error {
	if file, ok := t.in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		t.fd = int(file.Fd())
		oldState, err := term.MakeRaw(t.fd)
		if err != nil {
			return fmt.Errorf("setting raw mode: %w", err)
		}
		t.oldState = oldState
	}

	go t.readInput()

	_, _ = t.out.WriteString("\x1b[2J\x1b[?25l")
	return t.out.Flush()
}

// Close stops the input reader and restores the terminal state.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() { close(t.done) })

	_, _ = t.out.WriteString("\x1b[?25h\r\n")
	_ = t.out.Flush()

	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(t.fd, t.oldState); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	t.oldState = nil
	return nil
}

// readInput forwards input bytes to PollKeys, which runs on the host loop.
// The channel is closed when the input ends or the terminal is closed. A Read
// that is blocked on stdin during Close returns with the next input byte,
// which is dropped.
func (t *Terminal) readInput() {
	defer close(t.events)

	buf := make([]byte, 1)
	for {
		n, err := t.in.Read(buf)
		if n > 0 {
			select {
			case t.events <- buf[0]:
			case <-t.done:
				return
			}
		}
		if err != nil {
			return
		}

		select {
		case <-t.done:
			return
		default:
		}
	}
}

// PollKeys implements host.Frontend. Esc and Ctrl+C stop, Backspace restarts.
func (t *Terminal) PollKeys(setKey host.KeyFunc) error {
	for key, frames := range t.held {
		if frames == 0 {
			continue
		}
		t.held[key]--
		if t.held[key] == 0 {
			if err := setKey(uint8(key), false); err != nil {
				return err
			}
		}
	}

	for {
		select {
		case b, ok := <-t.events:
			if !ok {
				return host.ErrStopped
			}
			if err := t.handleInput(b, setKey); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (t *Terminal) handleInput(b byte, setKey host.KeyFunc) error {
	switch b {
	case keyCtrlC, keyEscape:
		return host.ErrStopped
	case keyBackspace:
		return host.ErrRestart
	}

	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	key, ok := keymap[b]
	if !ok {
		return nil
	}

	if t.held[key] == 0 {
		if err := setKey(key, true); err != nil {
			return err
		}
	}
	t.held[key] = holdFrames
	return nil
}

// Render implements host.Frontend. Two pixel rows are combined into one text
// line. Unchanged frames are not drawn again.
func (t *Terminal) Render(fb *chip8.Framebuffer) error {
	if t.rendered && *fb == t.last {
		return nil
	}
	t.last = *fb
	t.rendered = true

	_, _ = t.out.WriteString("\x1b[H")
	for y := 0; y < chip8.ScreenHeight; y += 2 {
		t.line.Reset()
		for x := range chip8.ScreenWidth {
			t.line.WriteString(halfBlock(fb.Pixel(x, y), fb.Pixel(x, y+1)))
		}
		t.line.WriteString("\r\n")
		if _, err := t.out.Write(t.line.Bytes()); err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
	}
	return t.out.Flush()
}

func halfBlock(top, bottom bool) string {
	switch {
	case top && bottom:
		return "█"
	case top:
		return "▀"
	case bottom:
		return "▄"
	default:
		return " "
	}
}
