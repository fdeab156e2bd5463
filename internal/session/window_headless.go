//go:build headless

package session

import (
	"context"
	"errors"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/host"
	"github.com/retroenv/retrogolib/log"
)

var errNoWindow = errors.New("window frontend is not available in headless builds")

func runWindow(context.Context, *log.Logger, *chip8.Machine, []byte,
	host.Speaker, host.Config, string, int) (*host.Runner, error) {

	return nil, errNoWindow
}
