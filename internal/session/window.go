//go:build !headless

package session

import (
	"context"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend/window"
	"github.com/retroenv/retrochip8/internal/host"
	"github.com/retroenv/retrogolib/log"
)

func runWindow(ctx context.Context, logger *log.Logger, machine *chip8.Machine, program []byte,
	speaker host.Speaker, cfg host.Config, title string, scale int) (*host.Runner, error) {

	w := window.New(title, scale)
	runner, err := host.New(logger, machine, program, w, speaker, cfg)
	if err != nil {
		return nil, err
	}
	return runner, w.Run(ctx, runner)
}
