// Package cli handles command line interface logic
package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/cli"
)

const programName = "retrochip8"

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := cli.NewFlagSet(programName)
	var opts options.Program
	flags.AddSection("Parameters", &opts.Parameters)
	flags.AddSection("Flags", &opts.Flags)
	flags.AddSection("Quirks", &opts.Quirks)
	flags.AddPositional(&opts.Positional)

	args, err := flags.Parse(os.Args[1:])
	if err != nil {
		// the flag set prints the usage itself for parse errors and help requests
		if errors.Is(err, cli.ErrHelpRequested) {
			return opts, &UsageError{}
		}
		return opts, &UsageError{msg: err.Error()}
	}

	if opts.Input == "" {
		opts.Input = opts.File
	} else if opts.File != "" {
		args = append([]string{opts.File}, args...)
	}
	if opts.Input == "" {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *cli.FlagSet // nil if the usage was already printed
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	if e.flags == nil {
		return
	}
	e.flags.ShowUsage()
}

// validateArgs checks for arguments left over after the program file
func validateArgs(args []string) error {
	for _, arg := range args {
		if arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after program file, please pass the program file as last argument", arg),
			}
		}
	}
	if len(args) > 0 {
		return &UsageError{
			msg: fmt.Sprintf("Unexpected arguments after program file: %s", strings.Join(args, " ")),
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Frontend = strings.ToLower(opts.Frontend)

	validFrontends := []string{options.FrontendWindow, options.FrontendTerminal, options.FrontendHeadless}
	if !slices.Contains(validFrontends, opts.Frontend) {
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
			opts.Frontend, strings.Join(validFrontends, ", "))
	}

	if opts.Rate < 1 {
		return fmt.Errorf("invalid instruction rate %d", opts.Rate)
	}
	if opts.Cycles < 0 {
		return fmt.Errorf("invalid cycle limit %d", opts.Cycles)
	}

	breakpoints, err := parseAddresses(opts.Break)
	if err != nil {
		return err
	}
	opts.Breakpoints = breakpoints
	return nil
}

// parseAddresses parses a comma separated list of hex addresses, each
// optionally prefixed with $ or 0x.
func parseAddresses(value string) ([]uint16, error) {
	var addresses []uint16
	for part := range strings.SplitSeq(value, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "$")
		part = strings.TrimPrefix(strings.ToLower(part), "0x")
		if part == "" {
			continue
		}

		address, err := strconv.ParseUint(part, 16, 12)
		if err != nil {
			return nil, fmt.Errorf("invalid breakpoint address '%s': %w", part, err)
		}
		addresses = append(addresses, uint16(address))
	}
	return addresses, nil
}
