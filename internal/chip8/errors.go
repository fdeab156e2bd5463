package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrStackOverflow is returned when a subroutine call exceeds StackSize nested calls.
	ErrStackOverflow = errors.New("call stack overflow")
	// ErrStackUnderflow is returned when a return is executed with an empty call stack.
	ErrStackUnderflow = errors.New("call stack underflow")
	// ErrUnknownOpcode is returned for opcode words outside the base instruction set.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrAddressOutOfRange is returned for memory accesses beyond the end of memory.
	ErrAddressOutOfRange = errors.New("address out of range")
	// ErrProgramTooLarge is returned when a program does not fit into the program space.
	ErrProgramTooLarge = errors.New("program too large")
	// ErrInvalidKey is returned for key indexes outside 0x0-0xF.
	ErrInvalidKey = errors.New("invalid key")
)

// OpcodeError describes a fatal error raised while executing an instruction.
type OpcodeError struct {
	Opcode  uint16 // opcode word that failed
	Address uint16 // address the opcode was fetched from
	Err     error
}

func (e *OpcodeError) Error() string {
	if name := Mnemonic(e.Opcode); name != "" {
		return fmt.Sprintf("executing %s (%04X) at $%03X: %v", name, e.Opcode, e.Address, e.Err)
	}
	return fmt.Sprintf("executing %04X at $%03X: %v", e.Opcode, e.Address, e.Err)
}

func (e *OpcodeError) Unwrap() error {
	return e.Err
}
