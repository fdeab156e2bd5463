package chip8

import (
	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Mnemonic returns the assembler name of the instruction an opcode word decodes to,
// or an empty string if the word matches no instruction.
func Mnemonic(opcode uint16) string {
	opcodes := chip8cpu.Opcodes[int(opcode>>12)]
	for _, op := range opcodes {
		if op.Instruction == nil {
			continue
		}
		if op.Info.Mask&opcode == op.Info.Value {
			return op.Instruction.Name
		}
	}
	return ""
}
