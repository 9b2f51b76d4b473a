package session

import (
	cpuchip8 "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Mnemonic returns the instruction name of an opcode word for fault reports.
// Words that match no CHIP-8 instruction return "unknown".
func Mnemonic(word uint16) string {
	firstNibble := (word & 0xF000) >> 12
	opcodes := cpuchip8.Opcodes[int(firstNibble)]
	for _, op := range opcodes {
		if op.Info.Mask&word == op.Info.Value && op.Instruction != nil {
			return op.Instruction.Name
		}
	}
	return "unknown"
}
