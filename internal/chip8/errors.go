package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrAddressing is returned for memory, register or key indexes outside of
	// the valid range.
	ErrAddressing = errors.New("address out of range")
	// ErrRomTooLarge is returned when a ROM does not fit into program space.
	ErrRomTooLarge = errors.New("rom too large")
	// ErrStackOverflow is returned when a call exceeds the stack depth.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned for a return with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrUnsupportedOpcode is returned for instructions the variant does not define.
	ErrUnsupportedOpcode = errors.New("unsupported opcode")
	// ErrProgramExit is returned after the program executed the SUPER-CHIP
	// exit instruction 00FD. It is not a fault.
	ErrProgramExit = errors.New("program exited")
)

// HaltError is the terminal error of a halted machine. It records the
// address and instruction word that caused the halt.
type HaltError struct {
	PC     uint16
	Opcode uint16
	Err    error
}

func (e *HaltError) Error() string {
	return fmt.Sprintf("halted at 0x%04X executing 0x%04X: %v", e.PC, e.Opcode, e.Err)
}

func (e *HaltError) Unwrap() error {
	return e.Err
}

func addressError(addr int) error {
	return fmt.Errorf("%w: 0x%04X", ErrAddressing, addr)
}
