package chip8

// registers is the register file of a machine.
type registers struct {
	v     [16]byte
	i     uint16
	pc    uint16
	stack []uint16
	depth int

	delayTimer byte
	soundTimer byte

	// user flags of FX75/FX85, they survive a reset
	flags [16]byte
}

func newRegisters(depth int) *registers {
	r := &registers{
		stack: make([]uint16, 0, depth),
		depth: depth,
	}
	r.reset()
	return r
}

func (r *registers) reset() {
	r.v = [16]byte{}
	r.i = 0
	r.pc = ProgramStart
	r.stack = r.stack[:0]
	r.delayTimer = 0
	r.soundTimer = 0
}

func (r *registers) push(addr uint16) error {
	if len(r.stack) >= r.depth {
		return ErrStackOverflow
	}
	r.stack = append(r.stack, addr)
	return nil
}

func (r *registers) pop() (uint16, error) {
	if len(r.stack) == 0 {
		return 0, ErrStackUnderflow
	}
	addr := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	return addr, nil
}

func (r *registers) decrementTimers() {
	if r.delayTimer > 0 {
		r.delayTimer--
	}
	if r.soundTimer > 0 {
		r.soundTimer--
	}
}

// clampTimer limits a timer value to the 8 bit range.
func clampTimer(value int) byte {
	switch {
	case value < 0:
		return 0
	case value > 0xFF:
		return 0xFF
	default:
		return byte(value)
	}
}
