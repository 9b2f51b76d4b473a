package chip8

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// longLoadOpcode is the XO-CHIP F000 NNNN instruction that spans 4 bytes.
const longLoadOpcode = 0xF000

// extractRegisterX extracts the X register nibble from an opcode.
func extractRegisterX(op uint16) byte {
	return byte(op>>8) & 0xF
}

// extractRegisterY extracts the Y register nibble from an opcode.
func extractRegisterY(op uint16) byte {
	return byte(op>>4) & 0xF
}

func unsupported(op uint16) error {
	return fmt.Errorf("%w: 0x%04X", ErrUnsupportedOpcode, op)
}

// execute runs a decoded instruction. The program counter already points to
// the next instruction.
func (m *Machine) execute(op uint16) error {
	x := extractRegisterX(op)
	y := extractRegisterY(op)
	n := byte(op & 0xF)
	nn := byte(op)
	nnn := op & 0xFFF
	v := &m.reg.v

	switch op & 0xF000 {
	case 0x0000:
		return m.executeSystem(op)
	case 0x1000:
		// 1NNN - JP addr -- Jump to location NNN.
		m.reg.pc = nnn
	case 0x2000:
		// 2NNN - CALL addr -- Call subroutine at NNN.
		if err := m.reg.push(m.reg.pc); err != nil {
			return err
		}
		m.reg.pc = nnn
	case 0x3000:
		// 3XNN - SE VX, byte -- Skip next instruction if VX = NN.
		m.skipIf(v[x] == nn)
	case 0x4000:
		// 4XNN - SNE VX, byte -- Skip next instruction if VX != NN.
		m.skipIf(v[x] != nn)
	case 0x5000:
		return m.executeRegisterRange(op, x, y, n)
	case 0x6000:
		// 6XNN - LD VX, byte -- Set VX = NN.
		v[x] = nn
	case 0x7000:
		// 7XNN - ADD VX, byte -- Set VX = VX + NN, VF is not affected.
		v[x] += nn
	case 0x8000:
		return m.executeArithmetic(op, x, y, n)
	case 0x9000:
		if n != 0 {
			return unsupported(op)
		}
		// 9XY0 - SNE VX, VY -- Skip next instruction if VX != VY.
		m.skipIf(v[x] != v[y])
	case 0xA000:
		// ANNN - LD I, addr -- Set I = NNN.
		m.reg.i = nnn
	case 0xB000:
		// BNNN - JP V0, addr -- Jump to location NNN + V0.
		// BXNN - JP VX, addr -- Jump to location XNN + VX on SUPER-CHIP.
		offset := v[0]
		if m.quirks.Jump == JumpVX {
			offset = v[x]
		}
		m.reg.pc = nnn + uint16(offset)
	case 0xC000:
		// CXNN - RND VX, byte -- Set VX = random byte AND NN.
		v[x] = m.random() & nn
	case 0xD000:
		// DXYN - DRW VX, VY, nibble -- Display N-byte sprite starting at
		// memory location I at (VX, VY), set VF = collision.
		return m.drawSprite(v[x], v[y], n)
	case 0xE000:
		switch nn {
		case 0x9E:
			// EX9E - SKP VX -- Skip next instruction if key VX is pressed.
			m.skipIf(m.keys.pressed(v[x]))
		case 0xA1:
			// EXA1 - SKNP VX -- Skip next instruction if key VX is not pressed.
			m.skipIf(!m.keys.pressed(v[x]))
		default:
			return unsupported(op)
		}
	case 0xF000:
		return m.executeMisc(op, x)
	}
	return nil
}

// executeSystem handles the 0NNN instruction group.
func (m *Machine) executeSystem(op uint16) error {
	hires := m.variant.SupportsHires()
	xo := m.variant == XOCHIP

	switch {
	case op == 0x00E0:
		// 00E0 - CLS -- Clear the display.
		m.display.clear(m.display.mask)
	case op == 0x00EE:
		// 00EE - RET -- Return from a subroutine.
		addr, err := m.reg.pop()
		if err != nil {
			return err
		}
		m.reg.pc = addr
	case hires && op&0xFFF0 == 0x00C0:
		// 00CN - SCD nibble -- Scroll display N lines down.
		m.display.scrollDown(m.scrollAmount(int(op & 0xF)))
	case xo && op&0xFFF0 == 0x00D0:
		// 00DN - SCU nibble -- Scroll display N lines up.
		m.display.scrollUp(m.scrollAmount(int(op & 0xF)))
	case hires && op == 0x00FB:
		// 00FB - SCR -- Scroll display 4 pixels right.
		m.display.scrollRight(m.scrollAmount(4))
	case hires && op == 0x00FC:
		// 00FC - SCL -- Scroll display 4 pixels left.
		m.display.scrollLeft(m.scrollAmount(4))
	case hires && op == 0x00FD:
		// 00FD - EXIT -- Exit the interpreter.
		return ErrProgramExit
	case hires && op == 0x00FE:
		// 00FE - LOW -- Disable hi-res mode.
		m.setHires(false)
	case hires && op == 0x00FF:
		// 00FF - HIGH -- Enable hi-res mode.
		m.setHires(true)
	default:
		// 0NNN - SYS addr -- machine code routines are not supported.
		return unsupported(op)
	}
	return nil
}

// executeRegisterRange handles the 5XYN instruction group.
func (m *Machine) executeRegisterRange(op uint16, x, y, n byte) error {
	v := &m.reg.v

	switch {
	case n == 0:
		// 5XY0 - SE VX, VY -- Skip next instruction if VX = VY.
		m.skipIf(v[x] == v[y])
		return nil
	case m.variant != XOCHIP:
		return unsupported(op)
	case n == 2:
		// 5XY2 - SAVE VX - VY -- Store VX to VY in memory starting at I, I is unchanged.
		span, err := m.mem.span(int(m.reg.i), registerRangeLength(x, y))
		if err != nil {
			return err
		}
		for i, r := range registerRange(x, y) {
			span[i] = v[r]
		}
		return nil
	case n == 3:
		// 5XY3 - LOAD VX - VY -- Read VX to VY from memory starting at I, I is unchanged.
		span, err := m.mem.span(int(m.reg.i), registerRangeLength(x, y))
		if err != nil {
			return err
		}
		for i, r := range registerRange(x, y) {
			v[r] = span[i]
		}
		return nil
	default:
		return unsupported(op)
	}
}

func registerRangeLength(x, y byte) int {
	if x > y {
		return int(x-y) + 1
	}
	return int(y-x) + 1
}

// registerRange returns the register indexes from x to y, in descending
// order if x is larger than y.
func registerRange(x, y byte) []byte {
	regs := make([]byte, 0, registerRangeLength(x, y))
	if x <= y {
		for r := x; r <= y; r++ {
			regs = append(regs, r)
		}
		return regs
	}
	for r := int(x); r >= int(y); r-- {
		regs = append(regs, byte(r))
	}
	return regs
}

// executeArithmetic handles the 8XYN instruction group. Results are written
// before the flag so that VF holds the flag when X is F.
func (m *Machine) executeArithmetic(op uint16, x, y, n byte) error {
	v := &m.reg.v

	switch n {
	case 0x0:
		// 8XY0 - LD VX, VY -- Set VX = VY.
		v[x] = v[y]
	case 0x1:
		// 8XY1 - OR VX, VY -- Set VX = VX OR VY.
		v[x] |= v[y]
		m.logicFlag()
	case 0x2:
		// 8XY2 - AND VX, VY -- Set VX = VX AND VY.
		v[x] &= v[y]
		m.logicFlag()
	case 0x3:
		// 8XY3 - XOR VX, VY -- Set VX = VX XOR VY.
		v[x] ^= v[y]
		m.logicFlag()
	case 0x4:
		// 8XY4 - ADD VX, VY -- Set VX = VX + VY, set VF = carry.
		sum := uint16(v[x]) + uint16(v[y])
		v[x] = byte(sum)
		v[0xF] = byte(sum >> 8)
	case 0x5:
		// 8XY5 - SUB VX, VY -- Set VX = VX - VY, set VF = NOT borrow.
		flag := boolToByte(v[x] >= v[y])
		v[x] -= v[y]
		v[0xF] = flag
	case 0x6:
		// 8XY6 - SHR VX {, VY} -- Set VX = VX SHR 1, VF = shifted out bit.
		src := m.shiftSource(x, y)
		v[x] = src >> 1
		v[0xF] = src & 0x1
	case 0x7:
		// 8XY7 - SUBN VX, VY -- Set VX = VY - VX, set VF = NOT borrow.
		flag := boolToByte(v[y] >= v[x])
		v[x] = v[y] - v[x]
		v[0xF] = flag
	case 0xE:
		// 8XYE - SHL VX {, VY} -- Set VX = VX SHL 1, VF = shifted out bit.
		src := m.shiftSource(x, y)
		v[x] = src << 1
		v[0xF] = src >> 7
	default:
		return unsupported(op)
	}
	return nil
}

func (m *Machine) logicFlag() {
	if m.quirks.LogicResetsVF {
		m.reg.v[0xF] = 0
	}
}

func (m *Machine) shiftSource(x, y byte) byte {
	if m.quirks.ShiftUsesVY {
		return m.reg.v[y]
	}
	return m.reg.v[x]
}

// executeMisc handles the FXNN instruction group.
func (m *Machine) executeMisc(op uint16, x byte) error {
	v := &m.reg.v
	xo := m.variant == XOCHIP

	switch op & 0xFF {
	case 0x00:
		if !xo || x != 0 {
			return unsupported(op)
		}
		// F000 NNNN - LD I, long addr -- Set I = NNNN.
		addr, err := m.fetch()
		if err != nil {
			return err
		}
		m.reg.i = addr
	case 0x01:
		if !xo {
			return unsupported(op)
		}
		// FN01 - PLANE n -- Select the bitplanes for drawing.
		m.display.mask = x & m.display.allPlanes()
	case 0x02:
		if !xo || x != 0 {
			return unsupported(op)
		}
		// F002 - AUDIO -- Load the 16 byte audio pattern from I.
		span, err := m.mem.span(int(m.reg.i), audioPatternSize)
		if err != nil {
			return err
		}
		copy(m.audioPattern[:], span)
	case 0x07:
		// FX07 - LD VX, DT -- Set VX = delay timer value.
		v[x] = m.reg.delayTimer
	case 0x0A:
		// FX0A - LD VX, K -- Wait for a key press, store the value of the key in VX.
		// The program counter stays on this instruction until a key is latched.
		m.reg.pc -= 2
		m.state = WaitingForKey
		m.waitReg = x
		m.keys.latched = noKey
	case 0x15:
		// FX15 - LD DT, VX -- Set delay timer = VX.
		m.reg.delayTimer = v[x]
	case 0x18:
		// FX18 - LD ST, VX -- Set sound timer = VX.
		m.reg.soundTimer = v[x]
	case 0x1E:
		// FX1E - ADD I, VX -- Set I = I + VX.
		m.reg.i += uint16(v[x])
	case 0x29:
		// FX29 - LD F, VX -- Set I = location of the small glyph for digit VX.
		m.reg.i = uint16(FontAddress + int(v[x]&0xF)*smallGlyphSize)
	case 0x30:
		if !m.variant.SupportsHires() {
			return unsupported(op)
		}
		// FX30 - LD HF, VX -- Set I = location of the big glyph for digit VX.
		m.reg.i = uint16(BigFontAddress + int(v[x]&0xF)*bigGlyphSize)
	case 0x33:
		// FX33 - LD B, VX -- Store BCD representation of VX in memory
		// locations I, I+1, and I+2.
		span, err := m.mem.span(int(m.reg.i), 3)
		if err != nil {
			return err
		}
		span[0] = v[x] / 100
		span[1] = v[x] / 10 % 10
		span[2] = v[x] % 10
	case 0x3A:
		if !xo {
			return unsupported(op)
		}
		// FX3A - PITCH VX -- Set the audio pitch register = VX.
		m.pitch = v[x]
	case 0x55:
		// FX55 - LD [I], VX -- Store registers V0 through VX in memory
		// starting at location I.
		span, err := m.mem.span(int(m.reg.i), int(x)+1)
		if err != nil {
			return err
		}
		copy(span, v[:x+1])
		m.advanceIndex(x)
	case 0x65:
		// FX65 - LD VX, [I] -- Read registers V0 through VX from memory
		// starting at location I.
		span, err := m.mem.span(int(m.reg.i), int(x)+1)
		if err != nil {
			return err
		}
		copy(v[:x+1], span)
		m.advanceIndex(x)
	case 0x75:
		if int(x) >= m.quirks.FlagRegisters {
			return unsupported(op)
		}
		// FX75 - LD R, VX -- Store V0 through VX in the user flags.
		copy(m.reg.flags[:x+1], v[:x+1])
	case 0x85:
		if int(x) >= m.quirks.FlagRegisters {
			return unsupported(op)
		}
		// FX85 - LD VX, R -- Read V0 through VX from the user flags.
		copy(v[:x+1], m.reg.flags[:x+1])
	default:
		return unsupported(op)
	}
	return nil
}

func (m *Machine) advanceIndex(x byte) {
	if m.quirks.LoadStoreIncrementsIndex {
		m.reg.i += uint16(x) + 1
	}
}

// skipIf skips the next instruction if the condition is true. On XO-CHIP the
// 4 byte F000 NNNN instruction is skipped as a whole.
func (m *Machine) skipIf(condition bool) {
	if !condition {
		return
	}
	if m.variant == XOCHIP {
		if code, err := m.mem.span(int(m.reg.pc), 2); err == nil {
			if uint16(code[0])<<8|uint16(code[1]) == longLoadOpcode {
				m.reg.pc += 2
			}
		}
	}
	m.reg.pc += 2
}

// drawSprite implements DXYN for all variants.
func (m *Machine) drawSprite(x, y, n byte) error {
	rows, cols := int(n), 8
	if n == 0 && m.variant.SupportsHires() {
		rows = 16
		if m.display.hires || !m.quirks.LoresBigSprite8x16 {
			cols = 16
		}
	}
	bytesPerPlane := rows * cols / 8

	mask := m.display.mask
	selected := 0
	for p := range m.display.planes {
		if mask&(1<<p) != 0 {
			selected++
		}
	}

	// validate the whole sprite before drawing to avoid partial updates
	data, err := m.mem.span(int(m.reg.i), bytesPerPlane*selected)
	if err != nil {
		return err
	}

	hitRows := 0
	collision := false
	offset := 0
	for p := range m.display.planes {
		if mask&(1<<p) == 0 {
			continue
		}
		sprite := data[offset : offset+bytesPerPlane]
		offset += bytesPerPlane

		planeRows, planeCollision := m.display.drawSprite(p, sprite, x, y, rows, cols, m.quirks.ClipSprites)
		hitRows = max(hitRows, planeRows)
		collision = collision || planeCollision
	}

	if m.quirks.CollisionCountsRows && m.display.hires {
		m.reg.v[0xF] = byte(hitRows)
	} else {
		m.reg.v[0xF] = boolToByte(collision)
	}

	m.drew = true
	return nil
}

// scrollAmount converts a scroll distance in logical pixels to grid pixels.
func (m *Machine) scrollAmount(n int) int {
	if m.display.hires {
		return n
	}
	if m.quirks.LoresHalfScroll {
		return n
	}
	return n * m.display.scale()
}

func (m *Machine) setHires(hires bool) {
	m.display.setHires(hires, m.quirks.ResolutionSwitchClears)
	if m.logger != nil {
		m.logger.Debug("Display resolution changed",
			log.Int("width", m.display.width()),
			log.Int("height", m.display.height()))
	}
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
