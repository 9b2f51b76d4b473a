package chip8

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"
)

// State is the execution state of a machine.
type State int

const (
	Running State = iota
	WaitingForKey
	Halted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case WaitingForKey:
		return "waiting for key"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	audioPatternSize = 16
	defaultPitch     = 64
)

// Machine is a CHIP-8 family virtual machine. It owns its memory, registers,
// keypad and display exclusively.
type Machine struct {
	variant Variant
	quirks  Quirks
	logger  *log.Logger
	random  func() byte

	mem     *memory
	reg     *registers
	keys    *keypad
	display *display

	state   State
	waitReg byte  // destination register of FX0A
	err     error // terminal error while halted

	drew bool // the last executed instruction drew a sprite

	audioPattern [audioPatternSize]byte
	pitch        byte
}

// Option configures optional Machine settings.
type Option func(*Machine)

// WithLogger sets a logger that receives debug messages about state changes.
func WithLogger(logger *log.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithRandom sets the random byte source used by CXNN.
func WithRandom(random func() byte) Option {
	return func(m *Machine) {
		m.random = random
	}
}

// New returns a new machine for the given variant in its power-on state.
// Font and ROM are not loaded.
func New(variant Variant, options ...Option) *Machine {
	m := &Machine{
		variant: variant,
		quirks:  QuirksFor(variant),
		random:  func() byte { return byte(rand.UintN(0x100)) },
		mem:     newMemory(variant.MemorySize()),
		reg:     newRegisters(stackDepth),
		keys:    newKeypad(),
		display: newDisplay(variant),
		pitch:   defaultPitch,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Reset returns the machine to its power-on state. The persistent user flag
// registers are kept, font and ROM have to be loaded again.
func (m *Machine) Reset() {
	m.mem.reset()
	m.reg.reset()
	m.keys.reset()
	m.display.reset()
	m.state = Running
	m.waitReg = 0
	m.err = nil
	m.drew = false
	m.audioPattern = [audioPatternSize]byte{}
	m.pitch = defaultPitch
}

// LoadFont writes the built-in glyphs to FontAddress, and for variants with
// a hi-res mode the big glyphs to BigFontAddress. It overwrites whatever was
// stored there before.
func (m *Machine) LoadFont() {
	copy(m.mem.data[FontAddress:], smallFont[:])
	if m.variant.SupportsHires() {
		copy(m.mem.data[BigFontAddress:], bigFont[:])
	}
}

// LoadROM writes the program to ProgramStart. Memory is left unchanged if
// the ROM does not fit.
func (m *Machine) LoadROM(rom []byte) error {
	if len(rom) > m.variant.MaxROMSize() {
		return fmt.Errorf("%w: %d bytes, maximum for %s is %d",
			ErrRomTooLarge, len(rom), m.variant, m.variant.MaxROMSize())
	}
	copy(m.mem.data[ProgramStart:], rom)
	return nil
}

// ReadMemory returns the memory byte at addr.
func (m *Machine) ReadMemory(addr int) (byte, error) {
	return m.mem.read(addr)
}

// WriteMemory sets the memory byte at addr.
func (m *Machine) WriteMemory(addr int, value byte) error {
	return m.mem.write(addr, value)
}

// Run executes a single instruction. While the machine waits for a key it
// only checks whether a key press was latched. A halted machine returns its
// terminal error.
func (m *Machine) Run() error {
	m.drew = false
	switch m.state {
	case Halted:
		return m.err
	case WaitingForKey:
		m.resolveKeyWait()
		return nil
	}

	pc := m.reg.pc
	op, err := m.fetch()
	if err != nil {
		return m.halt(pc, op, err)
	}
	if err := m.execute(op); err != nil {
		return m.halt(pc, op, err)
	}
	return nil
}

func (m *Machine) fetch() (uint16, error) {
	code, err := m.mem.span(int(m.reg.pc), 2)
	if err != nil {
		return 0, err
	}
	m.reg.pc += 2
	return uint16(code[0])<<8 | uint16(code[1]), nil
}

// halt moves the machine into the halted state. The program counter is reset
// to the faulting instruction.
func (m *Machine) halt(pc, op uint16, cause error) error {
	m.reg.pc = pc
	m.state = Halted
	m.err = &HaltError{PC: pc, Opcode: op, Err: cause}

	if m.logger != nil {
		m.logger.Debug("Machine halted",
			log.Hex("pc", pc),
			log.Hex("opcode", op),
			log.Err(cause))
	}
	return m.err
}

func (m *Machine) resolveKeyWait() {
	key, ok := m.keys.take()
	if !ok {
		return
	}
	m.reg.v[m.waitReg] = key
	m.reg.pc += 2
	m.state = Running
}

// SetKey sets the state of a keypad key. A key going from released to
// pressed while the machine waits in FX0A is stored into the waiting
// register on the next Run call.
func (m *Machine) SetKey(index int, pressed bool) error {
	edge, err := m.keys.set(index, pressed)
	if err != nil {
		return fmt.Errorf("setting key: %w", err)
	}
	if edge && m.state == WaitingForKey {
		m.keys.latch(index)
	}
	return nil
}

// Key returns whether a key is currently pressed.
func (m *Machine) Key(index int) (bool, error) {
	if index < 0 || index >= KeyCount {
		return false, addressError(index)
	}
	return m.keys.keys[index], nil
}

// DecrementTimers is the 60Hz tick. It decrements the delay and sound
// timers if they are not zero.
func (m *Machine) DecrementTimers() {
	m.reg.decrementTimers()
}

// Display returns a snapshot of the combined bitplanes in the current
// resolution, Width() x Height() bytes in row-major order.
// For single plane variants a pixel is 0 or 1, for XO-CHIP bit n of a pixel
// is set if plane n is lit.
func (m *Machine) Display() []byte {
	return m.display.pixels()
}

// DisplayedThisFrame returns whether the display changed since the last
// call and resets the flag.
func (m *Machine) DisplayedThisFrame() bool {
	dirty := m.display.dirty
	m.display.dirty = false
	return dirty
}

// HiresMode returns whether the display is in 128x64 mode.
func (m *Machine) HiresMode() bool {
	return m.display.hires
}

// Width returns the display width of the current resolution.
func (m *Machine) Width() int {
	return m.display.width()
}

// Height returns the display height of the current resolution.
func (m *Machine) Height() int {
	return m.display.height()
}

// SoundTimer returns the sound timer, the host produces sound while it is not zero.
func (m *Machine) SoundTimer() byte {
	return m.reg.soundTimer
}

// DelayTimer returns the delay timer.
func (m *Machine) DelayTimer() byte {
	return m.reg.delayTimer
}

// SetDelayTimer sets the delay timer, the value is clamped to 0-255.
func (m *Machine) SetDelayTimer(value int) {
	m.reg.delayTimer = clampTimer(value)
}

// SetSoundTimer sets the sound timer, the value is clamped to 0-255.
func (m *Machine) SetSoundTimer(value int) {
	m.reg.soundTimer = clampTimer(value)
}

// Pitch returns the XO-CHIP audio pitch register.
func (m *Machine) Pitch() byte {
	return m.pitch
}

// AudioPattern returns the XO-CHIP 128 bit audio pattern buffer.
func (m *Machine) AudioPattern() [audioPatternSize]byte {
	return m.audioPattern
}

// PlaybackRate returns the XO-CHIP pattern playback rate in bits per second.
func (m *Machine) PlaybackRate() float64 {
	return 4000 * math.Pow(2, (float64(m.pitch)-defaultPitch)/48)
}

// Variant returns the emulated variant.
func (m *Machine) Variant() Variant {
	return m.variant
}

// Quirks returns the quirks table of the machine.
func (m *Machine) Quirks() Quirks {
	return m.quirks
}

// State returns the execution state.
func (m *Machine) State() State {
	return m.state
}

// Err returns the terminal error of a halted machine or nil.
func (m *Machine) Err() error {
	return m.err
}

// DrewSprite returns whether the instruction executed by the last Run call
// drew a sprite. Hosts use it together with the DisplayWait quirk to end a
// frame after a draw.
func (m *Machine) DrewSprite() bool {
	return m.drew
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.reg.pc
}

// I returns the index register.
func (m *Machine) I() uint16 {
	return m.reg.i
}

// V returns general register x. The index is masked to 0-F.
func (m *Machine) V(x int) byte {
	return m.reg.v[x&0xF]
}

// SetV sets general register x. The index is masked to 0-F.
func (m *Machine) SetV(x int, value byte) {
	m.reg.v[x&0xF] = value
}

// StackDepth returns the number of return addresses on the stack.
func (m *Machine) StackDepth() int {
	return len(m.reg.stack)
}

// Flag returns persistent user flag register x.
func (m *Machine) Flag(x int) byte {
	return m.reg.flags[x&0xF]
}
