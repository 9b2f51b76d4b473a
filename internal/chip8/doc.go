// Package chip8 implements an interpreter engine for the CHIP-8 family of
// virtual machines.
//
// # Supported Variants
//
// A Machine is created for exactly one variant and keeps it for its lifetime:
//   - CHIP8: the original COSMAC VIP interpreter, 64x32 display, 4KB memory
//   - SCHIPLegacy: SUPER-CHIP 1.1 as it behaved on the HP48 calculators
//   - SCHIPModern: SUPER-CHIP as implemented by modern interpreters such as Octo
//   - XOCHIP: the Octo XO-CHIP extension with 64KB memory and 4 bitplanes
//
// # Memory Layout
//
//	0x000-0x04F: unused, zero
//	0x050-0x09F: small font, 16 glyphs of 5 bytes (FontAddress)
//	0x0A0-0x13F: big font, 16 glyphs of 10 bytes (BigFontAddress, hi-res variants)
//	0x200-end:   program space (ProgramStart)
//
// The call stack, timers, keypad and display live outside of addressable
// memory. Accessing memory outside of the variant's range is an error, the
// engine never wraps addresses silently.
//
// # Quirks
//
// The dialects diverge on a number of instructions. All differences are
// captured in a Quirks value that is resolved once by QuirksFor when the
// Machine is created and consulted by the executor.
//
// # Execution Model
//
// The engine is driven entirely by the host:
//
//	m := chip8.New(chip8.XOCHIP)
//	m.LoadFont()
//	if err := m.LoadROM(rom); err != nil {
//		return fmt.Errorf("loading rom: %w", err)
//	}
//	for each 60Hz frame {
//		for range instructionsPerFrame {
//			if err := m.Run(); err != nil {
//				// machine is halted, err is a *HaltError
//			}
//		}
//		m.DecrementTimers()
//		if m.DisplayedThisFrame() {
//			present(m.Display(), m.Width(), m.Height())
//		}
//	}
//
// Run executes exactly one instruction. Waiting for a key press (FX0A) is not
// a blocking call, it is a machine state that SetKey and Run resolve. Faults
// inside Run move the machine into the Halted state, every further Run call
// returns the same error until Reset is called.
//
// A Machine is not safe for concurrent use, the host serializes all calls.
package chip8
