package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func fillMemory(t *testing.T, m *Machine, addr int, data ...byte) {
	t.Helper()
	for i, b := range data {
		assert.NoError(t, m.WriteMemory(addr+i, b))
	}
}

func TestClearDisplay(t *testing.T) {
	tests := []struct {
		variant Variant
		program []uint16
		size    int
	}{
		{CHIP8, []uint16{0xA050, 0xD005, 0x00E0}, 64 * 32},
		{SCHIPModern, []uint16{0x00FF, 0xA050, 0xD005, 0x00E0}, 128 * 64},
		{XOCHIP, []uint16{0xA050, 0xD005, 0x00E0}, 64 * 32},
	}

	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			m := newTestMachine(t, tt.variant, tt.program...)
			runSteps(t, m, len(tt.program)-1)
			assert.True(t, litPixels(m.Display()) > 0)

			runSteps(t, m, 1)
			pixels := m.Display()
			assert.Len(t, pixels, tt.size)
			assert.Equal(t, 0, litPixels(pixels))
		})
	}
}

func TestDrawIsSelfInverse(t *testing.T) {
	for _, variant := range []Variant{CHIP8, SCHIPLegacy, SCHIPModern, XOCHIP} {
		t.Run(variant.String(), func(t *testing.T) {
			// draw the "0" glyph twice at 0,0
			m := newTestMachine(t, variant, 0xA050, 0xD005, 0xD005)

			runSteps(t, m, 2)
			assert.Equal(t, byte(0), m.V(0xF))
			assert.Equal(t, 14, litPixels(m.Display()))

			runSteps(t, m, 1)
			assert.Equal(t, byte(1), m.V(0xF))
			assert.Equal(t, 0, litPixels(m.Display()))
		})
	}
}

func TestClipAndWrap(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		x       byte
		lit     []int
	}{
		{"chip8 clips", CHIP8, 62, []int{62, 63}},
		{"schip clips", SCHIPModern, 62, []int{62, 63}},
		{"xochip wraps", XOCHIP, 62, []int{62, 63, 0, 1}},
		{"origin wraps", CHIP8, 66, []int{2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// one row of the "0" glyph is 0xF0
			m := newTestMachine(t, tt.variant, 0xA050, 0xD011)
			m.SetV(0, tt.x)
			runSteps(t, m, 2)

			pixels := m.Display()
			assert.Equal(t, len(tt.lit), litPixels(pixels))
			for _, x := range tt.lit {
				assert.Equal(t, byte(1), pixels[x])
			}
		})
	}
}

func TestBigSprite(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		program []uint16
		lit     int
	}{
		{"hi-res 16x16", SCHIPModern, []uint16{0x00FF, 0xA300, 0xD000}, 256},
		{"legacy lo-res 8x16", SCHIPLegacy, []uint16{0xA300, 0xD000}, 128},
		{"modern lo-res 16x16", SCHIPModern, []uint16{0xA300, 0xD000}, 256},
		{"xochip lo-res 16x16", XOCHIP, []uint16{0xA300, 0xD000}, 256},
		{"chip8 draws nothing", CHIP8, []uint16{0xA300, 0xD000}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.variant, tt.program...)
			for i := range 32 {
				assert.NoError(t, m.WriteMemory(0x300+i, 0xFF))
			}
			runSteps(t, m, len(tt.program))
			assert.Equal(t, tt.lit, litPixels(m.Display()))
		})
	}
}

func TestResolutionSwitch(t *testing.T) {
	t.Run("legacy keeps the picture", func(t *testing.T) {
		m := newTestMachine(t, SCHIPLegacy, 0xA050, 0xD001, 0x00FF)
		runSteps(t, m, 3)

		assert.True(t, m.HiresMode())
		assert.Equal(t, 128, m.Width())
		assert.Equal(t, 64, m.Height())
		// 4 lo-res pixels become 4x2x2 hi-res pixels
		assert.Equal(t, 16, litPixels(m.Display()))
	})

	t.Run("modern clears", func(t *testing.T) {
		m := newTestMachine(t, SCHIPModern, 0xA050, 0xD001, 0x00FF)
		runSteps(t, m, 3)
		assert.Equal(t, 0, litPixels(m.Display()))

		assert.True(t, m.DisplayedThisFrame())
	})

	t.Run("back to lo-res", func(t *testing.T) {
		m := newTestMachine(t, XOCHIP, 0x00FF, 0x00FE)
		runSteps(t, m, 2)
		assert.False(t, m.HiresMode())
		assert.Equal(t, 64, m.Width())
		assert.Len(t, m.Display(), 64*32)
	})
}

func TestScroll(t *testing.T) {
	t.Run("legacy lo-res scrolls half pixels", func(t *testing.T) {
		m := newTestMachine(t, SCHIPLegacy, 0xA050, 0xD001, 0x00C1, 0x00FF)
		runSteps(t, m, 4)

		pixels := m.Display()
		assert.Equal(t, byte(0), pixels[0])
		assert.Equal(t, byte(1), pixels[1*128])
		assert.Equal(t, byte(1), pixels[2*128])
		assert.Equal(t, byte(0), pixels[3*128])
	})

	t.Run("modern lo-res scrolls full pixels", func(t *testing.T) {
		m := newTestMachine(t, SCHIPModern, 0xA050, 0xD001, 0x00C1)
		runSteps(t, m, 3)

		pixels := m.Display()
		assert.Equal(t, byte(0), pixels[0])
		assert.Equal(t, byte(1), pixels[64])
	})

	t.Run("hi-res right and left", func(t *testing.T) {
		m := newTestMachine(t, SCHIPModern, 0x00FF, 0xA050, 0xD001, 0x00FB)
		runSteps(t, m, 4)

		pixels := m.Display()
		assert.Equal(t, byte(0), pixels[0])
		assert.Equal(t, byte(1), pixels[4])
		assert.Equal(t, byte(1), pixels[7])
		assert.Equal(t, byte(0), pixels[8])
	})

	t.Run("scroll left drops pixels", func(t *testing.T) {
		m := newTestMachine(t, SCHIPModern, 0x00FF, 0xA050, 0xD001, 0x00FC)
		runSteps(t, m, 4)
		assert.Equal(t, 0, litPixels(m.Display()))
	})

	t.Run("xochip scrolls up", func(t *testing.T) {
		m := newTestMachine(t, XOCHIP, 0x6102, 0xA050, 0xD011, 0x00D1)
		runSteps(t, m, 4)

		pixels := m.Display()
		assert.Equal(t, byte(0), pixels[2*64])
		assert.Equal(t, byte(1), pixels[1*64])
	})

	t.Run("schip has no scroll up", func(t *testing.T) {
		m := newTestMachine(t, SCHIPModern, 0x00D1)
		assert.Error(t, m.Run())
	})
}

func TestCollisionCountsRows(t *testing.T) {
	tests := []struct {
		variant Variant
		wantF   byte
	}{
		{SCHIPLegacy, 3},
		{SCHIPModern, 0},
	}

	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			// 5 row sprite at y = 62 in hi-res, 3 rows are clipped
			m := newTestMachine(t, tt.variant, 0x00FF, 0x613E, 0xA050, 0xD015)
			runSteps(t, m, 4)
			assert.Equal(t, tt.wantF, m.V(0xF))
		})
	}
}

func TestBitplanes(t *testing.T) {
	t.Run("draw on two planes", func(t *testing.T) {
		m := newTestMachine(t, XOCHIP, 0xF301, 0xA300, 0xD001, 0xF201, 0x00E0)
		fillMemory(t, m, 0x300, 0x80, 0x80)

		runSteps(t, m, 3)
		assert.Equal(t, byte(3), m.Display()[0])

		// clear the second plane only
		runSteps(t, m, 2)
		assert.Equal(t, byte(1), m.Display()[0])
	})

	t.Run("second plane reads its own sprite bytes", func(t *testing.T) {
		m := newTestMachine(t, XOCHIP, 0xF301, 0xA300, 0xD001)
		fillMemory(t, m, 0x300, 0x80, 0x40)
		runSteps(t, m, 3)

		pixels := m.Display()
		assert.Equal(t, byte(1), pixels[0])
		assert.Equal(t, byte(2), pixels[1])
	})

	t.Run("no plane selected", func(t *testing.T) {
		m := newTestMachine(t, XOCHIP, 0xF001, 0xA050, 0xD005)
		runSteps(t, m, 3)
		assert.Equal(t, 0, litPixels(m.Display()))
		assert.Equal(t, byte(0), m.V(0xF))
	})
}

func TestDisplayedThisFrame(t *testing.T) {
	m := newTestMachine(t, CHIP8, 0x6000, 0xA050, 0xD005)

	runSteps(t, m, 2)
	assert.False(t, m.DisplayedThisFrame())

	runSteps(t, m, 1)
	assert.True(t, m.DisplayedThisFrame())
	assert.False(t, m.DisplayedThisFrame())
}

func TestDrawsRunBackToBack(t *testing.T) {
	// the second draw erases the first one without a timer tick in between
	m := newTestMachine(t, CHIP8, 0xA050, 0xD005, 0xD005, 0x6A07)
	runSteps(t, m, 4)

	assert.Equal(t, uint16(0x208), m.PC())
	assert.Equal(t, 0, litPixels(m.Display()))
	assert.Equal(t, byte(1), m.V(0xF))
	assert.Equal(t, byte(7), m.V(0xA))
	assert.Equal(t, byte(0), m.DelayTimer())
}

func TestDrewSprite(t *testing.T) {
	m := newTestMachine(t, SCHIPLegacy, 0xA050, 0xD005, 0x00FF, 0xD005, 0x00E0)

	runSteps(t, m, 1)
	assert.False(t, m.DrewSprite())

	runSteps(t, m, 1)
	assert.True(t, m.DrewSprite())

	runSteps(t, m, 1)
	assert.False(t, m.DrewSprite())

	// hi-res draws are reported as well
	runSteps(t, m, 1)
	assert.True(t, m.DrewSprite())

	// clearing is not a sprite draw
	runSteps(t, m, 1)
	assert.False(t, m.DrewSprite())
}

func TestDrewSpriteResetWhileWaiting(t *testing.T) {
	m := newTestMachine(t, CHIP8, 0xA050, 0xD005, 0xF00A)
	runSteps(t, m, 2)
	assert.True(t, m.DrewSprite())

	runSteps(t, m, 1)
	assert.Equal(t, WaitingForKey, m.State())
	assert.False(t, m.DrewSprite())

	runSteps(t, m, 1)
	assert.False(t, m.DrewSprite())
}
